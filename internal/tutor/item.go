package tutor

import "time"

// ItemID identifies an item within a catalog. IDs are stable across sessions.
type ItemID string

// Outcome is the result of one interaction with an item.
type Outcome int

const (
	// Correct means the learner picked this item when it was the target.
	Correct Outcome = iota
	// Incorrect means the learner picked this item when another was the target.
	Incorrect
	// UnknownTargetMiss means this item was the target and the learner picked
	// something else.
	UnknownTargetMiss
)

var outcomeNames = [...]string{"correct", "incorrect", "unknown_target_miss"}

func (o Outcome) String() string {
	if int(o) < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// ParseOutcome converts a stored outcome name back into an Outcome.
func ParseOutcome(s string) (Outcome, bool) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), true
		}
	}
	return 0, false
}

// IsCorrect reports whether the outcome counts as a success for scoring.
func (o Outcome) IsCorrect() bool {
	return o == Correct
}

// Interaction records a single answer event against an item.
type Interaction struct {
	At       time.Time
	Outcome  Outcome
	Attempts int
}

// Clips names the narration clips used for an item.
type Clips struct {
	Intro    string // "this is a ..."
	Negative string // "no, that is a ..."
	WhereIs  string // "where is the ...?"
}

// Item is a learnable word with its media references and learning history.
type Item struct {
	ID         ItemID
	Name       string
	TargetName string
	Romanized  string
	Image      string
	Video      string
	Clips      Clips
	Tags       []string

	History      []Interaction
	Asked        []time.Time
	IntroducedAt *time.Time

	// LastAskedRank counts questions asked since this item was last the
	// target. Nil when the item has never been asked.
	LastAskedRank *int

	cachedScore *float64
	cachedCount int
}

// Record appends an interaction and folds anything that slid out of the
// scoring window into the cached score.
func (it *Item) Record(in Interaction) {
	it.History = append(it.History, in)
	it.cacheScore()
}

// CachedScore returns the folded score and how many interactions it covers.
func (it *Item) CachedScore() (score float64, count int, ok bool) {
	if it.cachedScore == nil {
		return 0, it.cachedCount, false
	}
	return *it.cachedScore, it.cachedCount, true
}

// RestoreCache installs previously persisted cache fields. If they do not
// agree with the current history length the cache is rebuilt from scratch.
func (it *Item) RestoreCache(score *float64, count int) {
	if count != foldableCount(len(it.History)) || (count > 0 && score == nil) {
		it.RebuildCache()
		return
	}
	if score != nil {
		s := *score
		it.cachedScore = &s
	} else {
		it.cachedScore = nil
	}
	it.cachedCount = count
}

// RebuildCache recomputes the cached score by replaying the history.
func (it *Item) RebuildCache() {
	it.cachedScore = nil
	it.cachedCount = 0
	history := it.History
	it.History = nil
	for _, in := range history {
		it.Record(in)
	}
}

// LastInteractions returns up to n of the most recent interactions, oldest first.
func (it *Item) LastInteractions(n int) []Interaction {
	if n <= 0 {
		return nil
	}
	if len(it.History) <= n {
		return it.History
	}
	return it.History[len(it.History)-n:]
}

// LastAskedAt returns the most recent time the item was the question target.
func (it *Item) LastAskedAt() (time.Time, bool) {
	if len(it.Asked) == 0 {
		return time.Time{}, false
	}
	return it.Asked[len(it.Asked)-1], true
}

// HasTag reports whether the item carries the given tag.
func (it *Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func foldableCount(historyLen int) int {
	if historyLen <= scoreWindow {
		return 0
	}
	return historyLen - scoreWindow
}
