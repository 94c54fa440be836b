package tutor

import "time"

// PacePhase is where auto-pace is in its introduce/quiz cycle.
type PacePhase int

const (
	PaceOff PacePhase = iota
	// PaceIntroducing waits for an introduction's narration to finish.
	PaceIntroducing
	// PaceQuizzing waits for the learner to answer the posed question.
	PaceQuizzing
	// PaceCelebrating waits for the correct-answer feedback to finish.
	PaceCelebrating
)

func (p PacePhase) String() string {
	switch p {
	case PaceIntroducing:
		return "introducing"
	case PaceQuizzing:
		return "quizzing"
	case PaceCelebrating:
		return "celebrating"
	default:
		return "off"
	}
}

type paceEvent int

const (
	paceStart paceEvent = iota
	paceIntroFinished
	paceAnsweredCorrectly
	paceFeedbackFinished
	paceIdleTap
	pacePause
)

type paceAction int

const (
	actNone paceAction = iota
	actIntroduce
	actAsk
)

// paceFacts is the session state a pacing decision depends on.
type paceFacts struct {
	step      int
	active    int
	remaining int
	competent bool
}

// nextPace is the auto-pace transition function.
func nextPace(phase PacePhase, ev paceEvent, f paceFacts) (PacePhase, paceAction) {
	if ev == pacePause {
		return PaceOff, actNone
	}
	if ev == paceStart {
		return decidePace(f)
	}
	if phase == PaceOff {
		return PaceOff, actNone
	}
	// Taps stop narration, so an idle tap always advances.
	if ev == paceIdleTap {
		return decidePace(f)
	}
	// A manual introduction can leave a question pending.
	if ev == paceAnsweredCorrectly {
		return PaceCelebrating, actNone
	}

	switch phase {
	case PaceIntroducing:
		if ev == paceIntroFinished {
			return decidePace(f)
		}
	case PaceCelebrating:
		if ev == paceFeedbackFinished {
			return decidePace(f)
		}
	}
	return phase, actNone
}

func decidePace(f paceFacts) (PacePhase, paceAction) {
	switch {
	case f.active == 0 && f.remaining == 0:
		return PaceOff, actNone
	case f.active == 0:
		return PaceIntroducing, actIntroduce
	case f.step <= 1 && f.active == 1 && f.remaining > 0:
		return PaceIntroducing, actIntroduce
	case f.step > 1 && f.competent && f.remaining > 0:
		return PaceIntroducing, actIntroduce
	default:
		return PaceQuizzing, actAsk
	}
}

const (
	competencyStreak   = 2
	competencyCoverage = 0.9
)

// Competent reports whether the learner has mastered the active set well
// enough to be shown a new item: every item scores at least CompetentScore,
// the newest item's last two answers were correct, and nearly all items have
// been asked about since the newest one was introduced.
func Competent(active []*Item, newest *Item) bool {
	if len(active) == 0 || newest == nil {
		return false
	}
	for _, it := range active {
		if ComputeScore(it) < CompetentScore {
			return false
		}
	}

	last := newest.LastInteractions(competencyStreak)
	if len(last) < competencyStreak {
		return false
	}
	for _, in := range last {
		if !in.Outcome.IsCorrect() {
			return false
		}
	}

	if newest.IntroducedAt == nil {
		return false
	}
	since := *newest.IntroducedAt
	asked := 0
	for _, it := range active {
		if askedAfter(it, since) {
			asked++
		}
	}
	return float64(asked)/float64(len(active)) >= competencyCoverage
}

func askedAfter(it *Item, t time.Time) bool {
	last, ok := it.LastAskedAt()
	return ok && last.After(t)
}
