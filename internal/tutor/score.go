package tutor

const (
	// EmptyScore is the score of an item with no interactions.
	EmptyScore = 180.0
	// BaseScore is the starting point for an item with history but no cache.
	BaseScore = 250.0
	// CompetentScore is the threshold auto-pace uses to call an item learned.
	CompetentScore = 400.0

	scoreWindow = 6

	steadyCorrect   = 1.15
	steadyIncorrect = 0.85
)

// Multipliers for the scoring window, oldest position first. Positions past
// the listed ones use the steady-state value.
var (
	correctMultipliers   = []float64{1.3225, 1.265, 1.2075}
	incorrectMultipliers = []float64{0.7225, 0.765, 0.8075}
)

func multiplier(o Outcome, pos int) float64 {
	if o.IsCorrect() {
		if pos < len(correctMultipliers) {
			return correctMultipliers[pos]
		}
		return steadyCorrect
	}
	if pos < len(incorrectMultipliers) {
		return incorrectMultipliers[pos]
	}
	return steadyIncorrect
}

func steadyMultiplier(o Outcome) float64 {
	if o.IsCorrect() {
		return steadyCorrect
	}
	return steadyIncorrect
}

// ComputeScore returns the competency score of an item. It does not mutate
// the item.
func ComputeScore(it *Item) float64 {
	if len(it.History) == 0 {
		return EmptyScore
	}

	score := BaseScore
	if it.cachedScore != nil {
		score = *it.cachedScore
	}

	for pos, in := range it.LastInteractions(scoreWindow) {
		score *= multiplier(in.Outcome, pos)
	}
	return score
}

// cacheScore folds the interaction that just left the scoring window into the
// cached score. Folding always uses the steady-state multiplier, so a cached
// score can differ from replaying the same interactions through the window.
func (it *Item) cacheScore() {
	if len(it.History) <= it.cachedCount {
		return
	}
	if it.cachedScore == nil {
		s := BaseScore
		it.cachedScore = &s
	}

	idx := len(it.History) - scoreWindow - 1
	if idx < 0 {
		return
	}
	s := *it.cachedScore * steadyMultiplier(it.History[idx].Outcome)
	it.cachedScore = &s
	it.cachedCount++
}
