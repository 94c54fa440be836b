package session

import (
	"time"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

// ItemResult is one active item's standing at the end of a session.
type ItemResult struct {
	ID         tutor.ItemID
	Name       string
	TargetName string
	Score      float64
	Competent  bool
	Answers    int
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	Duration   time.Duration
	Introduced int
	Asked      int
	Correct    int
	Incorrect  int
	Accuracy   float64
	Active     int
	Total      int
	Items      []ItemResult
}

// BuildSummary creates a Summary from the engine's current state.
func BuildSummary(e *tutor.Engine, elapsed time.Duration) *Summary {
	stats := e.Stats()
	active := e.Active()

	var accuracy float64
	if answered := stats.Correct + stats.Incorrect; answered > 0 {
		accuracy = float64(stats.Correct) / float64(answered)
	}

	results := make([]ItemResult, 0, len(active))
	for _, it := range active {
		score := tutor.ComputeScore(it)
		results = append(results, ItemResult{
			ID:         it.ID,
			Name:       it.Name,
			TargetName: it.TargetName,
			Score:      score,
			Competent:  score >= tutor.CompetentScore,
			Answers:    len(it.History),
		})
	}

	return &Summary{
		Duration:   elapsed,
		Introduced: stats.Introduced,
		Asked:      stats.Asked,
		Correct:    stats.Correct,
		Incorrect:  stats.Incorrect,
		Accuracy:   accuracy,
		Active:     len(active),
		Total:      len(e.Catalog()),
		Items:      results,
	}
}
