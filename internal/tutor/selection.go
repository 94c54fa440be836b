package tutor

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"
)

const (
	recencyWeight    = 0.25
	competencyWeight = 0.5
)

// Candidate is an item with its selection priority broken down.
type Candidate struct {
	Item       *Item
	Recency    float64
	Competency float64
	Score      float64
}

// Priority is the combined weight used for selection. Higher is asked sooner.
func (c Candidate) Priority() float64 {
	return c.Recency + c.Competency
}

// Rank scores every item for selection and returns the candidates sorted by
// descending priority. Items with equal priority keep their input order.
func Rank(items []*Item) []Candidate {
	if len(items) == 0 {
		return nil
	}

	maxRank := 0
	for _, it := range items {
		if it.LastAskedRank != nil && *it.LastAskedRank > maxRank {
			maxRank = *it.LastAskedRank
		}
	}

	scores := make([]float64, len(items))
	maxScore := 0.0
	for i, it := range items {
		scores[i] = ComputeScore(it)
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	cands := make([]Candidate, len(items))
	for i, it := range items {
		rank := maxRank + 1
		if it.LastAskedRank != nil {
			rank = *it.LastAskedRank
		}
		cands[i] = Candidate{
			Item:       it,
			Recency:    float64(rank) / float64(maxRank+1) * recencyWeight,
			Competency: (1 - scores[i]/maxScore) * competencyWeight,
			Score:      scores[i],
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].Priority() > cands[b].Priority()
	})
	return cands
}

// SelectNext picks the next question target from the active items. It
// returns nil when there are no items.
func SelectNext(items []*Item, rng *rand.Rand) *Item {
	switch len(items) {
	case 0:
		return nil
	case 1:
		return items[0]
	}
	return choose(Rank(items), rng).Item
}

// choose applies the tie-breaking rules to ranked candidates.
func choose(cands []Candidate, rng *rand.Rand) Candidate {
	sd := stdDev(cands)
	top := cands[0].Priority()

	tied := 1
	for tied < len(cands) && cands[tied].Priority() == top {
		tied++
	}

	if tied == 1 && top-cands[1].Priority() > sd {
		return cands[0]
	}
	if tied > 1 {
		return cands[rng.IntN(tied)]
	}

	band := 0
	for band < len(cands) && math.Abs(cands[band].Priority()-top) <= sd {
		band++
	}
	if band == 0 {
		return cands[0]
	}
	return cands[rng.IntN(band)]
}

// stdDev is the population standard deviation of candidate priorities.
func stdDev(cands []Candidate) float64 {
	n := float64(len(cands))
	mean := 0.0
	for _, c := range cands {
		mean += c.Priority()
	}
	mean /= n

	variance := 0.0
	for _, c := range cands {
		d := c.Priority() - mean
		variance += d * d
	}
	return math.Sqrt(variance / n)
}

// MarkAsked records that target was chosen as the next question: its rank
// resets to zero, every other ranked item ages by one, and the ask time is
// appended to its history. Items that were never asked stay unranked.
func MarkAsked(items []*Item, target *Item, now time.Time) {
	for _, it := range items {
		if it == target {
			continue
		}
		if it.LastAskedRank != nil {
			r := *it.LastAskedRank + 1
			it.LastAskedRank = &r
		}
	}
	zero := 0
	target.LastAskedRank = &zero
	target.Asked = append(target.Asked, now)
}
