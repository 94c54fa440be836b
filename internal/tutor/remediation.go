package tutor

import "math/rand/v2"

const (
	// HalfGrayOutAttempts is the wrong-attempt count at which half the
	// distractors are hidden.
	HalfGrayOutAttempts = 4
	// NarrowGrayOutAttempts is the wrong-attempt count at which only the
	// target and one distractor remain.
	NarrowGrayOutAttempts = 6
)

// grayOutHalf picks which items to suppress after repeated misses. With
// three items one is hidden; otherwise half are hidden, keeping at least
// three visible. The target is never chosen.
func grayOutHalf(active []*Item, target ItemID, rng *rand.Rand) []ItemID {
	n := len(active)
	count, minVisible := n/2, 3
	if n == 3 {
		count, minVisible = 1, 2
	}
	if n-minVisible < count {
		count = n - minVisible
	}
	if count <= 0 {
		return nil
	}

	others := distractors(active, target)
	rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })
	return others[:count]
}

// grayOutAllButTwo suppresses everything except the target and one other
// item. The kept item comes from the currently visible distractors when any
// remain, otherwise from all distractors.
func grayOutAllButTwo(active []*Item, target ItemID, suppressed map[ItemID]bool, rng *rand.Rand) []ItemID {
	others := distractors(active, target)
	if len(others) == 0 {
		return nil
	}

	var visible []ItemID
	for _, id := range others {
		if !suppressed[id] {
			visible = append(visible, id)
		}
	}
	pool := visible
	if len(pool) == 0 {
		pool = others
	}
	keep := pool[rng.IntN(len(pool))]

	out := make([]ItemID, 0, len(others)-1)
	for _, id := range others {
		if id != keep {
			out = append(out, id)
		}
	}
	return out
}

func distractors(active []*Item, target ItemID) []ItemID {
	out := make([]ItemID, 0, len(active))
	for _, it := range active {
		if it.ID != target {
			out = append(out, it.ID)
		}
	}
	return out
}
