package tutor

import (
	"math/rand/v2"
	"testing"
	"time"
)

func intp(n int) *int { return &n }

func fresh(ids ...string) []*Item {
	out := make([]*Item, len(ids))
	for i, id := range ids {
		out[i] = &Item{ID: ItemID(id), Name: id, TargetName: id + "-np"}
	}
	return out
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func TestSelectNext_Empty(t *testing.T) {
	if got := SelectNext(nil, seeded(1)); got != nil {
		t.Errorf("SelectNext(nil) = %v, want nil", got)
	}
}

func TestSelectNext_Singleton(t *testing.T) {
	items := fresh("horse")
	for seed := uint64(0); seed < 20; seed++ {
		if got := SelectNext(items, seeded(seed)); got != items[0] {
			t.Fatalf("seed %d: SelectNext = %v, want the only item", seed, got.ID)
		}
	}
}

func TestRank_NeverAskedRecency(t *testing.T) {
	cands := Rank(fresh("a", "b", "c"))
	for _, c := range cands {
		if c.Recency != recencyWeight {
			t.Errorf("%s: recency = %v, want %v", c.Item.ID, c.Recency, recencyWeight)
		}
		if c.Competency != 0 {
			t.Errorf("%s: competency = %v, want 0 for equal scores", c.Item.ID, c.Competency)
		}
	}
}

func TestRank_SortedDescending(t *testing.T) {
	items := fresh("a", "b", "c", "d")
	items[0].LastAskedRank = intp(0)
	items[1].LastAskedRank = intp(3)
	items[2].LastAskedRank = intp(1)
	items[3].History = outcomes(Correct, Correct)

	cands := Rank(items)
	for i := 1; i < len(cands); i++ {
		if cands[i-1].Priority() < cands[i].Priority() {
			t.Fatalf("candidates not sorted: %v before %v", cands[i-1].Priority(), cands[i].Priority())
		}
	}
}

// An unasked, unpracticed item among well-known, recently asked ones stands
// out by more than one standard deviation and is always chosen.
func TestSelectNext_DeterministicTop(t *testing.T) {
	items := fresh("new", "b", "c", "d")
	for i, it := range items[1:] {
		it.History = outcomes(Correct, Correct, Correct, Correct, Correct, Correct)
		it.LastAskedRank = intp(i)
	}

	for seed := uint64(0); seed < 50; seed++ {
		if got := SelectNext(items, seeded(seed)); got.ID != "new" {
			t.Fatalf("seed %d: SelectNext = %s, want new", seed, got.ID)
		}
	}
}

func TestSelectNext_TiesAreRandomized(t *testing.T) {
	items := fresh("a", "b", "c", "d")
	seen := map[ItemID]bool{}
	for seed := uint64(0); seed < 200; seed++ {
		seen[SelectNext(items, seeded(seed)).ID] = true
	}
	if len(seen) < 2 {
		t.Errorf("tied items chose only %v across seeds", seen)
	}
}

func TestSelectNext_SameSeedSameChoice(t *testing.T) {
	items := fresh("a", "b", "c", "d", "e")
	items[0].History = outcomes(Incorrect)
	items[2].History = outcomes(Incorrect)
	first := SelectNext(items, seeded(42))
	for i := 0; i < 10; i++ {
		if got := SelectNext(items, seeded(42)); got != first {
			t.Fatalf("SelectNext with the same seed chose %s then %s", first.ID, got.ID)
		}
	}
}

func TestSelectNext_BandStaysNearTop(t *testing.T) {
	items := fresh("a", "b", "c", "d", "e", "f")
	items[0].History = outcomes(Incorrect, Incorrect)
	items[1].History = outcomes(Incorrect)
	for _, it := range items[2:] {
		it.History = outcomes(Correct, Correct, Correct, Correct)
	}

	cands := Rank(items)
	sd := stdDev(cands)
	top := cands[0].Priority()
	for seed := uint64(0); seed < 100; seed++ {
		got := SelectNext(items, seeded(seed))
		for _, c := range cands {
			if c.Item == got && top-c.Priority() > sd {
				t.Fatalf("seed %d: chose %s with priority %v, more than one sd (%v) below top %v",
					seed, got.ID, c.Priority(), sd, top)
			}
		}
	}
}

func TestMarkAsked(t *testing.T) {
	items := fresh("a", "b", "c")
	items[1].LastAskedRank = intp(2)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	MarkAsked(items, items[0], now)

	if r := items[0].LastAskedRank; r == nil || *r != 0 {
		t.Errorf("target rank = %v, want 0", r)
	}
	if r := items[1].LastAskedRank; r == nil || *r != 3 {
		t.Errorf("ranked item = %v, want 3", r)
	}
	if items[2].LastAskedRank != nil {
		t.Errorf("never-asked item got rank %d", *items[2].LastAskedRank)
	}
	if len(items[0].Asked) != 1 || !items[0].Asked[0].Equal(now) {
		t.Errorf("asked history = %v, want [%v]", items[0].Asked, now)
	}

	MarkAsked(items, items[2], now.Add(time.Minute))
	if *items[0].LastAskedRank != 1 || *items[1].LastAskedRank != 4 || *items[2].LastAskedRank != 0 {
		t.Errorf("ranks after second ask = %d %d %d, want 1 4 0",
			*items[0].LastAskedRank, *items[1].LastAskedRank, *items[2].LastAskedRank)
	}
}
