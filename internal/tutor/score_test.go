package tutor

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"
)

func outcomes(seq ...Outcome) []Interaction {
	out := make([]Interaction, len(seq))
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, o := range seq {
		out[i] = Interaction{At: t0.Add(time.Duration(i) * time.Minute), Outcome: o, Attempts: 1}
	}
	return out
}

func recorded(seq ...Outcome) *Item {
	it := &Item{ID: "x", Name: "x", TargetName: "x"}
	for _, in := range outcomes(seq...) {
		it.Record(in)
	}
	return it
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeScore_Empty(t *testing.T) {
	it := &Item{ID: "horse"}
	if got := ComputeScore(it); got != EmptyScore {
		t.Errorf("ComputeScore(empty) = %v, want %v", got, EmptyScore)
	}
}

func TestComputeScore_Window(t *testing.T) {
	C, I, U := Correct, Incorrect, UnknownTargetMiss
	tests := []struct {
		name    string
		history []Outcome
		want    float64
	}{
		{"one correct", []Outcome{C}, 250 * 1.3225},
		{"one incorrect", []Outcome{I}, 250 * 0.7225},
		{"miss counts as incorrect", []Outcome{U}, 250 * 0.7225},
		{"correct then wrong", []Outcome{C, I}, 250 * 1.3225 * 0.765},
		{"ramp saturates", []Outcome{C, C, C, C, C}, 250 * 1.3225 * 1.265 * 1.2075 * 1.15 * 1.15},
		{"six correct", []Outcome{C, C, C, C, C, C}, 250 * 1.3225 * 1.265 * 1.2075 * 1.15 * 1.15 * 1.15},
		{"six incorrect", []Outcome{I, I, I, I, I, I}, 250 * 0.7225 * 0.765 * 0.8075 * 0.85 * 0.85 * 0.85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeScore(recorded(tt.history...))
			if !approx(got, tt.want) {
				t.Errorf("ComputeScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeScore_SixCorrectValue(t *testing.T) {
	got := ComputeScore(recorded(Correct, Correct, Correct, Correct, Correct, Correct))
	if math.Abs(got-768.08) > 0.01 {
		t.Errorf("ComputeScore = %.4f, want ~768.08", got)
	}
}

func TestComputeScore_CacheAgreesWithinWindow(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for n := 1; n <= scoreWindow; n++ {
		seq := make([]Outcome, n)
		for i := range seq {
			seq[i] = Outcome(rng.IntN(3))
		}
		withCache := recorded(seq...)
		plain := &Item{ID: "plain", History: outcomes(seq...)}

		if a, b := ComputeScore(withCache), ComputeScore(plain); !approx(a, b) {
			t.Errorf("n=%d: cached %v != uncached %v", n, a, b)
		}
		if _, count, _ := withCache.CachedScore(); count != 0 {
			t.Errorf("n=%d: cachedCount = %d, want 0", n, count)
		}
	}
}

// Interactions that leave the window are folded with the steady-state
// multiplier only, so the long-run score differs from a naive replay.
func TestCacheScore_FoldsWithSteadyMultiplier(t *testing.T) {
	it := recorded(Correct, Correct, Correct, Correct, Correct, Correct, Correct)

	score, count, ok := it.CachedScore()
	if !ok || count != 1 {
		t.Fatalf("CachedScore() = (%v, %d, %v), want one folded interaction", score, count, ok)
	}
	if !approx(score, 250*1.15) {
		t.Errorf("cached score = %v, want %v", score, 250*1.15)
	}

	window := 1.3225 * 1.265 * 1.2075 * 1.15 * 1.15 * 1.15
	if got := ComputeScore(it); !approx(got, 250*1.15*window) {
		t.Errorf("ComputeScore = %v, want %v", got, 250*1.15*window)
	}

	it.Record(Interaction{Outcome: Incorrect})
	score, count, _ = it.CachedScore()
	if count != 2 || !approx(score, 250*1.15*1.15) {
		t.Errorf("after 8: cache = (%v, %d), want (%v, 2)", score, count, 250*1.15*1.15)
	}
}

func TestComputeScore_AlwaysPositive(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	it := &Item{ID: "long"}
	for i := 0; i < 500; i++ {
		o := Incorrect
		if rng.IntN(10) == 0 {
			o = Correct
		}
		it.Record(Interaction{Outcome: o})
		if s := ComputeScore(it); s <= 0 {
			t.Fatalf("score after %d interactions = %v, want > 0", i+1, s)
		}
	}
}

func TestComputeScore_DoesNotMutate(t *testing.T) {
	it := recorded(Correct, Incorrect, Correct)
	before, count, _ := it.CachedScore()
	ComputeScore(it)
	ComputeScore(it)
	after, count2, _ := it.CachedScore()
	if before != after || count != count2 || len(it.History) != 3 {
		t.Error("ComputeScore mutated the item")
	}
}

func TestRestoreCache(t *testing.T) {
	seq := []Outcome{Correct, Correct, Incorrect, Correct, Correct, Correct, Incorrect, Correct, Correct}
	want := recorded(seq...)
	wantScore, wantCount, _ := want.CachedScore()

	t.Run("consistent fields are kept", func(t *testing.T) {
		it := &Item{History: outcomes(seq...)}
		it.RestoreCache(&wantScore, wantCount)
		if got := ComputeScore(it); !approx(got, ComputeScore(want)) {
			t.Errorf("score = %v, want %v", got, ComputeScore(want))
		}
	})

	t.Run("inconsistent fields are rebuilt", func(t *testing.T) {
		it := &Item{History: outcomes(seq...)}
		bogus := 9999.0
		it.RestoreCache(&bogus, 1)
		score, count, _ := it.CachedScore()
		if count != wantCount || !approx(score, wantScore) {
			t.Errorf("cache = (%v, %d), want (%v, %d)", score, count, wantScore, wantCount)
		}
		if len(it.History) != len(seq) {
			t.Errorf("history length = %d, want %d", len(it.History), len(seq))
		}
	})
}

func TestOutcomeRoundTrip(t *testing.T) {
	for _, o := range []Outcome{Correct, Incorrect, UnknownTargetMiss} {
		got, ok := ParseOutcome(o.String())
		if !ok || got != o {
			t.Errorf("ParseOutcome(%q) = %v, %v", o.String(), got, ok)
		}
	}
	if _, ok := ParseOutcome("bogus"); ok {
		t.Error("ParseOutcome(bogus) should fail")
	}
}
