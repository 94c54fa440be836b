package components

import (
	"strings"
	"testing"

	"github.com/abhisek/nepaligpa/internal/tutor"
)

func grid(n int) CardGrid {
	g := CardGrid{}
	for i := 0; i < n; i++ {
		g.Cards = append(g.Cards, tutor.ItemView{
			ID:         tutor.ItemID(string(rune('a' + i))),
			Name:       "word" + string(rune('a'+i)),
			TargetName: "शब्द",
			Score:      tutor.EmptyScore,
		})
	}
	return g
}

func TestCardGridNumbersCards(t *testing.T) {
	out := grid(3).View(80)
	for _, want := range []string{"1", "2", "3", "worda", "wordc"} {
		if !strings.Contains(out, want) {
			t.Errorf("grid missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "शब्द") {
		t.Error("Nepali names should stay hidden until revealed")
	}
}

func TestCardGridRevealsIntroducing(t *testing.T) {
	g := grid(2)
	g.Cards[1].Introducing = true
	if !strings.Contains(g.View(80), "शब्द") {
		t.Error("introducing card should show its Nepali name")
	}
}

func TestCardGridHidesSuppressed(t *testing.T) {
	g := grid(2)
	g.Cards[0].Suppressed = true
	out := g.View(80)
	if strings.Contains(out, "worda") {
		t.Errorf("suppressed card should be blank:\n%s", out)
	}
	if !strings.Contains(out, "wordb") {
		t.Errorf("visible card missing:\n%s", out)
	}
}

func TestColumns(t *testing.T) {
	if got := Columns(CardWidth); got != 1 {
		t.Errorf("Columns(%d) = %d, want 1", CardWidth, got)
	}
	if got := Columns(4 * (CardWidth + 1)); got != 4 {
		t.Errorf("Columns = %d, want 4", got)
	}
	if got := Columns(0); got != 1 {
		t.Errorf("Columns(0) = %d, want 1", got)
	}
}

func TestCardGridMoveSkipsHidden(t *testing.T) {
	g := grid(6)
	g.Cards[1].Suppressed = true

	if got := g.Move(1, 0, 3); got != 2 {
		t.Errorf("move right = %d, want 2", got)
	}
	if got := g.Move(0, 1, 3); got != 3 {
		t.Errorf("move down = %d, want 3", got)
	}
	if got := g.Move(-1, 0, 3); got != 0 {
		t.Errorf("move left at edge = %d, want 0", got)
	}

	g.Cursor = 2
	g.Cards[5].Suppressed = true
	if got := g.Move(0, 1, 3); got != 2 {
		t.Errorf("move down onto hidden card = %d, want 2", got)
	}
}

func TestScoreBar(t *testing.T) {
	out := ScoreBar(tutor.CompetentScore, tutor.CompetentScore, 500, 30)
	if !strings.Contains(out, "400") {
		t.Errorf("score bar missing value: %q", out)
	}
	if !strings.Contains(ScoreBar(180, tutor.CompetentScore, 500, 30), "│") {
		t.Error("a score below competent should show the threshold tick")
	}
	if strings.Contains(out, "│") {
		t.Error("the tick is covered once the score reaches it")
	}
}

func TestFilterMatch(t *testing.T) {
	f := NewFilter("search")
	if !f.Match("anything") {
		t.Error("empty filter should match")
	}
	f.Model.SetValue("Hor")
	if !f.Match("cow", "horse") {
		t.Error("filter should match case-insensitively on any field")
	}
	if f.Match("cow", "गाई") {
		t.Error("filter should not match cow")
	}
}
