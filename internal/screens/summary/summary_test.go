package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nepaligpa/internal/session"
)

func testSummary() *session.Summary {
	return &session.Summary{
		Duration:   7*time.Minute + 5*time.Second,
		Introduced: 3,
		Asked:      9,
		Correct:    7,
		Incorrect:  4,
		Accuracy:   float64(7) / float64(11),
		Active:     3,
		Total:      24,
		Items: []session.ItemResult{
			{ID: "horse", Name: "horse", TargetName: "घोडा", Score: 431.2, Competent: true, Answers: 4},
			{ID: "cow", Name: "cow", TargetName: "गाई", Score: 250, Answers: 3},
			{ID: "sheep", Name: "sheep", TargetName: "भेंडा", Score: 180},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testSummary()).View(100, 30)
	for _, want := range []string{"7:05", "3/24", "64%", "राम्रो!", "Learned (1)", "Keep practicing (2)", "horse", "घोडा", "★"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary missing %q:\n%s", want, view)
		}
	}
}

func TestSummaryScreen_Empty(t *testing.T) {
	if New(nil).View(80, 24) != "" {
		t.Error("nil summary should render nothing")
	}
	view := New(&session.Summary{Total: 5}).View(80, 24)
	if strings.Contains(view, "Learned") || strings.Contains(view, "Keep practicing") {
		t.Error("no word section without words")
	}
}

func TestSummaryScreen_Headline(t *testing.T) {
	sum := testSummary()
	sum.Accuracy = 0.9
	if !strings.Contains(New(sum).View(100, 30), "शाबास!") {
		t.Error("a strong session should get शाबास")
	}
	if !strings.Contains(New(&session.Summary{}).View(100, 30), "धन्यवाद!") {
		t.Error("a session with no questions should just say thanks")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected a command on Enter (pop)")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (pop)")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
