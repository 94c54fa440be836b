package wordlist

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/store"
)

func newScreen(t *testing.T, seed bool) *WordListScreen {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "words.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if seed {
		if err := st.ItemRepo().UpsertItems(context.Background(), catalog.Builtin().TutorItems()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	s := New(st.ItemRepo())
	s.Update(s.Init()())
	return s
}

func typeText(s *WordListScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestWordList_Empty(t *testing.T) {
	s := newScreen(t, false)
	if !strings.Contains(s.View(100, 30), "catalog import") {
		t.Errorf("expected import hint:\n%s", s.View(100, 30))
	}
}

func TestWordList_ShowsWords(t *testing.T) {
	s := newScreen(t, true)
	view := s.View(120, 40)
	for _, want := range []string{"horse", "घोडा", "ghoda"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.HasPrefix(s.Status(), "0/") {
		t.Errorf("Status = %q, want nothing learned", s.Status())
	}
}

func TestWordList_Filter(t *testing.T) {
	s := newScreen(t, true)
	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	if !s.HandlesEscape() {
		t.Fatal("focused filter should take esc")
	}
	typeText(s, "ghoda")

	got := s.visible()
	if len(got) != 1 || got[0].Name != "horse" {
		t.Fatalf("visible = %d words, want only horse", len(got))
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.HandlesEscape() {
		t.Error("enter should leave the filter")
	}
	if len(s.visible()) != 1 {
		t.Error("enter should keep the query")
	}

	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(s.visible()) != len(s.words) {
		t.Error("esc should clear the filter")
	}
}

func TestWordList_NoMatch(t *testing.T) {
	s := newScreen(t, true)
	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	typeText(s, "zzz")
	if !strings.Contains(s.View(100, 30), "no word matches") {
		t.Error("expected no-match message")
	}
}

func TestWordList_Navigation(t *testing.T) {
	s := newScreen(t, true)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0 at top", s.selected)
	}
	for i := 0; i < 3; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != 3 {
		t.Errorf("selected = %d, want 3", s.selected)
	}
	if !strings.Contains(s.View(120, 12), "of ") {
		t.Error("short terminal should show the scroll position")
	}
}
