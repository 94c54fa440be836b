package home

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nepaligpa/internal/audio"
	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/store"
)

func newDeps(t *testing.T, seed bool) Deps {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "home.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if seed {
		if err := st.ItemRepo().UpsertItems(context.Background(), catalog.Builtin().TutorItems()); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return Deps{
		Ctx:   context.Background(),
		Repos: session.Repos{Items: st.ItemRepo(), Events: st.EventRepo(), Snapshots: st.SnapshotRepo()},
		Session: session.Options{
			Player: audio.Silent{},
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
}

func pushed(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected a PushScreenMsg")
	}
	return push.Screen.Title()
}

func TestHomeScreen_EmptyCatalog(t *testing.T) {
	h := New(newDeps(t, false))
	if !strings.Contains(h.View(100, 30), "catalog import") {
		t.Error("expected import hint on an empty catalog")
	}
	if h.menu.Selected != 3 {
		t.Errorf("selected = %d, want Word list when learning is disabled", h.menu.Selected)
	}
}

func TestHomeScreen_StartLearning(t *testing.T) {
	h := New(newDeps(t, true))
	if !strings.Contains(h.View(100, 30), "12 words") {
		t.Errorf("expected catalog count:\n%s", h.View(100, 30))
	}
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := pushed(t, cmd); got != "Learn" {
		t.Errorf("pushed %q, want Learn", got)
	}
}

func TestHomeScreen_ContinueNeedsSnapshot(t *testing.T) {
	deps := newDeps(t, true)
	h := New(deps)
	if !h.menu.Items[2].Disabled {
		t.Error("continue should be disabled without a snapshot")
	}

	err := deps.Repos.Snapshots.Save(context.Background(), &store.Snapshot{Data: store.SnapshotData{ActiveCount: 3}})
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	h.Refresh()
	if h.menu.Items[2].Disabled {
		t.Error("continue should be enabled after a refresh finds a snapshot")
	}
	if !strings.Contains(h.View(100, 30), "3 words on the board") {
		t.Error("continue should say how many words come back")
	}
}

func TestHomeScreen_Navigate(t *testing.T) {
	h := New(newDeps(t, true))
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown}) // Auto
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown}) // Word list (Continue disabled)
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := pushed(t, cmd); got != "Word List" {
		t.Errorf("pushed %q, want Word List", got)
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd = h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := pushed(t, cmd); got != "History" {
		t.Errorf("pushed %q, want History", got)
	}
}
