// Package welcome is the first-run screen: it greets the learner and
// offers to load the built-in words into an empty catalog.
package welcome

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/catalog"
	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/store"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	greetEnd     = 600 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

const greeting = "नमस्ते"

// sparkle frames cycle around the greeting
var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

type loadedMsg struct {
	Count int
	Err   error
}

// WelcomeScreen greets a new learner, loads the built-in catalog on enter
// and then hands over to the screen produced by homeFactory.
type WelcomeScreen struct {
	items       store.ItemRepo
	homeFactory func() screen.Screen

	elapsed      time.Duration
	tickCount    int
	loading      bool
	errMsg       string
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that seeds items and then transitions to the
// screen produced by homeFactory.
func New(items store.ItemRepo, homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{items: items, homeFactory: homeFactory}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Load starter words"},
		{Key: "s", Description: "Skip"},
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case loadedMsg:
		w.loading = false
		if msg.Err != nil {
			w.errMsg = msg.Err.Error()
			return w, nil
		}
		return w, w.transition()

	case tea.KeyPressMsg:
		if w.elapsed < totalDur || w.loading {
			return w, nil
		}
		switch msg.String() {
		case "enter":
			w.loading = true
			w.errMsg = ""
			return w, w.load()
		case "s":
			return w, w.transition()
		}
	}
	return w, nil
}

func (w *WelcomeScreen) load() tea.Cmd {
	items := w.items
	return func() tea.Msg {
		words := catalog.Builtin().TutorItems()
		err := items.UpsertItems(context.Background(), words)
		return loadedMsg{Count: len(words), Err: err}
	}
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	greet := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(greeting)
	if w.elapsed >= greetEnd {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		greet = lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle) + "  " + greet + "  " +
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkle)
	}
	sections = append(sections, greet)

	if w.elapsed >= totalDur {
		b := catalog.Builtin()
		sections = append(sections, "",
			theme.Body.Bold(true).Render("Let's learn Nepali words!"),
			"",
			theme.Hint.Render(fmt.Sprintf("The catalog is empty. Press enter to load %d %s words,", len(b.Items), b.Name)),
			theme.Hint.Render("or s to skip and import your own later."))
	}
	if w.loading {
		sections = append(sections, "", theme.Hint.Render("loading..."))
	}
	if w.errMsg != "" {
		sections = append(sections, "", theme.Incorrect.Render(w.errMsg))
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
