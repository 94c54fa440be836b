// Package app wires the screens into the root Bubble Tea program.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/screens/home"
	"github.com/abhisek/nepaligpa/internal/screens/learn"
	"github.com/abhisek/nepaligpa/internal/screens/welcome"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
)

// Deps are the dependencies the screens need.
type Deps struct {
	Repos   session.Repos
	Session session.Options

	// Direct skips the home screen and starts a session straight away.
	Direct bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel picks the first screen: a session for direct starts, the
// welcome screen for an empty catalog, otherwise home.
func newAppModel(ctx context.Context, deps Deps) AppModel {
	homeDeps := home.Deps{Ctx: ctx, Repos: deps.Repos, Session: deps.Session}
	homeFactory := func() screen.Screen { return home.New(homeDeps) }

	var first screen.Screen
	switch {
	case deps.Direct:
		first = learn.New(ctx, deps.Repos, deps.Session)
	case catalogEmpty(ctx, deps.Repos):
		first = welcome.New(deps.Repos.Items, homeFactory)
	default:
		first = homeFactory()
	}
	return AppModel{router: router.New(first)}
}

func catalogEmpty(ctx context.Context, repos session.Repos) bool {
	if repos.Items == nil {
		return false
	}
	n, err := repos.Items.CountItems(ctx)
	return err == nil && n == 0
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case router.PopScreenMsg:
		// Leaving the root screen ends the program.
		if m.router.Depth() <= 1 {
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if c, ok := m.router.Active().(screen.Closer); ok {
				c.Close()
			}
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the frame around the active screen.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// canceled.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(newAppModel(ctx, deps), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
