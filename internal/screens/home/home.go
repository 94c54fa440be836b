package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/screens/history"
	"github.com/abhisek/nepaligpa/internal/screens/learn"
	"github.com/abhisek/nepaligpa/internal/screens/wordlist"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/ui/components"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

const banner = `┏┓╻┏━╸┏━┓┏━┓╻  ╻┏━╸┏━┓┏━┓
┃┗┫┣╸ ┣━┛┣━┫┃  ┃┃╺┓┣━┛┣━┫
╹ ╹┗━╸╹  ╹ ╹┗━╸╹┗━┛╹  ╹ ╹`

// Deps are what the home screen needs to open the other screens.
type Deps struct {
	Ctx   context.Context
	Repos session.Repos

	// Session holds the base options for sessions started from the menu.
	Session session.Options
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	ctx     context.Context
	deps    Deps
	menu    components.Menu
	words   int
	resume  int
	lastTag string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	ctx := deps.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	h := &HomeScreen{ctx: ctx, deps: deps, lastTag: deps.Session.Tag}
	h.load()
	return h
}

// Refresh reloads the counts after a session or import.
func (h *HomeScreen) Refresh() tea.Cmd {
	h.load()
	return nil
}

// load reads the word count and the resumable board and rebuilds the
// menu, keeping the selection when that item is still enabled.
func (h *HomeScreen) load() {
	ctx, deps := h.ctx, h.deps

	h.words, h.resume = 0, 0
	if deps.Repos.Items != nil {
		h.words, _ = deps.Repos.Items.CountItems(ctx)
	}
	if deps.Repos.Snapshots != nil {
		if snap, err := deps.Repos.Snapshots.LatestForTag(ctx, deps.Session.Tag); err == nil && snap != nil {
			h.resume = snap.Data.ActiveCount
		}
	}

	startWith := func(mutate func(*session.Options)) func() tea.Cmd {
		return func() tea.Cmd {
			opts := deps.Session
			mutate(&opts)
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: learn.New(ctx, deps.Repos, opts)}
			}
		}
	}

	noWords := h.words == 0
	resumeDetail := ""
	if h.resume > 0 {
		resumeDetail = fmt.Sprintf("%d words on the board", h.resume)
	}
	items := []components.MenuItem{
		{Label: "Start learning", Disabled: noWords, Action: startWith(func(o *session.Options) {})},
		{Label: "Auto learning", Disabled: noWords, Action: startWith(func(o *session.Options) { o.Auto = true })},
		{
			Label:    "Continue",
			Detail:   resumeDetail,
			Disabled: h.resume == 0 || noWords,
			Action:   startWith(func(o *session.Options) { o.Resume = true }),
		},
		{Label: "Word list", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: wordlist.New(deps.Repos.Items)}
			}
		}},
		{Label: "History", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Repos.Events)}
			}
		}},
		{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	prev, hadMenu := h.menu.Selected, len(h.menu.Items) > 0
	h.menu = components.NewMenu(items)
	if hadMenu {
		h.menu.Select(prev)
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(banner))
	sections = append(sections, theme.Devanagari.Render("नेपाली शब्द सिकौं"))

	info := fmt.Sprintf("%d words in the catalog", h.words)
	if h.lastTag != "" {
		info += " · tag " + h.lastTag
	}
	if h.words == 0 {
		info = "No words yet. Run: nepaligpa catalog import"
	}
	sections = append(sections, theme.Hint.Render(info))

	sections = append(sections, lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 3).
		Render(strings.TrimRight(h.menu.View(), "\n")))

	content := lipgloss.JoinVertical(lipgloss.Center, sections[0], "", sections[1], "", sections[2], "", sections[3])
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
