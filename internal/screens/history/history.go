// Package history lists finished sessions, newest first.
package history

import (
	"context"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/store"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

const recentLimit = 50

// chrome is the height taken by everything except the table rows.
const chrome = 12

type loadedMsg struct {
	sessions []store.SessionEvent
	err      error
}

// HistoryScreen shows a table of past sessions and a detail card for the
// highlighted one.
type HistoryScreen struct {
	events   store.EventRepo
	sessions []store.SessionEvent
	selected int
	offset   int
	loaded   bool
	err      error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(events store.EventRepo) *HistoryScreen {
	return &HistoryScreen{events: events}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events := s.events
	return func() tea.Msg {
		sessions, err := events.RecentSessions(context.Background(), recentLimit)
		return loadedMsg{sessions: sessions, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose session"},
		{Key: "Home/End", Description: "Newest/oldest"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		s.sessions = msg.sessions
		s.selected, s.offset = 0, 0

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.move(-1)
		case "down", "j":
			s.move(1)
		case "pgup":
			s.move(-10)
		case "pgdown":
			s.move(10)
		case "home", "g":
			s.move(-len(s.sessions))
		case "end", "G":
			s.move(len(s.sessions))
		}
	}
	return s, nil
}

func (s *HistoryScreen) move(delta int) {
	s.selected = max(0, min(len(s.sessions)-1, s.selected+delta))
}

// window returns the slice of rows to draw and keeps the selection inside it.
func (s *HistoryScreen) window(height int) (int, int) {
	rows := max(3, height-chrome)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}
	return s.offset, min(len(s.sessions), s.offset+rows)
}

func accuracy(e store.SessionEvent) float64 {
	answered := e.CorrectAnswers + e.IncorrectAnswers
	if answered == 0 {
		return 0
	}
	return float64(e.CorrectAnswers) / float64(answered) * 100
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func tagName(tag string) string {
	if tag == "" {
		return "all"
	}
	return tag
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).PaddingTop(2)
	switch {
	case s.err != nil:
		return center.Foreground(theme.Error).Render("Could not read history: " + s.err.Error())
	case !s.loaded:
		return center.Foreground(theme.TextDim).Render("Reading past sessions...")
	case len(s.sessions) == 0:
		return center.Foreground(theme.TextDim).Italic(true).Render("No sessions yet. Time to learn some words!")
	}

	from, to := s.window(height)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("When", "Tag", "Time", "Words", "New", "Asked", "Correct").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return st.Foreground(theme.Secondary).Bold(true)
			case from+row == s.selected:
				return st.Foreground(theme.Primary).Bold(true)
			}
			return st.Foreground(theme.Text)
		})
	for _, e := range s.sessions[from:to] {
		t.Row(
			e.Timestamp.Local().Format("Jan 02 15:04"),
			tagName(e.Tag),
			clock(e.DurationSecs),
			strconv.Itoa(e.ItemsActive),
			strconv.Itoa(e.ItemsIntroduced),
			strconv.Itoa(e.QuestionsAsked),
			fmt.Sprintf("%.0f%%", accuracy(e)),
		)
	}

	blocks := []string{s.totals(), t.Render(), s.detail(s.sessions[s.selected])}
	if len(s.sessions) > to-from {
		blocks = append(blocks, theme.Hint.Render(fmt.Sprintf("%d-%d of %d", from+1, to, len(s.sessions))))
	}
	body := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *HistoryScreen) totals() string {
	var secs, asked, right, wrong int
	for _, e := range s.sessions {
		secs += e.DurationSecs
		asked += e.QuestionsAsked
		right += e.CorrectAnswers
		wrong += e.IncorrectAnswers
	}
	all := store.SessionEvent{SessionEventData: store.SessionEventData{CorrectAnswers: right, IncorrectAnswers: wrong}}
	return theme.Hint.Render(fmt.Sprintf("%d sessions · %s spent · %d questions · %.0f%% correct",
		len(s.sessions), clock(secs), asked, accuracy(all)))
}

func (s *HistoryScreen) detail(e store.SessionEvent) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	value := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	line := func(k, v string) string { return label.Render(k+" ") + value.Render(v) }

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			line("Tag:", tagName(e.Tag)),
			line("Words on the board:", strconv.Itoa(e.ItemsActive))+"   "+line("new:", strconv.Itoa(e.ItemsIntroduced)),
			line("Correct:", strconv.Itoa(e.CorrectAnswers))+"   "+line("wrong taps:", strconv.Itoa(e.IncorrectAnswers)),
			label.Render("Session "+e.SessionID),
		))
}
