// Package wordlist shows every stored word with its competency score.
package wordlist

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/store"
	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/components"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

type loadedMsg struct {
	Items []*tutor.Item
	Err   error
}

// WordListScreen lists the catalog with scores, filterable with "/".
type WordListScreen struct {
	items    store.ItemRepo
	words    []*tutor.Item
	filter   components.Filter
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*WordListScreen)(nil)
var _ screen.KeyHintProvider = (*WordListScreen)(nil)
var _ screen.StatusProvider = (*WordListScreen)(nil)
var _ screen.EscapeHandler = (*WordListScreen)(nil)

// New creates a WordListScreen over items.
func New(items store.ItemRepo) *WordListScreen {
	return &WordListScreen{items: items, filter: components.NewFilter("horse, घोडा, farm...")}
}

func (s *WordListScreen) Init() tea.Cmd {
	return func() tea.Msg {
		words, err := s.items.ListItems(context.Background(), "")
		return loadedMsg{Items: words, Err: err}
	}
}

func (s *WordListScreen) Title() string {
	return "Word List"
}

// Status counts the words at or above the competent score.
func (s *WordListScreen) Status() string {
	if !s.loaded {
		return ""
	}
	learned := 0
	for _, w := range s.words {
		if tutor.ComputeScore(w) >= tutor.CompetentScore {
			learned++
		}
	}
	return fmt.Sprintf("%d/%d learned", learned, len(s.words))
}

// HandlesEscape lets esc clear an active filter instead of leaving.
func (s *WordListScreen) HandlesEscape() bool {
	return s.filter.Focused()
}

func (s *WordListScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Keep filter"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "/", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WordListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.words = msg.Items
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		if s.filter.Focused() {
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.selected = 0
			return s, cmd
		}
		switch msg.String() {
		case "/":
			return s, s.filter.Focus()
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.visible())-1 {
				s.selected++
			}
		}
		return s, nil
	}

	if s.filter.Focused() {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}
	return s, nil
}

// visible returns the words matching the filter.
func (s *WordListScreen) visible() []*tutor.Item {
	var out []*tutor.Item
	for _, w := range s.words {
		if s.filter.Match(append([]string{w.Name, w.TargetName, w.Romanized}, w.Tags...)...) {
			out = append(out, w)
		}
	}
	return out
}

func (s *WordListScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading words...")
	}
	if len(s.words) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No words yet. Run nepaligpa catalog import.")
	}

	words := s.visible()
	var b strings.Builder
	b.WriteString("\n")
	if f := s.filter.View(); f != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, f))
		b.WriteString("\n")
	}
	if len(words) == 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("no word matches")))
		return b.String()
	}

	// Rows that fit below the filter, with room for the table frame.
	rows := max(height-8, 3)
	first := 0
	if s.selected >= rows {
		first = s.selected - rows + 1
	}
	last := min(first+rows, len(words))

	barWidth := 24
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("word", "नेपाली", "romanized", "score", "answers").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.Foreground(theme.Primary).Bold(true)
			}
			if first+row == s.selected {
				return st.Foreground(theme.Secondary).Bold(true)
			}
			return st
		})
	for _, w := range words[first:last] {
		score := tutor.ComputeScore(w)
		t.Row(w.Name, w.TargetName, w.Romanized,
			components.ScoreBar(score, tutor.CompetentScore, 500, barWidth),
			fmt.Sprintf("%d", len(w.History)))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, t.Render()))
	if len(words) > rows {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(fmt.Sprintf("%d-%d of %d", first+1, last, len(words)))))
	}
	return b.String()
}
