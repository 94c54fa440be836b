// Package summary shows how a finished session went.
package summary

import (
	"cmp"
	"fmt"
	"slices"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/router"
	"github.com/abhisek/nepaligpa/internal/screen"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/components"
	"github.com/abhisek/nepaligpa/internal/ui/layout"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

// Score bars are full at fullBar; scores keep growing past it.
const fullBar = 500.0

type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "enter" || k.String() == "esc") {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

// headline praises in Nepali, more warmly the better the session went.
func headline(sum *session.Summary) string {
	switch {
	case sum.Asked == 0:
		return "धन्यवाद! Session complete"
	case sum.Accuracy >= 0.8:
		return "शाबास! Great listening"
	default:
		return "राम्रो! Keep practicing"
	}
}

func tile(label, value string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(value),
			theme.Hint.Render(label)))
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	secs := int(sum.Duration.Seconds())
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		tile("time", fmt.Sprintf("%d:%02d", secs/60, secs%60)),
		tile("words", fmt.Sprintf("%d/%d", sum.Active, sum.Total)),
		tile("new", fmt.Sprint(sum.Introduced)),
		tile("questions", fmt.Sprint(sum.Asked)),
		tile("correct", fmt.Sprint(sum.Correct)),
		tile("wrong taps", fmt.Sprint(sum.Incorrect)),
		tile("accuracy", fmt.Sprintf("%.0f%%", sum.Accuracy*100)),
	)

	blocks := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(headline(sum)),
		"",
		tiles,
	}
	blocks = append(blocks, s.words(min(width-8, 64))...)

	return lipgloss.NewStyle().PaddingTop(1).Render(
		lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, blocks...)))
}

// words lists learned words first, then the rest, each by falling score.
func (s *SummaryScreen) words(width int) []string {
	if len(s.summary.Items) == 0 {
		return nil
	}
	items := slices.Clone(s.summary.Items)
	slices.SortStableFunc(items, func(a, b session.ItemResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	bar := max(10, width-30)
	var learned, practice []string
	for _, it := range items {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(12).Render(it.Name),
			theme.Devanagari.Width(12).Render(it.TargetName),
			components.ScoreBar(it.Score, tutor.CompetentScore, fullBar, bar))
		if it.Competent {
			learned = append(learned, theme.Correct.Render("★ ")+row)
		} else {
			practice = append(practice, "  "+row)
		}
	}

	heading := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).MarginTop(1)
	var out []string
	if len(learned) > 0 {
		out = append(out, heading.Render(fmt.Sprintf("Learned (%d)", len(learned))))
		out = append(out, lipgloss.JoinVertical(lipgloss.Left, learned...))
	}
	if len(practice) > 0 {
		out = append(out, heading.Render(fmt.Sprintf("Keep practicing (%d)", len(practice))))
		out = append(out, lipgloss.JoinVertical(lipgloss.Left, practice...))
	}
	return out
}
