package learn

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

func (s *LearnScreen) View(width, height int) string {
	s.width = width
	switch {
	case s.errMsg != "":
		return centered(width, theme.Incorrect.Render("\n\n"+s.errMsg))
	case s.sess == nil:
		return centered(width, theme.Hint.Render("\n\nGetting the words ready..."))
	case s.confirmQuit:
		return centered(width, "\n\n"+theme.Title.Render("End this session?")+"\n\n"+
			theme.Hint.Render("y to end, n to keep going"))
	}

	v := s.sess.Engine.View()
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(width, s.renderPrompt(v)))
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(centered(width, theme.Hint.Render(s.notice)))
	}
	b.WriteString("\n\n")

	if len(v.Items) == 0 {
		b.WriteString(centered(width, theme.Hint.Render("Press n to meet the first word.")))
		return b.String()
	}
	grid := s.grid().View(s.gridWidth())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, grid))
	b.WriteString("\n\n")
	b.WriteString(centered(width, renderTally(v)))
	return b.String()
}

func (s *LearnScreen) gridWidth() int {
	if s.width <= 0 {
		return 80
	}
	return s.width - 4
}

func (s *LearnScreen) renderPrompt(v tutor.View) string {
	if v.Prompt == "" {
		return ""
	}
	style := theme.Body.Bold(true)
	switch {
	case answered(v):
		style = theme.Correct
	case v.Pending != "" && v.Attempts > 0:
		style = theme.Incorrect
	}
	out := style.Render(v.Prompt)
	if v.Playing {
		out = lipgloss.NewStyle().Foreground(theme.Accent).Render("♪ ") + out
	}
	return out
}

// answered reports whether a card is showing the correct-answer mark.
func answered(v tutor.View) bool {
	for _, it := range v.Items {
		if it.Correct {
			return true
		}
	}
	return false
}

func renderTally(v tutor.View) string {
	parts := []string{
		theme.Correct.Render(fmt.Sprintf("✓ %d", v.Stats.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("✗ %d", v.Stats.Incorrect)),
	}
	if v.Auto {
		parts = append(parts, theme.Hint.Render("auto: "+v.Phase.String()))
	}
	return strings.Join(parts, "   ")
}

func centered(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s)
}
