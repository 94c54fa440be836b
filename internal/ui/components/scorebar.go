package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

// ScoreBar draws score on a bar that is full at maxScore, followed by the
// number. A tick marks where competent falls; past it the fill turns green.
func ScoreBar(score, competent, maxScore float64, width int) string {
	cells := max(4, width-5)
	at := func(v float64) int {
		return max(0, min(cells, int(v/maxScore*float64(cells))))
	}
	filled, tick := at(score), at(competent)

	fill := theme.ProgressFilled
	if score >= competent {
		fill = theme.ProgressCompetent
	}

	var b strings.Builder
	for i := range cells {
		switch {
		case i < filled:
			b.WriteString(fill.Render(" "))
		case i == tick && score < competent:
			b.WriteString(theme.ProgressEmpty.Foreground(theme.Accent).Render("│"))
		default:
			b.WriteString(theme.ProgressEmpty.Render(" "))
		}
	}
	return b.String() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" %4.0f", score))
}
