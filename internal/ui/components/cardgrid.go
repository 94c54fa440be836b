package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/tutor"
	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

// CardWidth is the outer width of one word card.
const CardWidth = 18

// CardGrid lays out the active words as numbered cards. Cards wrap into
// as many columns as fit the width.
type CardGrid struct {
	Cards  []tutor.ItemView
	Cursor int

	// ShowCursor marks the card under Cursor. Off while nothing is asked.
	ShowCursor bool
	// ShowScores adds a competency bar under each word.
	ShowScores bool
}

// Columns returns how many cards fit side by side in width.
func Columns(width int) int {
	cols := width / (CardWidth + 1)
	if cols < 1 {
		return 1
	}
	return cols
}

// Move shifts the cursor by dx columns and dy rows, skipping hidden
// cards, and returns the new position. It stays put when every card in
// that direction is hidden.
func (g CardGrid) Move(dx, dy, cols int) int {
	step := dx + dy*cols
	if step == 0 || len(g.Cards) == 0 {
		return g.Cursor
	}
	for i := g.Cursor + step; i >= 0 && i < len(g.Cards); i += step {
		if !g.Cards[i].Suppressed {
			return i
		}
	}
	return g.Cursor
}

// View renders the grid in width.
func (g CardGrid) View(width int) string {
	if len(g.Cards) == 0 {
		return ""
	}
	cols := Columns(width)

	var rows []string
	for start := 0; start < len(g.Cards); start += cols {
		end := min(start+cols, len(g.Cards))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, g.card(i), " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (g CardGrid) card(i int) string {
	c := g.Cards[i]
	inner := CardWidth - 4 // border + padding

	style := theme.WordCard
	switch {
	case c.Suppressed:
		style = theme.WordCardSuppressed
	case c.Correct:
		style = theme.WordCardCorrect
	case c.Highlighted:
		style = theme.WordCardHighlighted
	case c.Introducing:
		style = theme.WordCardIntroducing
	case g.ShowCursor && i == g.Cursor:
		style = theme.WordCardCursor
	}
	style = style.Width(CardWidth)

	lines := make([]string, 0, 4)
	lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d", i+1)))
	if c.Suppressed {
		lines = append(lines, "", "")
	} else {
		lines = append(lines, truncate(c.Name, inner))
		reveal := ""
		if c.Introducing || c.Correct {
			reveal = theme.Devanagari.Render(c.TargetName)
		}
		lines = append(lines, reveal)
	}
	if g.ShowScores {
		if c.Suppressed {
			lines = append(lines, "")
		} else {
			lines = append(lines, scoreDots(c.Score, inner))
		}
	}
	return style.Render(strings.Join(lines, "\n"))
}

// scoreDots draws a compact competency bar that fills at the competent
// threshold.
func scoreDots(score float64, width int) string {
	filled := int(score / tutor.CompetentScore * float64(width))
	filled = max(0, min(filled, width))
	color := theme.Secondary
	if score >= tutor.CompetentScore {
		color = theme.Success
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("━", width-filled))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
