// Package layout draws the frame shared by every screen: a title bar, the
// screen content and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

const (
	// MinWidth fits four word cards side by side.
	MinWidth  = 72
	MinHeight = 22

	HeaderHeight = 2
	FooterHeight = 2
)

const brand = "nepaligpa"

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a bigger terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf(
			"The word cards need more room.\n\nResize to at least %d x %d\n(now %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// flagRule is a full-width line, crimson on the left half and blue on the
// right.
func flagRule(width int) string {
	half := width / 2
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("━", half)) +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("━", width-half))
}

// RenderHeader draws the brand on the left, the screen title centered and
// status on the right, over a flag-colored rule.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" " + brand)
	center := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")

	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((width-cw)/2-lw, 1)
	gapR := max(width-lw-gapL-cw-rw, 1)

	bar := left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right
	return lipgloss.JoinVertical(lipgloss.Left, bar, flagRule(width))
}

// RenderFooter draws key hints under a dim rule. Hints that do not fit
// are dropped from the middle so the last one, usually quit, stays.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	line := " " + strings.Join(parts, "  ·  ")
	for len(parts) > 1 && lipgloss.Width(line) > width {
		parts = append(parts[:len(parts)-2], parts[len(parts)-1])
		line = " " + strings.Join(parts, "  ·  ")
	}

	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", width))
	return lipgloss.JoinVertical(lipgloss.Left, rule, line)
}

// RenderFrame stacks header, content and footer, sizing the content to
// the height that remains.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
