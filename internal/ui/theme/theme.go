package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, after the crimson and blue of the Nepali flag.
var (
	Primary   = lipgloss.Color("#DC143C") // Crimson
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Marigold
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1530") // Night Blue
	BgCard    = lipgloss.Color("#172554") // Flag Blue, darkened
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Devanagari renders the Nepali name on a card.
	Devanagari = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Word cards. Each state only swaps the border, so cards keep their size.
var (
	WordCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1).
			Align(lipgloss.Center)

	WordCardCursor = WordCard.
			BorderForeground(Secondary)

	WordCardIntroducing = WordCard.
				Border(lipgloss.DoubleBorder()).
				BorderForeground(Accent)

	WordCardHighlighted = WordCard.
				Border(lipgloss.ThickBorder()).
				BorderForeground(Primary)

	WordCardCorrect = WordCard.
			Border(lipgloss.ThickBorder()).
			BorderForeground(Success)

	WordCardSuppressed = WordCard.
				BorderForeground(BgCard).
				Foreground(Border).
				Faint(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ProgressCompetent = lipgloss.NewStyle().
				Background(Success)
)
