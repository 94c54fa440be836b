package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/nepaligpa/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status on the
// right of the header.
type StatusProvider interface {
	Status() string
}

// EscapeHandler is implemented by screens that want to see the esc key
// themselves instead of being popped.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Closer is implemented by screens holding state that must be saved
// before the program exits.
type Closer interface {
	Close()
}

// Refresher is implemented by screens that reload their data when they
// become the top screen again after a pop.
type Refresher interface {
	Refresh() tea.Cmd
}
