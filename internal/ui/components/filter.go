package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

// Filter wraps bubbles/textinput as an incremental search box. Enter
// keeps the query and leaves the box; esc clears it.
type Filter struct {
	Model textinput.Model
}

// NewFilter creates an unfocused filter.
func NewFilter(placeholder string) Filter {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = placeholder
	ti.CharLimit = 40
	return Filter{Model: ti}
}

// Focus starts editing.
func (f *Filter) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Focused reports whether key presses go to the filter.
func (f Filter) Focused() bool {
	return f.Model.Focused()
}

// Update handles messages while focused.
func (f Filter) Update(msg tea.Msg) (Filter, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			f.Model.Blur()
			return f, nil
		case "esc":
			f.Model.SetValue("")
			f.Model.Blur()
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter, or nothing when it is empty and idle.
func (f Filter) View() string {
	if !f.Focused() && f.Value() == "" {
		return ""
	}
	if !f.Focused() {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ " + f.Value())
	}
	return f.Model.View()
}

// Value returns the current query.
func (f Filter) Value() string {
	return strings.TrimSpace(f.Model.Value())
}

// Match reports whether any of fields contains the query, ignoring case.
// An empty query matches everything.
func (f Filter) Match(fields ...string) bool {
	q := strings.ToLower(f.Value())
	if q == "" {
		return true
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
