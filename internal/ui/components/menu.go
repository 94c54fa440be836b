package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/nepaligpa/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled entries are drawn but the
// cursor skips them.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. The cursor wraps at both ends and
// the digits 1-9 jump straight to an entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.next(-1, 1)
	if m.Selected < 0 {
		m.Selected = 0
	}
	return m
}

// next returns the first enabled index after from in direction dir,
// wrapping around, or -1 when every item is disabled.
func (m Menu) next(from, dir int) int {
	n := len(m.Items)
	for step := 1; step <= n; step++ {
		i := ((from+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

// Select moves the cursor to index i if that item is enabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	item := m.Items[m.Selected]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k", "shift+tab":
		if i := m.next(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case "down", "j", "tab":
		if i := m.next(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case "enter", "space":
		return m, m.activate()
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if m.Select(int(s[0] - '1')) {
				return m, m.activate()
			}
		}
	}
	return m, nil
}

func (m Menu) View() string {
	cursor := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	active := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	plain := lipgloss.NewStyle().Foreground(theme.Text)
	off := lipgloss.NewStyle().Foreground(theme.TextDim).Faint(true)

	var b strings.Builder
	for i, item := range m.Items {
		num := fmt.Sprintf("%d ", i+1)
		if i >= 9 {
			num = "  "
		}
		label := num + item.Label
		switch {
		case item.Disabled:
			b.WriteString("   " + off.Render(label))
		case i == m.Selected:
			b.WriteString(cursor.Render(" ❯ ") + active.Render(label))
		default:
			b.WriteString("   " + plain.Render(label))
		}
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
