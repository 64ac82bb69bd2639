package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// clip shortens s to at most n runes, marking the cut with "~".
func clip(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "~"
	}
	return string(r[:n-1]) + "~"
}

// renderStatusBar produces a full-width inverted status line showing the
// session, seed, depth, criteria and the size of the last search.
func (m Model) renderStatusBar() string {
	st := m.shell.Status()

	name := st.Session
	if name == "" {
		name = "(no session)"
	}
	left := fmt.Sprintf(" %s %s | Seed %016X | Depth %d", name, st.Kind, st.Seed, st.Depth)

	right := "not searched "
	if st.Searched {
		right = fmt.Sprintf("%d results ", st.Results)
	}

	// Show the criteria if they fit, clipped if need be.
	room := m.width - lipgloss.Width(left) - lipgloss.Width(right) - len(" | ") - 2
	if room >= 8 {
		left += " | " + clip(st.Criteria, room)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
