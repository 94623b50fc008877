package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// composite layers notifications and the active modal over the base view.
// Stacking order: view, then notifications top-right, then the modal centered.
func (m *Model) composite(base string) string {
	lines := strings.Split(base, "\n")

	if active := m.notifications.Active(); len(active) > 0 {
		row := 0
		for _, entry := range active {
			box := m.renderNotification(entry.Kind)
			boxLines := strings.Split(box, "\n")
			left := m.width - lipgloss.Width(box) - 1
			if left < 0 {
				left = 0
			}
			lines = spliceOverlay(lines, boxLines, row, left)
			row += len(boxLines)
		}
	}

	if m.modal != nil {
		box := m.modal.render(m)
		boxLines := strings.Split(box, "\n")
		top := (m.height - len(boxLines)) / 2
		if top < 0 {
			top = 0
		}
		left := (m.width - lipgloss.Width(box)) / 2
		if left < 0 {
			left = 0
		}
		lines = spliceOverlay(lines, boxLines, top, left)
	}

	return strings.Join(lines, "\n")
}

// spliceOverlay writes box lines into the canvas at (top, left). The covered
// part of each canvas line up to left is kept; whatever lay under and to the
// right of the box is dropped, which is safe because boxes hug the right or
// center of the screen.
func spliceOverlay(lines []string, box []string, top, left int) []string {
	for len(lines) < top+len(box) {
		lines = append(lines, "")
	}
	for i, boxLine := range box {
		row := top + i
		kept := truncate.String(lines[row], uint(left))
		pad := left - lipgloss.Width(kept)
		if pad < 0 {
			pad = 0
		}
		lines[row] = kept + strings.Repeat(" ", pad) + boxLine
	}
	return lines
}
