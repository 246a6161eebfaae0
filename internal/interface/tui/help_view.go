package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.prev == listView {
			cmd := m.quit()
			return m, cmd
		}
	}
	m.mode = m.prev
	return m, nil
}

func (m Model) viewHelp() string {
	help := `
authno - Help
═════════════

WORKSPACE
─────────
  ↑/↓, j/k       Navigate sessions
  Enter          Edit selected session
  n / b          New book / new storyboard
  o              Open an .authbook file
  r              Rename
  s / S          Save / save as
  d              Remove from workspace (file stays on disk)
  c              Copy text to clipboard
  /              Filter (type:book saved:no after:yesterday)
  esc            Clear filter
  shift+↑/↓      Move session up/down
  L              Arrange workspace
  [ / ]          Narrow / widen sidebar
  x              Dismiss notices
  ?              Show this help
  q              Quit

EDITOR
──────
  ctrl+space     Start/stop selecting from the cursor
  ctrl+h         Toggle highlight on the selection
  alt+b/i/u      Bold / italic / underline
  ctrl+s         Save
  esc            Back to workspace

ARRANGE
───────
  ↑/↓            Move cursor, or the picked up session
  space          Pick up / drop
  shift+↑/↓      Move one place
  mouse          Drag rows, hold near an edge to scroll
  esc            Done

Press any key to return
`

	return helpStyle.Render(help)
}
