package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/authno/internal/core/config"
	"github.com/neilberkman/authno/internal/core/docfile"
)

type promptKind int

const (
	promptOpen promptKind = iota
	promptSaveAs
	promptRename
	promptFilter
)

func (k promptKind) label() string {
	switch k {
	case promptOpen:
		return "Open file"
	case promptSaveAs:
		return "Save as"
	case promptRename:
		return "Rename"
	case promptFilter:
		return "Filter"
	}
	return ""
}

// PathChooser stands in for the save dialog: the TUI asks for a path in a
// prompt, stores it here, then starts the save. Files are opened by path, so
// the open dialog always reports a cancel.
type PathChooser struct {
	mu       sync.Mutex
	savePath string
}

// SetSavePath sets the answer to the next save dialog
func (c *PathChooser) SetSavePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.savePath = path
}

func (c *PathChooser) ChooseOpen(context.Context) (string, error) { return "", nil }

// ChooseSave returns and clears the pending save path. An empty answer
// cancels the save.
func (c *PathChooser) ChooseSave(context.Context, string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path := c.savePath
	c.savePath = ""
	return path, nil
}

func (m *Model) startPrompt(kind promptKind, value string) tea.Cmd {
	m.prev = m.mode
	m.prompt = kind
	m.mode = promptView
	m.input.Reset()
	m.input.Prompt = kind.label() + ": "
	m.input.Placeholder = ""
	switch kind {
	case promptOpen, promptSaveAs:
		m.input.Placeholder = "~/Books/draft.authbook"
	case promptFilter:
		m.input.Placeholder = "words type:book saved:no after:yesterday"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) endPrompt() {
	m.input.Blur()
	m.mode = m.prev
	if m.mode == promptView {
		m.mode = listView
	}
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.prompt == promptFilter {
			m.filter = ""
			m.refresh()
		}
		m.endPrompt()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.endPrompt()
		cmd := m.submitPrompt(value)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.prompt == promptFilter {
		m.filter = m.input.Value()
		m.refresh()
	}
	return m, cmd
}

// submitPrompt acts on an entered value
func (m *Model) submitPrompt(value string) tea.Cmd {
	switch m.prompt {
	case promptFilter:
		m.filter = value
		m.refresh()

	case promptRename:
		if sess, ok := m.selected(); ok && value != "" {
			m.store.RenameSession(sess.ID, value)
			m.refresh()
		}

	case promptOpen:
		if value == "" {
			return nil
		}
		m.status = "Opening " + value + "..."
		return openDocument(m.ctx, m.store, expandPath(value))

	case promptSaveAs:
		sess, ok := m.selected()
		if !ok {
			return nil
		}
		m.chooser.SetSavePath(expandPath(value))
		m.status = "Saving " + sess.Title + "..."
		return saveSession(m.ctx, m.saver, sess.ID, true)
	}
	return nil
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	return docfile.CanonicalPath(config.ExpandHome(p))
}

func (m Model) viewPrompt() string {
	var below string
	if m.prompt == promptFilter {
		below = m.viewListBody()
	}
	help := "enter confirm • esc cancel"
	return m.input.View() + "\n" + below + "\n" + m.footer(help)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pending.request.ID
	switch msg.String() {
	case "y", "Y", "enter":
		m.store.ConfirmDelete(id, true, m.pending.dontAskAgain)
		m.status = "Removed " + m.pending.title + " from the workspace"
	case "n", "N", "esc", "q":
		m.store.ConfirmDelete(id, false, false)
	case " ", "a":
		m.pending.dontAskAgain = !m.pending.dontAskAgain
		return m, nil
	default:
		return m, nil
	}
	m.pending = deletion{}
	m.mode = listView
	m.refresh()
	return m, nil
}

func (m Model) viewConfirm() string {
	req := m.pending.request
	box := "[ ]"
	if m.pending.dontAskAgain {
		box = "[x]"
	}
	body := fmt.Sprintf("%s\n\n%q\n\n%s\n\n%s Don't ask me again",
		titleStyle.Render(req.Title), m.pending.title, req.Body, box)

	dialog := dialogStyle.Render(body)
	if m.width > 0 && m.height > 0 {
		dialog = lipgloss.Place(m.width, max(m.height-m.footerHeight(), 1), lipgloss.Center, lipgloss.Center, dialog)
	}
	return dialog + "\n" + m.footer("y delete • n cancel • space toggle don't ask again")
}
