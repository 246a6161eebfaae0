package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/richtext"
)

// editor edits one session's plain text. Formatting lives in doc and is
// carried across text edits with richtext.Retext.
type editor struct {
	id     string
	doc    richtext.Document
	area   textarea.Model
	anchor int // Selection start, -1 when not selecting
	width  int
	height int
}

func newEditor() *editor {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	return &editor{area: ta, anchor: -1}
}

func (e *editor) resize(width, height int) {
	e.width = width
	e.height = height
	e.area.SetWidth(max(width-2, 10))
	// Half for typing, half for the formatted preview, minus title and toolbar
	e.area.SetHeight(max((height-4)/2, 3))
}

// cursor is the caret's offset in the document
func (e *editor) cursor() int {
	info := e.area.LineInfo()
	return richtext.Offset(e.area.Value(), e.area.Line(), info.StartColumn+info.ColumnOffset)
}

// selection runs from the anchor to the caret, collapsed when no anchor is set
func (e *editor) selection() richtext.Range {
	cur := e.cursor()
	if e.anchor < 0 {
		return richtext.Range{Start: cur, End: cur}
	}
	if e.anchor > cur {
		return richtext.Range{Start: cur, End: e.anchor}
	}
	return richtext.Range{Start: e.anchor, End: cur}
}

// sync folds the textarea's text into doc
func (e *editor) sync() {
	e.doc = richtext.Retext(e.doc, e.area.Value())
}

func (m *Model) openEditor(sess models.Session) {
	doc, err := richtext.Parse(sess.Content)
	if err != nil {
		m.log.Warn("session markup did not parse, editing as plain text")
		doc = richtext.FromText(richtext.PlainText(sess.Content))
	}
	m.editor.id = sess.ID
	m.editor.doc = doc
	m.editor.anchor = -1
	m.editor.area.SetValue(doc.Text())
	m.editor.area.Focus()
	m.mode = editorView
	m.resize()
}

// commitEditor writes the edited document back to the store when it changed
func (m *Model) commitEditor() {
	e := m.editor
	if e.id == "" {
		return
	}
	e.sync()
	content := richtext.Render(e.doc)
	if sess, ok := m.store.Get(e.id); ok && sess.Content != content {
		m.store.EditContent(e.id, content)
	}
}

// toggle applies a format command to the current selection
func (m *Model) toggle(mark richtext.Mark) {
	e := m.editor
	e.sync()
	doc, on := richtext.ToggleMark(e.doc, e.selection(), mark)
	e.anchor = -1
	if doc.Equal(e.doc) {
		return
	}
	e.doc = doc
	m.store.ApplyContent(e.id, richtext.Render(doc))
	state := "off"
	if on {
		state = "on"
	}
	m.status = mark.String() + " " + state
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editor
	switch msg.String() {
	case "esc":
		if e.anchor >= 0 {
			e.anchor = -1
			return m, nil
		}
		m.commitEditor()
		e.area.Blur()
		e.id = ""
		m.mode = listView
		m.refresh()
		return m, nil

	case "ctrl+s":
		m.commitEditor()
		return m, saveSession(m.ctx, m.saver, e.id, false)

	case "ctrl+@", "ctrl+space":
		if e.anchor >= 0 {
			e.anchor = -1
		} else {
			e.anchor = e.cursor()
		}
		return m, nil

	case "ctrl+h", "alt+h":
		m.toggle(richtext.Highlight)
		return m, nil

	case "alt+b":
		m.toggle(richtext.Bold)
		return m, nil

	case "alt+i":
		m.toggle(richtext.Italic)
		return m, nil

	case "alt+u":
		m.toggle(richtext.Underline)
		return m, nil
	}

	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return m, cmd
}

func (m Model) viewEditor() string {
	e := m.editor
	sess, _ := m.store.Get(e.id)

	var b strings.Builder
	b.WriteString(titleStyle.Render(sess.Title))
	b.WriteString("  ")
	b.WriteString(m.viewToolbar())
	b.WriteString("\n")
	b.WriteString(e.area.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(strings.Repeat("─", max(e.width-2, 10))))
	b.WriteString("\n")

	previewHeight := max(e.height-e.area.Height()-3, 1)
	doc := richtext.Retext(e.doc, e.area.Value())
	b.WriteString(lipgloss.NewStyle().MaxHeight(previewHeight).Render(renderDocument(doc, max(e.width-2, 10))))

	help := "esc back • ctrl+s save • ctrl+space select • ctrl+h highlight • alt+b/i/u bold/italic/underline"
	return lipgloss.NewStyle().Height(max(m.height-m.footerHeight(), 1)).Render(b.String()) + "\n" + m.footer(help)
}

// viewToolbar shows which marks the selection carries
func (m Model) viewToolbar() string {
	e := m.editor
	state := richtext.Selection(richtext.Retext(e.doc, e.area.Value()), e.selection())

	buttons := []struct {
		label string
		mark  richtext.Mark
	}{
		{"B", richtext.Bold},
		{"I", richtext.Italic},
		{"U", richtext.Underline},
		{"H", richtext.Highlight},
	}

	parts := make([]string, 0, len(buttons)+1)
	for _, btn := range buttons {
		if state.Has(btn.mark) {
			parts = append(parts, toolbarOnStyle.Render(btn.label))
		} else {
			parts = append(parts, toolbarOffStyle.Render(btn.label))
		}
	}
	if e.anchor >= 0 {
		parts = append(parts, metaStyle.Render("selecting"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// renderContent renders stored markup, falling back to its plain text
func renderContent(content string, width int) string {
	doc, err := richtext.Parse(content)
	if err != nil {
		doc = richtext.FromText(richtext.PlainText(content))
	}
	return renderDocument(doc, width)
}

// renderDocument styles each run by its marks and wraps to width
func renderDocument(doc richtext.Document, width int) string {
	var b strings.Builder
	for _, run := range doc.Runs {
		style := lipgloss.NewStyle().
			Bold(run.Marks.Has(richtext.Bold)).
			Italic(run.Marks.Has(richtext.Italic)).
			Underline(run.Marks.Has(richtext.Underline))
		if run.Marks.Has(richtext.Highlight) {
			style = style.Inherit(highlightStyle)
		}
		// Render line by line so padding never picks up the highlight
		for i, line := range strings.Split(run.Text, "\n") {
			if i > 0 {
				b.WriteString("\n")
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
