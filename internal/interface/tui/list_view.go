package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/authno/internal/core/models"
)

// sidebarStep is how far [ and ] move the sidebar edge
const sidebarStep = 16

type sessionListItem struct {
	session models.Session
	current bool
}

func (i sessionListItem) FilterValue() string {
	return i.session.Title
}

func (i sessionListItem) Title() string {
	if i.session.FilePath == "" {
		return i.session.Title + " •"
	}
	return i.session.Title
}

func (i sessionListItem) Description() string {
	return fmt.Sprintf("%s | %s", i.session.Type.Label(), humanize.Time(i.session.Updated))
}

// Custom delegate to mark the current session
type sessionDelegate struct {
	list.DefaultDelegate
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(sessionListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	desc := s.Description()
	if width := m.Width() - 3; width > 0 {
		title = truncate(title, width)
		desc = truncate(desc, width)
	}

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render("▌" + title)
		desc = selectedItemStyle.Faint(true).Render(" " + desc)
	case s.current:
		title = itemStyle.Render(currentItemStyle.Render(title))
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func newSessionList(items []list.Item, width, height int) list.Model {
	delegate := sessionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height)
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false) // Filtering goes through the / prompt and search filters
	return l
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		cmd := m.quit()
		return m, cmd

	case "?":
		m.prev = listView
		m.mode = helpView
		return m, nil

	case "enter":
		if sess, ok := m.selected(); ok {
			m.store.SelectSession(sess.ID)
			m.openEditor(sess)
			m.refresh()
		}
		return m, nil

	case "n", "b":
		t := models.TypeBook
		if msg.String() == "b" {
			t = models.TypeStoryboard
		}
		sess := m.store.CreateSession(t)
		m.status = "Created " + sess.Title
		m.refresh()
		m.focus(sess.ID)
		return m, nil

	case "o":
		cmd := m.startPrompt(promptOpen, "")
		return m, cmd

	case "r":
		if sess, ok := m.selected(); ok {
			cmd := m.startPrompt(promptRename, sess.Title)
			return m, cmd
		}
		return m, nil

	case "d":
		return m.requestDelete()

	case "s":
		if sess, ok := m.selected(); ok {
			m.status = "Saving " + sess.Title + "..."
			return m, saveSession(m.ctx, m.saver, sess.ID, false)
		}
		return m, nil

	case "S":
		if sess, ok := m.selected(); ok {
			cmd := m.startPrompt(promptSaveAs, suggestPath(sess))
			return m, cmd
		}
		return m, nil

	case "c":
		if sess, ok := m.selected(); ok {
			return m, copyToClipboard(sess)
		}
		return m, nil

	case "/":
		cmd := m.startPrompt(promptFilter, m.filter)
		return m, cmd

	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.refresh()
		}
		return m, nil

	case "L":
		m.enterLayout()
		return m, nil

	case "shift+up", "shift+down":
		m.nudge(msg.String() == "shift+up")
		return m, nil

	case "[":
		m.resizeSidebar(-sidebarStep)
		return m, nil

	case "]":
		m.resizeSidebar(sidebarStep)
		return m, nil

	case "x":
		m.notices = nil
		m.status = ""
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// nudge moves the selected session one place, as a one-step drag
func (m *Model) nudge(up bool) {
	if m.filter != "" {
		m.status = "Clear the filter to rearrange"
		return
	}
	from := m.list.Index()
	to := from + 1
	if up {
		to = from - 1
	}
	if m.store.Move(from, to) {
		id := m.selectedID()
		m.refresh()
		m.focus(id)
	}
}

// requestDelete removes the selected session, asking first unless the
// user opted out
func (m Model) requestDelete() (tea.Model, tea.Cmd) {
	sess, ok := m.selected()
	if !ok {
		return m, nil
	}
	req, err := m.store.RequestDelete(sess.ID)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	if !req.NeedsConfirmation {
		m.status = "Removed " + sess.Title + " from the workspace"
		m.refresh()
		return m, nil
	}
	m.pending = deletion{request: req, title: sess.Title}
	m.mode = confirmView
	return m, nil
}

func (m Model) viewList() string {
	help := "n new book • b storyboard • enter edit • o open • s save • S save as • d delete • / filter • L arrange • q quit • ? more"
	if m.filter != "" {
		help = "filter: " + m.filter + " • esc clear • " + help
	}
	return m.viewListBody() + "\n" + m.footer(help)
}

// viewListBody is the sidebar and preview pane
func (m Model) viewListBody() string {
	var body string
	if len(m.list.Items()) == 0 {
		msg := "No sessions yet. Press n for a book, b for a storyboard, o to open a file."
		if m.filter != "" {
			msg = "No sessions match the filter."
		}
		if m.restoring {
			msg = ""
		}
		body = lipgloss.NewStyle().Height(max(m.height-m.footerHeight(), 1)).Render(msg)
	} else {
		side := sidebarStyle.Render(m.list.View())
		previewWidth := max(m.width-m.sidebarColumns()-3, 10)
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, " ", m.viewPreview(previewWidth))
	}
	return body
}

// viewPreview renders the selected session with its formatting
func (m Model) viewPreview(width int) string {
	sess, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(sess.Title))
	b.WriteString("\n")
	location := "not saved yet"
	if sess.FilePath != "" {
		location = sess.FilePath
	}
	b.WriteString(metaStyle.Render(fmt.Sprintf("%s • %s • edited %s",
		sess.Type.Label(), truncate(location, max(width-30, 10)), humanize.Time(sess.Updated))))
	b.WriteString("\n\n")

	height := max(m.height-m.footerHeight()-3, 1)
	b.WriteString(lipgloss.NewStyle().MaxHeight(height).Render(renderContent(sess.Content, width)))
	return b.String()
}

func suggestPath(sess models.Session) string {
	if sess.FilePath != "" {
		return sess.FilePath
	}
	return sess.Title + ".authbook"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
