package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/authno/internal/core/layout"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/restore"
	"github.com/neilberkman/authno/internal/core/search"
	"github.com/neilberkman/authno/internal/core/watch"
	"github.com/neilberkman/authno/internal/core/workspace"
	"go.uber.org/zap"
)

type viewMode int

const (
	listView viewMode = iota
	editorView
	layoutView
	promptView
	confirmView
	helpView
)

// maxNotices is how many notices stay on screen
const maxNotices = 4

// cellUnits converts the sidebar width preference into terminal columns
const cellUnits = 8

// SidebarPrefs persists the sidebar width
type SidebarPrefs interface {
	SidebarWidth(fallback int) int
	SetSidebarWidth(w int) error
}

// Options wires the model to the workspace. Store and Saver are required.
type Options struct {
	Context    context.Context
	Store      *workspace.Store
	Saver      *workspace.Saver
	Repo       workspace.SessionRepository // Restored from on Init when set
	Reconciler *restore.Reconciler
	Restored   func(restore.Result) // Called once the restore pass finishes
	Prefs      SidebarPrefs
	Chooser    *PathChooser
	Watcher    *watch.Watcher
	OpenPath   string // File handed to the program on launch

	AutoscrollMargin int
	AutoscrollStep   int

	Log *zap.Logger
}

type Model struct {
	ctx        context.Context
	store      *workspace.Store
	saver      *workspace.Saver
	repo       workspace.SessionRepository
	reconciler *restore.Reconciler
	restored   func(restore.Result)
	prefs      SidebarPrefs
	chooser    *PathChooser
	watcher    *watch.Watcher
	openPath   string
	log        *zap.Logger

	mode    viewMode
	prev    viewMode // Where prompts and help return to
	list    list.Model
	editor  *editor
	input   textinput.Model
	prompt  promptKind
	reorder *reorder

	pending deletion
	filter  string
	sidebar int // Logical units, see layout.ClampWidth

	notices   []workspace.Notice
	status    string
	restoring bool
	width     int
	height    int
	err       error
}

// deletion is the confirmation dialog state
type deletion struct {
	request      workspace.DeleteRequest
	title        string // Session being removed
	dontAskAgain bool
}

func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	chooser := opts.Chooser
	if chooser == nil {
		chooser = &PathChooser{}
	}

	sidebar := layout.DefaultSidebarWidth
	if opts.Prefs != nil {
		sidebar = layout.ClampWidth(opts.Prefs.SidebarWidth(layout.DefaultSidebarWidth))
	}

	input := textinput.New()
	input.CharLimit = 1024

	return Model{
		ctx:        ctx,
		store:      opts.Store,
		saver:      opts.Saver,
		repo:       opts.Repo,
		reconciler: opts.Reconciler,
		restored:   opts.Restored,
		prefs:      opts.Prefs,
		chooser:    chooser,
		watcher:    opts.Watcher,
		openPath:   opts.OpenPath,
		log:        log,
		mode:       listView,
		list:       newSessionList(nil, 0, 0),
		editor:     newEditor(),
		input:      input,
		reorder:    newReorder(opts.AutoscrollMargin, opts.AutoscrollStep),
		sidebar:    sidebar,
		restoring:  opts.Repo != nil && opts.Reconciler != nil,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForScroll(m.reorder.ticks)}
	if m.restoring {
		cmds = append(cmds, restoreWorkspace(m.ctx, m.repo, m.store, m.reconciler))
	} else {
		cmds = append(cmds, func() tea.Msg { return restoredMsg{} })
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForWatch(m.watcher.Events()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			cmd := m.quit()
			return m, cmd
		}
		if m.err != nil {
			if msg.String() == "q" {
				cmd := m.quit()
				return m, cmd
			}
			m.err = nil
			return m, nil
		}

		// Mode-specific key handling
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case editorView:
			return m.updateEditor(msg)
		case layoutView:
			return m.updateLayout(msg)
		case promptView:
			return m.updatePrompt(msg)
		case confirmView:
			return m.updateConfirm(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case tea.MouseMsg:
		if m.mode == layoutView {
			return m.updateLayoutMouse(msg)
		}
		return m, nil

	case restoredMsg:
		m.restoring = false
		if msg.err != nil {
			m.log.Error("restore failed", zap.Error(msg.err))
			m.store.Notify(workspace.LevelError, "⚠️ Workspace could not be restored.")
		} else if m.restored != nil && m.repo != nil {
			m.restored(msg.result)
		}
		m.collectNotices()
		m.refresh()
		m.track()
		if m.openPath != "" {
			path := m.openPath
			m.openPath = ""
			return m, openDocument(m.ctx, m.store, path)
		}
		return m, nil

	case openedMsg:
		switch {
		case msg.err == nil:
			m.status = fmt.Sprintf("Opened %q", msg.session.Title)
			m.track()
		case errors.Is(msg.err, workspace.ErrNotDocument):
			m.status = "Only .authbook files can be opened"
		}
		m.collectNotices()
		m.refresh()
		return m, nil

	case savedMsg:
		switch msg.result.Outcome {
		case workspace.Saved:
			m.status = "Saved to " + msg.result.Path
			m.track()
		case workspace.Cancelled:
			m.status = "Save cancelled"
		case workspace.Rejected:
			m.status = "A save is already running for this session"
		case workspace.Failed:
			m.status = ""
		}
		m.collectNotices()
		m.refresh()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.log.Warn("clipboard copy failed", zap.Error(msg.err))
		}
		m.status = msg.message
		return m, nil

	case watchMsg:
		m.handleWatch(msg.event)
		return m, waitForWatch(m.watcher.Events())

	case scrollMsg:
		m.scrollLayout(msg.delta)
		return m, waitForScroll(m.reorder.ticks)

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress any key to continue, q to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case editorView:
		return m.viewEditor()
	case layoutView:
		return m.viewLayout()
	case promptView:
		return m.viewPrompt()
	case confirmView:
		return m.viewConfirm()
	case helpView:
		return m.viewHelp()
	}

	return ""
}

// quit stops background work and leaves the program
func (m *Model) quit() tea.Cmd {
	if m.mode == editorView {
		m.commitEditor()
	}
	m.reorder.scroller.Close()
	return tea.Quit
}

// visibleSessions is the workspace order, narrowed by the active filter
func (m *Model) visibleSessions() []models.Session {
	sessions := m.store.Sessions()
	if m.filter == "" {
		return sessions
	}
	return search.ParseQuery(m.filter).Apply(sessions)
}

// refresh rebuilds the list from the store, keeping the cursor on the same session
func (m *Model) refresh() {
	keep := m.selectedID()
	sessions := m.visibleSessions()
	current := m.store.CurrentID()

	items := make([]list.Item, len(sessions))
	idx := m.list.Index()
	for i, s := range sessions {
		items[i] = sessionListItem{session: s, current: s.ID == current}
		if s.ID == keep {
			idx = i
		}
	}
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// focus moves the list cursor to id
func (m *Model) focus(id string) {
	for i, item := range m.list.Items() {
		if s, ok := item.(sessionListItem); ok && s.session.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) selectedID() string {
	if s, ok := m.list.SelectedItem().(sessionListItem); ok {
		return s.session.ID
	}
	return ""
}

func (m *Model) selected() (models.Session, bool) {
	id := m.selectedID()
	if id == "" {
		return models.Session{}, false
	}
	return m.store.Get(id)
}

// collectNotices drains the store's queue into the on-screen list
func (m *Model) collectNotices() {
	m.notices = append(m.notices, m.store.Notices()...)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
	m.resize()
}

// track points the watcher at the file-backed sessions
func (m *Model) track() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Track(m.store.Sessions()); err != nil {
		m.log.Warn("failed to watch session files", zap.Error(err))
	}
}

func (m *Model) handleWatch(ev watch.Event) {
	sess, ok := m.store.Get(ev.SessionID)
	if !ok {
		return
	}
	switch ev.Kind {
	case watch.Removed:
		m.store.Notify(workspace.LevelWarning,
			fmt.Sprintf("⚠️ %q was moved or deleted on disk.", sess.Title))
		m.collectNotices()
	case watch.Changed:
		m.status = fmt.Sprintf("%q changed on disk", sess.Title)
	}
}

// sidebarColumns is the list pane width in terminal columns
func (m *Model) sidebarColumns() int {
	cols := layout.ClampWidth(m.sidebar) / cellUnits
	if m.width > 0 && cols > m.width/2 {
		cols = m.width / 2
	}
	return cols
}

// resizeSidebar nudges the sidebar and persists the clamped width
func (m *Model) resizeSidebar(delta int) {
	w := layout.ClampWidth(m.sidebar + delta)
	if w == m.sidebar {
		return
	}
	m.sidebar = w
	if m.prefs != nil {
		if err := m.prefs.SetSidebarWidth(w); err != nil {
			m.log.Warn("failed to save sidebar width", zap.Error(err))
		}
	}
	m.resize()
}

func (m *Model) resize() {
	footer := m.footerHeight()
	m.list.SetSize(m.sidebarColumns(), max(m.height-footer, 1))
	m.editor.resize(m.width, m.height-footer)
	m.input.Width = max(m.width-20, 10)
}

// footerHeight is the help and status lines plus any notices
func (m *Model) footerHeight() int {
	return 2 + len(m.notices)
}

// footer renders notices, the status line and a help line
func (m *Model) footer(help string) string {
	var lines []string
	for _, n := range m.notices {
		lines = append(lines, noticeStyle(n.Level).Render(n.Text))
	}
	status := m.status
	if m.restoring {
		status = "⏳ Restoring workspace..."
	}
	lines = append(lines, metaStyle.Render(status), helpStyle.Render(help))
	return strings.Join(lines, "\n")
}
