// Package workspace owns the open sessions, their display order and the
// current selection. Every mutation is written through to the cache.
package workspace

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/layout"
	"github.com/neilberkman/authno/internal/core/models"
	"go.uber.org/zap"
)

var (
	ErrDuplicateOpen   = errors.New("document is already open")
	ErrSessionNotFound = errors.New("session not found")
	ErrSaveInFlight    = errors.New("a save is already running for this session")
)

// SessionRepository persists the workspace snapshot between runs
type SessionRepository interface {
	LoadSnapshot() (models.Snapshot, error)
	SaveSnapshot(models.Snapshot) error
}

// Prefs holds the user preferences the store consults
type Prefs interface {
	SkipDeleteWarning() bool
	SetSkipDeleteWarning(skip bool) error
}

// Level is the severity of a Notice
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notice is a message meant for the user
type Notice struct {
	Level Level
	Text  string
}

// User-facing notice texts
const (
	NoticeAlreadyOpen = "This book is already open!"
	NoticeOpenFailed  = "⚠️ Book could not be opened."
	NoticeSaveFailed  = "⚠️ Save failed. Check file permissions or try 'Save As'."
)

// Options configures a Store. Every field is optional.
type Options struct {
	Repo    SessionRepository
	Prefs   Prefs
	Gateway docfile.Gateway
	Log     *zap.Logger
	Now     func() time.Time
}

// Store is the in-memory session collection
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	order     *layout.Order
	currentID string
	notices   []Notice

	repo    SessionRepository
	prefs   Prefs
	gateway docfile.Gateway
	log     *zap.Logger
	now     func() time.Time
}

// New creates an empty store
func New(opts Options) *Store {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*models.Session),
		order:    layout.NewOrder(nil),
		repo:     opts.Repo,
		prefs:    opts.Prefs,
		gateway:  opts.Gateway,
		log:      log,
		now:      now,
	}
}

// CreateSession adds a new unsaved session at the front and selects it
func (s *Store) CreateSession(t models.Type) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := models.NewSession(t, s.now())
	s.sessions[sess.ID] = &sess
	s.order.Prepend(sess.ID)
	s.currentID = sess.ID
	s.commitLocked("create")

	s.log.Debug("created session", zap.String("id", sess.ID), zap.String("type", string(sess.Type)))
	return sess
}

// SelectSession makes id current. Unknown ids clear the selection.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		id = ""
	}
	if s.currentID == id {
		return
	}
	s.currentID = id
	s.commitLocked("select")
}

// RenameSession sets the title of id. Unknown ids are ignored.
func (s *Store) RenameSession(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.SetTitle(title, s.now())
	s.commitLocked("rename")
}

// EditContent replaces the body of id and refreshes its preview. Unknown ids
// are ignored.
func (s *Store) EditContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return
	}
	sess.SetContent(content, s.now())
	s.commitLocked("edit")
}

// ApplyContent commits a document produced by a formatting command
func (s *Store) ApplyContent(id, content string) {
	s.EditContent(id, content)
}

// DeleteSession removes id from the workspace. The backing file is untouched.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return
	}
	delete(s.sessions, id)
	s.order.Remove(id)
	if s.currentID == id {
		s.currentID = ""
	}
	s.commitLocked("delete")
}

// AttachFilePath records that id is now backed by path
func (s *Store) AttachFilePath(id, path string) error {
	path = docfile.CanonicalPath(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.canAttachLocked(id, path); err != nil {
		return err
	}
	sess := s.sessions[id]
	if sess.FilePath == path {
		return nil
	}
	sess.FilePath = path
	s.commitLocked("attach")
	return nil
}

// OpenDocument adds a document read from disk as a new selected session
func (s *Store) OpenDocument(doc docfile.Document) (models.Session, error) {
	doc.FilePath = docfile.CanonicalPath(doc.FilePath)

	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.FilePath != "" && s.pathHolderLocked(doc.FilePath) != "" {
		return models.Session{}, fmt.Errorf("%w: %s", ErrDuplicateOpen, doc.FilePath)
	}

	t := doc.Type
	if !t.Valid() {
		t = models.TypeBook
	}
	sess := models.NewSession(t, s.now())
	if doc.Title != "" {
		sess.Title = doc.Title
	}
	sess.Content = doc.Content
	sess.FilePath = doc.FilePath
	if !doc.Created.IsZero() {
		sess.Created = doc.Created
	}
	if !doc.Updated.IsZero() {
		sess.Updated = doc.Updated
	}
	sess.Preview = models.MakePreview(sess.Content, models.DefaultPreviewLength)

	s.sessions[sess.ID] = &sess
	s.order.Prepend(sess.ID)
	s.currentID = sess.ID
	s.commitLocked("open")
	return sess, nil
}

// PrependSessions inserts sessions ahead of the existing ones, keeping their
// relative order. Sessions whose id or file path is already present are
// skipped. It returns the number added.
func (s *Store) PrependSessions(sessions []models.Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, sess := range sessions {
		sess.FilePath = docfile.CanonicalPath(sess.FilePath)
		if _, ok := s.sessions[sess.ID]; ok || sess.ID == "" {
			continue
		}
		if sess.FilePath != "" && s.pathHolderLocked(sess.FilePath) != "" {
			continue
		}
		copied := sess
		s.sessions[copied.ID] = &copied
		added = append(added, copied.ID)
	}
	if len(added) == 0 {
		return 0
	}

	// Prepend in reverse so the batch keeps its order at the front
	for i := len(added) - 1; i >= 0; i-- {
		s.order.Prepend(added[i])
	}
	s.commitLocked("merge")
	return len(added)
}

// Persist writes the current workspace to the repository even when nothing
// changed in memory, so a cache holding sessions the store dropped is
// brought in line.
func (s *Store) Persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked("persist")
}

// Move reorders the session at index from to index to
func (s *Store) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.order.Move(from, to) {
		return false
	}
	s.commitLocked("move")
	return true
}

// Reorder replaces the order with ids, which must be a permutation of the
// current sessions.
func (s *Store) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := layout.NewOrder(ids)
	if err := next.Verify(s.idSetLocked()); err != nil {
		return err
	}
	s.order = next
	s.commitLocked("reorder")
	return nil
}

// Order returns the session ids in display order
func (s *Store) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.IDs()
}

// Get returns a copy of session id
func (s *Store) Get(id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Session{}, false
	}
	return *sess, true
}

// Current returns the selected session, if any
func (s *Store) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return models.Session{}, false
	}
	return *s.sessions[s.currentID], true
}

// CurrentID returns the selected id or ""
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Sessions returns copies of all sessions in display order
func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionsLocked()
}

// Len is the number of open sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Filter returns sessions whose title contains query, ignoring case
func (s *Store) Filter(query string) []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sessionsLocked()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	var matches []models.Session
	for _, sess := range all {
		if strings.Contains(strings.ToLower(sess.Title), query) {
			matches = append(matches, sess)
		}
	}
	return matches
}

// Snapshot returns the persisted view of the store
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Notify queues a notice for the user
func (s *Store) Notify(level Level, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{Level: level, Text: text})
}

// Notices drains queued notices
func (s *Store) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}

func (s *Store) sessionsLocked() []models.Session {
	out := make([]models.Session, 0, s.order.Len())
	for _, id := range s.order.IDs() {
		out = append(out, *s.sessions[id])
	}
	return out
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{Sessions: s.sessionsLocked(), CurrentID: s.currentID}
}

// CanAttach reports the error AttachFilePath would return, without changing
// anything
func (s *Store) CanAttach(id, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAttachLocked(id, path)
}

func (s *Store) canAttachLocked(id, path string) error {
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if holder := s.pathHolderLocked(path); holder != "" && holder != id {
		return fmt.Errorf("%w: %s", ErrDuplicateOpen, path)
	}
	return nil
}

// pathHolderLocked returns the session backed by path. Stored paths are
// already canonical.
func (s *Store) pathHolderLocked(path string) string {
	if path == "" {
		return ""
	}
	path = docfile.CanonicalPath(path)
	for id, sess := range s.sessions {
		if sess.FilePath == path {
			return id
		}
	}
	return ""
}

func (s *Store) idSetLocked() map[string]bool {
	ids := make(map[string]bool, len(s.sessions))
	for id := range s.sessions {
		ids[id] = true
	}
	return ids
}

// commitLocked checks the order still matches the collection and writes the
// snapshot to the repository. Cache failures are logged and otherwise ignored.
func (s *Store) commitLocked(op string) {
	if err := s.order.Verify(s.idSetLocked()); err != nil {
		panic(fmt.Sprintf("workspace %s: %v", op, err))
	}
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveSnapshot(s.snapshotLocked()); err != nil {
		s.log.Warn("failed to persist workspace", zap.String("op", op), zap.Error(err))
	}
}
