package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/neilberkman/authno/internal/core/docfile"
	"go.uber.org/zap"
)

// Outcome is how a save attempt ended
type Outcome int

const (
	Saved Outcome = iota
	Cancelled
	Failed
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	case Rejected:
		return "rejected"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// SaveResult reports a finished save
type SaveResult struct {
	Outcome Outcome
	Path    string
	Err     error
}

// Saver writes sessions to their backing files. At most one save runs per
// session at a time.
type Saver struct {
	store   *Store
	gateway docfile.Gateway
	log     *zap.Logger

	// OnWrite, when set, is called with the target path just before each
	// write, so a file watcher can tell our saves from outside changes.
	OnWrite func(path string)

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewSaver creates a saver writing through gateway
func NewSaver(store *Store, gateway docfile.Gateway, log *zap.Logger) *Saver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Saver{
		store:    store,
		gateway:  gateway,
		log:      log,
		inFlight: make(map[string]bool),
	}
}

// Save writes id to its file, asking for a location first if it has none
func (sv *Saver) Save(ctx context.Context, id string) SaveResult {
	return sv.run(ctx, id, false)
}

// SaveAs always asks for a new location
func (sv *Saver) SaveAs(ctx context.Context, id string) SaveResult {
	return sv.run(ctx, id, true)
}

// Saving reports whether a save for id is running
func (sv *Saver) Saving(id string) bool {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.inFlight[id]
}

func (sv *Saver) run(ctx context.Context, id string, forceChoose bool) SaveResult {
	if !sv.acquire(id) {
		return SaveResult{Outcome: Rejected, Err: ErrSaveInFlight}
	}
	defer sv.release(id)

	// Snapshot before I/O; edits made meanwhile stay in the store
	sess, ok := sv.store.Get(id)
	if !ok {
		return SaveResult{Outcome: Failed, Err: fmt.Errorf("%w: %s", ErrSessionNotFound, id)}
	}
	doc := docfile.FromSession(sess)

	if sess.FilePath != "" && !forceChoose {
		if err := sv.write(ctx, sess.FilePath, doc); err != nil {
			return sv.fail(id, sess.FilePath, err)
		}
		return SaveResult{Outcome: Saved, Path: sess.FilePath}
	}

	path, err := sv.gateway.ChooseSavePath(ctx)
	if errors.Is(err, docfile.ErrCancelled) || errors.Is(err, context.Canceled) {
		return SaveResult{Outcome: Cancelled, Err: err}
	}
	if err != nil {
		return sv.fail(id, "", err)
	}
	path = docfile.CanonicalPath(path)

	// Another session's file is never overwritten
	if err := sv.store.CanAttach(id, path); err != nil {
		return sv.refuse(id, path, err)
	}
	if err := sv.write(ctx, path, doc); err != nil {
		return sv.fail(id, path, err)
	}
	if err := sv.store.AttachFilePath(id, path); err != nil {
		sv.log.Warn("saved but could not attach path", zap.String("id", id), zap.String("path", path), zap.Error(err))
		return sv.refuse(id, path, err)
	}

	sv.log.Info("saved session", zap.String("id", id), zap.String("path", path))
	return SaveResult{Outcome: Saved, Path: path}
}

func (sv *Saver) write(ctx context.Context, path string, doc docfile.Document) error {
	if sv.OnWrite != nil {
		sv.OnWrite(path)
	}
	return sv.gateway.SaveDocument(ctx, path, doc)
}

func (sv *Saver) fail(id, path string, err error) SaveResult {
	sv.log.Error("save failed", zap.String("id", id), zap.String("path", path), zap.Error(err))
	sv.store.Notify(LevelError, NoticeSaveFailed)
	return SaveResult{Outcome: Failed, Path: path, Err: err}
}

func (sv *Saver) refuse(id, path string, err error) SaveResult {
	if errors.Is(err, ErrDuplicateOpen) {
		sv.store.Notify(LevelWarning, NoticeAlreadyOpen)
	}
	sv.log.Warn("save refused", zap.String("id", id), zap.String("path", path), zap.Error(err))
	return SaveResult{Outcome: Failed, Path: path, Err: err}
}

func (sv *Saver) acquire(id string) bool {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.inFlight[id] {
		return false
	}
	sv.inFlight[id] = true
	return true
}

func (sv *Saver) release(id string) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	delete(sv.inFlight, id)
}
