// Package restore rebuilds the workspace from the cache, checking each
// cached session against its backing file.
package restore

import (
	"context"
	"fmt"

	"github.com/cbroglie/mustache"
	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/workspace"
	"go.uber.org/zap"
)

// Default warning templates. Triple braces keep titles unescaped.
const (
	DefaultMissingTemplate = `⚠️ Book "{{{title}}}" was not found on your system.`
	DefaultCorruptTemplate = `⚠️ Could not open "{{{title}}}" (corrupted or unreadable).`
)

// Result is the outcome of one restore pass
type Result struct {
	Valid    []models.Session
	Warnings []string
	Checked  int
}

// Reconciler checks cached sessions against the file system
type Reconciler struct {
	Gateway docfile.Gateway
	Log     *zap.Logger

	// IncludeLocalOnly keeps sessions that were never saved to a file
	IncludeLocalOnly bool

	MissingTemplate string
	CorruptTemplate string
}

// NewReconciler creates a reconciler with the default warning templates
func NewReconciler(gateway docfile.Gateway, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		Gateway:         gateway,
		Log:             log,
		MissingTemplate: DefaultMissingTemplate,
		CorruptTemplate: DefaultCorruptTemplate,
	}
}

// Reconcile returns the cached sessions whose backing files still load,
// refreshed from those files, plus one warning per dropped session.
// It reads but never writes.
func (r *Reconciler) Reconcile(ctx context.Context, cached []models.Session) (Result, error) {
	var res Result
	seen := make(map[string]bool)

	for _, sess := range cached {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res.Checked++
		sess.FilePath = docfile.CanonicalPath(sess.FilePath)

		if sess.FilePath == "" {
			if r.IncludeLocalOnly {
				res.Valid = append(res.Valid, sess)
			}
			continue
		}
		if seen[sess.FilePath] {
			continue
		}

		if !r.Gateway.PathExists(sess.FilePath) {
			r.Log.Info("backing file missing", zap.String("id", sess.ID), zap.String("path", sess.FilePath))
			res.Warnings = append(res.Warnings, r.warning(r.MissingTemplate, DefaultMissingTemplate, sess.Title))
			continue
		}

		doc, err := r.Gateway.ReadDocument(sess.FilePath)
		if err != nil {
			r.Log.Warn("backing file unreadable", zap.String("id", sess.ID), zap.String("path", sess.FilePath), zap.Error(err))
			res.Warnings = append(res.Warnings, r.warning(r.CorruptTemplate, DefaultCorruptTemplate, sess.Title))
			continue
		}

		seen[sess.FilePath] = true
		res.Valid = append(res.Valid, refresh(sess, doc))
	}

	return res, nil
}

// refresh replaces the persisted fields with the file's, keeping the cached id.
// Fields the file leaves out fall back the way opening a file does.
func refresh(cached models.Session, doc docfile.Document) models.Session {
	s := cached
	s.Type = doc.Type
	if !s.Type.Valid() {
		s.Type = models.TypeBook
	}
	s.Title = doc.Title
	if s.Title == "" {
		s.Title = models.DefaultTitle(s.Type)
	}
	s.Content = doc.Content
	if !doc.Created.IsZero() {
		s.Created = doc.Created
	}
	if !doc.Updated.IsZero() {
		s.Updated = doc.Updated
	}
	s.Preview = models.MakePreview(s.Content, models.DefaultPreviewLength)
	return s
}

func (r *Reconciler) warning(tmpl, fallback, title string) string {
	if tmpl == "" {
		tmpl = fallback
	}
	data := map[string]string{"title": title}
	out, err := mustache.Render(tmpl, data)
	if err != nil {
		r.Log.Warn("bad warning template, using default", zap.String("template", tmpl), zap.Error(err))
		out, err = mustache.Render(fallback, data)
		if err != nil {
			return fmt.Sprintf("⚠️ %s", title)
		}
	}
	return out
}

// Merge adds the valid sessions of res ahead of the store's sessions and
// queues its warnings as notices. Sessions already open are skipped, so
// merging the same result twice is harmless.
func Merge(store *workspace.Store, res Result) int {
	added := store.PrependSessions(res.Valid)
	for _, w := range res.Warnings {
		store.Notify(workspace.LevelWarning, w)
	}
	return added
}

// Run restores the cached snapshot in repo into store and reselects the
// cached current session when it survived. The cache is rewritten afterwards
// so dropped sessions do not warn again on the next launch.
func Run(ctx context.Context, repo workspace.SessionRepository, store *workspace.Store, r *Reconciler) (Result, error) {
	snap, err := repo.LoadSnapshot()
	if err != nil {
		return Result{}, fmt.Errorf("load cached workspace: %w", err)
	}

	res, err := r.Reconcile(ctx, snap.Sessions)
	if err != nil {
		return Result{}, err
	}

	Merge(store, res)
	if snap.CurrentID != "" {
		if _, ok := store.Get(snap.CurrentID); ok {
			store.SelectSession(snap.CurrentID)
		}
	}
	store.Persist()

	r.Log.Info("restored workspace",
		zap.Int("checked", res.Checked),
		zap.Int("restored", len(res.Valid)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}
