package restore

import (
	"context"
	"testing"
	"time"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/internal/core/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	files   map[string]docfile.Document
	corrupt map[string]bool
}

func (g *fakeGateway) OpenDocument(context.Context) (docfile.Document, error) {
	return docfile.Document{}, docfile.ErrCancelled
}

func (g *fakeGateway) SaveDocument(context.Context, string, docfile.Document) error {
	return docfile.ErrWrite
}

func (g *fakeGateway) ChooseSavePath(context.Context) (string, error) {
	return "", docfile.ErrCancelled
}

func (g *fakeGateway) PathExists(path string) bool {
	_, ok := g.files[path]
	return ok || g.corrupt[path]
}

func (g *fakeGateway) ReadDocument(path string) (docfile.Document, error) {
	if g.corrupt[path] {
		return docfile.Document{}, docfile.ErrParse
	}
	doc, ok := g.files[path]
	if !ok {
		return docfile.Document{}, docfile.ErrNotFound
	}
	return doc, nil
}

type memRepo struct {
	snap models.Snapshot
}

func (r *memRepo) LoadSnapshot() (models.Snapshot, error) { return r.snap, nil }

func (r *memRepo) SaveSnapshot(s models.Snapshot) error {
	r.snap = s
	return nil
}

var updated = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func cached(id, title, path string) models.Session {
	return models.Session{ID: id, Title: title, Content: "stale", Preview: "stale...", FilePath: path, Type: models.TypeBook}
}

func TestReconcileMissingFile(t *testing.T) {
	gw := &fakeGateway{files: map[string]docfile.Document{
		"/a.authbook": {Title: "A from disk", Content: "<b>fresh</b>", Type: models.TypeBook, Updated: updated, FilePath: "/a.authbook"},
	}}
	r := NewReconciler(gw, nil)

	res, err := r.Reconcile(context.Background(), []models.Session{
		cached("a", "A", "/a.authbook"),
		cached("b", "B's title", "/b.authbook"),
	})
	require.NoError(t, err)

	require.Len(t, res.Valid, 1)
	a := res.Valid[0]
	assert.Equal(t, "a", a.ID)
	assert.Equal(t, "A from disk", a.Title)
	assert.Equal(t, "<b>fresh</b>", a.Content)
	assert.Equal(t, "fresh...", a.Preview)
	assert.Equal(t, "/a.authbook", a.FilePath)
	assert.Equal(t, updated, a.Updated)

	assert.Equal(t, []string{`⚠️ Book "B's title" was not found on your system.`}, res.Warnings)
}

func TestReconcileCorruptFile(t *testing.T) {
	gw := &fakeGateway{corrupt: map[string]bool{"/c.authbook": true}}
	r := NewReconciler(gw, nil)

	res, err := r.Reconcile(context.Background(), []models.Session{cached("c", "<Chapter & Verse>", "/c.authbook")})
	require.NoError(t, err)

	assert.Empty(t, res.Valid)
	assert.Equal(t, []string{`⚠️ Could not open "<Chapter & Verse>" (corrupted or unreadable).`}, res.Warnings)
}

func TestReconcileLocalOnly(t *testing.T) {
	gw := &fakeGateway{}
	local := cached("l", "Draft", "")

	r := NewReconciler(gw, nil)
	res, err := r.Reconcile(context.Background(), []models.Session{local})
	require.NoError(t, err)
	assert.Empty(t, res.Valid)
	assert.Empty(t, res.Warnings)

	r.IncludeLocalOnly = true
	res, err = r.Reconcile(context.Background(), []models.Session{local})
	require.NoError(t, err)
	assert.Equal(t, []models.Session{local}, res.Valid)
}

func TestReconcileDedupesByPath(t *testing.T) {
	gw := &fakeGateway{files: map[string]docfile.Document{
		"/a.authbook": {Title: "A", Content: "x", Type: models.TypeBook},
	}}
	r := NewReconciler(gw, nil)

	res, err := r.Reconcile(context.Background(), []models.Session{
		cached("first", "A", "/a.authbook"),
		cached("second", "A", "/a.authbook"),
	})
	require.NoError(t, err)
	require.Len(t, res.Valid, 1)
	assert.Equal(t, "first", res.Valid[0].ID)
	assert.Empty(t, res.Warnings)
}

func TestReconcileIsIdempotent(t *testing.T) {
	gw := &fakeGateway{files: map[string]docfile.Document{
		"/a.authbook": {Title: "A", Content: "a", Type: models.TypeStoryboard},
	}}
	r := NewReconciler(gw, nil)
	r.IncludeLocalOnly = true
	input := []models.Session{cached("a", "A", "/a.authbook"), cached("b", "B", "/gone.authbook"), cached("l", "L", "")}

	first, err := r.Reconcile(context.Background(), input)
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Feeding the output back in changes nothing either
	again, err := r.Reconcile(context.Background(), first.Valid)
	require.NoError(t, err)
	assert.Equal(t, first.Valid, again.Valid)
}

func TestReconcileHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReconciler(&fakeGateway{}, nil).Reconcile(ctx, []models.Session{cached("a", "A", "/a.authbook")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCustomTemplate(t *testing.T) {
	r := NewReconciler(&fakeGateway{}, nil)
	r.MissingTemplate = "gone: {{title}}"

	res, err := r.Reconcile(context.Background(), []models.Session{cached("a", "A", "/a.authbook")})
	require.NoError(t, err)
	assert.Equal(t, []string{"gone: A"}, res.Warnings)
}

func TestMergeSkipsOpenSessions(t *testing.T) {
	store := workspace.New(workspace.Options{})
	existing := store.CreateSession(models.TypeBook)
	require.NoError(t, store.AttachFilePath(existing.ID, "/open.authbook"))

	res := Result{
		Valid: []models.Session{
			cached("r1", "R1", "/r1.authbook"),
			cached("r2", "R2", "/open.authbook"),
		},
		Warnings: []string{"w"},
	}

	assert.Equal(t, 1, Merge(store, res))
	assert.Equal(t, []string{"r1", existing.ID}, store.Order())
	assert.Equal(t, []workspace.Notice{{Level: workspace.LevelWarning, Text: "w"}}, store.Notices())

	assert.Equal(t, 0, Merge(store, res))
	assert.Equal(t, 2, store.Len())
}

func TestRun(t *testing.T) {
	gw := &fakeGateway{files: map[string]docfile.Document{
		"/a.authbook": {Title: "A", Content: "a", Type: models.TypeBook},
	}}
	repo := &memRepo{snap: models.Snapshot{
		Sessions:  []models.Session{cached("a", "A", "/a.authbook"), cached("l", "Local", ""), cached("b", "B", "/b.authbook")},
		CurrentID: "l",
	}}
	store := workspace.New(workspace.Options{Repo: repo})
	r := NewReconciler(gw, nil)
	r.IncludeLocalOnly = true

	res, err := Run(context.Background(), repo, store, r)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, []string{"a", "l"}, store.Order())
	assert.Equal(t, "l", store.CurrentID())
	assert.Len(t, store.Notices(), 1)
	// The cache now reflects the restored workspace
	assert.Len(t, repo.snap.Sessions, 2)
	assert.Equal(t, "l", repo.snap.CurrentID)
}

func TestRunDropsEveryMissingSession(t *testing.T) {
	repo := &memRepo{snap: models.Snapshot{
		Sessions:  []models.Session{cached("b", "B", "/b.authbook"), cached("c", "C", "/c.authbook")},
		CurrentID: "b",
	}}
	store := workspace.New(workspace.Options{Repo: repo})

	res, err := Run(context.Background(), repo, store, NewReconciler(&fakeGateway{}, nil))
	require.NoError(t, err)

	assert.Empty(t, res.Valid)
	assert.Len(t, res.Warnings, 2)
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, repo.snap.Sessions)
	assert.Empty(t, repo.snap.CurrentID)

	// A second launch finds nothing left to warn about
	res, err = Run(context.Background(), repo, workspace.New(workspace.Options{Repo: repo}), NewReconciler(&fakeGateway{}, nil))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestReconcileFillsOmittedFields(t *testing.T) {
	created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	gw := &fakeGateway{files: map[string]docfile.Document{
		"/bare.authbook": {Content: "text", Type: models.TypeStoryboard},
	}}
	stale := cached("s", "Old title", "/bare.authbook")
	stale.Type = models.TypeStoryboard
	stale.Created = created
	stale.Updated = updated

	res, err := NewReconciler(gw, nil).Reconcile(context.Background(), []models.Session{stale})
	require.NoError(t, err)

	require.Len(t, res.Valid, 1)
	got := res.Valid[0]
	assert.Equal(t, models.DefaultTitle(models.TypeStoryboard), got.Title)
	assert.Equal(t, created, got.Created)
	assert.Equal(t, updated, got.Updated)
	assert.Equal(t, "text", got.Content)
}
