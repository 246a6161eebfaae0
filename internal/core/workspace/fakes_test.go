package workspace

import (
	"context"
	"sync"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/models"
)

type memRepo struct {
	mu    sync.Mutex
	snap  models.Snapshot
	saves int
	err   error
	skip  bool
}

func (r *memRepo) LoadSnapshot() (models.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap, nil
}

func (r *memRepo) SaveSnapshot(s models.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.err != nil {
		return r.err
	}
	r.snap = s
	return nil
}

func (r *memRepo) SkipDeleteWarning() bool { return r.skip }

func (r *memRepo) SetSkipDeleteWarning(skip bool) error {
	r.skip = skip
	return nil
}

// memGateway keeps documents in a map keyed by path
type memGateway struct {
	mu       sync.Mutex
	files    map[string]docfile.Document
	savePath string
	openPath string
	writeErr error
	// block, when set, holds SaveDocument until closed
	block   chan struct{}
	started chan struct{}
	writes  int
}

func newMemGateway() *memGateway {
	return &memGateway{files: make(map[string]docfile.Document)}
}

func (g *memGateway) put(path string, doc docfile.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc.FilePath = path
	g.files[path] = doc
}

func (g *memGateway) file(path string) (docfile.Document, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	doc, ok := g.files[path]
	return doc, ok
}

func (g *memGateway) OpenDocument(ctx context.Context) (docfile.Document, error) {
	if g.openPath == "" {
		return docfile.Document{}, docfile.ErrCancelled
	}
	return g.ReadDocument(g.openPath)
}

func (g *memGateway) SaveDocument(ctx context.Context, path string, doc docfile.Document) error {
	if g.started != nil {
		g.started <- struct{}{}
	}
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.writeErr != nil {
		return g.writeErr
	}
	doc.FilePath = path
	g.files[path] = doc
	g.writes++
	return nil
}

func (g *memGateway) ChooseSavePath(context.Context) (string, error) {
	if g.savePath == "" {
		return "", docfile.ErrCancelled
	}
	return g.savePath, nil
}

func (g *memGateway) PathExists(path string) bool {
	_, ok := g.file(path)
	return ok
}

func (g *memGateway) ReadDocument(path string) (docfile.Document, error) {
	doc, ok := g.file(path)
	if !ok {
		return docfile.Document{}, docfile.ErrNotFound
	}
	if doc.Content == "\x00corrupt" {
		return docfile.Document{}, docfile.ErrParse
	}
	return doc, nil
}
