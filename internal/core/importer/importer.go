// Package importer opens every .authbook file under a directory tree.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/neilberkman/authno/internal/core/workspace"
	"github.com/neilberkman/authno/pkg/authbook"
	"go.uber.org/zap"
)

// Stats counts what an import did
type Stats struct {
	Found       int
	Opened      int
	AlreadyOpen int
	Failed      int
}

// Importer opens backing files into a store
type Importer struct {
	store *workspace.Store
	log   *zap.Logger
}

// New creates a new importer
func New(store *workspace.Store, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, log: log}
}

// FindDocuments lists .authbook files under dirPath in lexical order
func FindDocuments(dirPath string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && authbook.IsPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ImportDirectory opens every document under dirPath. Files that are already
// open or unreadable are counted and skipped.
func (i *Importer) ImportDirectory(ctx context.Context, dirPath string, progress ProgressCallback) (Stats, error) {
	files, err := FindDocuments(dirPath)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Found: len(files)}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		abs, err := filepath.Abs(file)
		if err != nil {
			abs = file
		}

		sess, err := i.store.HandleOpenRequest(ctx, abs)
		label := filepath.Base(abs)
		switch {
		case err == nil:
			stats.Opened++
			label = sess.Title
		case errors.Is(err, workspace.ErrDuplicateOpen):
			stats.AlreadyOpen++
		default:
			i.log.Warn("import failed", zap.String("path", abs), zap.Error(err))
			stats.Failed++
		}

		if progress != nil {
			progress.Update(label, abs)
		}
	}

	if progress != nil {
		progress.Finish()
	}
	return stats, nil
}
