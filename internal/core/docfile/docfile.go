// Package docfile is the boundary between the workspace and backing files.
// Every failure crossing it is one of the sentinel errors below.
package docfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/pkg/authbook"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("backing file not found")
	ErrParse     = errors.New("backing file is not a valid document")
	ErrWrite     = errors.New("failed to write backing file")
	ErrCancelled = errors.New("cancelled")
)

// Document is what a backing file holds, plus where it lives
type Document struct {
	Title    string
	Content  string
	Type     models.Type
	Created  time.Time
	Updated  time.Time
	FilePath string
}

// CanonicalPath makes path absolute and clean, so every spelling of one file
// compares equal. Paths are compared as strings everywhere else.
func CanonicalPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// FromSession captures the persisted fields of a session
func FromSession(s models.Session) Document {
	return Document{
		Title:    s.Title,
		Content:  s.Content,
		Type:     s.Type,
		Created:  s.Created,
		Updated:  s.Updated,
		FilePath: s.FilePath,
	}
}

// Gateway is everything the workspace needs from the file system
type Gateway interface {
	OpenDocument(ctx context.Context) (Document, error)
	SaveDocument(ctx context.Context, path string, doc Document) error
	// ChooseSavePath asks where a new file should go without writing it
	ChooseSavePath(ctx context.Context) (string, error)
	PathExists(path string) bool
	ReadDocument(path string) (Document, error)
}

// Chooser stands in for native open/save dialogs. An empty path with a nil
// error means the user cancelled.
type Chooser interface {
	ChooseOpen(ctx context.Context) (string, error)
	ChooseSave(ctx context.Context, suggested string) (string, error)
}

// FS is a Gateway over the local file system
type FS struct {
	Chooser Chooser
	Log     *zap.Logger
}

// NewFS creates a file system gateway
func NewFS(chooser Chooser, log *zap.Logger) *FS {
	if log == nil {
		log = zap.NewNop()
	}
	return &FS{Chooser: chooser, Log: log}
}

// PathExists reports whether path names an existing regular file
func (f *FS) PathExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadDocument loads and parses the file at path
func (f *FS) ReadDocument(path string) (Document, error) {
	path = CanonicalPath(path)
	file, err := authbook.ParseFile(path)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return Document{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		case errors.Is(err, authbook.ErrInvalid):
			return Document{}, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		default:
			// unreadable (permissions, a directory) is recovered the same way as corrupt
			return Document{}, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		}
	}

	return Document{
		Title:    file.Title,
		Content:  file.Content,
		Type:     models.Type(file.Type),
		Created:  file.Created,
		Updated:  file.Updated,
		FilePath: path,
	}, nil
}

// OpenDocument asks the chooser for a file and reads it
func (f *FS) OpenDocument(ctx context.Context) (Document, error) {
	if f.Chooser == nil {
		return Document{}, ErrCancelled
	}
	path, err := f.Chooser.ChooseOpen(ctx)
	if err != nil {
		return Document{}, err
	}
	if path == "" {
		return Document{}, ErrCancelled
	}
	return f.ReadDocument(path)
}

// SaveDocument writes doc to an existing backing file location
func (f *FS) SaveDocument(ctx context.Context, path string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: no file path provided", ErrWrite)
	}

	file := &authbook.File{
		Title:   doc.Title,
		Content: doc.Content,
		Preview: models.MakePreview(doc.Content, models.DefaultPreviewLength),
		Type:    string(doc.Type),
		Created: doc.Created,
		Updated: doc.Updated,
	}
	if err := authbook.WriteFile(path, file); err != nil {
		f.Log.Error("save failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	f.Log.Info("saved document", zap.String("path", path), zap.String("title", doc.Title))
	return nil
}

// ChooseSavePath asks the chooser for a location, adding the extension when
// it is missing
func (f *FS) ChooseSavePath(ctx context.Context) (string, error) {
	if f.Chooser == nil {
		return "", ErrCancelled
	}
	path, err := f.Chooser.ChooseSave(ctx, authbook.DefaultName)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrCancelled
	}
	if !authbook.IsPath(path) {
		path += authbook.Extension
	}
	return CanonicalPath(path), nil
}

// SaveDocumentAs asks the chooser for a location and writes doc there
func (f *FS) SaveDocumentAs(ctx context.Context, doc Document) (string, error) {
	path, err := f.ChooseSavePath(ctx)
	if err != nil {
		return "", err
	}
	if err := f.SaveDocument(ctx, path, doc); err != nil {
		return "", err
	}
	return path, nil
}

// StaticChooser answers with fixed paths. The CLI uses it to turn arguments
// into dialog results.
type StaticChooser struct {
	OpenPath string
	SavePath string
}

func (c StaticChooser) ChooseOpen(context.Context) (string, error) { return c.OpenPath, nil }

func (c StaticChooser) ChooseSave(context.Context, string) (string, error) {
	return c.SavePath, nil
}
