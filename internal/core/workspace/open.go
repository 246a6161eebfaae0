package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/models"
	"github.com/neilberkman/authno/pkg/authbook"
	"go.uber.org/zap"
)

// ErrNotDocument is returned for open requests that do not name an .authbook file
var ErrNotDocument = errors.New("not an authbook document")

// HandleOpenRequest opens path as a new session, as when the host hands the
// program a file to open.
func (s *Store) HandleOpenRequest(ctx context.Context, path string) (models.Session, error) {
	if !authbook.IsPath(path) {
		return models.Session{}, fmt.Errorf("%w: %s", ErrNotDocument, path)
	}
	path = docfile.CanonicalPath(path)
	if err := ctx.Err(); err != nil {
		return models.Session{}, err
	}
	if s.gateway == nil {
		return models.Session{}, errors.New("no document gateway configured")
	}

	if s.holdsPath(path) {
		s.Notify(LevelWarning, NoticeAlreadyOpen)
		return models.Session{}, fmt.Errorf("%w: %s", ErrDuplicateOpen, path)
	}

	doc, err := s.gateway.ReadDocument(path)
	if err != nil {
		s.log.Warn("open failed", zap.String("path", path), zap.Error(err))
		s.Notify(LevelError, NoticeOpenFailed)
		return models.Session{}, err
	}
	return s.openRead(doc)
}

// OpenWithChooser lets the gateway pick the file, as the open menu action does
func (s *Store) OpenWithChooser(ctx context.Context) (models.Session, error) {
	if s.gateway == nil {
		return models.Session{}, errors.New("no document gateway configured")
	}
	doc, err := s.gateway.OpenDocument(ctx)
	if errors.Is(err, docfile.ErrCancelled) {
		return models.Session{}, err
	}
	if err != nil {
		s.log.Warn("open failed", zap.Error(err))
		s.Notify(LevelError, NoticeOpenFailed)
		return models.Session{}, err
	}
	return s.openRead(doc)
}

func (s *Store) openRead(doc docfile.Document) (models.Session, error) {
	sess, err := s.OpenDocument(doc)
	if errors.Is(err, ErrDuplicateOpen) {
		s.Notify(LevelWarning, NoticeAlreadyOpen)
	}
	if err != nil {
		return models.Session{}, err
	}
	s.log.Info("opened document", zap.String("id", sess.ID), zap.String("path", doc.FilePath))
	return sess, nil
}

func (s *Store) holdsPath(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathHolderLocked(path) != ""
}
