package workspace

import (
	"fmt"

	"go.uber.org/zap"
)

// Confirmation texts for removing a session from the workspace
const (
	DeleteTitle = "Delete from Workspace?"
	DeleteBody  = "Deleting this book here will only remove it from your workspace.\nThe actual .authbook file will remain on your computer."
)

// DeleteRequest tells the caller whether to ask before deleting. When
// NeedsConfirmation is false the session has already been removed.
type DeleteRequest struct {
	ID                string
	Title             string
	Body              string
	NeedsConfirmation bool
}

// RequestDelete starts removing id. With the warning disabled it deletes at once.
func (s *Store) RequestDelete(id string) (DeleteRequest, error) {
	if _, ok := s.Get(id); !ok {
		return DeleteRequest{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if s.prefs != nil && s.prefs.SkipDeleteWarning() {
		s.DeleteSession(id)
		return DeleteRequest{ID: id}, nil
	}

	return DeleteRequest{
		ID:                id,
		Title:             DeleteTitle,
		Body:              DeleteBody,
		NeedsConfirmation: true,
	}, nil
}

// ConfirmDelete finishes a request. dontAskAgain only sticks when confirmed.
func (s *Store) ConfirmDelete(id string, confirmed, dontAskAgain bool) {
	if !confirmed {
		return
	}
	if dontAskAgain && s.prefs != nil {
		if err := s.prefs.SetSkipDeleteWarning(true); err != nil {
			s.log.Warn("failed to store delete preference", zap.Error(err))
		}
	}
	s.DeleteSession(id)
}
