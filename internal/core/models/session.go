package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neilberkman/authno/internal/core/richtext"
)

// Type is the kind of work a session holds. It is fixed at creation.
type Type string

const (
	TypeBook       Type = "book"
	TypeStoryboard Type = "storyboard"
)

// DefaultPreviewLength is the number of plain-text characters kept in a preview
const DefaultPreviewLength = 60

// Valid reports whether t is a known session type
func (t Type) Valid() bool {
	return t == TypeBook || t == TypeStoryboard
}

// Label is the human name used in lists and warnings
func (t Type) Label() string {
	if t == TypeStoryboard {
		return "Storyboard"
	}
	return "Book"
}

// ParseType maps user input to a Type, defaulting to book
func ParseType(s string) (Type, error) {
	switch s {
	case "", "book":
		return TypeBook, nil
	case "storyboard", "board":
		return TypeStoryboard, nil
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// Session is one open book or storyboard
type Session struct {
	ID       string
	Title    string
	Content  string // Rich-text markup, authoritative body
	Preview  string // Derived from Content, never set directly
	FilePath string // Empty until first saved
	Type     Type
	Created  time.Time
	Updated  time.Time
}

// NewSession creates an unsaved session with the type's placeholder title and preview
func NewSession(t Type, now time.Time) Session {
	if !t.Valid() {
		t = TypeBook
	}
	return Session{
		ID:      uuid.NewString(),
		Title:   DefaultTitle(t),
		Preview: placeholderPreview(t),
		Type:    t,
		Created: now,
		Updated: now,
	}
}

// DefaultTitle returns the placeholder title for a new session of type t
func DefaultTitle(t Type) string {
	if t == TypeStoryboard {
		return "Untitled Storyboard"
	}
	return "Untitled Book"
}

func placeholderPreview(t Type) string {
	if t == TypeStoryboard {
		return "Visual outline..."
	}
	return "A new story..."
}

// SetContent replaces the body and recomputes the preview
func (s *Session) SetContent(content string, now time.Time) {
	s.Content = content
	s.Preview = MakePreview(content, DefaultPreviewLength)
	s.Updated = now
}

// SetTitle replaces the title
func (s *Session) SetTitle(title string, now time.Time) {
	s.Title = title
	s.Updated = now
}

// RefreshPreview recomputes Preview from Content. Fresh sessions with no
// content keep their placeholder.
func (s *Session) RefreshPreview() {
	if s.Content == "" && s.Preview == placeholderPreview(s.Type) {
		return
	}
	s.Preview = MakePreview(s.Content, DefaultPreviewLength)
}

// MakePreview strips markup and truncates to n characters followed by an ellipsis
func MakePreview(content string, n int) string {
	text := []rune(richtext.PlainText(content))
	if len(text) > n {
		text = text[:n]
	}
	return string(text) + "..."
}

// Validate checks if the session has required fields
func (s *Session) Validate() error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("invalid type %q", s.Type)
	}
	return nil
}
