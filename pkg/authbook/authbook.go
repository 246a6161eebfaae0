// Package authbook reads and writes .authbook files: one JSON document per
// file holding a book or storyboard.
package authbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Extension identifies files this application opens on double-click
const Extension = ".authbook"

// DefaultName is offered by save-as choosers
const DefaultName = "Untitled" + Extension

// ErrInvalid is returned when a file is not a valid serialized document
var ErrInvalid = errors.New("invalid authbook document")

// File is the serialized form of a document
type File struct {
	ID      string    `json:"id,omitempty"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Preview string    `json:"preview,omitempty"`
	Type    string    `json:"type"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// rawFile tolerates older files written with extra fields (filePath) or
// missing timestamps.
type rawFile struct {
	ID      string          `json:"id"`
	Title   *string         `json:"title"`
	Content *string         `json:"content"`
	Preview string          `json:"preview"`
	Type    string          `json:"type"`
	Created json.RawMessage `json:"created"`
	Updated json.RawMessage `json:"updated"`
}

// IsPath reports whether path has the authbook extension
func IsPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// Decode reads one document
func Decode(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var raw rawFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if raw.Content == nil {
		return nil, fmt.Errorf("%w: missing content", ErrInvalid)
	}

	f := &File{
		ID:      raw.ID,
		Content: *raw.Content,
		Preview: raw.Preview,
		Type:    raw.Type,
	}
	if raw.Title != nil {
		f.Title = *raw.Title
	}
	switch f.Type {
	case "":
		f.Type = "book"
	case "book", "storyboard":
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, f.Type)
	}

	if f.Created, err = parseTime(raw.Created); err != nil {
		return nil, fmt.Errorf("%w: created: %v", ErrInvalid, err)
	}
	if f.Updated, err = parseTime(raw.Updated); err != nil {
		return nil, fmt.Errorf("%w: updated: %v", ErrInvalid, err)
	}

	return f, nil
}

func parseTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var t time.Time
	if err := json.Unmarshal(raw, &t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Encode writes one document as indented JSON
func Encode(w io.Writer, f *File) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// ParseFile reads the document at path
func ParseFile(path string) (f *File, err error) {
	file, ferr := os.Open(path)
	if ferr != nil {
		return nil, fmt.Errorf("failed to open file: %w", ferr)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	return Decode(file)
}

// WriteFile replaces the document at path. The data goes to a temp file in
// the same directory first so a failed write never truncates the original.
func WriteFile(path string, f *File) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}
	return nil
}
