package authbook

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseFile(t *testing.T) {
	f, err := ParseFile("testdata/sample.authbook")
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if f.Title != "The Lighthouse" {
		t.Errorf("Title = %v, want 'The Lighthouse'", f.Title)
	}
	if f.Type != "book" {
		t.Errorf("Type = %v, want 'book'", f.Type)
	}
	if !strings.HasPrefix(f.Content, "<b>Chapter one</b>") {
		t.Errorf("Content = %q", f.Content)
	}
	want := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)
	if !f.Created.Equal(want) {
		t.Errorf("Created = %v, want %v", f.Created, want)
	}
}

func TestParseFile_InvalidPath(t *testing.T) {
	_, err := ParseFile("nonexistent.authbook")
	if err == nil {
		t.Error("ParseFile() should return error for invalid path")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestParseFile_Corrupt(t *testing.T) {
	_, err := ParseFile("testdata/corrupt.authbook")
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "missing type defaults to book", input: `{"title":"a","content":""}`, want: "book"},
		{name: "storyboard", input: `{"title":"a","content":"","type":"storyboard"}`, want: "storyboard"},
		{name: "unknown type", input: `{"content":"","type":"poem"}`, wantErr: true},
		{name: "missing content", input: `{"title":"a"}`, wantErr: true},
		{name: "not an object", input: `[1,2]`, wantErr: true},
		{name: "bad timestamp", input: `{"content":"","created":"yesterday"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("error = %v, want ErrInvalid", err)
				}
				return
			}
			if f.Type != tt.want {
				t.Errorf("Type = %v, want %v", f.Type, tt.want)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.authbook")
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &File{
		ID:      "abc",
		Title:   "Round & Trip",
		Content: `<b>x</b> <span style="background-color: rgba(255, 255, 0, 0.3);">y</span>`,
		Type:    "storyboard",
		Created: now,
		Updated: now.Add(time.Hour),
	}

	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("\n  \"title\": \"Round & Trip\"")) {
		t.Errorf("expected indented, unescaped JSON, got:\n%s", data)
	}

	out, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if out.Title != in.Title || out.Content != in.Content || out.Type != in.Type {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
	if !out.Updated.Equal(in.Updated) {
		t.Errorf("Updated = %v, want %v", out.Updated, in.Updated)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "book.authbook")
	if err := WriteFile(path, &File{Title: "x"}); err == nil {
		t.Error("WriteFile() should fail when the directory does not exist")
	}
}

func TestIsPath(t *testing.T) {
	if !IsPath("/x/My Book.AUTHBOOK") {
		t.Error("IsPath should be case-insensitive")
	}
	if IsPath("/x/notes.txt") {
		t.Error("IsPath should reject other extensions")
	}
}
