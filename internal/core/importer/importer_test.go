package importer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neilberkman/authno/internal/core/docfile"
	"github.com/neilberkman/authno/internal/core/workspace"
	"github.com/neilberkman/authno/pkg/authbook"
)

func writeBook(t *testing.T, path, title string) {
	t.Helper()
	now := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	f := &authbook.File{Title: title, Content: "<p>" + title + "</p>", Type: "book", Created: now, Updated: now}
	if err := authbook.WriteFile(path, f); err != nil {
		t.Fatal(err)
	}
}

func TestImportDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "series"), 0755); err != nil {
		t.Fatal(err)
	}
	writeBook(t, filepath.Join(dir, "a.authbook"), "Alpha")
	writeBook(t, filepath.Join(dir, "series", "b.authbook"), "Beta")
	if err := os.WriteFile(filepath.Join(dir, "broken.authbook"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	store := workspace.New(workspace.Options{Gateway: docfile.NewFS(nil, nil)})
	var out bytes.Buffer
	imp := New(store, nil)

	stats, err := imp.ImportDirectory(context.Background(), dir, NewProgressReporter(&out, 3))
	if err != nil {
		t.Fatalf("ImportDirectory() error = %v", err)
	}

	if stats.Found != 3 || stats.Opened != 2 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if store.Len() != 2 {
		t.Errorf("store has %d sessions, want 2", store.Len())
	}
	if !bytes.Contains(out.Bytes(), []byte("Completed")) {
		t.Errorf("progress output missing completion line: %q", out.String())
	}

	// Second import finds everything already open
	stats, err = imp.ImportDirectory(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.AlreadyOpen != 2 || stats.Opened != 0 {
		t.Errorf("second import stats = %+v", stats)
	}
}

func TestFindDocuments(t *testing.T) {
	dir := t.TempDir()
	writeBook(t, filepath.Join(dir, "z.authbook"), "Z")
	writeBook(t, filepath.Join(dir, "A.AUTHBOOK"), "A")

	files, err := FindDocuments(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}
	if filepath.Base(files[0]) != "A.AUTHBOOK" {
		t.Errorf("files not sorted: %v", files)
	}
}

func TestFindDocumentsMissingDir(t *testing.T) {
	if _, err := FindDocuments(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
