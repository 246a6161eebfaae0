package search

import (
	"os"
	"testing"
	"time"

	"github.com/neilberkman/authno/internal/core/db"
	"github.com/neilberkman/authno/internal/core/models"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(tmpfile.Name()) })
	_ = tmpfile.Close()

	database, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestSearch(t *testing.T) {
	database := newTestDB(t)
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	snap := models.Snapshot{Sessions: []models.Session{
		{ID: "s1", Title: "Dragons of Autumn", Content: "The <b>dragon</b> slept under the mountain", Type: models.TypeBook, Updated: base},
		{ID: "s2", Title: "Garden Notes", Content: "Roses, tulips and a lone dragon-fly", Type: models.TypeStoryboard, Updated: base.Add(time.Hour)},
		{ID: "s3", Title: "Receipts", Content: "Paid $40 for ink", Type: models.TypeBook, Updated: base.Add(2 * time.Hour)},
	}}
	if err := database.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"stemmed word", "dragons", []string{"s2", "s1"}},
		{"title only", "autumn", []string{"s1"}},
		{"markup not indexed", "b", nil},
		{"hyphen uses substring", "dragon-fly", []string{"s2"}},
		{"dollar uses substring", "$40", []string{"s3"}},
		{"no match", "submarine", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Search(database, tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(results) != len(tt.want) {
				t.Fatalf("got %d results, want %d: %+v", len(results), len(tt.want), results)
			}
			for i, r := range results {
				if r.SessionID != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, r.SessionID, tt.want[i])
				}
			}
		})
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	database := newTestDB(t)
	if _, err := Search(database, "   "); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestParseQuery(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     string
		wantQuery string
		wantType  models.Type
		wantAfter bool
		wantSaved *bool
	}{
		{"plain", "my novel", "my novel", "", false, nil},
		{"type", "type:storyboard plan", "plan", models.TypeStoryboard, false, nil},
		{"bad type kept out", "type:poem x", "x", "", false, nil},
		{"after date", "after:2024-06-01 notes", "notes", "", true, nil},
		{"natural date", "date:yesterday", "", "", true, nil},
		{"saved", "saved:no", "", "", false, ptr(false)},
		{"unknown key is text", "chapter:one", "chapter:one", "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseQuery(tt.query, now)
			if f.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", f.Query, tt.wantQuery)
			}
			if f.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", f.Type, tt.wantType)
			}
			if f.HasAfter != tt.wantAfter {
				t.Errorf("HasAfter = %v, want %v", f.HasAfter, tt.wantAfter)
			}
			if (f.Saved == nil) != (tt.wantSaved == nil) || (f.Saved != nil && *f.Saved != *tt.wantSaved) {
				t.Errorf("Saved = %v, want %v", f.Saved, tt.wantSaved)
			}
		})
	}
}

func TestFiltersApply(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{ID: "old", Title: "Old Book", Type: models.TypeBook, Updated: now.AddDate(0, -2, 0), FilePath: "/old.authbook"},
		{ID: "new", Title: "New Book", Type: models.TypeBook, Updated: now.Add(-time.Hour)},
		{ID: "board", Title: "Plot Board", Type: models.TypeStoryboard, Updated: now.Add(-time.Hour)},
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"old", "new", "board"}},
		{"book", []string{"old", "new"}},
		{"type:book", []string{"old", "new"}},
		{"after:2024-06-01", []string{"new", "board"}},
		{"before:2024-06-01", []string{"old"}},
		{"saved:yes", []string{"old"}},
		{"type:storyboard saved:no", []string{"board"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := parseQuery(tt.query, now).Apply(sessions)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sessions, want %d", len(got), len(tt.want))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Errorf("session %d = %s, want %s", i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if _, ok := ParseDate("2024-11-01"); !ok {
		t.Error("expected ISO date to parse")
	}
	if _, ok := ParseDate("yesterday"); !ok {
		t.Error("expected natural date to parse")
	}
	if _, ok := ParseDate("qwerty"); ok {
		t.Error("expected garbage to fail")
	}
}

func ptr(b bool) *bool { return &b }
