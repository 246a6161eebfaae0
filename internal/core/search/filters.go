package search

import (
	"strings"
	"time"

	"github.com/neilberkman/authno/internal/core/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Filters represents parsed filters from a session filter query
type Filters struct {
	Query      string      // Title text to match
	Type       models.Type // Empty matches both
	AfterDate  time.Time   // Only sessions edited after this date
	BeforeDate time.Time   // Only sessions edited before this date
	HasAfter   bool
	HasBefore  bool
	Saved      *bool // Only sessions with (true) or without (false) a backing file
}

// ParseQuery extracts filters from a query string
// Supports:
//   - type:book, type:storyboard
//   - after:yesterday, before:2024-11-01, date:last-week (same as after:)
//   - saved:yes, saved:no
func ParseQuery(query string) Filters {
	return parseQuery(query, time.Now())
}

func parseQuery(query string, now time.Time) Filters {
	filters := Filters{}
	w := newParser()

	var queryParts []string
	for _, token := range strings.Fields(query) {
		key, value, found := strings.Cut(token, ":")
		if !found || value == "" {
			queryParts = append(queryParts, token)
			continue
		}

		switch strings.ToLower(key) {
		case "type":
			if t, err := models.ParseType(strings.ToLower(value)); err == nil {
				filters.Type = t
			}
		case "date", "after":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.AfterDate = *parsed
				filters.HasAfter = true
			}
		case "before":
			if parsed := parseDate(w, value, now); parsed != nil {
				filters.BeforeDate = *parsed
				filters.HasBefore = true
			}
		case "saved":
			saved := value == "yes" || value == "true"
			filters.Saved = &saved
		default:
			queryParts = append(queryParts, token)
		}
	}

	filters.Query = strings.Join(queryParts, " ")
	return filters
}

// Match reports whether s passes every filter. Title matching ignores case.
func (f Filters) Match(s models.Session) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(s.Title), strings.ToLower(f.Query)) {
		return false
	}
	if f.Type != "" && s.Type != f.Type {
		return false
	}
	if f.HasAfter && s.Updated.Before(f.AfterDate) {
		return false
	}
	if f.HasBefore && !s.Updated.Before(f.BeforeDate) {
		return false
	}
	if f.Saved != nil && (s.FilePath != "") != *f.Saved {
		return false
	}
	return true
}

// Apply keeps the sessions matching f, preserving order
func (f Filters) Apply(sessions []models.Session) []models.Session {
	var out []models.Session
	for _, s := range sessions {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// ParseDate reads a natural language or numeric date relative to now
func ParseDate(s string) (time.Time, bool) {
	parsed := parseDate(newParser(), s, time.Now())
	if parsed == nil {
		return time.Time{}, false
	}
	return *parsed, true
}

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDate tries fixed layouts first, then natural language
func parseDate(w *when.Parser, dateStr string, now time.Time) *time.Time {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			return &t
		}
	}

	// Tokens can't hold spaces, so last-week means "last week"
	natural := strings.ReplaceAll(dateStr, "-", " ")
	if result, err := w.Parse(natural, now); err == nil && result != nil {
		return &result.Time
	}

	return nil
}
