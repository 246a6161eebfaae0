// Package richtext models session content as a sequence of text runs, each
// carrying a set of inline marks. Markup is parsed into this model, edited as
// values, and rendered back to canonical markup.
package richtext

import (
	"strings"
	"unicode/utf8"
)

// Mark is a single inline formatting attribute
type Mark uint8

const (
	Bold Mark = 1 << iota
	Italic
	Underline
	Highlight
)

var markNames = map[Mark]string{
	Bold:      "bold",
	Italic:    "italic",
	Underline: "underline",
	Highlight: "highlight",
}

func (m Mark) String() string {
	if name, ok := markNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMark maps a mark name to a Mark
func ParseMark(name string) (Mark, bool) {
	for m, n := range markNames {
		if n == name {
			return m, true
		}
	}
	return 0, false
}

// MarkSet holds each mark at most once, so annotations of one kind can never
// nest or overlap within a run.
type MarkSet uint8

// Has reports whether m is in the set
func (s MarkSet) Has(m Mark) bool { return s&MarkSet(m) != 0 }

// With returns the set with m added
func (s MarkSet) With(m Mark) MarkSet { return s | MarkSet(m) }

// Without returns the set with m removed
func (s MarkSet) Without(m Mark) MarkSet { return s &^ MarkSet(m) }

// Run is a span of text sharing one mark set. Group tells highlight spans
// apart: neighbouring highlighted runs belong to the same span only when
// their groups match. It is 0 on runs without a highlight.
type Run struct {
	Text  string
	Marks MarkSet
	Group int
}

// Document is the rich-text body of a session
type Document struct {
	Runs []Run
}

// Range is a selection in rune offsets over the document's plain text.
// End is exclusive.
type Range struct {
	Start int
	End   int
}

// Collapsed reports whether the range selects nothing
func (r Range) Collapsed() bool { return r.Start == r.End }

// Len is the number of selected runes
func (r Range) Len() int { return r.End - r.Start }

// Clamp orders the range and limits it to a document of n runes
func (r Range) Clamp(n int) Range { return r.normalize(n) }

func (r Range) normalize(limit int) Range {
	if r.Start > r.End {
		r.Start, r.End = r.End, r.Start
	}
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > limit {
		r.End = limit
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

// Len is the number of runes in the document
func (d Document) Len() int {
	n := 0
	for _, run := range d.Runs {
		n += utf8.RuneCountInString(run.Text)
	}
	return n
}

// Text is the document's plain text, line breaks as "\n"
func (d Document) Text() string {
	var b strings.Builder
	for _, run := range d.Runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// Equal reports whether two documents have the same runs
func (d Document) Equal(other Document) bool {
	if len(d.Runs) != len(other.Runs) {
		return false
	}
	for i := range d.Runs {
		if d.Runs[i] != other.Runs[i] {
			return false
		}
	}
	return true
}

// Span is a maximal stretch of text carrying a mark
type Span struct {
	Range
	Mark Mark
}

// Spans returns the maximal contiguous ranges carrying mark m. Separate
// highlight spans that touch are reported separately.
func (d Document) Spans(m Mark) []Span {
	var spans []Span
	pos := 0
	open, group := -1, 0
	for _, run := range d.Runs {
		n := utf8.RuneCountInString(run.Text)
		if open >= 0 && (!run.Marks.Has(m) || (m == Highlight && run.Group != group)) {
			spans = append(spans, Span{Range: Range{open, pos}, Mark: m})
			open = -1
		}
		if run.Marks.Has(m) && open < 0 {
			open, group = pos, run.Group
		}
		pos += n
	}
	if open >= 0 {
		spans = append(spans, Span{Range: Range{open, pos}, Mark: m})
	}
	return spans
}

// runAt returns the run holding the rune at pos
func (d Document) runAt(pos int) (Run, bool) {
	offset := 0
	for _, run := range d.Runs {
		n := utf8.RuneCountInString(run.Text)
		if pos < offset+n {
			return run, true
		}
		offset += n
	}
	return Run{}, false
}

// maxGroup is the highest highlight group in use
func (d Document) maxGroup() int {
	g := 0
	for _, run := range d.Runs {
		g = max(g, run.Group)
	}
	return g
}

// covered reports whether every rune in r carries m. Empty ranges are not covered.
func (d Document) covered(r Range, m Mark) bool {
	if r.Collapsed() {
		return false
	}
	pos := 0
	for _, run := range d.Runs {
		n := utf8.RuneCountInString(run.Text)
		end := pos + n
		if end > r.Start && pos < r.End && !run.Marks.Has(m) {
			return false
		}
		pos = end
	}
	return true
}

// setMark adds or removes m over r and returns a normalized copy
func (d Document) setMark(r Range, m Mark, on bool) Document {
	return normalize(d.mark(r, m, on, d.maxGroup()+1))
}

// mark splits runs at the edges of r and adds or removes m inside it. Runs
// gaining a highlight join group.
func (d Document) mark(r Range, m Mark, on bool, group int) []Run {
	out := make([]Run, 0, len(d.Runs)+2)
	pos := 0
	for _, run := range d.Runs {
		runes := []rune(run.Text)
		end := pos + len(runes)
		if end <= r.Start || pos >= r.End {
			out = append(out, run)
			pos = end
			continue
		}

		lo := max(r.Start-pos, 0)
		hi := min(r.End-pos, len(runes))

		inner := Run{Text: string(runes[lo:hi]), Marks: run.Marks.With(m), Group: run.Group}
		switch {
		case !on:
			inner.Marks = run.Marks.Without(m)
			if m == Highlight {
				inner.Group = 0
			}
		case m == Highlight:
			inner.Group = group
		}

		if lo > 0 {
			out = append(out, Run{Text: string(runes[:lo]), Marks: run.Marks, Group: run.Group})
		}
		out = append(out, inner)
		if hi < len(runes) {
			out = append(out, Run{Text: string(runes[hi:]), Marks: run.Marks, Group: run.Group})
		}
		pos = end
	}
	return out
}

// normalize drops empty runs, coalesces neighbours with equal marks and
// renumbers highlight groups 1, 2, ... in document order.
func normalize(runs []Run) Document {
	out := make([]Run, 0, len(runs))
	src, id := 0, 0
	inSpan := false
	for _, run := range runs {
		if run.Text == "" {
			continue
		}
		if run.Marks.Has(Highlight) {
			if !inSpan || run.Group != src {
				src = run.Group
				id++
			}
			run.Group = id
			inSpan = true
		} else {
			run.Group = 0
			inSpan = false
		}
		if last := len(out) - 1; last >= 0 && out[last].Marks == run.Marks && out[last].Group == run.Group {
			out[last].Text += run.Text
			continue
		}
		out = append(out, run)
	}
	return Document{Runs: out}
}

// FromText builds an unannotated document
func FromText(text string) Document {
	return normalize([]Run{{Text: text}})
}
