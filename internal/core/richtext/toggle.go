package richtext

import "unicode/utf8"

// ToggleHighlight flips the highlight annotation over r and reports whether
// the range is highlighted afterwards.
//
// A collapsed range changes nothing. A range lying entirely inside one
// highlight span removes that whole span. Any other range becomes a new span,
// absorbing the spans it overlaps. Spans that only touch the range stay
// separate.
func ToggleHighlight(d Document, r Range) (Document, bool) {
	r = r.normalize(d.Len())
	if r.Collapsed() {
		return d, IsHighlighted(d, r)
	}

	for _, span := range d.Spans(Highlight) {
		if span.Start <= r.Start && r.End <= span.End {
			return d.setMark(span.Range, Highlight, false), false
		}
	}
	return d.highlight(r), true
}

func (d Document) highlight(r Range) Document {
	absorbed := make(map[int]bool)
	pos := 0
	for _, run := range d.Runs {
		end := pos + utf8.RuneCountInString(run.Text)
		if run.Marks.Has(Highlight) && end > r.Start && pos < r.End {
			absorbed[run.Group] = true
		}
		pos = end
	}

	group := d.maxGroup() + 1
	runs := d.mark(r, Highlight, true, group)
	for i := range runs {
		if runs[i].Marks.Has(Highlight) && absorbed[runs[i].Group] {
			runs[i].Group = group
		}
	}
	return normalize(runs)
}

// ToggleHighlightMarkup parses markup, toggles r and renders the result
func ToggleHighlightMarkup(markup string, r Range) (string, bool, error) {
	doc, err := Parse(markup)
	if err != nil {
		return markup, false, err
	}
	out, on := ToggleHighlight(doc, r)
	return Render(out), on, nil
}

// ToggleMark flips a plain format mark (bold, italic, underline) over r: if
// every selected rune already carries it the mark is removed, otherwise it is
// applied to the whole range.
func ToggleMark(d Document, r Range, m Mark) (Document, bool) {
	if m == Highlight {
		return ToggleHighlight(d, r)
	}
	r = r.normalize(d.Len())
	if r.Collapsed() {
		return d, Selection(d, r).Has(m)
	}
	if d.covered(r, m) {
		return d.setMark(r, m, false), false
	}
	return d.setMark(r, m, true), true
}

// IsHighlighted reports whether r lies inside a single highlight span. For a
// collapsed range it reports the mark of the rune before the caret.
func IsHighlighted(d Document, r Range) bool {
	r = r.normalize(d.Len())
	if r.Collapsed() {
		return caretMarks(d, r.Start).Has(Highlight)
	}
	for _, span := range d.Spans(Highlight) {
		if span.Start <= r.Start && r.End <= span.End {
			return true
		}
	}
	return false
}

func caretMarks(d Document, pos int) MarkSet {
	return caretRun(d, pos).Marks
}

// caretRun is the run a caret at pos types into: the one before it
func caretRun(d Document, pos int) Run {
	if pos > 0 {
		pos--
	}
	run, _ := d.runAt(pos)
	return run
}

// SelectionState is what a toolbar needs to show pressed buttons. It is
// derived from a document and a range, never read from a live editor.
type SelectionState struct {
	Range     Range
	Bold      bool
	Italic    bool
	Underline bool
	Highlight bool
}

// Has reports the state of one mark
func (s SelectionState) Has(m Mark) bool {
	switch m {
	case Bold:
		return s.Bold
	case Italic:
		return s.Italic
	case Underline:
		return s.Underline
	case Highlight:
		return s.Highlight
	}
	return false
}

// Selection computes the toolbar state for r
func Selection(d Document, r Range) SelectionState {
	r = r.normalize(d.Len())
	state := SelectionState{Range: r}
	if r.Collapsed() {
		marks := caretMarks(d, r.Start)
		state.Bold = marks.Has(Bold)
		state.Italic = marks.Has(Italic)
		state.Underline = marks.Has(Underline)
		state.Highlight = marks.Has(Highlight)
		return state
	}
	state.Bold = d.covered(r, Bold)
	state.Italic = d.covered(r, Italic)
	state.Underline = d.covered(r, Underline)
	state.Highlight = IsHighlighted(d, r)
	return state
}
