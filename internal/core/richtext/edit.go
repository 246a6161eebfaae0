package richtext

// Splice replaces the text in r with text. Inserted runes take the marks of
// the rune before the range, so typing at the end of a bold word stays bold.
func Splice(d Document, r Range, text string) Document {
	r = r.normalize(d.Len())
	inherit := caretRun(d, r.Start)

	out := make([]Run, 0, len(d.Runs)+2)
	pos := 0
	inserted := false
	insert := func() {
		if !inserted {
			out = append(out, Run{Text: text, Marks: inherit.Marks, Group: inherit.Group})
			inserted = true
		}
	}
	for _, run := range d.Runs {
		runes := []rune(run.Text)
		end := pos + len(runes)
		if end <= r.Start {
			out = append(out, run)
			pos = end
			continue
		}
		if pos >= r.End {
			insert()
			out = append(out, run)
			pos = end
			continue
		}
		lo := max(r.Start-pos, 0)
		hi := min(r.End-pos, len(runes))
		if lo > 0 {
			out = append(out, Run{Text: string(runes[:lo]), Marks: run.Marks, Group: run.Group})
		}
		insert()
		if hi < len(runes) {
			out = append(out, Run{Text: string(runes[hi:]), Marks: run.Marks, Group: run.Group})
		}
		pos = end
	}
	insert()
	return normalize(out)
}

// Retext rewrites d so its plain text becomes text. The change is treated as
// one contiguous edit between the longest common prefix and suffix, and marks
// outside it survive.
func Retext(d Document, text string) Document {
	old := []rune(d.Text())
	next := []rune(text)

	prefix := 0
	for prefix < len(old) && prefix < len(next) && old[prefix] == next[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(next)-prefix &&
		old[len(old)-1-suffix] == next[len(next)-1-suffix] {
		suffix++
	}
	if prefix == len(old) && prefix == len(next) {
		return d
	}

	replacement := string(next[prefix : len(next)-suffix])
	return Splice(d, Range{Start: prefix, End: len(old) - suffix}, replacement)
}

// Offset converts a line and rune column of text into a document offset.
// Columns past the end of a line clamp to the line break.
func Offset(text string, line, col int) int {
	pos, current, n := 0, 0, 0
	for _, r := range text {
		if current == line {
			if r == '\n' || n == col {
				return pos
			}
			n++
		} else if r == '\n' {
			current++
		}
		pos++
	}
	return pos
}
