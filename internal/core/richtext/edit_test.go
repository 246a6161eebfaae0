package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplice(t *testing.T) {
	d := Document{Runs: []Run{
		{Text: "plain "},
		{Text: "bold", Marks: MarkSet(Bold)},
		{Text: " tail"},
	}}

	tests := []struct {
		name string
		r    Range
		text string
		want []Run
	}{
		{
			name: "insert inside bold inherits",
			r:    Range{8, 8},
			text: "XX",
			want: []Run{{Text: "plain "}, {Text: "boXXld", Marks: MarkSet(Bold)}, {Text: " tail"}},
		},
		{
			name: "replace across runs",
			r:    Range{4, 12},
			text: "--",
			want: []Run{{Text: "plai--ail"}},
		},
		{
			name: "delete only",
			r:    Range{6, 10},
			text: "",
			want: []Run{{Text: "plain  tail"}},
		},
		{
			name: "append at end",
			r:    Range{15, 15},
			text: "!",
			want: []Run{{Text: "plain "}, {Text: "bold", Marks: MarkSet(Bold)}, {Text: " tail!"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Splice(d, tt.r, tt.text)
			assert.Equal(t, tt.want, got.Runs)
		})
	}
}

func TestSpliceEmptyDocument(t *testing.T) {
	got := Splice(Document{}, Range{}, "hi")
	assert.Equal(t, "hi", got.Text())
}

func TestRetextKeepsMarksOutsideEdit(t *testing.T) {
	d, _ := ToggleHighlight(FromText("Hello world"), Range{0, 5})

	got := Retext(d, "Hello brave world")
	assert.Equal(t, "Hello brave world", got.Text())
	assert.Equal(t, []Span{{Range: Range{0, 5}, Mark: Highlight}}, got.Spans(Highlight))

	assert.True(t, Retext(d, "Hello world").Equal(d))
}

func TestOffset(t *testing.T) {
	text := "ab\ncdé\n\nf"
	tests := []struct {
		line, col, want int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{0, 9, 2},
		{1, 0, 3},
		{1, 3, 6},
		{2, 0, 7},
		{3, 1, 9},
		{7, 0, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Offset(text, tt.line, tt.col), "line %d col %d", tt.line, tt.col)
	}
}
