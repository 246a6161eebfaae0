package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hl = `<span style="` + DefaultHighlight.CSS() + `">`

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []Run
	}{
		{
			name:   "plain",
			markup: "hello",
			want:   []Run{{Text: "hello"}},
		},
		{
			name:   "bold and plain",
			markup: "<b>Hello</b> world",
			want:   []Run{{Text: "Hello", Marks: MarkSet(Bold)}, {Text: " world"}},
		},
		{
			name:   "strong and em",
			markup: "<strong>a</strong><em>b</em>",
			want:   []Run{{Text: "a", Marks: MarkSet(Bold)}, {Text: "b", Marks: MarkSet(Italic)}},
		},
		{
			name:   "browser highlight span",
			markup: `x<span style="background-color: rgba(255, 255, 0, 0.3); padding: 2px;">y</span>`,
			want:   []Run{{Text: "x"}, {Text: "y", Marks: MarkSet(Highlight), Group: 1}},
		},
		{
			name:   "adjacent highlight spans stay apart",
			markup: hl + "a</span>" + hl + "b</span>",
			want: []Run{
				{Text: "a", Marks: MarkSet(Highlight), Group: 1},
				{Text: "b", Marks: MarkSet(Highlight), Group: 2},
			},
		},
		{
			name:   "bold inside a highlight is one span",
			markup: hl + "a<b>b</b></span>",
			want: []Run{
				{Text: "a", Marks: MarkSet(Highlight), Group: 1},
				{Text: "b", Marks: MarkSet(Highlight | Bold), Group: 1},
			},
		},
		{
			name:   "other spans are transparent",
			markup: `<span style="color: red">a</span>b`,
			want:   []Run{{Text: "ab"}},
		},
		{
			name:   "line breaks",
			markup: "one<br>two<div>three</div>",
			want:   []Run{{Text: "one\ntwo\nthree"}},
		},
		{
			name:   "entities",
			markup: "a &amp; b &lt;c&gt;",
			want:   []Run{{Text: "a & b <c>"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.markup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Runs)
		})
	}
}

func TestRenderIsStable(t *testing.T) {
	inputs := []string{
		"<b>Hello</b> world",
		"a<br>" + hl + "<b>b</b></span>c",
		"quote &#34;x&#34; &amp; y",
		hl + "a</span>" + hl + "b</span>",
		"",
	}
	for _, in := range inputs {
		first := Render(MustParse(in))
		second := Render(MustParse(first))
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestRenderKeepsQuotesAndSpaces(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"apostrophe", "it's fine", "it's fine"},
		{"double quote", `say "hi"`, `say "hi"`},
		{"specials", "a &amp; b &lt;c&gt;", "a &amp; b &lt;c&gt;"},
		{"one span per highlight", hl + "a<b>b</b>c</span>", hl + "a<b>b</b>c</span>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(MustParse(tt.markup)))
		})
	}
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("<strong>a</strong> it's")
	require.NoError(t, err)
	assert.Equal(t, "<b>a</b> it's", got)

	again, _, err := ToggleHighlightMarkup(got, Range{0, 1})
	require.NoError(t, err)
	back, _, err := ToggleHighlightMarkup(again, Range{0, 1})
	require.NoError(t, err)
	assert.Equal(t, got, back)
}

func TestToggleHighlightApplies(t *testing.T) {
	doc := FromText("hello world")

	out, on := ToggleHighlight(doc, Range{Start: 6, End: 11})

	assert.True(t, on)
	assert.Equal(t, "hello "+hl+"world</span>", Render(out))
}

func TestToggleHighlightRemoves(t *testing.T) {
	doc := MustParse("hello " + hl + "world</span>")

	out, on := ToggleHighlight(doc, Range{Start: 7, End: 9})

	assert.False(t, on)
	assert.Equal(t, "hello world", Render(out))
}

func TestToggleHighlightCollapsedIsNoop(t *testing.T) {
	doc := MustParse("ab" + hl + "cd</span>")

	out, on := ToggleHighlight(doc, Range{Start: 3, End: 3})
	assert.True(t, out.Equal(doc))
	assert.True(t, on)

	out, on = ToggleHighlight(doc, Range{Start: 1, End: 1})
	assert.True(t, out.Equal(doc))
	assert.False(t, on)
}

func TestToggleHighlightInvolution(t *testing.T) {
	inputs := []struct {
		markup string
		r      Range
	}{
		{"hello world", Range{0, 5}},
		{"<b>Hello</b> world", Range{2, 8}},
		{"line one<br>line two", Range{5, 13}},
		{"<i>a</i><u>b</u>c", Range{0, 3}},
		{hl + "he</span>llo world", Range{2, 5}},
		{"hello " + hl + "world</span>", Range{0, 6}},
		{hl + "ab</span>cd" + hl + "ef</span>", Range{2, 4}},
		{"it's " + hl + "fine</span>", Range{0, 4}},
	}

	for _, in := range inputs {
		before := Render(MustParse(in.markup))

		once, on := ToggleHighlight(MustParse(before), in.r)
		require.True(t, on)
		twice, on := ToggleHighlight(once, in.r)
		require.False(t, on)

		assert.Equal(t, before, Render(twice), "input %q", in.markup)
	}
}

func TestToggleHighlightPartialOverlapMerges(t *testing.T) {
	doc := MustParse("ab" + hl + "cd</span>ef")

	out, on := ToggleHighlight(doc, Range{Start: 3, End: 5})

	assert.True(t, on)
	spans := out.Spans(Highlight)
	require.Len(t, spans, 1)
	assert.Equal(t, Range{Start: 2, End: 5}, spans[0].Range)
	assert.Equal(t, "ab"+hl+"cde</span>f", Render(out))
}

func TestToggleHighlightNextToSpanStaysSeparate(t *testing.T) {
	doc, _ := ToggleHighlight(FromText("hello world"), Range{0, 2})

	out, on := ToggleHighlight(doc, Range{2, 5})
	require.True(t, on)
	assert.Equal(t, []Span{
		{Range: Range{0, 2}, Mark: Highlight},
		{Range: Range{2, 5}, Mark: Highlight},
	}, out.Spans(Highlight))
	assert.Equal(t, hl+"he</span>"+hl+"llo</span> world", Render(out))

	out, on = ToggleHighlight(out, Range{0, 2})
	assert.False(t, on)
	assert.Equal(t, "he"+hl+"llo</span> world", Render(out))
}

func TestToggleHighlightNeverNests(t *testing.T) {
	doc := FromText("abcdefgh")
	doc, _ = ToggleHighlight(doc, Range{1, 3})
	doc, _ = ToggleHighlight(doc, Range{5, 7})
	doc, _ = ToggleHighlight(doc, Range{0, 8})

	rendered := Render(doc)
	assert.Equal(t, 1, strings.Count(rendered, "<span"))
	assert.Len(t, doc.Spans(Highlight), 1)
}

func TestToggleHighlightClampsRange(t *testing.T) {
	doc := FromText("abc")
	out, on := ToggleHighlight(doc, Range{Start: 5, End: -2})

	assert.True(t, on)
	assert.Equal(t, hl+"abc</span>", Render(out))
}

func TestToggleHighlightMarkup(t *testing.T) {
	out, on, err := ToggleHighlightMarkup("<b>Hi</b> there", Range{0, 2})
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, hl+"<b>Hi</b></span> there", out)
}

func TestToggleMark(t *testing.T) {
	doc := MustParse("<b>ab</b>cd")

	out, on := ToggleMark(doc, Range{0, 4}, Bold)
	assert.True(t, on)
	assert.Equal(t, "<b>abcd</b>", Render(out))

	out, on = ToggleMark(out, Range{0, 4}, Bold)
	assert.False(t, on)
	assert.Equal(t, "abcd", Render(out))
}

func TestSelection(t *testing.T) {
	doc := MustParse("<b>bold " + hl + "both</span></b> plain")

	state := Selection(doc, Range{5, 9})
	assert.True(t, state.Bold)
	assert.True(t, state.Highlight)
	assert.False(t, state.Italic)

	state = Selection(doc, Range{0, 14})
	assert.False(t, state.Bold)
	assert.False(t, state.Highlight)

	state = Selection(doc, Range{7, 7})
	assert.True(t, state.Highlight)
	assert.True(t, state.Has(Bold))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world", PlainText("<b>Hello</b> world"))
	assert.Equal(t, "a & b", PlainText("a &amp; b"))
	assert.Equal(t, "", PlainText(""))
}

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want Range
	}{
		{"inside", Range{1, 3}, Range{1, 3}},
		{"reversed", Range{3, 1}, Range{1, 3}},
		{"past the end", Range{7, 9}, Range{4, 4}},
		{"negative", Range{-3, 2}, Range{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Clamp(4)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.True(t, Range{7, 9}.Clamp(4).Collapsed())
}
