package richtext

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HighlightStyle is the visual payload attached to every highlight annotation
type HighlightStyle struct {
	Background   string
	Padding      string
	BorderRadius string
}

// DefaultHighlight is the only highlight style the editor produces
var DefaultHighlight = HighlightStyle{
	Background:   "rgba(255, 255, 0, 0.3)",
	Padding:      "2px 2px",
	BorderRadius: "5px",
}

// CSS renders the style attribute value
func (s HighlightStyle) CSS() string {
	return fmt.Sprintf("background-color: %s; padding: %s; border-radius: %s;", s.Background, s.Padding, s.BorderRadius)
}

var stripPolicy = bluemonday.StrictPolicy()

// PlainText strips all markup and decodes entities
func PlainText(markup string) string {
	if markup == "" {
		return ""
	}
	return html.UnescapeString(stripPolicy.Sanitize(markup))
}

// Parse reads editor markup into a Document. Elements other than the known
// inline formats contribute their text only.
func Parse(markup string) (Document, error) {
	context := &nethtml.Node{Type: nethtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := nethtml.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return Document{}, fmt.Errorf("parse markup: %w", err)
	}

	p := &parser{}
	for _, n := range nodes {
		p.walk(n, 0, 0)
	}
	return normalize(p.runs), nil
}

// MustParse is Parse for markup known to be well formed
func MustParse(markup string) Document {
	doc, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

type parser struct {
	runs   []Run
	groups int
}

func (p *parser) text(s string, marks MarkSet, group int) {
	p.runs = append(p.runs, Run{Text: s, Marks: marks, Group: group})
}

// enterHighlight gives each outermost highlight element its own group
func (p *parser) enterHighlight(marks MarkSet, group int) (MarkSet, int) {
	if marks.Has(Highlight) {
		return marks, group
	}
	p.groups++
	return marks.With(Highlight), p.groups
}

func (p *parser) endsWithBreak() bool {
	if len(p.runs) == 0 {
		return true
	}
	return strings.HasSuffix(p.runs[len(p.runs)-1].Text, "\n")
}

func (p *parser) walk(n *nethtml.Node, marks MarkSet, group int) {
	switch n.Type {
	case nethtml.TextNode:
		p.text(n.Data, marks, group)
		return
	case nethtml.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Br:
		p.text("\n", marks, group)
		return
	case atom.B, atom.Strong:
		marks = marks.With(Bold)
	case atom.I, atom.Em:
		marks = marks.With(Italic)
	case atom.U:
		marks = marks.With(Underline)
	case atom.Mark:
		marks, group = p.enterHighlight(marks, group)
	case atom.Span:
		if isHighlightSpan(n) {
			marks, group = p.enterHighlight(marks, group)
		}
	case atom.Div, atom.P:
		// contenteditable wraps new lines in blocks
		if !p.endsWithBreak() {
			p.text("\n", 0, 0)
		}
	case atom.Script, atom.Style:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, marks, group)
	}
}

func isHighlightSpan(n *nethtml.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "style" {
			continue
		}
		style := strings.ToLower(attr.Val)
		if !strings.Contains(style, "background") {
			return false
		}
		return strings.Contains(style, "255, 255, 0") || strings.Contains(style, "yellow")
	}
	return false
}

type tag struct {
	mark  Mark
	open  string
	close string
}

var highlightTag = tag{Highlight, `<span style="` + DefaultHighlight.CSS() + `">`, "</span>"}

// Nested inside highlightTag, outermost first. Render and Parse agree on this
// order so rendering is stable.
var tags = []tag{
	{Bold, "<b>", "</b>"},
	{Italic, "<i>", "</i>"},
	{Underline, "<u>", "</u>"},
}

// escaper leaves quotes alone so text survives a parse and render unchanged
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Render writes the document as canonical markup. Each highlight span is one
// element, even when its runs differ in other marks.
func Render(d Document) string {
	var b strings.Builder
	inSpan, group := false, 0
	for _, run := range d.Runs {
		hl := run.Marks.Has(Highlight)
		if inSpan && (!hl || run.Group != group) {
			b.WriteString(highlightTag.close)
			inSpan = false
		}
		if hl && !inSpan {
			b.WriteString(highlightTag.open)
			inSpan, group = true, run.Group
		}

		for _, t := range tags {
			if run.Marks.Has(t.mark) {
				b.WriteString(t.open)
			}
		}
		lines := strings.Split(run.Text, "\n")
		for i, line := range lines {
			if i > 0 {
				b.WriteString("<br>")
			}
			escaper.WriteString(&b, line)
		}
		for i := len(tags) - 1; i >= 0; i-- {
			if run.Marks.Has(tags[i].mark) {
				b.WriteString(tags[i].close)
			}
		}
	}
	if inSpan {
		b.WriteString(highlightTag.close)
	}
	return b.String()
}

// Canonical renders markup the way the editor stores it, so later edits
// change only what they touch
func Canonical(markup string) (string, error) {
	doc, err := Parse(markup)
	if err != nil {
		return "", err
	}
	return Render(doc), nil
}
