// Package tui implements the surface.Host contract on a tview/tcell
// terminal: a scrollable document view whose inline [[term]] markers are
// the glossary markers, and a floating tooltip primitive.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/mkarppi/termgloss/internal/surface"
)

// Span is a run of document text, optionally belonging to a marker.
type Span struct {
	Text   string
	Marker *Marker
}

// Document is parsed text with term markers located by line and column.
type Document struct {
	lines   [][]Span
	markers []*Marker
}

// Lines returns the number of content lines.
func (d *Document) Lines() int { return len(d.lines) }

// Markers returns every marker in document order.
func (d *Document) Markers() []*Marker { return d.markers }

// ParseDocument parses marker syntax out of plain text. A marker is
// written [[term]] or [[display|term]]; the display text is what renders,
// the term is the raw lookup attribute. Unterminated markers render
// literally.
func ParseDocument(src string) *Document {
	doc := &Document{}
	for lineNo, raw := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
		var spans []Span
		col := 0
		rest := raw
		for {
			start := strings.Index(rest, "[[")
			if start < 0 {
				break
			}
			end := strings.Index(rest[start+2:], "]]")
			if end < 0 {
				break
			}
			inner := rest[start+2 : start+2+end]
			display, term := inner, inner
			if i := strings.LastIndex(inner, "|"); i >= 0 {
				display, term = inner[:i], inner[i+1:]
			}

			if start > 0 {
				spans = append(spans, Span{Text: rest[:start]})
				col += runewidth.StringWidth(rest[:start])
			}
			m := &Marker{
				term:     term,
				display:  display,
				line:     lineNo,
				col:      col,
				width:    runewidth.StringWidth(display),
				handlers: make(map[surface.Event][]func()),
			}
			spans = append(spans, Span{Text: display, Marker: m})
			doc.markers = append(doc.markers, m)
			col += m.width
			rest = rest[start+2+end+2:]
		}
		if rest != "" {
			spans = append(spans, Span{Text: rest})
		}
		doc.lines = append(doc.lines, spans)
	}
	return doc
}

// Marker is one glossary term occurrence in the document. It implements
// surface.Marker; the view it belongs to supplies the scroll offset that
// turns its document position into viewport bounds.
type Marker struct {
	term    string
	display string
	line    int
	col     int
	width   int

	view     *DocView
	tabIndex *int
	handlers map[surface.Event][]func()
}

// Term returns the raw term attribute.
func (m *Marker) Term() string { return m.term }

// Display returns the rendered text.
func (m *Marker) Display() string { return m.display }

// Bounds returns the marker's box in viewport coordinates of its view.
func (m *Marker) Bounds() surface.Rect {
	scroll := 0
	if m.view != nil {
		scroll = m.view.scrollY
	}
	return surface.Rect{X: m.col, Y: m.line - scroll, W: m.width, H: 1}
}

// TabIndex reports the explicit tab order, if set.
func (m *Marker) TabIndex() (int, bool) {
	if m.tabIndex == nil {
		return 0, false
	}
	return *m.tabIndex, true
}

// SetTabIndex makes the marker keyboard-focusable.
func (m *Marker) SetTabIndex(i int) { m.tabIndex = &i }

// Handle attaches an interaction handler.
func (m *Marker) Handle(e surface.Event, fn func()) {
	m.handlers[e] = append(m.handlers[e], fn)
}

func (m *Marker) fire(e surface.Event) {
	for _, fn := range m.handlers[e] {
		fn()
	}
}

// focusable markers are the ones binding gave a tab order.
func (m *Marker) focusable() bool { return m.tabIndex != nil }
