package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/mkarppi/termgloss/internal/surface"
)

const (
	linkLabel   = "Learn more →"
	minTipWidth = 10
)

// TipView is the single floating tooltip primitive. Content is applied
// before measuring; the view word-wraps the definition, appends optional
// image and link blocks, and sizes itself from the result. Definition and
// URL text pass through tview.Escape, so style-tag markup in untrusted
// dictionary content renders literally instead of being interpreted.
type TipView struct {
	*tview.Box

	doc      *DocView
	maxWidth int

	content  surface.Content
	lines    []string
	linkRow  int
	width    int
	height   int
	visible  bool
	pos      surface.Point
	handlers map[surface.Event][]func()
}

// NewTipView creates the tooltip over the given document view.
func NewTipView(doc *DocView, maxWidth int) *TipView {
	if maxWidth < minTipWidth {
		maxWidth = minTipWidth
	}
	t := &TipView{
		Box:      tview.NewBox(),
		doc:      doc,
		maxWidth: maxWidth,
		linkRow:  -1,
		handlers: make(map[surface.Event][]func()),
	}
	t.SetBorder(true)
	return t
}

// SetContent applies the term's blocks and re-measures the view.
func (t *TipView) SetContent(c surface.Content) {
	t.content = c
	t.lines = nil
	t.linkRow = -1

	inner := t.maxWidth - 4 // border and one cell padding per side
	if c.Definition != "" {
		t.lines = append(t.lines, wrapText(tview.Escape(c.Definition), inner)...)
	}
	if c.Image != "" {
		if len(t.lines) > 0 {
			t.lines = append(t.lines, "")
		}
		t.lines = append(t.lines, wrapText("image: "+tview.Escape(c.Image), inner)...)
	}
	if c.Link != "" {
		if len(t.lines) > 0 {
			t.lines = append(t.lines, "")
		}
		t.linkRow = len(t.lines)
		t.lines = append(t.lines, linkLabel)
	}

	widest := 0
	for _, line := range t.lines {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	t.width = widest + 4
	if t.width < minTipWidth {
		t.width = minTipWidth
	}
	t.height = len(t.lines) + 2
}

// Lines exposes the rendered lines (escaped, wrapped) for inspection.
func (t *TipView) Lines() []string { return t.lines }

// Clear empties the content so nothing stale survives a hide.
func (t *TipView) Clear() {
	t.content = surface.Content{}
	t.lines = nil
	t.linkRow = -1
	t.width, t.height = 0, 0
}

// Show marks the view displayed.
func (t *TipView) Show() { t.visible = true }

// Hide marks the view hidden.
func (t *TipView) Hide() { t.visible = false }

// Visible reports display state.
func (t *TipView) Visible() bool { return t.visible }

// Bounds returns the measured box in viewport coordinates.
func (t *TipView) Bounds() surface.Rect {
	return surface.Rect{
		X: t.pos.X,
		Y: t.pos.Y - t.doc.scrollY,
		W: t.width,
		H: t.height,
	}
}

// MoveTo positions the view in document space.
func (t *TipView) MoveTo(p surface.Point) { t.pos = p }

// Handle attaches EventEnter/EventLeave handlers.
func (t *TipView) Handle(e surface.Event, fn func()) {
	t.handlers[e] = append(t.handlers[e], fn)
}

func (t *TipView) fire(e surface.Event) {
	for _, fn := range t.handlers[e] {
		fn()
	}
}

// LinkURL returns the link target, if the current content has one.
func (t *TipView) LinkURL() string { return t.content.Link }

// screenRect converts the document-space position to screen coordinates.
func (t *TipView) screenRect() (int, int, int, int) {
	x := t.doc.innerX + t.pos.X
	y := t.doc.innerY + t.pos.Y - t.doc.scrollY
	return x, y, t.width, t.height
}

// HitScreen reports whether the screen point lies inside the visible view.
func (t *TipView) HitScreen(screenX, screenY int) bool {
	if !t.visible {
		return false
	}
	x, y, w, h := t.screenRect()
	return screenX >= x && screenX < x+w && screenY >= y && screenY < y+h
}

// HitLink reports whether the screen point lies on the link line.
func (t *TipView) HitLink(screenX, screenY int) bool {
	if !t.visible || t.linkRow < 0 {
		return false
	}
	x, y, w, _ := t.screenRect()
	return screenY == y+1+t.linkRow && screenX >= x+1 && screenX < x+w-1
}

// Draw implements tview.Primitive. The view draws nothing while hidden.
func (t *TipView) Draw(screen tcell.Screen) {
	if !t.visible || len(t.lines) == 0 {
		return
	}
	x, y, w, h := t.screenRect()
	t.SetRect(x, y, w, h)
	t.Box.DrawForSubclass(screen, t)

	ix, iy, iw, _ := t.GetInnerRect()
	for i, line := range t.lines {
		text := line
		if i == t.linkRow {
			text = "[blue::u]" + line + "[-::-]"
		}
		tview.Print(screen, text, ix+1, iy+i, iw-1, tview.AlignLeft, tview.Styles.PrimaryTextColor)
	}
}

// wrapText word-wraps s to the given display width, hard-breaking words
// that are longer than a whole line (URLs, mostly).
func wrapText(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				runes := []rune(word)
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case cur == "":
				cur = word
			case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(word) <= width:
				cur += " " + word
			default:
				lines = append(lines, cur)
				cur = word
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}
