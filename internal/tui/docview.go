package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

// DocView renders a parsed document. Markers draw underlined; the focused
// marker draws reversed. The view scrolls vertically and can reserve
// extra rows at the bottom so a tooltip hanging past the last line still
// has room.
type DocView struct {
	*tview.Box

	doc      *Document
	scrollY  int
	extra    int
	focused  *Marker
	hovered  *Marker
	innerX   int
	innerY   int
}

// NewDocView creates a view over the document and adopts its markers.
func NewDocView(doc *Document) *DocView {
	d := &DocView{
		Box: tview.NewBox(),
		doc: doc,
	}
	for _, m := range doc.markers {
		m.view = d
	}
	return d
}

// Document returns the underlying parsed document.
func (d *DocView) Document() *Document { return d.doc }

// ContentHeight is the scrollable height: content lines plus any reserved
// bottom space.
func (d *DocView) ContentHeight() int { return d.doc.Lines() + d.extra }

// SetExtraRows reserves blank rows below the content; 0 releases them.
func (d *DocView) SetExtraRows(n int) {
	if n < 0 {
		n = 0
	}
	d.extra = n
	d.clampScroll()
}

// ScrollBy moves the view by dy rows, clamped to the content.
func (d *DocView) ScrollBy(dy int) {
	d.scrollY += dy
	d.clampScroll()
}

// ScrollTo makes the given document line visible.
func (d *DocView) ScrollTo(line int) {
	_, _, _, h := d.GetInnerRect()
	if line < d.scrollY {
		d.scrollY = line
	} else if line >= d.scrollY+h {
		d.scrollY = line - h + 1
	}
	d.clampScroll()
}

func (d *DocView) clampScroll() {
	_, _, _, h := d.GetInnerRect()
	max := d.ContentHeight() - h
	if max < 0 {
		max = 0
	}
	if d.scrollY > max {
		d.scrollY = max
	}
	if d.scrollY < 0 {
		d.scrollY = 0
	}
}

// Draw implements tview.Primitive.
func (d *DocView) Draw(screen tcell.Screen) {
	d.Box.DrawForSubclass(screen, d)
	x, y, w, h := d.GetInnerRect()
	d.innerX, d.innerY = x, y

	plain := tcell.StyleDefault.Foreground(tview.Styles.PrimaryTextColor)
	for row := 0; row < h; row++ {
		line := row + d.scrollY
		if line >= d.doc.Lines() {
			break
		}
		cx := x
		for _, span := range d.doc.lines[line] {
			style := plain
			if span.Marker != nil {
				style = style.Underline(true).Foreground(tcell.ColorAqua)
				if span.Marker == d.focused {
					style = style.Reverse(true)
				} else if span.Marker == d.hovered {
					style = style.Bold(true)
				}
			}
			for _, r := range span.Text {
				if cx >= x+w {
					break
				}
				screen.SetContent(cx, y+row, r, nil, style)
				cx += runewidth.RuneWidth(r)
			}
		}
	}
}

// MarkerAt hit-tests screen coordinates against the visible markers.
func (d *DocView) MarkerAt(screenX, screenY int) *Marker {
	vx := screenX - d.innerX
	vy := screenY - d.innerY
	_, _, w, h := d.GetInnerRect()
	if vx < 0 || vy < 0 || vx >= w || vy >= h {
		return nil
	}
	for _, m := range d.doc.markers {
		if m.Bounds().Contains(vx, vy) {
			return m
		}
	}
	return nil
}

// SetHovered updates the hover highlight.
func (d *DocView) SetHovered(m *Marker) { d.hovered = m }

// SetFocused updates the focus highlight and scrolls it into view.
func (d *DocView) SetFocused(m *Marker) {
	d.focused = m
	if m != nil {
		d.ScrollTo(m.line)
	}
}

// Focused returns the currently focused marker, if any.
func (d *DocView) Focused() *Marker { return d.focused }
