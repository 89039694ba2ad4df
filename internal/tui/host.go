package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/surface"
)

// Host adapts the tview application to the surface.Host contract. It owns
// the global mouse and key captures, classifies clicks for the outside-
// click rule, and synthesizes enter/leave events from mouse movement the
// way a browser would.
type Host struct {
	app *tview.Application
	doc *DocView
	tip *TipView
	log *common.Logger

	quit     func()
	dismiss  []func()
	global   []func(surface.Hit)
	hovered  *Marker
	tipHover bool
	focusIdx int
}

// NewHost wires the captures onto the application. pages is the layout
// root; the tooltip primitive is appended to it as a floating page, the
// terminal analogue of appending one element to the document body.
func NewHost(app *tview.Application, pages *tview.Pages, doc *DocView, maxTipWidth int, log *common.Logger) *Host {
	if log == nil {
		log = common.NewSilentLogger()
	}
	h := &Host{
		app:      app,
		doc:      doc,
		tip:      NewTipView(doc, maxTipWidth),
		log:      log,
		focusIdx: -1,
	}
	pages.AddPage("tooltip", h.tip, false, true)
	app.SetMouseCapture(h.captureMouse)
	app.SetInputCapture(h.captureKey)
	return h
}

// SetQuitFunc installs the handler for Escape when no tooltip is showing.
func (h *Host) SetQuitFunc(fn func()) { h.quit = fn }

// Markers implements surface.Host.
func (h *Host) Markers() []surface.Marker {
	ms := h.doc.Document().Markers()
	out := make([]surface.Marker, len(ms))
	for i, m := range ms {
		out[i] = m
	}
	return out
}

// Viewport implements surface.Host.
func (h *Host) Viewport() surface.Viewport {
	_, _, w, hh := h.doc.GetInnerRect()
	return surface.Viewport{
		Width:     w,
		Height:    hh,
		ScrollY:   h.doc.scrollY,
		DocHeight: h.doc.ContentHeight(),
	}
}

// Tooltip implements surface.Host.
func (h *Host) Tooltip() surface.Tooltip { return h.tip }

// OnDismiss implements surface.Host.
func (h *Host) OnDismiss(fn func()) { h.dismiss = append(h.dismiss, fn) }

// OnGlobalClick implements surface.Host.
func (h *Host) OnGlobalClick(fn func(surface.Hit)) { h.global = append(h.global, fn) }

// ReserveBottomSpace implements surface.Host.
func (h *Host) ReserveBottomSpace(units int) { h.doc.SetExtraRows(units) }

// Post implements surface.Host. It must only be called off the event
// loop (timer goroutines); QueueUpdateDraw would deadlock otherwise.
func (h *Host) Post(fn func()) { h.app.QueueUpdateDraw(fn) }

func (h *Host) fireGlobal(hit surface.Hit) {
	for _, fn := range h.global {
		fn(hit)
	}
}

func (h *Host) fireDismiss() {
	for _, fn := range h.dismiss {
		fn()
	}
}

func (h *Host) captureKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if h.tip.Visible() {
			h.fireDismiss()
			return nil
		}
		if h.quit != nil {
			h.quit()
			return nil
		}
	case tcell.KeyTab:
		h.cycleFocus(1)
		return nil
	case tcell.KeyBacktab:
		h.cycleFocus(-1)
		return nil
	case tcell.KeyUp:
		h.doc.ScrollBy(-1)
		return nil
	case tcell.KeyDown:
		h.doc.ScrollBy(1)
		return nil
	case tcell.KeyPgUp:
		_, _, _, vh := h.doc.GetInnerRect()
		h.doc.ScrollBy(-vh)
		return nil
	case tcell.KeyPgDn:
		_, _, _, vh := h.doc.GetInnerRect()
		h.doc.ScrollBy(vh)
		return nil
	}
	return event
}

// cycleFocus moves keyboard focus through the focusable markers (the ones
// binding assigned a tab order), firing blur and focus as it goes.
func (h *Host) cycleFocus(dir int) {
	var focusable []*Marker
	for _, m := range h.doc.Document().Markers() {
		if m.focusable() {
			focusable = append(focusable, m)
		}
	}
	if len(focusable) == 0 {
		return
	}

	if old := h.doc.Focused(); old != nil {
		old.fire(surface.EventBlur)
	}

	h.focusIdx += dir
	if h.focusIdx >= len(focusable) {
		h.focusIdx = 0
	}
	if h.focusIdx < 0 {
		h.focusIdx = len(focusable) - 1
	}
	next := focusable[h.focusIdx]
	h.doc.SetFocused(next)
	next.fire(surface.EventFocus)
}

func (h *Host) captureMouse(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	x, y := event.Position()
	switch action {
	case tview.MouseMove:
		h.updateHover(x, y)
	case tview.MouseScrollUp:
		h.doc.ScrollBy(-2)
		return nil, 0
	case tview.MouseScrollDown:
		h.doc.ScrollBy(2)
		return nil, 0
	case tview.MouseLeftClick:
		return h.handleClick(x, y, event, action)
	}
	return event, action
}

// updateHover turns mouse movement into enter/leave events for markers
// and for the tooltip itself. All leave events fire before any enter
// event: a pointer jumping straight from a marker onto the tooltip (or
// back) in a single motion event must end with no hide timer armed, so
// the enter's cancellation always runs after the leave's scheduling.
func (h *Host) updateHover(x, y int) {
	overTip := h.tip.HitScreen(x, y)
	var m *Marker
	if !overTip {
		m = h.doc.MarkerAt(x, y)
	}

	if h.hovered != nil && m != h.hovered {
		h.hovered.fire(surface.EventLeave)
	}
	if h.tipHover && !overTip {
		h.tip.fire(surface.EventLeave)
	}

	if overTip && !h.tipHover {
		h.tip.fire(surface.EventEnter)
	}
	if m != nil && m != h.hovered {
		m.fire(surface.EventEnter)
	}

	h.tipHover = overTip
	if m != h.hovered {
		h.hovered = m
		h.doc.SetHovered(m)
	}
}

// handleClick classifies the click for the outside-click rule and, for
// marker and tooltip hits, consumes the event so nothing underneath
// reacts (the suppress-default-and-propagation contract).
func (h *Host) handleClick(x, y int, event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	if h.tip.HitScreen(x, y) {
		if h.tip.HitLink(x, y) {
			if url := h.tip.LinkURL(); url != "" {
				if err := openBrowser(url); err != nil {
					h.log.Warn().Err(err).Str("url", url).Msg("could not open link")
				}
			}
		}
		h.fireGlobal(surface.Hit{Tooltip: true})
		return nil, 0
	}

	if m := h.doc.MarkerAt(x, y); m != nil {
		h.fireGlobal(surface.Hit{Marker: true})
		m.fire(surface.EventClick)
		return nil, 0
	}

	h.fireGlobal(surface.Hit{})
	return event, action
}
