package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarppi/termgloss/internal/glossary"
	"github.com/mkarppi/termgloss/internal/surface"
	"github.com/mkarppi/termgloss/internal/surface/surfacetest"
	"github.com/mkarppi/termgloss/internal/tooltip"
)

func newHost(t *testing.T, text string) (*Host, *DocView) {
	t.Helper()
	app := tview.NewApplication()
	pages := tview.NewPages()
	view := NewDocView(ParseDocument(text))
	return NewHost(app, pages, view, 40, nil), view
}

// hoverRig wires one marker to a controller on a manual clock, the same
// shape the binder produces, so hover synthesis can be driven through
// updateHover directly.
func hoverRig(t *testing.T) (*Host, *tooltip.Controller, *surfacetest.Clock) {
	t.Helper()
	h, view := newHost(t, "[[term]] trailing text")
	clk := surfacetest.NewClock()
	ctrl := tooltip.New(h, tooltip.Options{Margin: 1, GrowBuffer: 1, Clock: clk})

	m := view.Document().Markers()[0]
	entry := glossary.Entry{Word: "term", Definition: "d"}
	m.Handle(surface.EventEnter, func() { ctrl.Show(m, entry) })
	m.Handle(surface.EventLeave, ctrl.ScheduleHide)
	return h, ctrl, clk
}

func TestMouseScrollActions(t *testing.T) {
	h, view := newHost(t, strings.Repeat("line\n", 30))
	ev := tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModNone)

	gotEv, _ := h.captureMouse(ev, tview.MouseScrollDown)
	assert.Nil(t, gotEv)
	assert.Equal(t, 2, view.scrollY)

	h.captureMouse(ev, tview.MouseScrollDown)
	assert.Equal(t, 4, view.scrollY)

	h.captureMouse(ev, tview.MouseScrollUp)
	assert.Equal(t, 2, view.scrollY)
}

func TestHoverMarkerShowsTooltip(t *testing.T) {
	h, ctrl, clk := hoverRig(t)

	h.updateHover(0, 0)
	assert.True(t, ctrl.Visible())
	assert.Equal(t, 0, clk.Pending())
}

func TestHoverJumpFromMarkerOntoTooltip(t *testing.T) {
	h, ctrl, clk := hoverRig(t)
	h.updateHover(0, 0)
	require.True(t, ctrl.Visible())

	// One motion event lands inside the tooltip box; the marker's leave
	// must not leave a hide timer armed past the tooltip's enter.
	h.updateHover(2, 3)
	assert.True(t, h.tipHover)
	assert.Equal(t, 0, clk.Pending())
	assert.True(t, ctrl.Visible())
}

func TestHoverJumpFromTooltipBackToMarker(t *testing.T) {
	h, ctrl, clk := hoverRig(t)
	h.updateHover(0, 0)
	h.updateHover(2, 3)
	require.True(t, h.tipHover)

	h.updateHover(0, 0)
	assert.False(t, h.tipHover)
	assert.Equal(t, 0, clk.Pending())
	assert.True(t, ctrl.Visible())
}

func TestHoverLeaveToEmptySpaceArmsHide(t *testing.T) {
	h, ctrl, clk := hoverRig(t)
	h.updateHover(0, 0)
	require.True(t, ctrl.Visible())

	h.updateHover(14, 9)
	assert.Equal(t, 1, clk.Pending())
}
