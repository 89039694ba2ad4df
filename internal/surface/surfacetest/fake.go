// Package surfacetest provides hand-written fakes for the surface
// interfaces, so the binder and tooltip controller can be exercised
// without a terminal, a network, or real timers.
package surfacetest

import (
	"sync"
	"time"

	"github.com/mkarppi/termgloss/internal/surface"
)

// Clock is a manual clock. Timers never fire on their own; tests call
// Fire or FireAll to run pending callbacks.
type Clock struct {
	mu     sync.Mutex
	timers []*FakeTimer
}

func NewClock() *Clock { return &Clock{} }

func (c *Clock) AfterFunc(d time.Duration, fn func()) surface.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &FakeTimer{D: d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Pending counts timers that are neither stopped nor fired.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if t.live() {
			n++
		}
	}
	return n
}

// Fire runs the oldest live timer, if any, and reports whether one ran.
func (c *Clock) Fire() bool {
	c.mu.Lock()
	var next *FakeTimer
	for _, t := range c.timers {
		if t.live() {
			next = t
			break
		}
	}
	c.mu.Unlock()
	if next == nil {
		return false
	}
	next.fire()
	return true
}

// FireAll keeps firing until no live timers remain, returning the count.
func (c *Clock) FireAll() int {
	n := 0
	for c.Fire() {
		n++
	}
	return n
}

// FakeTimer records its state so tests can assert cancel semantics.
type FakeTimer struct {
	D time.Duration

	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *FakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (t *FakeTimer) live() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.fired && !t.stopped
}

func (t *FakeTimer) fire() {
	t.mu.Lock()
	if t.fired || t.stopped {
		t.mu.Unlock()
		return
	}
	t.fired = true
	fn := t.fn
	t.mu.Unlock()
	fn()
}

// Marker is a scriptable term marker.
type Marker struct {
	Word string
	Rect surface.Rect

	tabIndex *int
	handlers map[surface.Event][]func()
}

func NewMarker(term string) *Marker {
	return &Marker{Word: term, handlers: make(map[surface.Event][]func())}
}

func (m *Marker) Term() string         { return m.Word }
func (m *Marker) Bounds() surface.Rect { return m.Rect }

func (m *Marker) TabIndex() (int, bool) {
	if m.tabIndex == nil {
		return 0, false
	}
	return *m.tabIndex, true
}

func (m *Marker) SetTabIndex(i int) { m.tabIndex = &i }

func (m *Marker) Handle(e surface.Event, fn func()) {
	m.handlers[e] = append(m.handlers[e], fn)
}

// Fire invokes every handler registered for the event.
func (m *Marker) Fire(e surface.Event) {
	for _, fn := range m.handlers[e] {
		fn()
	}
}

// HandlerCount reports how many handlers are attached for the event;
// binding idempotence tests hinge on it staying at one.
func (m *Marker) HandlerCount(e surface.Event) int { return len(m.handlers[e]) }

// Touched reports whether binding left any trace on the marker.
func (m *Marker) Touched() bool {
	return m.tabIndex != nil || len(m.handlers) > 0
}

// Tooltip is a scriptable floating element. W and H stand in for the
// rendered dimensions; Trace records the call sequence so tests can assert
// ordering (for example, no hide between two shows).
type Tooltip struct {
	W, H int

	Content  surface.Content
	Visible  bool
	Pos      surface.Point
	Trace    []string
	handlers map[surface.Event][]func()
}

func NewTooltip(w, h int) *Tooltip {
	return &Tooltip{W: w, H: h, handlers: make(map[surface.Event][]func())}
}

func (t *Tooltip) SetContent(c surface.Content) {
	t.Content = c
	t.Trace = append(t.Trace, "content")
}

func (t *Tooltip) Clear() {
	t.Content = surface.Content{}
	t.Trace = append(t.Trace, "clear")
}

func (t *Tooltip) Show() {
	t.Visible = true
	t.Trace = append(t.Trace, "show")
}

func (t *Tooltip) Hide() {
	t.Visible = false
	t.Trace = append(t.Trace, "hide")
}

func (t *Tooltip) Bounds() surface.Rect {
	return surface.Rect{X: t.Pos.X, Y: t.Pos.Y, W: t.W, H: t.H}
}

func (t *Tooltip) MoveTo(p surface.Point) { t.Pos = p }

func (t *Tooltip) Handle(e surface.Event, fn func()) {
	t.handlers[e] = append(t.handlers[e], fn)
}

// Fire invokes every handler registered for the event.
func (t *Tooltip) Fire(e surface.Event) {
	for _, fn := range t.handlers[e] {
		fn()
	}
}

// Host is a scriptable document environment. Post runs synchronously,
// mirroring the single-threaded host the system targets.
type Host struct {
	VP  surface.Viewport
	Tip *Tooltip

	markers      []*Marker
	TipRequests  int
	Reserved     int
	ReserveCalls []int
	dismiss      []func()
	global       []func(surface.Hit)
}

func NewHost(vp surface.Viewport) *Host {
	return &Host{VP: vp, Tip: NewTooltip(20, 5)}
}

func (h *Host) AddMarker(m *Marker) { h.markers = append(h.markers, m) }

func (h *Host) Markers() []surface.Marker {
	out := make([]surface.Marker, len(h.markers))
	for i, m := range h.markers {
		out[i] = m
	}
	return out
}

func (h *Host) Viewport() surface.Viewport { return h.VP }

func (h *Host) Tooltip() surface.Tooltip {
	h.TipRequests++
	return h.Tip
}

func (h *Host) OnDismiss(fn func()) { h.dismiss = append(h.dismiss, fn) }

func (h *Host) OnGlobalClick(fn func(surface.Hit)) { h.global = append(h.global, fn) }

func (h *Host) ReserveBottomSpace(units int) {
	h.Reserved = units
	h.ReserveCalls = append(h.ReserveCalls, units)
}

func (h *Host) Post(fn func()) { fn() }

// PressEscape delivers the global dismiss key.
func (h *Host) PressEscape() {
	for _, fn := range h.dismiss {
		fn()
	}
}

// Click delivers a global click classified by hit.
func (h *Host) Click(hit surface.Hit) {
	for _, fn := range h.global {
		fn(hit)
	}
}
