// Package surface abstracts the host environment the glossary runs in: a
// document that renders term markers, a single floating tooltip element,
// and the global hooks (dismiss key, outside clicks) the host delivers.
// The tview adapter in internal/tui implements it for the terminal; the
// fakes in surfacetest implement it for tests.
package surface

// Point is a position in document space.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned box. Marker and tooltip bounds are reported in
// viewport coordinates (origin at the viewport's top-left).
type Rect struct {
	X, Y, W, H int
}

// Right returns the x coordinate just past the box.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the y coordinate just past the box.
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether the point lies inside the box.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Viewport describes the visible window over the document. DocHeight is
// the document's total height in the same units, or 0 when the host does
// not track one (which disables the bottom-space accommodation).
type Viewport struct {
	Width, Height    int
	ScrollX, ScrollY int
	DocHeight        int
}

// Event identifies an interaction source on a marker or on the tooltip.
type Event int

const (
	EventEnter Event = iota // pointer entered
	EventLeave              // pointer left
	EventFocus
	EventBlur
	EventClick // click or tap; hosts deliver it with default action and propagation suppressed
)

// Content is what the tooltip displays for one term. Definition is plain
// text; Image and Link are URLs. Hosts must render the definition inert
// (no markup interpretation) and must open the link in a detached context.
type Content struct {
	Definition string
	Image      string
	Link       string
}

// Empty reports whether there is nothing to display.
func (c Content) Empty() bool {
	return c.Definition == "" && c.Image == "" && c.Link == ""
}

// Marker is a glossary term marker inside the host document. The system
// never creates markers; it only reads their term attribute and attaches
// behavior. Implementations must be comparable (pointer types) so the
// binder can track which markers it already wired.
type Marker interface {
	// Term returns the raw term attribute, un-normalized.
	Term() string
	// Bounds returns the marker's current on-screen box in viewport
	// coordinates.
	Bounds() Rect
	// TabIndex reports an explicit tab order, if one is set.
	TabIndex() (int, bool)
	// SetTabIndex makes the marker keyboard-focusable.
	SetTabIndex(int)
	// Handle attaches a handler for one interaction source.
	Handle(Event, func())
}

// Tooltip is the single floating element. The host creates it once and
// reuses it; only the tooltip controller writes to it.
type Tooltip interface {
	// SetContent applies content before measuring; dimensions depend on it.
	SetContent(Content)
	// Clear empties the content so a hidden tooltip never exposes stale text.
	Clear()
	Show()
	Hide()
	// Bounds returns the rendered box in viewport coordinates.
	Bounds() Rect
	// MoveTo positions the tooltip in document space.
	MoveTo(Point)
	// Handle attaches EventEnter/EventLeave handlers on the tooltip itself.
	Handle(Event, func())
}

// Hit classifies a global click target by its ancestry.
type Hit struct {
	Marker  bool // the click landed on or inside a term marker
	Tooltip bool // the click landed on or inside the tooltip
}

// Host is the document environment.
type Host interface {
	// Markers returns all term markers currently present. The set may grow
	// over time; the host page injects content lazily.
	Markers() []Marker
	// Viewport returns the current window geometry.
	Viewport() Viewport
	// Tooltip returns the floating element, creating it on first use.
	Tooltip() Tooltip
	// OnDismiss registers a handler for the global dismiss key (Escape).
	OnDismiss(func())
	// OnGlobalClick registers a handler for every click, classified by Hit.
	OnGlobalClick(func(Hit))
	// ReserveBottomSpace grows the document's reserved bottom space so a
	// tooltip near the end of the document is not clipped; 0 restores it.
	ReserveBottomSpace(units int)
	// Post marshals fn onto the host's event loop. Timer callbacks arrive
	// through it so all mutations stay on one thread.
	Post(fn func())
}
