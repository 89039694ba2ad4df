// Package tooltip owns the floating definition element: its content, its
// visibility, its position, and the timing that keeps hover transitions
// between a marker and the tooltip from flickering.
package tooltip

import (
	"strings"
	"sync"
	"time"

	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/glossary"
	"github.com/mkarppi/termgloss/internal/surface"
)

const (
	defaultHideDelay  = 140 * time.Millisecond
	defaultMargin     = 12
	defaultGrowBuffer = 8
)

// Options tune the controller. Zero values take the defaults above;
// terminal hosts shrink the margins to cell scale through config.
type Options struct {
	HideDelay  time.Duration
	Margin     int
	GrowBuffer int
	Clock      surface.Clock
	Logger     *common.Logger
}

// Controller is the tooltip state machine. It is either hidden (no active
// anchor, element hidden and emptied) or visible for exactly one anchor;
// the single floating element always reflects that state.
//
// The host delivers events on one loop, but hide timers fire on their own
// goroutine, so transitions take a mutex.
type Controller struct {
	host       surface.Host
	clock      surface.Clock
	log        *common.Logger
	hideDelay  time.Duration
	margin     int
	growBuffer int

	mu        sync.Mutex
	tip       surface.Tooltip
	active    surface.Marker
	hideTimer surface.Timer
	hideGen   uint64
	reserved  bool
}

// New constructs a controller against the host. The tooltip element itself
// is created lazily on first show.
func New(host surface.Host, opts Options) *Controller {
	if opts.HideDelay <= 0 {
		opts.HideDelay = defaultHideDelay
	}
	if opts.Margin <= 0 {
		opts.Margin = defaultMargin
	}
	if opts.GrowBuffer <= 0 {
		opts.GrowBuffer = defaultGrowBuffer
	}
	if opts.Clock == nil {
		opts.Clock = surface.SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = common.NewSilentLogger()
	}
	return &Controller{
		host:       host,
		clock:      opts.Clock,
		log:        opts.Logger,
		hideDelay:  opts.HideDelay,
		margin:     opts.Margin,
		growBuffer: opts.GrowBuffer,
	}
}

// Attach wires the global hooks: Escape always hides, and a click whose
// ancestry contains neither a marker nor the tooltip hides.
func (c *Controller) Attach() {
	c.host.OnDismiss(c.Hide)
	c.host.OnGlobalClick(func(hit surface.Hit) {
		if !hit.Marker && !hit.Tooltip {
			c.Hide()
		}
	})
}

// Show displays the tooltip for the anchor. A pending hide is cancelled,
// content is applied before measuring, and the position is recomputed.
// Showing the anchor that is already active just refreshes it; showing a
// different anchor switches over with no hidden gap in between.
func (c *Controller) Show(anchor surface.Marker, entry glossary.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(anchor, entry)
}

func (c *Controller) showLocked(anchor surface.Marker, entry glossary.Entry) {
	c.cancelHideLocked()

	tip := c.tooltipLocked()
	tip.SetContent(contentFor(entry))
	tip.Show()
	c.active = anchor
	c.placeLocked(anchor)
	c.log.Debug().Str("word", entry.Word).Msg("tooltip shown")
}

// ScheduleHide arms the hide timer. Calling it again restarts the delay
// rather than stacking a second timer.
func (c *Controller) ScheduleHide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelHideLocked()
	gen := c.hideGen
	c.hideTimer = c.clock.AfterFunc(c.hideDelay, func() {
		c.host.Post(func() { c.hideFromTimer(gen) })
	})
}

// CancelHide drops any pending hide without changing visibility. Pointer
// entry into the tooltip itself lands here, so moving from the marker to
// the tooltip never flickers.
func (c *Controller) CancelHide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelHideLocked()
}

// Hide empties and hides the element and forgets the anchor. Clearing the
// content matters: a hidden tooltip must never expose stale text to a
// later query.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hideLocked()
}

// Toggle implements click/tap: a click on the marker the tooltip is
// already anchored to hides it; any other click shows it there.
func (c *Controller) Toggle(anchor surface.Marker, entry glossary.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == anchor {
		c.hideLocked()
		return
	}
	c.showLocked(anchor, entry)
}

// Visible reports whether a tooltip is currently shown.
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// ActiveAnchor returns the marker the visible tooltip belongs to, or nil.
func (c *Controller) ActiveAnchor() surface.Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// tooltipLocked fetches the single element on first use and wires its own
// hover handlers.
func (c *Controller) tooltipLocked() surface.Tooltip {
	if c.tip == nil {
		c.tip = c.host.Tooltip()
		c.tip.Handle(surface.EventEnter, c.CancelHide)
		c.tip.Handle(surface.EventLeave, c.ScheduleHide)
	}
	return c.tip
}

func (c *Controller) placeLocked(anchor surface.Marker) {
	vp := c.host.Viewport()
	box := c.tip.Bounds()
	pos := Place(anchor.Bounds(), box, vp, c.margin)
	c.tip.MoveTo(pos)

	// Hosts that size their scroll area to the content can clip a tooltip
	// hanging past the last line; reserve just enough extra space for it.
	if vp.DocHeight > 0 {
		bottom := pos.Y + box.H + c.growBuffer
		if bottom > vp.DocHeight {
			units := bottom - vp.DocHeight
			c.host.ReserveBottomSpace(units)
			c.reserved = true
			c.log.Debug().Int("units", units).Msg("reserved bottom space")
		} else if c.reserved {
			c.host.ReserveBottomSpace(0)
			c.reserved = false
		}
	}
}

func (c *Controller) hideLocked() {
	c.cancelHideLocked()
	if c.tip != nil {
		c.tip.Clear()
		c.tip.Hide()
	}
	c.active = nil
	if c.reserved {
		c.host.ReserveBottomSpace(0)
		c.reserved = false
	}
}

// hideFromTimer honors cancellation even when the system timer already
// fired: a stale generation means some show or re-arm beat the callback.
func (c *Controller) hideFromTimer(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.hideGen {
		return
	}
	c.hideLocked()
}

func (c *Controller) cancelHideLocked() {
	c.hideGen++
	if c.hideTimer != nil {
		c.hideTimer.Stop()
		c.hideTimer = nil
	}
}

// contentFor builds the displayable blocks for an entry. Each block is
// rendered only when non-empty after trimming.
func contentFor(e glossary.Entry) surface.Content {
	return surface.Content{
		Definition: strings.TrimSpace(e.Definition),
		Image:      strings.TrimSpace(e.Image),
		Link:       strings.TrimSpace(e.Link),
	}
}
