// Package binder scans the host document for glossary term markers and
// wires matched ones to the tooltip controller. Markers can appear after
// initial load (the host injects content lazily), so the scan runs on a
// bounded retry schedule and can also be triggered explicitly when the
// host knows its content is ready.
package binder

import (
	"context"
	"sync"
	"time"

	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/glossary"
	"github.com/mkarppi/termgloss/internal/surface"
	"github.com/mkarppi/termgloss/internal/tooltip"
)

const (
	defaultPasses   = 5
	defaultInterval = time.Second
)

// IndexFunc resolves the term index. The loader's memoized Load fits;
// only the first pass pays for the fetch.
type IndexFunc func(context.Context) (*glossary.Index, error)

// Options bound the retry schedule.
type Options struct {
	Passes   int // delayed re-scans after the initial pass
	Interval time.Duration
	Clock    surface.Clock
	Logger   *common.Logger
}

// Binder wires markers. Each pass is idempotent: a marker that was already
// bound is skipped, so repeated scans never attach duplicate handlers.
type Binder struct {
	index    IndexFunc
	host     surface.Host
	ctrl     *tooltip.Controller
	log      *common.Logger
	clock    surface.Clock
	passes   int
	interval time.Duration

	mu    sync.Mutex
	bound map[surface.Marker]struct{}
	timer surface.Timer
}

// New constructs a binder over the host, routing interactions to ctrl.
func New(index IndexFunc, host surface.Host, ctrl *tooltip.Controller, opts Options) *Binder {
	if opts.Passes <= 0 {
		opts.Passes = defaultPasses
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = surface.SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = common.NewSilentLogger()
	}
	return &Binder{
		index:    index,
		host:     host,
		ctrl:     ctrl,
		log:      opts.Logger,
		clock:    opts.Clock,
		passes:   opts.Passes,
		interval: opts.Interval,
		bound:    make(map[surface.Marker]struct{}),
	}
}

// BindPass scans every current marker once. A load failure is logged as a
// warning and the pass ends; it never propagates, so the schedule and the
// rest of the host stay intact.
func (b *Binder) BindPass(ctx context.Context) {
	idx, err := b.index(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("glossary load failed; markers left unbound")
		return
	}
	for _, m := range b.host.Markers() {
		b.bind(m, idx)
	}
}

// bind wires a single marker. Unmatched markers are left completely
// untouched, no tab order and no handlers, since a marker may
// legitimately have no definition.
func (b *Binder) bind(m surface.Marker, idx *glossary.Index) {
	b.mu.Lock()
	if _, done := b.bound[m]; done {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	entry, ok := idx.Lookup(m.Term())
	if !ok {
		return
	}

	// Keyboard focus: assign a default order only when none is present.
	if _, has := m.TabIndex(); !has {
		m.SetTabIndex(0)
	}

	m.Handle(surface.EventEnter, func() { b.ctrl.Show(m, entry) })
	m.Handle(surface.EventFocus, func() { b.ctrl.Show(m, entry) })
	m.Handle(surface.EventLeave, b.ctrl.ScheduleHide)
	m.Handle(surface.EventBlur, b.ctrl.ScheduleHide)
	m.Handle(surface.EventClick, func() { b.ctrl.Toggle(m, entry) })

	b.mu.Lock()
	b.bound[m] = struct{}{}
	b.mu.Unlock()
}

// Run executes the initial pass and then the bounded retry schedule:
// a fixed number of passes at a fixed interval, strictly sequential, then
// it stops for good. Cancel the context to stop early.
func (b *Binder) Run(ctx context.Context) {
	b.BindPass(ctx)
	b.schedule(ctx, b.passes)
}

func (b *Binder) schedule(ctx context.Context, remaining int) {
	if remaining <= 0 || ctx.Err() != nil {
		return
	}
	b.mu.Lock()
	b.timer = b.clock.AfterFunc(b.interval, func() {
		b.host.Post(func() {
			if ctx.Err() != nil {
				return
			}
			b.BindPass(ctx)
			b.schedule(ctx, remaining-1)
		})
	})
	b.mu.Unlock()
}

// Notify is the content-ready hook: hosts that know when they injected
// markers call it instead of waiting out the polling schedule.
func (b *Binder) Notify(ctx context.Context) {
	b.BindPass(ctx)
}

// Stop cancels any pending scheduled pass.
func (b *Binder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
