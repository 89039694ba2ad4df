// Package app composes the glossary service: one loader, one tooltip
// controller, and one binder wired against a host surface, with an
// explicit start/stop lifecycle instead of ambient globals.
package app

import (
	"context"
	"net/http"

	"github.com/mkarppi/termgloss/internal/binder"
	"github.com/mkarppi/termgloss/internal/common"
	"github.com/mkarppi/termgloss/internal/glossary"
	"github.com/mkarppi/termgloss/internal/surface"
	"github.com/mkarppi/termgloss/internal/tooltip"
)

// Service is the assembled glossary system for one host document.
type Service struct {
	loader *glossary.Loader
	ctrl   *tooltip.Controller
	binder *binder.Binder
	log    *common.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a service from config against the given host.
func New(cfg *common.Config, host surface.Host, log *common.Logger) (*Service, error) {
	if log == nil {
		log = common.NewSilentLogger()
	}

	dataURL, err := glossary.ResolveDataURL(cfg.Dictionary.BaseURL, cfg.Dictionary.File)
	if err != nil {
		return nil, err
	}
	loader := glossary.NewLoader(dataURL, &http.Client{Timeout: cfg.Dictionary.GetTimeout()})

	ctrl := tooltip.New(host, tooltip.Options{
		HideDelay:  cfg.Tooltip.GetHideDelay(),
		Margin:     cfg.Tooltip.Margin,
		GrowBuffer: cfg.Tooltip.GrowBuffer,
		Logger:     log,
	})

	b := binder.New(loader.Load, host, ctrl, binder.Options{
		Passes:   cfg.Binder.Passes,
		Interval: cfg.Binder.GetInterval(),
		Logger:   log,
	})

	return &Service{loader: loader, ctrl: ctrl, binder: b, log: log}, nil
}

// Start wires the global hooks and kicks off the binding schedule.
func (s *Service) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.ctrl.Attach()
	s.binder.Run(s.ctx)
	s.log.Debug().Msg("glossary service started")
}

// Notify tells the binder the host just injected content.
func (s *Service) Notify() {
	if s.ctx == nil {
		return
	}
	s.binder.Notify(s.ctx)
}

// Controller exposes the tooltip controller to the host (for example to
// decide whether Escape dismisses a tooltip or exits the app).
func (s *Service) Controller() *tooltip.Controller {
	return s.ctrl
}

// Stop halts the schedule and hides any visible tooltip.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.binder.Stop()
	s.ctrl.Hide()
	s.log.Debug().Msg("glossary service stopped")
}
