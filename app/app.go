// Package app runs the scanner window: it builds the container, lays out the
// views and drives the presenters from the Tk event loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/store"
	"github.com/soocke/cube-scanner-go/ui/theme"
	"github.com/soocke/cube-scanner-go/ui/view"
)

const (
	tick   = 50 * time.Millisecond
	width  = 1100
	height = 820
)

type app struct {
	c       *AppContainer
	ctx     context.Context
	logger  *slog.Logger
	afterID string
	closed  bool
}

// Run opens the window and blocks until it is closed or ctx is cancelled.
// hist may be nil.
func Run(ctx context.Context, cfg *config.Config, cfgPath string, logger *slog.Logger, hist *store.Store) error {
	if logger == nil {
		logger = slog.Default()
	}
	// closing the window ends running solves and the status server
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c, err := BuildContainer(cfg, cfgPath, logger, hist)
	if err != nil {
		return fmt.Errorf("open frame source: %w", err)
	}
	a := &app{c: c, ctx: ctx, logger: logger}

	App.WmTitle("Cube Scanner")
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	theme.InitStyles()

	h := view.Handlers{
		OnToggle:  func() { c.CapturePresenter.Toggle() },
		OnRestart: func() { c.CapturePresenter.Restart() },
		OnExit:    a.exitHandler,
		OnApply:   c.ApplyConfig,
	}
	if cfg.Source == "screen" {
		c.Overlay = view.NewSelectionOverlay(c.Selection, logger)
		h.OnSelection = c.Overlay.OpenOrFocus
	}
	c.RootView.Build(h)
	c.Wire(ctx)
	c.Loop.Schedule = a.scheduleUpdate

	if c.Server != nil {
		go func() {
			if err := c.Server.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("status server stopped", "error", err)
			}
		}()
	}

	logger.Info("scanner window ready", "source", cfg.Source, "listen", cfg.ListenAddr)
	a.scheduleUpdate()
	App.Wait()
	c.Close()
	return nil
}

func (a *app) update() {
	if a.ctx.Err() != nil {
		a.exitHandler()
		return
	}
	a.c.Loop.Tick()
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps the update on Tk's event loop thread.
	a.afterID = TclAfter(tick, a.update)
}

func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	a.c.CaptureSvc.Stop()
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	Destroy(App)
}
