package app

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/cube-scanner-go/capture"
	"github.com/soocke/cube-scanner-go/config"
	domcapture "github.com/soocke/cube-scanner-go/domain/capture"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/server"
	"github.com/soocke/cube-scanner-go/store"
	"github.com/soocke/cube-scanner-go/ui/model"
	"github.com/soocke/cube-scanner-go/ui/presenter"
	"github.com/soocke/cube-scanner-go/ui/view"
)

const historyTimeout = 5 * time.Second

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	Capture   *model.CaptureModel
	Session   *model.SessionModel
	Solve     *model.SolveModel
	Scan      *model.ScanModel
	Selection *model.SelectionModel

	Grabber    capture.Grabber
	CaptureSvc domcapture.CaptureService
	Server     *server.Server
	History    *store.Store

	RootView *view.RootView
	Overlay  view.SelectionOverlay

	ScanPresenter    *presenter.ScanPresenter
	StepPresenter    *presenter.StepPresenter
	SessionPresenter *presenter.SessionPresenter
	CapturePresenter *presenter.CapturePresenter
	Loop             *presenter.Loop

	solver atomic.Pointer[solve.ExecSolver]
}

// BuildContainer opens the frame source and constructs everything that does
// not need Tk. Views and presenters are wired by Wire once the window exists.
func BuildContainer(cfg *config.Config, cfgPath string, logger *slog.Logger, hist *store.Store) (*AppContainer, error) {
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger, History: hist}
	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Solve = &model.SolveModel{}
	c.Scan = model.NewScanModel(scan.NewSession(cfg, logger))
	c.Selection = model.NewSelectionModel(cfg, cfgPath)

	g, err := capture.Open(cfg, "", c.Selection.Active)
	if err != nil {
		return nil, err
	}
	c.Grabber = g
	c.CaptureSvc = domcapture.NewCaptureService(g, cfg.FrameInterval(), capture.ErrEndOfFrames, logger)
	c.solver.Store(solve.NewExecSolver(cfg.SolverCommand, cfg.SolverArgs...))
	if cfg.ListenAddr != "" {
		c.Server = server.New(logger, c.CaptureSvc)
	}
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	return c, nil
}

// Wire connects presenters to the built root view. Solves in flight are
// cancelled when ctx ends.
func (c *AppContainer) Wire(ctx context.Context) {
	c.StepPresenter = presenter.NewStepPresenter(c.RootView)
	c.Scan.AddListener(c.StepPresenter.OnCapture)

	c.ScanPresenter = presenter.NewScanPresenter(c.Capture.Enabled, c.CaptureSvc, c.Scan, solve.SolverFunc(c.solve), c.Solve, c.RootView, c.Logger)
	c.ScanPresenter.Steps = c.StepPresenter
	c.ScanPresenter.OnSolved = c.onSolved
	c.ScanPresenter.Ctx = ctx
	if c.Server != nil {
		c.ScanPresenter.Sink = c.Server
	}

	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Capture, c.Scan, c.RootView)
	resets := []presenter.Resetter{c.Scan, c.ScanPresenter, c.StepPresenter}
	if c.Server != nil {
		resets = append(resets, c.Server)
	}
	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.RootView, resets...)
	c.Loop = presenter.NewLoop(c.ScanPresenter, c.StepPresenter, c.SessionPresenter, nil)
}

// ApplyConfig starts a fresh scan with the edited settings. Grid geometry,
// thresholds and stability time apply at once; source settings need a
// restart of the program.
func (c *AppContainer) ApplyConfig(cfg *config.Config) {
	c.Scan.Swap(scan.NewSession(cfg, c.Logger))
	c.solver.Store(solve.NewExecSolver(cfg.SolverCommand, cfg.SolverArgs...))
	c.CapturePresenter.Restart()
}

// solve runs the current solver command; the solve worker calls it off the
// UI thread while the settings form may replace the command.
func (c *AppContainer) solve(ctx context.Context, cube string) (string, error) {
	return c.solver.Load().Solve(ctx, cube)
}

func (c *AppContainer) onSolved(sol solve.Solution, err error) {
	if c.Server != nil {
		c.Server.PublishSolution(sol, err)
	}
	if c.History == nil || sol.Cube == "" {
		return
	}
	scanDur, _ := c.Session.Values()
	rec := store.Record{Cube: sol.Cube, Solution: sol.Raw, Moves: len(sol.Moves), ScanDuration: scanDur}
	if err != nil {
		rec.Error = err.Error()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if _, err := c.History.RecordSolve(ctx, rec); err != nil {
			c.Logger.Error("history record failed", "error", err)
		}
	}()
}

// Close stops capture and releases the frame source.
func (c *AppContainer) Close() {
	c.CaptureSvc.Stop()
	if err := c.Grabber.Close(); err != nil {
		c.Logger.Warn("frame source close failed", "error", err)
	}
}
