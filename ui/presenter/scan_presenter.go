package presenter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/cube-scanner-go/domain/capture"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/encode"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/ui/images"
	"github.com/soocke/cube-scanner-go/ui/model"
)

// FrameSource supplies the most recent camera frame.
type FrameSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// Scanner is the slice of the scan session the presenter drives.
type Scanner interface {
	SubmitFrame(frame image.Image, now time.Time) scan.FrameStatus
	CubeString() (string, error)
}

// StatusSink receives every processed frame status, e.g. the websocket hub.
type StatusSink interface {
	Publish(st scan.FrameStatus)
}

// StepSink receives the step states of each processed frame.
type StepSink interface {
	SetSteps(steps [cube.NumFaces]scan.StepState)
}

// ScanView describes the UI surface updated by the presenter.
type ScanView interface {
	UpdatePreview(img image.Image)
	UpdateGrid(img image.Image)
	SetStatus(text string)
	SetSolution(lines []string)
}

const solveTimeout = 30 * time.Second

type solveJob struct {
	src Scanner
	gen uint64
}

type solveResult struct {
	gen      uint64
	solution solve.Solution
	err      error
	duration time.Duration
}

// ScanPresenter feeds new frames to the session, renders the overlay and
// runs the solver off the UI thread once all faces are captured.
type ScanPresenter struct {
	Enabled  func() bool
	Source   FrameSource
	Session  Scanner
	Solver   solve.Solver
	Solve    *model.SolveModel
	View     ScanView
	Sink     StatusSink
	Steps    StepSink
	OnSolved func(sol solve.Solution, err error)
	// Ctx bounds running solves; cancelling it stops the solver process.
	Ctx    context.Context
	logger *slog.Logger

	workerOnce sync.Once
	workCh     chan solveJob
	resultCh   chan solveResult

	lastSeq uint64
	// gen counts restarts; results from an earlier generation are dropped.
	gen uint64
}

// NewScanPresenter constructs a scan presenter.
func NewScanPresenter(enabled func() bool, source FrameSource, session Scanner, solver solve.Solver, solveModel *model.SolveModel, view ScanView, logger *slog.Logger) *ScanPresenter {
	if solveModel == nil {
		solveModel = &model.SolveModel{}
	}
	return &ScanPresenter{
		Enabled:  enabled,
		Source:   source,
		Session:  session,
		Solver:   solver,
		Solve:    solveModel,
		View:     view,
		logger:   logger,
		workCh:   make(chan solveJob, 1),
		resultCh: make(chan solveResult, 1),
	}
}

// ProcessFrame handles finished solves, then submits the latest frame if it
// has not been seen yet.
func (p *ScanPresenter) ProcessFrame() {
	if p == nil || p.Enabled == nil || p.Source == nil || p.Session == nil || p.View == nil {
		return
	}
	p.ensureWorker()

	select {
	case res := <-p.resultCh:
		p.handleResult(res)
	default:
	}

	if !p.Enabled() || !p.Source.Running() {
		return
	}
	snap := p.Source.LatestFrame()
	if snap.Image == nil || snap.Sequence == p.lastSeq {
		return
	}
	p.lastSeq = snap.Sequence

	st := p.Session.SubmitFrame(snap.Image, snap.CapturedAt)
	p.View.UpdatePreview(images.Overlay(snap.Image, st))
	if crop, _, err := images.Crop(snap.Image, images.GridBounds(cellBoxes(st)), 8); err == nil {
		p.View.UpdateGrid(images.Zoom(crop, 2))
	}
	if p.Sink != nil {
		p.Sink.Publish(st)
	}
	if p.Steps != nil {
		p.Steps.SetSteps(st.Steps)
	}

	phase, _, _ := p.Solve.Values()
	if phase == model.SolveIdle {
		p.View.SetStatus(StatusText(st))
	}
	if st.Complete && p.Solver != nil && p.Solve.Begin() {
		p.View.SetStatus("All faces captured. Solving...")
		p.workCh <- solveJob{src: p.Session, gen: p.gen}
	}
}

func cellBoxes(st scan.FrameStatus) [3][3]image.Rectangle {
	var out [3][3]image.Rectangle
	for r := range 3 {
		for c := range 3 {
			out[r][c] = st.Cells[r][c].Box
		}
	}
	return out
}

func (p *ScanPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *ScanPresenter) runWorker() {
	parent := p.Ctx
	if parent == nil {
		parent = context.Background()
	}
	for job := range p.workCh {
		ctx, cancel := context.WithTimeout(parent, solveTimeout)
		start := time.Now()
		sol, err := solve.Run(ctx, job.src, p.Solver)
		cancel()
		p.resultCh <- solveResult{gen: job.gen, solution: sol, err: err, duration: time.Since(start)}
	}
}

func (p *ScanPresenter) handleResult(res solveResult) {
	if res.gen != p.gen {
		if p.logger != nil {
			p.logger.Debug("dropping solve from a restarted scan", "cube", res.solution.Cube)
		}
		return
	}
	if phase, _, _ := p.Solve.Values(); phase != model.SolveRunning {
		return
	}
	p.Solve.Finish(res.solution, res.err)
	if res.err != nil {
		if p.logger != nil {
			p.logger.Error("solve failed", "error", res.err, "cube", res.solution.Cube)
		}
		p.View.SetStatus("Solve failed. Press Restart to scan again.")
		p.View.SetSolution(FailureLines(res.solution, res.err))
	} else {
		if p.logger != nil {
			p.logger.Info("cube solved", "moves", len(res.solution.Moves), "duration", res.duration)
		}
		p.View.SetStatus(fmt.Sprintf("Solved in %d moves.", len(res.solution.Moves)))
		p.View.SetSolution(SolutionLines(res.solution))
	}
	if p.OnSolved != nil {
		p.OnSolved(res.solution, res.err)
	}
}

// Reset forgets the last frame and solve result.
func (p *ScanPresenter) Reset() {
	if p == nil {
		return
	}
	p.lastSeq = 0
	p.gen++
	p.Solve.Reset()
	if p.View != nil {
		p.View.SetSolution(nil)
	}
}

// StatusText renders the operator hint for a frame.
func StatusText(st scan.FrameStatus) string {
	if st.Complete {
		return "All faces captured."
	}
	face := st.Expected
	switch st.Gate.Status {
	case scan.GateCaptured:
		return fmt.Sprintf("Captured %s.", face.Name())
	case scan.GateWrongCenter:
		return fmt.Sprintf("Wrong face: center is %s, need %s. Show %s", st.Gate.Center, face.ExpectedCenter(), face.Instruction())
	case scan.GateIncomplete:
		return fmt.Sprintf("Some stickers unreadable. Show %s", face.Instruction())
	case scan.GateHolding:
		return fmt.Sprintf("Hold steady... %.1fs", st.Gate.Elapsed.Seconds())
	default:
		return fmt.Sprintf("Show %s", face.Instruction())
	}
}

// SolutionLines lists the numbered steps of a solution.
func SolutionLines(sol solve.Solution) []string {
	if len(sol.Moves) == 0 {
		return []string{"Cube is already solved."}
	}
	lines := []string{"Solution: " + sol.Raw}
	return append(lines, solve.Steps(sol.Moves)...)
}

// FailureLines explains a failed solve. For unsolvable or malformed cubes it
// appends the per-face sticker counts, each of which should be 9.
func FailureLines(sol solve.Solution, err error) []string {
	lines := []string{"Error: " + err.Error()}
	if sol.Cube == "" || errors.Is(err, solve.ErrSolverMissing) {
		return lines
	}
	lines = append(lines, "Cube: "+sol.Cube, "Color counts (should be 9 each):")
	d := encode.Distribution(sol.Cube)
	for _, f := range cube.Faces {
		lines = append(lines, fmt.Sprintf("  %s: %d", f, d[f]))
	}
	return lines
}
