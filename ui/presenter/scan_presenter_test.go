package presenter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/capture"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/sampler"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/ui/model"
)

type fakeSource struct {
	mu   sync.Mutex
	snap capture.FrameSnapshot
}

func (f *fakeSource) Running() bool { return true }
func (f *fakeSource) LatestFrame() capture.FrameSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}
func (f *fakeSource) push(img *image.RGBA, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = capture.FrameSnapshot{Image: img, CapturedAt: at, Sequence: f.snap.Sequence + 1}
}

type fakeScanView struct {
	previews, grids int
	status          string
	solution        []string
}

func (v *fakeScanView) UpdatePreview(image.Image)  { v.previews++ }
func (v *fakeScanView) UpdateGrid(image.Image)     { v.grids++ }
func (v *fakeScanView) SetStatus(text string)      { v.status = text }
func (v *fakeScanView) SetSolution(lines []string) { v.solution = lines }

type fakeSink struct{ n int }

func (s *fakeSink) Publish(scan.FrameStatus) { s.n++ }

var rgbFor = map[cube.Color]color.RGBA{
	cube.White:  {255, 255, 255, 255},
	cube.Red:    {200, 0, 0, 255},
	cube.Green:  {0, 200, 0, 255},
	cube.Yellow: {230, 230, 0, 255},
	cube.Orange: {255, 128, 0, 255},
	cube.Blue:   {0, 0, 200, 255},
}

func solidFrame(c cube.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	l := sampler.NewLayout(img.Bounds(), nil)
	for r := range 3 {
		for col := range 3 {
			b := l.Cells[r][col].Box
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					img.SetRGBA(x, y, rgbFor[c])
				}
			}
		}
	}
	return img
}

func TestScanPresenter_ScansAndSolves(t *testing.T) {
	cfg := config.DefaultConfig()
	session := scan.NewSession(cfg, nil)
	src := &fakeSource{}
	view := &fakeScanView{}
	sink := &fakeSink{}
	var solvedCube string
	solver := solve.SolverFunc(func(_ context.Context, c string) (string, error) {
		solvedCube = c
		return "R U R' U'", nil
	})
	sm := &model.SolveModel{}
	p := NewScanPresenter(func() bool { return true }, src, session, solver, sm, view, nil)
	p.Sink = sink
	steps := NewStepPresenter(nil)
	p.Steps = steps

	now := time.Unix(0, 0)
	for _, f := range scan.Sequence {
		frame := solidFrame(f.ExpectedCenter())
		src.push(frame, now)
		p.ProcessFrame()
		// a repeated sequence number is ignored
		p.ProcessFrame()
		now = now.Add(3 * time.Second)
		src.push(frame, now)
		p.ProcessFrame()
		now = now.Add(time.Second)
	}
	if !session.IsComplete() {
		t.Fatalf("session incomplete")
	}
	if sink.n != 12 || view.previews != 12 || view.grids != 12 {
		t.Fatalf("sink=%d previews=%d grids=%d", sink.n, view.previews, view.grids)
	}
	if steps.steps[cube.NumFaces-1] != scan.StepDone {
		t.Fatalf("steps=%v", steps.steps)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		p.ProcessFrame()
		if phase, _, _ := sm.Values(); phase == model.SolveDone {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("solve did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if solvedCube != "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB" {
		t.Fatalf("solver got %q", solvedCube)
	}
	if len(view.solution) != 5 || !strings.Contains(view.solution[3], "Counter-Clockwise") {
		t.Fatalf("solution=%v", view.solution)
	}
	if !strings.HasPrefix(view.status, "Solved in 4 moves") {
		t.Fatalf("status=%q", view.status)
	}
}

func TestStatusText(t *testing.T) {
	st := scan.FrameStatus{Expected: cube.Up}
	if got := StatusText(st); !strings.HasPrefix(got, "Show UP") {
		t.Fatalf("idle=%q", got)
	}
	st.Gate = scan.GateResult{Status: scan.GateWrongCenter, Center: cube.Red}
	if got := StatusText(st); !strings.Contains(got, "center is red, need white") {
		t.Fatalf("wrong=%q", got)
	}
	st.Gate = scan.GateResult{Status: scan.GateHolding, Elapsed: 1500 * time.Millisecond}
	if got := StatusText(st); got != "Hold steady... 1.5s" {
		t.Fatalf("holding=%q", got)
	}
	if got := StatusText(scan.FrameStatus{Complete: true}); got != "All faces captured." {
		t.Fatalf("complete=%q", got)
	}
}

func TestFailureLines_Distribution(t *testing.T) {
	c := "UUUUUUUURRRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"
	lines := FailureLines(solve.Solution{Cube: c}, solve.ErrUnsolvable)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "U: 8") || !strings.Contains(joined, "R: 10") {
		t.Fatalf("lines=%v", lines)
	}
	short := FailureLines(solve.Solution{}, errors.New("boom"))
	if len(short) != 1 {
		t.Fatalf("lines=%v", short)
	}
}

func TestStepPresenter(t *testing.T) {
	v := &fakeStepView{swatches: map[cube.Face]int{}}
	p := NewStepPresenter(v)
	p.Tick(time.Time{})
	if len(v.lines) != 6 || v.lines[0] != "[>] up (white)" || v.lines[1] != "[ ] right (red)" {
		t.Fatalf("lines=%v", v.lines)
	}
	p.OnCapture(cube.Up, cube.FaceGrid{})
	p.SetSteps([cube.NumFaces]scan.StepState{scan.StepDone, scan.StepCurrent})
	p.Tick(time.Time{})
	if v.swatches[cube.Up] != 1 || v.lines[0] != "[X] up (white)" {
		t.Fatalf("swatches=%v lines=%v", v.swatches, v.lines)
	}
	p.Reset()
	if v.swatches[cube.Back] != 1 {
		t.Fatalf("reset should clear every swatch")
	}
}

type fakeStepView struct {
	lines    []string
	swatches map[cube.Face]int
}

func (v *fakeStepView) SetSteps(lines []string)                     { v.lines = lines }
func (v *fakeStepView) SetFaceSwatch(face cube.Face, _ image.Image) { v.swatches[face]++ }

// scanAllFaces holds each face in front of the source long enough to capture.
func scanAllFaces(p *ScanPresenter, src *fakeSource, now time.Time) time.Time {
	for _, f := range scan.Sequence {
		frame := solidFrame(f.ExpectedCenter())
		src.push(frame, now)
		p.ProcessFrame()
		now = now.Add(3 * time.Second)
		src.push(frame, now)
		p.ProcessFrame()
		now = now.Add(time.Second)
	}
	return now
}

func waitSolve(t *testing.T, p *ScanPresenter, sm *model.SolveModel) model.SolvePhase {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		p.ProcessFrame()
		if phase, _, _ := sm.Values(); phase == model.SolveDone || phase == model.SolveFailed {
			return phase
		}
		if time.Now().After(deadline) {
			t.Fatalf("solve did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScanPresenter_RestartDropsRunningSolve(t *testing.T) {
	session := scan.NewSession(config.DefaultConfig(), nil)
	src := &fakeSource{}
	view := &fakeScanView{}
	release := make(chan struct{})
	var calls atomic.Int32
	solver := solve.SolverFunc(func(context.Context, string) (string, error) {
		if calls.Add(1) == 1 {
			<-release
			return "R", nil
		}
		return "U2 F", nil
	})
	sm := &model.SolveModel{}
	p := NewScanPresenter(func() bool { return true }, src, session, solver, sm, view, nil)

	now := scanAllFaces(p, src, time.Unix(0, 0))
	if phase, _, _ := sm.Values(); phase != model.SolveRunning {
		t.Fatalf("first scan should be solving, phase=%v", phase)
	}

	session.Reset()
	p.Reset()
	scanAllFaces(p, src, now)
	close(release)

	if phase := waitSolve(t, p, sm); phase != model.SolveDone {
		t.Fatalf("phase=%v", phase)
	}
	_, sol, _ := sm.Values()
	if sol.Raw != "U2 F" || len(sol.Moves) != 2 {
		t.Fatalf("second scan got the restarted scan's solution: %q", sol.Raw)
	}
	if calls.Load() != 2 {
		t.Fatalf("solver calls=%d", calls.Load())
	}
}

func TestScanPresenter_ContextCancelsSolve(t *testing.T) {
	session := scan.NewSession(config.DefaultConfig(), nil)
	src := &fakeSource{}
	solver := solve.SolverFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	sm := &model.SolveModel{}
	p := NewScanPresenter(func() bool { return true }, src, session, solver, sm, &fakeScanView{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	p.Ctx = ctx

	scanAllFaces(p, src, time.Unix(0, 0))
	cancel()
	if phase := waitSolve(t, p, sm); phase != model.SolveFailed {
		t.Fatalf("phase=%v", phase)
	}
	if _, _, err := sm.Values(); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}
