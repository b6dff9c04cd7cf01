package presenter

import (
	"image"
	"time"

	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/ui/images"
)

// StepView shows the scan sequence and the captured faces.
type StepView interface {
	SetSteps(lines []string)
	SetFaceSwatch(face cube.Face, img image.Image)
}

type capturedFace struct {
	face cube.Face
	grid cube.FaceGrid
}

// StepPresenter receives capture events from the session listener and
// reflects them in the view on the next Tick.
type StepPresenter struct {
	view     StepView
	steps    [cube.NumFaces]scan.StepState
	pending  []capturedFace
	dirty    bool
	swatchPx int
}

func NewStepPresenter(view StepView) *StepPresenter {
	p := &StepPresenter{view: view, swatchPx: 14, dirty: true}
	p.steps[0] = scan.StepCurrent
	return p
}

// OnCapture queues a captured face. It is registered as a session listener
// and runs on the goroutine that submits frames.
func (p *StepPresenter) OnCapture(face cube.Face, fg cube.FaceGrid) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, capturedFace{face: face, grid: fg})
}

// SetSteps records the step states of the latest frame.
func (p *StepPresenter) SetSteps(steps [cube.NumFaces]scan.StepState) {
	if p == nil || steps == p.steps {
		return
	}
	p.steps = steps
	p.dirty = true
}

// Reset clears all swatches and marks the first step current.
func (p *StepPresenter) Reset() {
	if p == nil {
		return
	}
	p.pending = p.pending[:0]
	p.steps = [cube.NumFaces]scan.StepState{scan.StepCurrent}
	p.dirty = true
	if p.view != nil {
		for _, f := range cube.Faces {
			p.view.SetFaceSwatch(f, images.Swatches(nil, p.swatchPx))
		}
	}
}

// Tick flushes queued captures and the step list to the view.
func (p *StepPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	for _, c := range p.pending {
		g := c.grid
		p.view.SetFaceSwatch(c.face, images.Swatches(&g, p.swatchPx))
	}
	p.pending = p.pending[:0]
	if p.dirty {
		p.view.SetSteps(StepLines(p.steps))
		p.dirty = false
	}
}

// StepLines renders the scan sequence with [X] done, [>] current and [ ]
// pending markers.
func StepLines(steps [cube.NumFaces]scan.StepState) []string {
	lines := make([]string, 0, cube.NumFaces)
	for i, f := range scan.Sequence {
		lines = append(lines, steps[i].Mark()+" "+f.Name()+" ("+f.ExpectedCenter().String()+")")
	}
	return lines
}
