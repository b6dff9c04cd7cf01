package scan

import (
	"time"

	"github.com/soocke/cube-scanner-go/domain/cube"
)

// GateStatus describes what the gate did with the latest observation.
type GateStatus int

const (
	// GateIdle: the center cell could not be classified.
	GateIdle GateStatus = iota
	// GateWrongCenter: the center is a known color other than the expected one.
	GateWrongCenter
	// GateIncomplete: the center matches but some cell is unreadable.
	GateIncomplete
	// GateHolding: the expected face is being held; the timer is running.
	GateHolding
	// GateCaptured: the face was held long enough; Grid carries the capture.
	GateCaptured
)

func (s GateStatus) String() string {
	switch s {
	case GateIdle:
		return "idle"
	case GateWrongCenter:
		return "wrong_center"
	case GateIncomplete:
		return "incomplete"
	case GateHolding:
		return "holding"
	case GateCaptured:
		return "captured"
	default:
		return "unknown"
	}
}

// GateResult is the outcome of a single Observe call.
type GateResult struct {
	Status   GateStatus
	Center   cube.Color
	Elapsed  time.Duration
	Progress float64 // Elapsed / duration, clamped to [0,1]
	Grid     cube.FaceGrid
}

// Gate accepts a face once the same label grid with the expected center has
// been observed continuously for the configured duration.
// Not safe for concurrent use.
type Gate struct {
	duration time.Duration
	last     cube.LabelGrid
	held     cube.FaceGrid
	start    time.Time
	armed    bool
}

// NewGate returns a gate requiring d of stability. A non-positive d fires on
// the first matching observation.
func NewGate(d time.Duration) *Gate {
	return &Gate{duration: max(d, 0)}
}

// Duration returns the configured stability duration.
func (g *Gate) Duration() time.Duration { return g.duration }

// Reset clears the timer and remembered grid.
func (g *Gate) Reset() {
	g.last = cube.LabelGrid{}
	g.held = cube.FaceGrid{}
	g.start = time.Time{}
	g.armed = false
}

// Observe feeds the grid seen at now while expected is the active slot.
// now must not go backwards between calls; time.Now values carry a monotonic
// reading and are safe.
func (g *Gate) Observe(expected cube.Face, fg cube.FaceGrid, now time.Time) GateResult {
	center := fg.Labels.Center()
	res := GateResult{Center: center}
	switch {
	case center == cube.Unknown:
		g.Reset()
		res.Status = GateIdle
		return res
	case center != expected.ExpectedCenter():
		g.Reset()
		res.Status = GateWrongCenter
		return res
	case !fg.Complete():
		g.Reset()
		res.Status = GateIncomplete
		return res
	}

	if !g.armed || fg.Labels != g.last {
		g.last = fg.Labels
		g.start = now
		g.armed = true
	}
	// samples are refreshed every frame; labels are what must stay stable
	g.held = fg

	res.Elapsed = now.Sub(g.start)
	if res.Elapsed < 0 {
		res.Elapsed = 0
	}
	res.Progress = 1
	if g.duration > 0 {
		res.Progress = min(float64(res.Elapsed)/float64(g.duration), 1)
	}
	if res.Elapsed >= g.duration {
		res.Status = GateCaptured
		res.Grid = g.held
		g.Reset()
		return res
	}
	res.Status = GateHolding
	return res
}
