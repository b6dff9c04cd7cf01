package scan

import (
	"testing"
	"time"

	"github.com/soocke/cube-scanner-go/domain/cube"
)

func solidFace(center cube.Color) cube.FaceGrid {
	var fg cube.FaceGrid
	for r := range 3 {
		for c := range 3 {
			fg.Samples[r][c].Valid = true
			fg.Labels[r][c] = center
		}
	}
	return fg
}

var base = time.Unix(0, 0)

func at(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }

func TestGate_FiresAtDurationNotLater(t *testing.T) {
	g := NewGate(3 * time.Second)
	fg := solidFace(cube.White)
	fired := -1
	for ms := 0; ms <= 3500; ms += 100 {
		res := g.Observe(cube.Up, fg, at(ms))
		if res.Status == GateCaptured {
			fired = ms
			break
		}
		if res.Status != GateHolding {
			t.Fatalf("t=%dms status=%v", ms, res.Status)
		}
	}
	if fired != 3000 {
		t.Fatalf("fired at %dms want 3000", fired)
	}
}

func TestGate_FiresOnceThenRearms(t *testing.T) {
	g := NewGate(time.Second)
	fg := solidFace(cube.Red)
	g.Observe(cube.Right, fg, at(0))
	if res := g.Observe(cube.Right, fg, at(1000)); res.Status != GateCaptured || res.Grid != fg {
		t.Fatalf("expected capture, got %v", res.Status)
	}
	if res := g.Observe(cube.Right, fg, at(1100)); res.Status != GateHolding || res.Elapsed != 0 {
		t.Fatalf("gate should restart after firing: %+v", res)
	}
}

func TestGate_UnknownCenterResets(t *testing.T) {
	g := NewGate(3 * time.Second)
	fg := solidFace(cube.White)
	for ms := 0; ms < 2900; ms += 100 {
		g.Observe(cube.Up, fg, at(ms))
	}
	blip := fg
	blip.Labels[1][1] = cube.Unknown
	if res := g.Observe(cube.Up, blip, at(2900)); res.Status != GateIdle {
		t.Fatalf("status=%v", res.Status)
	}
	// a 4s total hold must not fire at 3s once interrupted
	for ms := 3000; ms < 5900; ms += 100 {
		if res := g.Observe(cube.Up, fg, at(ms)); res.Status == GateCaptured {
			t.Fatalf("fired at %dms before a fresh 3s hold", ms)
		}
	}
	if res := g.Observe(cube.Up, fg, at(6000)); res.Status != GateCaptured {
		t.Fatalf("expected capture 3s after restart, got %v", res.Status)
	}
}

func TestGate_DifferentGridRestartsTimer(t *testing.T) {
	g := NewGate(3 * time.Second)
	a := solidFace(cube.Green)
	b := a
	b.Labels[0][0] = cube.Red
	g.Observe(cube.Front, a, at(0))
	g.Observe(cube.Front, a, at(2000))
	res := g.Observe(cube.Front, b, at(2500))
	if res.Status != GateHolding || res.Elapsed != 0 {
		t.Fatalf("changed grid should restart: %+v", res)
	}
	if res := g.Observe(cube.Front, b, at(5000)); res.Status != GateHolding {
		t.Fatalf("fired early: %v", res.Status)
	}
	if res := g.Observe(cube.Front, b, at(5500)); res.Status != GateCaptured || res.Grid.Labels != b.Labels {
		t.Fatalf("expected capture of the new grid: %v", res.Status)
	}
}

func TestGate_WrongCenterAndIncomplete(t *testing.T) {
	g := NewGate(time.Second)
	if res := g.Observe(cube.Up, solidFace(cube.Blue), at(0)); res.Status != GateWrongCenter || res.Center != cube.Blue {
		t.Fatalf("res=%+v", res)
	}
	partial := solidFace(cube.White)
	partial.Labels[2][2] = cube.Unknown
	g.Observe(cube.Up, partial, at(0))
	if res := g.Observe(cube.Up, partial, at(5000)); res.Status != GateIncomplete {
		t.Fatalf("incomplete grid must never fire: %v", res.Status)
	}
}

func TestGate_ProgressClamped(t *testing.T) {
	g := NewGate(2 * time.Second)
	fg := solidFace(cube.Orange)
	g.Observe(cube.Left, fg, at(0))
	res := g.Observe(cube.Left, fg, at(500))
	if res.Progress != 0.25 {
		t.Fatalf("progress=%v", res.Progress)
	}
	res = g.Observe(cube.Left, fg, at(9000))
	if res.Progress != 1 || res.Status != GateCaptured {
		t.Fatalf("res=%+v", res)
	}
}
