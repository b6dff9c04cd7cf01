package capture

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

var errEnd = errors.New("end")

type countingGrabber struct {
	mu     sync.Mutex
	left   int
	failAt int
	calls  int
}

func (g *countingGrabber) Grab() (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.calls == g.failAt {
		return nil, errors.New("transient")
	}
	if g.left == 0 {
		return nil, errEnd
	}
	g.left--
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (g *countingGrabber) Close() error { return nil }

func TestCaptureService_RunsUntilExhausted(t *testing.T) {
	g := &countingGrabber{left: 3, failAt: 2}
	svc := NewCaptureService(g, time.Millisecond, errEnd, nil)
	svc.Start()
	select {
	case <-svc.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("service did not finish")
	}
	if svc.Running() {
		t.Fatalf("service still running")
	}
	st := svc.Stats()
	if st.Captures != 3 || st.Failures != 1 || st.Sequence != 3 || !st.Exhausted {
		t.Fatalf("stats=%+v", st)
	}
	snap := svc.LatestFrame()
	if snap.Image == nil || snap.CapturedAt.IsZero() {
		t.Fatalf("missing latest frame")
	}
	// restarting an exhausted service is a no-op
	svc.Start()
	if svc.Running() {
		t.Fatalf("exhausted service restarted")
	}
}

func TestCaptureService_StopAndNilGrabber(t *testing.T) {
	g := &countingGrabber{left: 1 << 30}
	svc := NewCaptureService(g, time.Millisecond, nil, nil)
	svc.Start()
	svc.Start()
	if !svc.Running() {
		t.Fatalf("not running")
	}
	svc.Stop()
	svc.Stop()
	if svc.Running() {
		t.Fatalf("still running after Stop")
	}
	// Stop waits for the loop, so no grab happens afterwards
	g.mu.Lock()
	calls := g.calls
	g.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls != calls {
		t.Fatalf("grabbed after Stop: %d -> %d", calls, g.calls)
	}

	empty := NewCaptureService(nil, 0, nil, nil)
	empty.Start()
	if empty.Running() || empty.LatestFrame().Image != nil {
		t.Fatalf("nil grabber should not start")
	}
}
