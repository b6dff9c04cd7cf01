package capture

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// CaptureService pulls frames from a Grabber at a fixed interval and exposes
// the latest capture alongside instrumentation data. Use NewCaptureService to
// construct an instance.
type CaptureService interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	Stats() CaptureStats
	Done() <-chan struct{}
}

type captureService struct {
	grabber      Grabber
	interval     time.Duration
	endErr       error
	logger       *slog.Logger
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	captures     atomic.Uint64
	failures     atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	stop         chan struct{}
	exited       chan struct{}
	done         chan struct{}
	mu           sync.Mutex
}

// NewCaptureService constructs a capture service over g. When endErr is
// non-nil, a grab error matching it (errors.Is) stops the loop for good;
// other errors are counted and retried.
func NewCaptureService(g Grabber, interval time.Duration, endErr error, logger *slog.Logger) CaptureService {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &captureService{grabber: g, interval: interval, endErr: endErr, logger: logger, done: make(chan struct{})}
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

// Done is closed once the grabber runs out of frames. It stays open after Stop.
func (s *captureService) Done() <-chan struct{} { return s.done }

func (s *captureService) Stats() CaptureStats {
	st := CaptureStats{Captures: s.captures.Load(), Failures: s.failures.Load()}
	if total := s.captureNanos.Load(); st.Captures > 0 {
		st.AvgCapture = time.Duration(total / st.Captures)
	}
	snap := s.LatestFrame()
	st.Sequence = snap.Sequence
	if !snap.CapturedAt.IsZero() {
		st.LatestFrameAge = time.Since(snap.CapturedAt)
	}
	select {
	case <-s.done:
		st.Exhausted = true
	default:
	}
	return st
}

func (s *captureService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() || s.grabber == nil {
		return
	}
	select {
	case <-s.done:
		return
	default:
	}
	s.running.Store(true)
	s.stop = make(chan struct{})
	s.exited = make(chan struct{})
	go s.loop(s.stop, s.exited)
}

// Stop ends the grab loop and waits for an in-flight grab to return, so the
// grabber may be closed afterwards.
func (s *captureService) Stop() {
	s.mu.Lock()
	exited := s.exited
	if s.running.Load() {
		s.running.Store(false)
		close(s.stop)
	}
	s.mu.Unlock()
	if exited != nil {
		<-exited
	}
}

func (s *captureService) loop(stop, exited chan struct{}) {
	defer close(exited)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	for {
		start := time.Now()
		img, err := s.grabber.Grab()
		switch {
		case err != nil && s.endErr != nil && errors.Is(err, s.endErr):
			if s.logger != nil {
				s.logger.Info("capture source exhausted", "frames", s.captures.Load())
			}
			s.finish()
			return
		case err != nil:
			s.failures.Add(1)
			if s.logger != nil {
				s.logger.Error("capture grab", "error", err)
			}
		case img != nil:
			now := time.Now()
			s.captureNanos.Add(uint64(now.Sub(start).Nanoseconds()))
			s.captures.Add(1)
			seq := s.sequence.Add(1)
			s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: now, Sequence: seq})
		}

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *captureService) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		s.running.Store(false)
		close(s.stop)
	}
	close(s.done)
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	s.logger.Debug("capture stats", "stats", s.Stats())
}
