package capture

import (
	"image"
	"log/slog"
	"time"
)

// Grabber yields frames on demand; see the root capture package for sources.
type Grabber interface {
	Grab() (*image.RGBA, error)
	Close() error
}

// FrameSnapshot is one grabbed frame. CapturedAt is taken right after the
// grab returns and keeps its monotonic reading, so the stability gate can use
// it directly.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// CaptureStats counts grabs since the service was created.
type CaptureStats struct {
	Captures       uint64
	Failures       uint64
	AvgCapture     time.Duration
	LatestFrameAge time.Duration
	Sequence       uint64
	Exhausted      bool
}

func (s CaptureStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("captures", s.Captures),
		slog.Uint64("failures", s.Failures),
		slog.Duration("avg_capture", s.AvgCapture),
		slog.Duration("age", s.LatestFrameAge),
		slog.Bool("exhausted", s.Exhausted),
	)
}
