package capture

import (
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the primary screen, or the rectangle returned by
// Selection when it is set and non-empty.
type ScreenGrabber struct {
	Selection func() *image.Rectangle
}

func (s *ScreenGrabber) Grab() (*image.RGBA, error) {
	if s.Selection != nil {
		if r := s.Selection(); r != nil && !r.Empty() {
			return screenshot.CaptureRect(*r)
		}
	}
	return screenshot.CaptureScreen()
}

func (s *ScreenGrabber) Close() error { return nil }
