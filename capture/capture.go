// Package capture provides frame sources for the scanner: the screen, a
// camera device and a directory of recorded frames.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/soocke/cube-scanner-go/config"
	domcapture "github.com/soocke/cube-scanner-go/domain/capture"
)

// ErrEndOfFrames is returned by finite sources once every frame was served.
var ErrEndOfFrames = errors.New("capture: no more frames")

// Grabber is the frame source contract of the capture service.
// Implementations are not required to be safe for concurrent use.
type Grabber = domcapture.Grabber

// Open builds the source selected by cfg.Source. replayDir is only used by
// the replay source. selection overrides the configured screen rectangle when
// non-nil.
func Open(cfg *config.Config, replayDir string, selection func() *image.Rectangle) (Grabber, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch cfg.Source {
	case "camera":
		return OpenCamera(cfg.CameraDevice, cfg.Mirror)
	case "screen":
		if selection == nil {
			selection = cfg.Selection
		}
		var g Grabber = &ScreenGrabber{Selection: selection}
		if cfg.Mirror {
			g = Mirrored(g)
		}
		return g, nil
	case "replay":
		return OpenReplay(replayDir)
	}
	return nil, fmt.Errorf("capture: unknown source %q", cfg.Source)
}
