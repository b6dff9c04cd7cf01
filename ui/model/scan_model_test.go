package model

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
)

func whiteFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{240, 240, 240, 255}}, image.Point{}, draw.Src)
	return img
}

func TestScanModel_SwapKeepsListeners(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StabilitySeconds = 0.1
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewScanModel(scan.NewSession(cfg, logger))

	var got []cube.Face
	m.AddListener(func(f cube.Face, _ cube.FaceGrid) { got = append(got, f) })

	base := time.Unix(0, 0)
	frame := whiteFrame()
	m.SubmitFrame(frame, base)
	m.SubmitFrame(frame, base.Add(200*time.Millisecond))
	if len(got) != 1 || got[0] != cube.Up {
		t.Fatalf("captures before swap: %v", got)
	}

	old := m.Session()
	m.Swap(scan.NewSession(cfg, logger))
	if m.Session() == old {
		t.Fatalf("swap did not replace the session")
	}
	if m.Session().State().Count() != 0 {
		t.Fatalf("new session should start empty")
	}
	m.SubmitFrame(frame, base.Add(time.Second))
	m.SubmitFrame(frame, base.Add(1200*time.Millisecond))
	if len(got) != 2 {
		t.Fatalf("listener not carried over: %v", got)
	}

	m.Reset()
	if m.IsComplete() || m.Session().State().Count() != 0 {
		t.Fatalf("reset should clear captures")
	}
	if _, err := m.CubeString(); err == nil {
		t.Fatalf("incomplete scan must not encode")
	}
}
