package scan

import (
	"errors"
	"image"
	"image/color"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/encode"
	"github.com/soocke/cube-scanner-go/domain/sampler"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var stickerRGB = map[cube.Color]color.RGBA{
	cube.White:  {255, 255, 255, 255},
	cube.Red:    {200, 0, 0, 255},
	cube.Green:  {0, 200, 0, 255},
	cube.Yellow: {230, 230, 0, 255},
	cube.Orange: {255, 128, 0, 255},
	cube.Blue:   {0, 0, 200, 255},
}

// faceFrame paints each grid cell with the sticker color from labels.
func faceFrame(labels cube.LabelGrid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	l := sampler.NewLayout(img.Bounds(), nil)
	for r := range 3 {
		for c := range 3 {
			box := l.Cells[r][c].Box
			col := stickerRGB[labels[r][c]]
			for y := box.Min.Y; y < box.Max.Y; y++ {
				for x := box.Min.X; x < box.Max.X; x++ {
					img.SetRGBA(x, y, col)
				}
			}
		}
	}
	return img
}

func solidLabels(c cube.Color) cube.LabelGrid {
	var g cube.LabelGrid
	for r := range 3 {
		for col := range 3 {
			g[r][col] = c
		}
	}
	return g
}

func TestSession_FullSolvedScan(t *testing.T) {
	s := NewSession(config.DefaultConfig(), discardLogger())
	var captured []cube.Face
	s.AddListener(func(f cube.Face, _ cube.FaceGrid) { captured = append(captured, f) })

	now := base
	for i, f := range Sequence {
		frame := faceFrame(solidLabels(f.ExpectedCenter()))
		st := s.SubmitFrame(frame, now)
		if st.Captured || st.Expected != f || st.Steps[i] != StepCurrent {
			t.Fatalf("slot %v first frame: %+v", f, st.Gate)
		}
		now = now.Add(3 * time.Second)
		st = s.SubmitFrame(frame, now)
		if !st.Captured || st.Face != f || st.Steps[i] != StepDone {
			t.Fatalf("slot %v not captured: status=%v", f, st.Gate.Status)
		}
		now = now.Add(100 * time.Millisecond)
	}
	if !s.IsComplete() || len(captured) != cube.NumFaces {
		t.Fatalf("complete=%v captured=%v", s.IsComplete(), captured)
	}
	got, err := s.CubeString()
	if err != nil {
		t.Fatalf("cube string: %v", err)
	}
	if got != "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB" {
		t.Fatalf("got %s", got)
	}
	coarse, err := s.CoarseString()
	if err != nil || coarse != got {
		t.Fatalf("coarse=%s err=%v", coarse, err)
	}
}

func TestSession_WrongCenterKeepsSlot(t *testing.T) {
	s := NewSession(nil, discardLogger())
	frame := faceFrame(solidLabels(cube.Green))
	s.SubmitFrame(frame, base)
	st := s.SubmitFrame(frame, base.Add(10*time.Second))
	if st.Captured || st.Gate.Status != GateWrongCenter || st.Expected != cube.Up {
		t.Fatalf("status=%+v", st.Gate)
	}
	if st.Labels.Center() != cube.Green || st.Cells[1][1].Label != cube.Green {
		t.Fatalf("labels=%v", st.Labels)
	}
}

func TestSession_CubeStringIncomplete(t *testing.T) {
	s := NewSession(nil, discardLogger())
	_, err := s.CubeString()
	var ee *encode.EncodeError
	if !errors.Is(err, encode.ErrIncomplete) || !errors.As(err, &ee) || ee.Face != cube.Up {
		t.Fatalf("err=%v", err)
	}
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(nil, discardLogger())
	frame := faceFrame(solidLabels(cube.White))
	s.SubmitFrame(frame, base)
	s.SubmitFrame(frame, base.Add(3*time.Second))
	if f, _ := s.Current(); f != cube.Right {
		t.Fatalf("current=%v", f)
	}
	s.Reset()
	if f, ok := s.Current(); !ok || f != cube.Up || s.State().Count() != 0 {
		t.Fatalf("reset failed: %v %v", f, ok)
	}
	if s.Last().Steps[0] != StepCurrent {
		t.Fatalf("steps=%v", s.Last().Steps)
	}
}
