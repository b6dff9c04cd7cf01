package sampler

import (
	"image"
	"image/color"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
)

// Sampler averages the four sampling regions of every grid cell. The layout
// is computed on first use and recomputed only when frame bounds change.
// Safe for concurrent use.
type Sampler struct {
	cfg    *config.Config
	mu     sync.Mutex
	layout Layout
	ready  bool
}

// New returns a Sampler for cfg. A nil cfg uses the defaults.
func New(cfg *config.Config) *Sampler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Sampler{cfg: cfg}
}

// Layout returns the grid for frames with the given bounds.
func (s *Sampler) Layout(bounds image.Rectangle) Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready || s.layout.Bounds != bounds {
		s.layout = NewLayout(bounds, s.cfg)
		s.ready = true
	}
	return s.layout
}

// Sample returns one averaged sample per cell. The frame is not modified.
// Pixels outside the frame are skipped; a cell with no readable pixel yields
// an invalid sample.
func (s *Sampler) Sample(frame image.Image) cube.SampleGrid {
	var out cube.SampleGrid
	if frame == nil {
		return out
	}
	l := s.Layout(frame.Bounds())
	for r := range 3 {
		for c := range 3 {
			out[r][c] = sampleCell(frame, l.Cells[r][c])
		}
	}
	return out
}

type accum struct {
	h, s, v float64
	r, g, b float64
	n       int
}

func (a *accum) add(c colorful.Color) {
	h, s, v := c.Hsv()
	a.h += h
	a.s += s
	a.v += v
	a.r += c.R
	a.g += c.G
	a.b += c.B
	a.n++
}

// sampleCell computes the mean of each region, then the mean of the region
// means. Hue is averaged arithmetically.
func sampleCell(frame image.Image, cell Cell) cube.Sample {
	var sum accum
	regions := 0
	fb := frame.Bounds()
	for _, roi := range cell.ROIs {
		rect := roi.Intersect(fb)
		if rect.Empty() {
			continue
		}
		var a accum
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				a.add(pixelAt(frame, x, y))
			}
		}
		n := float64(a.n)
		sum.h += a.h / n
		sum.s += a.s / n
		sum.v += a.v / n
		sum.r += a.r / n
		sum.g += a.g / n
		sum.b += a.b / n
		regions++
	}
	if regions == 0 {
		return cube.Sample{}
	}
	k := float64(regions)
	return cube.Sample{
		H:     sum.h / k,
		S:     sum.s / k,
		V:     sum.v / k,
		RGB:   colorful.Color{R: sum.r / k, G: sum.g / k, B: sum.b / k},
		Valid: true,
	}
}

func pixelAt(frame image.Image, x, y int) colorful.Color {
	if rgba, ok := frame.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		p := rgba.Pix[i : i+3 : i+3]
		return colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
	}
	c := color.NRGBAModel.Convert(frame.At(x, y)).(color.NRGBA)
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
