package sampler

import (
	"image"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
)

// Side names one of the four inward-offset regions of a cell.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Cell is the geometry of one grid cell: its box and four sampling regions.
type Cell struct {
	Pos  cube.Position
	Box  image.Rectangle
	ROIs [4]image.Rectangle
}

// Layout is the 3x3 grid centered in a frame of a given size. Rectangles are
// in frame coordinates and may extend past the frame on very small inputs.
type Layout struct {
	Bounds image.Rectangle
	Cells  [3][3]Cell
}

// NewLayout computes the grid for frames with the given bounds.
func NewLayout(bounds image.Rectangle, cfg *config.Config) Layout {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	box, gap, roi, margin := cfg.BoxSize, cfg.Gap, cfg.ROISize, cfg.Margin
	span := 3*box + 2*gap
	startX := bounds.Min.X + (bounds.Dx()-span)/2
	startY := bounds.Min.Y + (bounds.Dy()-span)/2
	halfBox, halfROI := box/2, roi/2

	l := Layout{Bounds: bounds}
	for r := range 3 {
		for c := range 3 {
			x := startX + c*(box+gap)
			y := startY + r*(box+gap)
			cell := Cell{
				Pos: cube.Position{Row: r, Col: c},
				Box: image.Rect(x, y, x+box, y+box),
			}
			cell.ROIs[Top] = square(x+halfBox-halfROI, y+margin, roi)
			cell.ROIs[Bottom] = square(x+halfBox-halfROI, y+box-margin-roi, roi)
			cell.ROIs[Left] = square(x+margin, y+halfBox-halfROI, roi)
			cell.ROIs[Right] = square(x+box-margin-roi, y+halfBox-halfROI, roi)
			l.Cells[r][c] = cell
		}
	}
	return l
}

func square(x, y, size int) image.Rectangle {
	return image.Rect(x, y, x+size, y+size)
}

// Cell returns the geometry at p.
func (l Layout) Cell(p cube.Position) Cell { return l.Cells[p.Row][p.Col] }
