package images

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
)

// LabelColor is the swatch used to draw a coarse label.
func LabelColor(c cube.Color) color.RGBA {
	switch c {
	case cube.White:
		return color.RGBA{240, 240, 240, 255}
	case cube.Yellow:
		return color.RGBA{250, 220, 0, 255}
	case cube.Green:
		return color.RGBA{0, 180, 60, 255}
	case cube.Blue:
		return color.RGBA{0, 90, 230, 255}
	case cube.Orange:
		return color.RGBA{255, 130, 0, 255}
	case cube.Red:
		return color.RGBA{210, 20, 30, 255}
	default:
		return color.RGBA{110, 110, 110, 255}
	}
}

var (
	roiColor      = color.RGBA{255, 255, 255, 255}
	progressBack  = color.RGBA{40, 40, 40, 255}
	progressFill  = color.RGBA{0, 200, 90, 255}
	capturedFlash = color.RGBA{0, 255, 120, 255}
)

// Overlay returns a copy of frame with the scan grid drawn on top: each cell
// outlined in its label color, its sampling regions outlined in white, and a
// stability bar along the bottom edge.
func Overlay(frame *image.RGBA, st scan.FrameStatus) *image.RGBA {
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, frame, b.Min, draw.Src)

	for r := range 3 {
		for c := range 3 {
			cell := st.Cells[r][c]
			col := LabelColor(cell.Label)
			if st.Captured {
				col = capturedFlash
			}
			outline(out, cell.Box, 2, col)
			for _, roi := range cell.ROIs {
				outline(out, roi, 1, roiColor)
			}
		}
	}

	barH := max(b.Dy()/40, 4)
	bar := image.Rect(b.Min.X, b.Max.Y-barH, b.Max.X, b.Max.Y)
	draw.Draw(out, bar, &image.Uniform{progressBack}, image.Point{}, draw.Src)
	fillW := int(float64(bar.Dx()) * st.Gate.Progress)
	if fillW > 0 {
		draw.Draw(out, image.Rect(bar.Min.X, bar.Min.Y, bar.Min.X+fillW, bar.Max.Y), &image.Uniform{progressFill}, image.Point{}, draw.Src)
	}
	return out
}

// Swatches renders a captured face as a 3x3 block of label colors, each
// cell size pixels square. Nil grids render as unknown.
func Swatches(fg *cube.FaceGrid, size int) *image.RGBA {
	size = max(size, 1)
	img := image.NewRGBA(image.Rect(0, 0, 3*size, 3*size))
	for r := range 3 {
		for c := range 3 {
			label := cube.Unknown
			if fg != nil {
				label = fg.Labels[r][c]
			}
			cell := image.Rect(c*size, r*size, (c+1)*size, (r+1)*size)
			draw.Draw(img, cell, &image.Uniform{LabelColor(label)}, image.Point{}, draw.Src)
			outline(img, cell, 1, color.RGBA{0, 0, 0, 255})
		}
	}
	return img
}

// outline draws the border of r with the given thickness, clipped to dst.
func outline(dst *image.RGBA, r image.Rectangle, t int, c color.RGBA) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{c}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t),
		image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y),
		image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), u, image.Point{}, draw.Src)
	}
}
