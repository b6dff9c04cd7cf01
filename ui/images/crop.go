package images

import (
	"errors"
	"image"
	"image/draw"
)

// Crop copies the part of frame inside r grown by pad on every side. The
// rectangle is clamped to the frame and is at least 1x1. Returns the crop
// (origin 0,0) and the rectangle used, in frame coordinates.
func Crop(frame *image.RGBA, r image.Rectangle, pad int) (*image.RGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	r = r.Inset(-max(pad, 0)).Intersect(b)
	if r.Empty() {
		// keep a single pixel at the nearest frame corner
		x := min(max(r.Min.X, b.Min.X), b.Max.X-1)
		y := min(max(r.Min.Y, b.Min.Y), b.Max.Y-1)
		r = image.Rect(x, y, x+1, y+1)
		if b.Empty() {
			return nil, image.Rectangle{}, errors.New("empty frame")
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), frame, r.Min, draw.Src)
	return out, r, nil
}

// GridBounds returns the smallest rectangle holding every box.
func GridBounds(boxes [3][3]image.Rectangle) image.Rectangle {
	u := boxes[0][0]
	for r := range 3 {
		for c := range 3 {
			u = u.Union(boxes[r][c])
		}
	}
	return u
}
