package capture

import "image"

// MirrorHorizontal returns a copy of src flipped around the vertical axis.
func MirrorHorizontal(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srow := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			copy(drow[(w-1-x)*4:(w-x)*4], srow[x*4:x*4+4])
		}
	}
	return dst
}

type mirrored struct{ Grabber }

// Mirrored wraps g so every frame is flipped horizontally.
func Mirrored(g Grabber) Grabber { return mirrored{g} }

func (m mirrored) Grab() (*image.RGBA, error) {
	img, err := m.Grabber.Grab()
	if err != nil {
		return nil, err
	}
	return MirrorHorizontal(img), nil
}
