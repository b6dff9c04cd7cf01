package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"
)

// CameraGrabber reads frames from a video device through OpenCV.
type CameraGrabber struct {
	cam    *gocv.VideoCapture
	mat    gocv.Mat
	flip   gocv.Mat
	mirror bool
}

// OpenCamera opens device id. When mirror is set frames are flipped around
// the vertical axis, matching what the operator sees in a selfie preview.
func OpenCamera(id int, mirror bool) (*CameraGrabber, error) {
	cam, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("capture: open camera %d: %w", id, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, fmt.Errorf("capture: camera %d not available", id)
	}
	return &CameraGrabber{cam: cam, mat: gocv.NewMat(), flip: gocv.NewMat(), mirror: mirror}, nil
}

func (c *CameraGrabber) Grab() (*image.RGBA, error) {
	if ok := c.cam.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, errors.New("capture: camera read failed")
	}
	src := c.mat
	if c.mirror {
		gocv.Flip(c.mat, &c.flip, 1)
		src = c.flip
	}
	img, err := src.ToImage()
	if err != nil {
		return nil, fmt.Errorf("capture: convert frame: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out, nil
}

func (c *CameraGrabber) Close() error {
	c.mat.Close()
	c.flip.Close()
	return c.cam.Close()
}
