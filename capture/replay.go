package capture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReplayGrabber serves the images of a directory in lexical file order.
type ReplayGrabber struct {
	files []string
	next  int
}

// OpenReplay lists the .png, .jpg and .jpeg files in dir.
func OpenReplay(dir string) (*ReplayGrabber, error) {
	if dir == "" {
		return nil, fmt.Errorf("capture: replay needs a frame directory")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("capture: read replay dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("capture: no frames in %s", dir)
	}
	sort.Strings(files)
	return &ReplayGrabber{files: files}, nil
}

// Len returns the number of frames.
func (r *ReplayGrabber) Len() int { return len(r.files) }

func (r *ReplayGrabber) Grab() (*image.RGBA, error) {
	if r.next >= len(r.files) {
		return nil, ErrEndOfFrames
	}
	path := r.files[r.next]
	r.next++
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("capture: %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (r *ReplayGrabber) Close() error { return nil }

func decodeFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}
