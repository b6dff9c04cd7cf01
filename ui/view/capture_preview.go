package view

import (
	"image"

	"github.com/soocke/cube-scanner-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the annotated camera frame and a zoomed crop of the
// 3x3 grid next to it.
type CapturePreview interface {
	UpdatePreview(img image.Image)
	UpdateGrid(img image.Image)
	Reset()
}

type capturePreview struct {
	previewLabel *LabelWidget
	gridLabel    *LabelWidget
	prevPreview  *Img
	prevGrid     *Img
}

const (
	maxPreviewW = 480
	maxPreviewH = 360
	maxGridW    = 220
	maxGridH    = 220
)

// NewCapturePreview grids the preview across columns 0-3 of row and the grid
// zoom into column 4.
func NewCapturePreview(row int) CapturePreview {
	v := &capturePreview{}
	v.prevPreview = placeholderPhoto(maxPreviewW/2, maxPreviewH/2)
	v.prevGrid = placeholderPhoto(maxGridW/2, maxGridH/2)
	v.previewLabel = Label(Image(v.prevPreview), Borderwidth(1), Relief("sunken"))
	v.gridLabel = Label(Image(v.prevGrid), Borderwidth(1), Relief("sunken"))
	Grid(v.previewLabel, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.gridLabel, Row(row), Column(4), Sticky("n"), Padx("0.4m"), Pady("0.4m"))
	return v
}

func placeholderPhoto(w, h int) *Img {
	return NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))))
}

// swap replaces the label's photo, deleting the old one so Tk does not keep
// stale pixel buffers alive.
func swap(lbl *LabelWidget, prev **Img, img image.Image) {
	if *prev != nil {
		(*prev).Delete()
	}
	*prev = NewPhoto(Data(images.EncodePNG(img)))
	lbl.Configure(Image(*prev))
}

func (v *capturePreview) UpdatePreview(img image.Image) {
	if v.previewLabel == nil || img == nil {
		return
	}
	swap(v.previewLabel, &v.prevPreview, images.ScaleToFit(img, maxPreviewW, maxPreviewH))
}

func (v *capturePreview) UpdateGrid(img image.Image) {
	if v.gridLabel == nil || img == nil {
		return
	}
	swap(v.gridLabel, &v.prevGrid, images.ScaleToFit(img, maxGridW, maxGridH))
}

func (v *capturePreview) Reset() {
	if v.previewLabel != nil {
		swap(v.previewLabel, &v.prevPreview, image.NewRGBA(image.Rect(0, 0, maxPreviewW/2, maxPreviewH/2)))
	}
	if v.gridLabel != nil {
		swap(v.gridLabel, &v.prevGrid, image.NewRGBA(image.Rect(0, 0, maxGridW/2, maxGridH/2)))
	}
}
