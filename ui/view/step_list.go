package view

import (
	"image"

	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/ui/images"
	"github.com/soocke/cube-scanner-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// StepList shows one row per face in scan order: a chip in the expected
// center color, the step text and a swatch of the captured stickers.
type StepList interface {
	SetSteps(lines []string)
	SetFaceSwatch(face cube.Face, img image.Image)
}

type stepList struct {
	lines    [cube.NumFaces]*TLabelWidget
	swatches [cube.NumFaces]*LabelWidget
	photos   [cube.NumFaces]*Img
}

// NewStepList builds the rows inside parent.
func NewStepList(parent *FrameWidget) StepList {
	v := &stepList{}
	blank := images.EncodePNG(images.Swatches(nil, 14))
	for _, f := range cube.Faces {
		i := int(f)
		chip := Label(Width(2), Background(theme.Hex(images.LabelColor(f.ExpectedCenter()))), Relief("ridge"))
		Grid(chip, In(parent), Row(i), Column(0), Sticky("w"), Padx("0.2m"), Pady("0.2m"))
		v.lines[i] = TLabel(Txt("[ ] "+f.Name()), Style(theme.StyleStepLabel), Width(24))
		Grid(v.lines[i], In(parent), Row(i), Column(1), Sticky("w"), Padx("0.2m"))
		v.photos[i] = NewPhoto(Data(blank))
		v.swatches[i] = Label(Image(v.photos[i]), Borderwidth(0))
		Grid(v.swatches[i], In(parent), Row(i), Column(2), Sticky("e"), Padx("0.2m"), Pady("0.2m"))
	}
	return v
}

func (v *stepList) SetSteps(lines []string) {
	for i, line := range lines {
		if i >= len(v.lines) || v.lines[i] == nil {
			return
		}
		v.lines[i].Configure(Txt(line))
	}
}

func (v *stepList) SetFaceSwatch(face cube.Face, img image.Image) {
	if !face.Valid() || img == nil || v.swatches[face] == nil {
		return
	}
	swap(v.swatches[face], &v.photos[face], img)
}
