package view

import (
	"fmt"
	"log/slog"

	"github.com/soocke/cube-scanner-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay opens a transparent window the user drags over the part
// of the screen that shows the cube. Only used with the screen source.
type SelectionOverlay interface {
	OpenOrFocus()
	Clear()
}

type selectionOverlay struct {
	logger *slog.Logger
	model  *model.SelectionModel
	win    *ToplevelWidget
}

// NewSelectionOverlay creates a new overlay manager.
func NewSelectionOverlay(m *model.SelectionModel, logger *slog.Logger) SelectionOverlay {
	return &selectionOverlay{logger: logger, model: m}
}

func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	win := App.Toplevel(Borderwidth(2), Background("#008080"))
	win.WmTitle("Cube Region")
	v.win = win

	screenW, screenH := screenSize()
	initW, initH := max(screenW/3, 1), max(screenH/3, 1)
	if r := v.model.Active(); r != nil {
		WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y))
	} else {
		WmGeometry(win.Window, fmt.Sprintf("%dx%d+%d+%d", initW, initH, (screenW-initW)/2, (screenH-initH)/2))
	}
	WmAttributes(win.Window, "-topmost", 1)
	WmAttributes(win.Window, "-transparentcolor", "#008080")
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	center := win.Frame(Background("#008080"), Borderwidth(3), Relief("solid"))
	Grid(center, Row(0), Column(0), Sticky("nsew"))

	controls := win.Frame()
	Grid(controls, Row(1), Column(0), Sticky("we"))
	confirm := win.Button(Txt("Confirm [Enter]"), Command(v.confirm))
	Grid(confirm, In(controls), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	cancel := win.Button(Txt("Cancel [Esc]"), Command(v.destroy))
	Grid(cancel, In(controls), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	clear := win.Button(Txt("Full Screen"), Command(func() { v.Clear(); v.destroy() }))
	Grid(clear, In(controls), Row(0), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
}

func (v *selectionOverlay) Clear() {
	if err := v.model.Clear(); err != nil && v.logger != nil {
		v.logger.Error("selection save failed", "error", err)
	}
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	rect, ok := model.ParseGeometry(WmGeometry(v.win.Window))
	if ok {
		if err := v.model.Set(rect); err != nil && v.logger != nil {
			v.logger.Error("selection save failed", "error", err)
		}
		if v.logger != nil {
			v.logger.Info("screen region selected", "rect", rect.String())
		}
	}
	v.destroy()
}

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
	}
}

// screenSize returns the assumed screen dimensions used to center the
// overlay on first open.
func screenSize() (int, int) {
	return 1920, 1080
}
