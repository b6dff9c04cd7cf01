package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Handlers are the callbacks bound to the window's buttons. Nil entries
// leave the button out.
type Handlers struct {
	OnToggle    func()
	OnRestart   func()
	OnSelection func()
	OnExit      func()
	OnApply     func(*config.Config)
}

// RootView composes the top-level layout. It satisfies the view contracts
// of the scan, step, session and capture presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	Session     SessionStats
	ConfigPanel ConfigPanel
	Preview     CapturePreview
	Steps       StepList

	StatusLabel *TLabelWidget
	solution    *TextWidget
	warn        bool
}

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout:
//
//	row 0      session stats | status                   | buttons
//	rows 1..n  config panel  | step list, solution text |
//	row n+1    preview (cols 0-3)                       | grid zoom
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	top := Frame()
	Grid(top, Row(0), Column(0), Columnspan(2), Sticky("w"), Padx("0.3m"), Pady("0.3m"))
	rv.Session = NewSessionStats(top, 0, 0)

	rv.StatusLabel = TLabel(Txt("Press Start to scan."), Style(theme.StyleStatusLabel), Width(60))
	Grid(rv.StatusLabel, Row(0), Column(2), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Rowspan(2), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	btnRow := 0
	addButton := func(text, style string, cmd func()) {
		if cmd == nil {
			return
		}
		b := TButton(Txt(text), Style(style), Command(cmd))
		Grid(b, In(btnFrame), Row(btnRow), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
		btnRow++
	}
	addButton("Start / Stop", theme.StylePrimaryButton, h.OnToggle)
	addButton("Restart", theme.StylePrimaryButton, h.OnRestart)
	addButton("Screen Region", theme.StylePrimaryButton, h.OnSelection)
	addButton("Exit", theme.StyleDangerButton, h.OnExit)

	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.OnApply)
	endRow := rv.ConfigPanel.Build(1)

	side := Frame()
	Grid(side, Row(1), Column(2), Columnspan(2), Rowspan(endRow-1), Sticky("nw"), Padx("0.4m"), Pady("0.3m"))
	steps := Frame()
	Grid(steps, In(side), Row(0), Column(0), Sticky("nw"))
	rv.Steps = NewStepList(steps)
	rv.solution = Text(Height(10), Width(48), Wrap("word"))
	Grid(rv.solution, In(side), Row(1), Column(0), Sticky("nwe"), Pady("0.4m"))

	rv.Preview = NewCapturePreview(endRow)
}

// SetStatus updates the operator hint. Wrong-face and unreadable hints use
// the warning style.
func (rv *RootView) SetStatus(text string) {
	if rv == nil || rv.StatusLabel == nil {
		return
	}
	warn := strings.HasPrefix(text, "Wrong") || strings.HasPrefix(text, "Some") || strings.HasPrefix(text, "Solve failed")
	if warn != rv.warn {
		style := theme.StyleStatusLabel
		if warn {
			style = theme.StyleWarnLabel
		}
		rv.StatusLabel.Configure(Style(style))
		rv.warn = warn
	}
	rv.StatusLabel.Configure(Txt(text))
}

// SetSolution replaces the solution text.
func (rv *RootView) SetSolution(lines []string) {
	if rv == nil || rv.solution == nil {
		return
	}
	rv.solution.Delete("1.0", END)
	rv.solution.Insert("1.0", strings.Join(lines, "\n"))
}

func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

func (rv *RootView) UpdateGrid(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdateGrid(img)
	}
}

func (rv *RootView) SetSteps(lines []string) {
	if rv != nil && rv.Steps != nil {
		rv.Steps.SetSteps(lines)
	}
}

func (rv *RootView) SetFaceSwatch(face cube.Face, img image.Image) {
	if rv != nil && rv.Steps != nil {
		rv.Steps.SetFaceSwatch(face, img)
	}
}

// SetSession updates the scan duration and finished scan count.
func (rv *RootView) SetSession(scan time.Duration, completed int) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetScan(scan)
	rv.Session.SetCompleted(completed)
}

// PreviewReset clears the preview images.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}

// ConfigEditable locks the settings form while scanning.
func (rv *RootView) ConfigEditable(b bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(b)
	}
}
