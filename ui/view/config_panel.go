package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/cube-scanner-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the settings form. ApplyChanges writes parsed values back
// into *config.Config, restarts the scan and saves the file. Camera device,
// mirror and frame interval apply on the next launch.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
	onApply  func(*config.Config)
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, onApply: onApply, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("stabilitySeconds", "Hold Seconds", fmt.Sprintf("%.1f", c.StabilitySeconds))
	makeRow("boxSize", "Box Size Px", fmt.Sprintf("%d", c.BoxSize))
	makeRow("gap", "Gap Px", fmt.Sprintf("%d", c.Gap))
	makeRow("roiSize", "ROI Size Px", fmt.Sprintf("%d", c.ROISize))
	makeRow("margin", "ROI Margin Px", fmt.Sprintf("%d", c.Margin))
	makeRow("whiteMaxSaturation", "White Max Saturation (0-1)", fmt.Sprintf("%.3f", c.WhiteMaxSaturation))
	makeRow("cameraDevice", "Camera Device", fmt.Sprintf("%d", c.CameraDevice))
	makeRow("mirror", "Mirror (true/false)", fmt.Sprintf("%t", c.Mirror))
	makeRow("frameIntervalMs", "Frame Interval Ms", fmt.Sprintf("%d", c.FrameIntervalMs))
	makeRow("solverCommand", "Solver Command", c.SolverCommand)
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	assignFloat := func(id string, dst *float64) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if f, ok := parseFloatField(strings.TrimSpace(v.text(w))); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if i, ok := parseIntField(strings.TrimSpace(v.text(w))); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		w := v.widgets[id]
		if w == nil {
			return
		}
		if b, ok := parseBoolLoose(strings.TrimSpace(v.text(w))); ok {
			*dst = b
		}
	}
	assignFloat("stabilitySeconds", &cfg.StabilitySeconds)
	assignInt("boxSize", &cfg.BoxSize)
	assignInt("gap", &cfg.Gap)
	assignInt("roiSize", &cfg.ROISize)
	assignInt("margin", &cfg.Margin)
	assignFloat("whiteMaxSaturation", &cfg.WhiteMaxSaturation)
	assignInt("cameraDevice", &cfg.CameraDevice)
	assignBool("mirror", &cfg.Mirror)
	assignInt("frameIntervalMs", &cfg.FrameIntervalMs)
	if w := v.widgets["solverCommand"]; w != nil {
		val := strings.TrimSpace(v.text(w))
		if val != "" {
			cfg.SolverCommand = val
		}
	}
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
