package model

import (
	"image"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/soocke/cube-scanner-go/config"
)

// SelectionModel holds the screen rectangle the screen source captures.
// The capture goroutine reads it while the UI writes it, so the rectangle is
// stored atomically. A zero rectangle means full screen.
type SelectionModel struct {
	cfg     *config.Config
	cfgPath string
	rect    atomic.Pointer[image.Rectangle]
}

// NewSelectionModel seeds the selection from cfg. Changes are written back to
// cfg and saved to cfgPath when it is non-empty.
func NewSelectionModel(cfg *config.Config, cfgPath string) *SelectionModel {
	m := &SelectionModel{cfg: cfg, cfgPath: cfgPath}
	if cfg != nil {
		if r := cfg.Selection(); r != nil {
			m.rect.Store(r)
		}
	}
	return m
}

// Active returns the selected rectangle or nil for full screen.
func (m *SelectionModel) Active() *image.Rectangle {
	if m == nil {
		return nil
	}
	r := m.rect.Load()
	if r == nil || r.Empty() {
		return nil
	}
	out := *r
	return &out
}

// Set stores r and persists it.
func (m *SelectionModel) Set(r image.Rectangle) error {
	if m == nil {
		return nil
	}
	r = r.Canon()
	m.rect.Store(&r)
	if m.cfg == nil {
		return nil
	}
	m.cfg.SelectionX, m.cfg.SelectionY = r.Min.X, r.Min.Y
	m.cfg.SelectionW, m.cfg.SelectionH = r.Dx(), r.Dy()
	return m.save()
}

// Clear reverts to full-screen capture.
func (m *SelectionModel) Clear() error {
	if m == nil {
		return nil
	}
	m.rect.Store(nil)
	if m.cfg == nil {
		return nil
	}
	m.cfg.SelectionX, m.cfg.SelectionY, m.cfg.SelectionW, m.cfg.SelectionH = 0, 0, 0, 0
	return m.save()
}

func (m *SelectionModel) save() error {
	if m.cfgPath == "" {
		return nil
	}
	return m.cfg.Save(m.cfgPath)
}

// geomRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geomRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseGeometry parses a Tk geometry string into a screen rectangle.
func ParseGeometry(g string) (image.Rectangle, bool) {
	m := geomRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}
