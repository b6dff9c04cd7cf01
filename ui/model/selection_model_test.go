package model

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/soocke/cube-scanner-go/config"
)

func TestParseGeometry(t *testing.T) {
	cases := []struct {
		in   string
		want image.Rectangle
		ok   bool
	}{
		{"640x480+100+50", image.Rect(100, 50, 740, 530), true},
		{" 10x20+-5+-7\n", image.Rect(-5, -7, 5, 13), true},
		{"0x480+0+0", image.Rectangle{}, false},
		{"640x480", image.Rectangle{}, false},
		{"wide", image.Rectangle{}, false},
	}
	for _, c := range cases {
		got, ok := ParseGeometry(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseGeometry(%q)=%v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestSelectionModel_PersistsToConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := config.DefaultConfig()
	m := NewSelectionModel(cfg, path)
	if m.Active() != nil {
		t.Fatalf("default selection should be full screen")
	}
	if err := m.Set(image.Rect(10, 20, 110, 220)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if r := m.Active(); r == nil || *r != image.Rect(10, 20, 110, 220) {
		t.Fatalf("active=%v", r)
	}
	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r := loaded.Selection(); r == nil || r.Dx() != 100 || r.Dy() != 200 {
		t.Fatalf("saved selection=%v", r)
	}
	// a fresh model picks the saved rectangle up
	if r := NewSelectionModel(loaded, "").Active(); r == nil || r.Min != image.Pt(10, 20) {
		t.Fatalf("seeded selection=%v", r)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.Active() != nil || cfg.Selection() != nil {
		t.Fatalf("clear should revert to full screen")
	}
}
