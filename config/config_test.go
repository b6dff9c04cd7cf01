package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate_ClampsBadValues(t *testing.T) {
	c := &Config{
		LogFormat:          "yaml",
		BoxSize:            -1,
		Gap:                -3,
		ROISize:            500,
		Margin:             -1,
		StabilitySeconds:   0,
		WhiteMaxSaturation: 4,
		Source:             "webcam",
		FrameIntervalMs:    0,
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.LogFormat != "json" || c.BoxSize != 50 || c.Gap != 10 {
		t.Fatalf("unexpected clamp: %+v", c)
	}
	if c.ROISize > c.BoxSize || 2*c.Margin+c.ROISize > c.BoxSize {
		t.Fatalf("roi does not fit the box: roi=%d margin=%d box=%d", c.ROISize, c.Margin, c.BoxSize)
	}
	if c.StabilityDuration() != 3*time.Second {
		t.Fatalf("stability=%v", c.StabilityDuration())
	}
	if c.Source != "camera" || c.SolverCommand != "kociemba" || len(c.HueBands) == 0 {
		t.Fatalf("defaults not restored: %+v", c)
	}
}

func TestDefaultConfig_MatchesScannerConstants(t *testing.T) {
	c := DefaultConfig()
	if c.BoxSize != 50 || c.Gap != 10 || c.ROISize != 8 || c.Margin != 6 {
		t.Fatalf("grid geometry drifted: %+v", c)
	}
	if c.StabilityDuration() != 3*time.Second {
		t.Fatalf("stability=%v", c.StabilityDuration())
	}
	before := *c
	_ = c.Validate()
	if c.BoxSize != before.BoxSize || c.Margin != before.Margin || c.ROISize != before.ROISize {
		t.Fatalf("validate changed valid defaults")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil || cfg == nil {
		t.Fatalf("expected defaults, got err=%v", err)
	}
	if cfg.BoxSize != 50 {
		t.Fatalf("box=%d", cfg.BoxSize)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	c := DefaultConfig()
	c.StabilitySeconds = 1.5
	c.SolverArgs = []string{"--quiet"}
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.StabilityDuration() != 1500*time.Millisecond || len(got.SolverArgs) != 1 {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if cfg == nil || cfg.BoxSize != 50 {
		t.Fatalf("expected defaults alongside error")
	}
}
