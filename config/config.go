package config

import (
	"encoding/json"
	"image"
	"os"
	"time"
)

// HueBand maps a half-open hue interval [Min, Max) in degrees to a color name.
type HueBand struct {
	Color string  `json:"color"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Config holds runtime configuration for scanning and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug     bool   `json:"debug"`
	LogFormat string `json:"log_format"`

	// Grid geometry in frame pixels.
	BoxSize int `json:"box_size"`
	Gap     int `json:"gap"`
	ROISize int `json:"roi_size"`
	Margin  int `json:"margin"`

	// Classification
	StabilitySeconds   float64   `json:"stability_seconds"`
	WhiteMaxSaturation float64   `json:"white_max_saturation"`
	HueBands           []HueBand `json:"hue_bands"`

	// Frame source
	Source          string `json:"source"` // camera, screen or replay
	CameraDevice    int    `json:"camera_device"`
	Mirror          bool   `json:"mirror"`
	FrameIntervalMs int    `json:"frame_interval_ms"`

	// Screen source selection rectangle; zero width or height means full screen.
	SelectionX int `json:"selection_x"`
	SelectionY int `json:"selection_y"`
	SelectionW int `json:"selection_w"`
	SelectionH int `json:"selection_h"`

	// Collaborators
	SolverCommand string   `json:"solver_command"`
	SolverArgs    []string `json:"solver_args"`
	ListenAddr    string   `json:"listen_addr"`
	DatabaseURL   string   `json:"database_url"`
}

// DefaultHueBands returns the stock hue table. Values are the OpenCV 0-180
// thresholds of the calibration presets scaled to degrees.
func DefaultHueBands() []HueBand {
	return []HueBand{
		{Color: "orange", Min: 20, Max: 44},
		{Color: "yellow", Min: 44, Max: 90},
		{Color: "green", Min: 90, Max: 180},
		{Color: "blue", Min: 190, Max: 280},
		{Color: "red", Min: 0, Max: 20},
		{Color: "red", Min: 320, Max: 360},
	}
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		LogFormat:          "json",
		BoxSize:            50,
		Gap:                10,
		ROISize:            8,
		Margin:             6,
		StabilitySeconds:   3.0,
		WhiteMaxSaturation: 70.0 / 255.0,
		HueBands:           DefaultHueBands(),
		Source:             "camera",
		CameraDevice:       0,
		Mirror:             true,
		FrameIntervalMs:    33,
		SolverCommand:      "kociemba",
		ListenAddr:         "",
		DatabaseURL:        "",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.LogFormat != "json" && c.LogFormat != "text" {
		c.LogFormat = "json"
	}
	if c.BoxSize <= 0 {
		c.BoxSize = 50
	}
	if c.Gap < 0 {
		c.Gap = 10
	}
	if c.ROISize <= 0 || c.ROISize > c.BoxSize {
		c.ROISize = max(1, min(8, c.BoxSize))
	}
	if c.Margin < 0 || 2*c.Margin+c.ROISize > c.BoxSize {
		c.Margin = max(0, (c.BoxSize-c.ROISize)/4)
	}
	if c.StabilitySeconds <= 0 {
		c.StabilitySeconds = 3.0
	}
	if c.WhiteMaxSaturation < 0 || c.WhiteMaxSaturation > 1 {
		c.WhiteMaxSaturation = 70.0 / 255.0
	}
	if len(c.HueBands) == 0 {
		c.HueBands = DefaultHueBands()
	}
	switch c.Source {
	case "camera", "screen", "replay":
	default:
		c.Source = "camera"
	}
	if c.CameraDevice < 0 {
		c.CameraDevice = 0
	}
	if c.SelectionW < 0 || c.SelectionH < 0 {
		c.SelectionW, c.SelectionH = 0, 0
	}
	if c.FrameIntervalMs <= 0 {
		c.FrameIntervalMs = 33
	}
	if c.SolverCommand == "" {
		c.SolverCommand = "kociemba"
	}
	return nil
}

// StabilityDuration returns StabilitySeconds as a time.Duration.
func (c *Config) StabilityDuration() time.Duration {
	return time.Duration(c.StabilitySeconds * float64(time.Second))
}

// FrameInterval returns FrameIntervalMs as a time.Duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// Selection returns the screen selection rectangle, or nil for full screen.
func (c *Config) Selection() *image.Rectangle {
	if c.SelectionW <= 0 || c.SelectionH <= 0 {
		return nil
	}
	r := image.Rect(c.SelectionX, c.SelectionY, c.SelectionX+c.SelectionW, c.SelectionY+c.SelectionH)
	return &r
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
