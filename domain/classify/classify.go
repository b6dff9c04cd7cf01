package classify

import (
	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/cube"
)

// Rule is one entry of the ordered rule table.
type Rule struct {
	Color cube.Color
	Match func(s cube.Sample) bool
}

// Classifier maps averaged cell samples to coarse color labels. Rules are
// evaluated in order and the first match wins; a sample matched by no rule is
// cube.Unknown. A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New builds the rule table from cfg: a low-saturation white rule first, then
// one rule per configured hue band. A nil cfg uses the defaults.
func New(cfg *config.Config) *Classifier {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	whiteMax := cfg.WhiteMaxSaturation
	rules := []Rule{{
		Color: cube.White,
		Match: func(s cube.Sample) bool { return s.S < whiteMax },
	}}
	bands := cfg.HueBands
	if len(bands) == 0 {
		bands = config.DefaultHueBands()
	}
	for _, b := range bands {
		c, ok := cube.ParseColor(b.Color)
		if !ok || c == cube.Unknown || b.Max <= b.Min {
			continue
		}
		lo, hi := b.Min, b.Max
		rules = append(rules, Rule{
			Color: c,
			Match: func(s cube.Sample) bool { return s.H >= lo && s.H < hi },
		})
	}
	return &Classifier{rules: rules}
}

// NewWithRules returns a classifier over a caller-supplied rule table.
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify returns the label of a single sample.
func (c *Classifier) Classify(s cube.Sample) cube.Color {
	if !s.Valid {
		return cube.Unknown
	}
	for _, r := range c.rules {
		if r.Match(s) {
			return r.Color
		}
	}
	return cube.Unknown
}

// ClassifyGrid labels all nine samples.
func (c *Classifier) ClassifyGrid(g cube.SampleGrid) cube.LabelGrid {
	var out cube.LabelGrid
	for r := range 3 {
		for col := range 3 {
			out[r][col] = c.Classify(g[r][col])
		}
	}
	return out
}

// Face classifies a sample grid and pairs it with its labels.
func (c *Classifier) Face(g cube.SampleGrid) cube.FaceGrid {
	return cube.FaceGrid{Samples: g, Labels: c.ClassifyGrid(g)}
}
