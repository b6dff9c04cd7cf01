package classify

import "github.com/soocke/cube-scanner-go/domain/cube"

// Range is a closed interval.
type Range struct{ Min, Max float64 }

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Preset is an HSV box used by the calibrate command to show which colors a
// cell would pass for. H is in degrees, S and V in [0,1].
type Preset struct {
	Color   cube.Color
	H, S, V Range
}

// Matches reports whether s lies inside the box.
func (p Preset) Matches(s cube.Sample) bool {
	return s.Valid && p.H.contains(s.H) && p.S.contains(s.S) && p.V.contains(s.V)
}

// cv converts an OpenCV 8-bit HSV triple of ranges (H 0-180, S/V 0-255).
func cv(c cube.Color, h, s, v [2]float64) Preset {
	return Preset{
		Color: c,
		H:     Range{h[0] * 2, h[1] * 2},
		S:     Range{s[0] / 255, s[1] / 255},
		V:     Range{v[0] / 255, v[1] / 255},
	}
}

// Presets returns the stock calibration boxes.
func Presets() []Preset {
	return []Preset{
		cv(cube.White, [2]float64{0, 180}, [2]float64{0, 70}, [2]float64{150, 255}),
		cv(cube.Yellow, [2]float64{22, 45}, [2]float64{100, 255}, [2]float64{100, 255}),
		cv(cube.Green, [2]float64{45, 90}, [2]float64{40, 255}, [2]float64{40, 255}),
		cv(cube.Blue, [2]float64{95, 140}, [2]float64{100, 255}, [2]float64{60, 255}),
		cv(cube.Orange, [2]float64{10, 22}, [2]float64{100, 255}, [2]float64{100, 255}),
		cv(cube.Red, [2]float64{0, 10}, [2]float64{100, 255}, [2]float64{100, 255}),
	}
}

// MatchPresets lists the colors whose preset box contains s.
func MatchPresets(s cube.Sample) []cube.Color {
	var out []cube.Color
	for _, p := range Presets() {
		if p.Matches(s) {
			out = append(out, p.Color)
		}
	}
	return out
}
