package cube

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Face identifies one of the six slots in the solver's reference frame.
// The numeric order is the canonical encoding order.
type Face int

const (
	Up Face = iota
	Right
	Front
	Down
	Left
	Back
)

// NumFaces is the number of face slots on the cube.
const NumFaces = 6

// Faces lists the slots in canonical order, which is also the scan order.
var Faces = [NumFaces]Face{Up, Right, Front, Down, Left, Back}

var faceSymbols = [NumFaces]byte{'U', 'R', 'F', 'D', 'L', 'B'}

var faceNames = [NumFaces]string{"up", "right", "front", "down", "left", "back"}

var faceCenters = [NumFaces]Color{White, Red, Green, Yellow, Orange, Blue}

var faceInstructions = [NumFaces]string{
	"UP (white center) - green edge at BOTTOM of camera view",
	"RIGHT (red center) - white edge at TOP of camera view",
	"FRONT (green center) - white edge at TOP of camera view",
	"DOWN (yellow center) - green edge at TOP of camera view",
	"LEFT (orange center) - white edge at TOP of camera view",
	"BACK (blue center) - white edge at TOP of camera view",
}

// Valid reports whether f is one of the six slots.
func (f Face) Valid() bool { return f >= Up && f <= Back }

// Symbol returns the solver alphabet letter for f, or '?' when f is invalid.
func (f Face) Symbol() byte {
	if !f.Valid() {
		return '?'
	}
	return faceSymbols[f]
}

func (f Face) String() string { return string(f.Symbol()) }

// Name returns the lower-case slot name ("up", "right", ...).
func (f Face) Name() string {
	if !f.Valid() {
		return "invalid"
	}
	return faceNames[f]
}

// ExpectedCenter returns the center color that validates a capture of f.
func (f Face) ExpectedCenter() Color {
	if !f.Valid() {
		return Unknown
	}
	return faceCenters[f]
}

// Instruction returns the orientation hint shown to the operator.
func (f Face) Instruction() string {
	if !f.Valid() {
		return ""
	}
	return faceInstructions[f]
}

// FaceForSymbol maps a solver letter back to its slot.
func FaceForSymbol(b byte) (Face, bool) {
	for i, s := range faceSymbols {
		if s == b {
			return Face(i), true
		}
	}
	return 0, false
}

// FaceForColor returns the slot whose center is c.
func FaceForColor(c Color) (Face, bool) {
	for i, cc := range faceCenters {
		if cc == c && c != Unknown {
			return Face(i), true
		}
	}
	return 0, false
}

// Color is a coarse sticker label.
type Color int

const (
	Unknown Color = iota
	White
	Yellow
	Green
	Blue
	Orange
	Red
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Orange:
		return "orange"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// ParseColor parses a color name as produced by Color.String.
func ParseColor(s string) (Color, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return White, true
	case "yellow":
		return Yellow, true
	case "green":
		return Green, true
	case "blue":
		return Blue, true
	case "orange":
		return Orange, true
	case "red":
		return Red, true
	case "unknown":
		return Unknown, true
	}
	return Unknown, false
}

// Position addresses a cell in a 3x3 face grid.
type Position struct{ Row, Col int }

// Center is the face's own center cell.
var Center = Position{Row: 1, Col: 1}

// Sample is the averaged color of one grid cell in one frame.
// H is in degrees [0,360); S and V are in [0,1]. RGB holds the mean sRGB
// value the perceptual stage converts from. Valid is false when no pixel of
// the cell could be read.
type Sample struct {
	H, S, V float64
	RGB     colorful.Color
	Valid   bool
}

// SampleGrid holds one sample per cell, indexed [row][col] in camera order.
type SampleGrid [3][3]Sample

// LabelGrid holds one coarse label per cell. It is comparable with ==.
type LabelGrid [3][3]Color

// At returns the label at p.
func (g LabelGrid) At(p Position) Color { return g[p.Row][p.Col] }

// Center returns the label of the center cell.
func (g LabelGrid) Center() Color { return g.At(Center) }

// Known counts cells with a label other than Unknown.
func (g LabelGrid) Known() int {
	n := 0
	for r := range 3 {
		for c := range 3 {
			if g[r][c] != Unknown {
				n++
			}
		}
	}
	return n
}

// FaceGrid is one face as observed in one frame: raw samples plus labels.
type FaceGrid struct {
	Samples SampleGrid
	Labels  LabelGrid
}

// Complete reports whether all nine cells carry a valid sample and a label.
func (g FaceGrid) Complete() bool {
	for r := range 3 {
		for c := range 3 {
			if !g.Samples[r][c].Valid || g.Labels[r][c] == Unknown {
				return false
			}
		}
	}
	return true
}

// FaceletGrid is a face after reclassification: each sticker resolved to the
// slot whose center it matches.
type FaceletGrid [3][3]Face

// State maps every slot to its captured grid; nil means not captured yet.
type State [NumFaces]*FaceGrid

// Count returns the number of captured slots.
func (s State) Count() int {
	n := 0
	for _, g := range s {
		if g != nil {
			n++
		}
	}
	return n
}

// Complete reports whether every slot holds a fully populated grid.
func (s State) Complete() bool {
	for _, g := range s {
		if g == nil || !g.Complete() {
			return false
		}
	}
	return true
}
