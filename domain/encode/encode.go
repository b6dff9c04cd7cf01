package encode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soocke/cube-scanner-go/domain/cube"
)

// Length is the size of an encoded cube.
const Length = 9 * cube.NumFaces

var (
	ErrIncomplete     = errors.New("cube state incomplete")
	ErrInvalidFacelet = errors.New("facelet outside alphabet")
	ErrLength         = errors.New("cube string length is not 54")
)

// EncodeError locates a structural failure. Pos is meaningful only for
// ErrInvalidFacelet.
type EncodeError struct {
	Face cube.Face
	Pos  cube.Position
	Err  error
}

func (e *EncodeError) Error() string {
	if errors.Is(e.Err, ErrInvalidFacelet) {
		return fmt.Sprintf("encode %s (%d,%d): %v", e.Face.Name(), e.Pos.Row, e.Pos.Col, e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Face.Name(), e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// MirrorColumns reverses the column order of a grid. Applying it twice
// returns the original grid.
func MirrorColumns[T any](g [3][3]T) [3][3]T {
	var out [3][3]T
	for r := range 3 {
		for c := range 3 {
			out[r][c] = g[r][2-c]
		}
	}
	return out
}

// Encode serializes six reclassified grids in U, R, F, D, L, B order, rows
// top to bottom, columns right to left to undo the mirrored camera view.
func Encode(grids [cube.NumFaces]*cube.FaceletGrid) (string, error) {
	var sb strings.Builder
	sb.Grow(Length)
	for _, f := range cube.Faces {
		g := grids[f]
		if g == nil {
			return "", &EncodeError{Face: f, Err: ErrIncomplete}
		}
		m := MirrorColumns(*g)
		for r := range 3 {
			for c := range 3 {
				v := m[r][c]
				if !v.Valid() {
					return "", &EncodeError{Face: f, Pos: cube.Position{Row: r, Col: 2 - c}, Err: ErrInvalidFacelet}
				}
				sb.WriteByte(v.Symbol())
			}
		}
	}
	s := sb.String()
	if len(s) != Length {
		return "", fmt.Errorf("%w: got %d", ErrLength, len(s))
	}
	return s, nil
}

// FromLabels encodes straight from the coarse capture labels, mapping each
// label to the slot whose expected center carries that color. Unknown labels
// fail with ErrInvalidFacelet.
func FromLabels(state cube.State) (string, error) {
	var grids [cube.NumFaces]*cube.FaceletGrid
	for _, f := range cube.Faces {
		g := state[f]
		if g == nil {
			return "", &EncodeError{Face: f, Err: ErrIncomplete}
		}
		var fg cube.FaceletGrid
		for r := range 3 {
			for c := range 3 {
				slot, ok := cube.FaceForColor(g.Labels[r][c])
				if !ok {
					return "", &EncodeError{Face: f, Pos: cube.Position{Row: r, Col: c}, Err: ErrInvalidFacelet}
				}
				fg[r][c] = slot
			}
		}
		grids[f] = &fg
	}
	return Encode(grids)
}

// Validate checks that s is a structurally well-formed cube string: 54
// symbols from the face alphabet. It does not check solvability.
func Validate(s string) error {
	if len(s) != Length {
		return fmt.Errorf("%w: got %d", ErrLength, len(s))
	}
	for i := 0; i < len(s); i++ {
		if _, ok := cube.FaceForSymbol(s[i]); !ok {
			f := cube.Face(i / 9)
			p := cube.Position{Row: (i % 9) / 3, Col: 2 - i%3}
			return &EncodeError{Face: f, Pos: p, Err: ErrInvalidFacelet}
		}
	}
	return nil
}

// Distribution counts occurrences of each face symbol in s. A well-formed
// scan has nine of each.
func Distribution(s string) [cube.NumFaces]int {
	var out [cube.NumFaces]int
	for i := 0; i < len(s); i++ {
		if f, ok := cube.FaceForSymbol(s[i]); ok {
			out[f]++
		}
	}
	return out
}

// Balanced reports whether every symbol occurs exactly nine times.
func Balanced(d [cube.NumFaces]int) bool {
	for _, n := range d {
		if n != 9 {
			return false
		}
	}
	return true
}
