package reclassify

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"

	"github.com/soocke/cube-scanner-go/domain/cube"
)

// ErrIncomplete is returned when a slot has not been captured.
var ErrIncomplete = errors.New("reclassify: cube state incomplete")

// Result holds the resolved facelets of a complete cube.
type Result struct {
	Faces [cube.NumFaces]cube.FaceletGrid
	// Distances[f][r][c] is the Lab distance from the sample to the chosen center.
	Distances [cube.NumFaces][3][3]float64
	// References are the L*a*b* coordinates of each captured center.
	References [cube.NumFaces][3]float64
}

// Lab converts an sRGB color to CIE L*a*b* (D65).
func Lab(c colorful.Color) [3]float64 {
	l, a, b := c.Lab()
	return [3]float64{l, a, b}
}

// Reclassify assigns every facelet to the slot whose captured center is
// nearest in L*a*b*. Centers resolve to their own slot. Equal distances go to
// the slot with the lowest canonical index.
func Reclassify(state cube.State) (Result, error) {
	var res Result
	refs := make([][]float64, cube.NumFaces)
	for _, f := range cube.Faces {
		g := state[f]
		if g == nil {
			return res, fmt.Errorf("%w: %s not captured", ErrIncomplete, f.Name())
		}
		lab := Lab(g.Samples[cube.Center.Row][cube.Center.Col].RGB)
		res.References[f] = lab
		refs[f] = lab[:]
	}

	dist := make([]float64, cube.NumFaces)
	for _, f := range cube.Faces {
		g := state[f]
		for r := range 3 {
			for c := range 3 {
				if r == cube.Center.Row && c == cube.Center.Col {
					res.Faces[f][r][c] = f
					continue
				}
				lab := Lab(g.Samples[r][c].RGB)
				for i, ref := range refs {
					dist[i] = floats.Distance(lab[:], ref, 2)
				}
				best := floats.MinIdx(dist)
				res.Faces[f][r][c] = cube.Face(best)
				res.Distances[f][r][c] = dist[best]
			}
		}
	}
	return res, nil
}

// Grids returns pointers to the resolved facelet grids, in the form the
// encoder takes.
func (r *Result) Grids() [cube.NumFaces]*cube.FaceletGrid {
	var out [cube.NumFaces]*cube.FaceletGrid
	for i := range r.Faces {
		out[i] = &r.Faces[i]
	}
	return out
}
