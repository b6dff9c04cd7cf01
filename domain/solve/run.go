package solve

import (
	"context"
	"fmt"

	"github.com/soocke/cube-scanner-go/domain/encode"
)

// CubeSource yields an encoded cube, typically a completed scan session.
type CubeSource interface {
	CubeString() (string, error)
}

// Solution is a solved cube with its parsed moves.
type Solution struct {
	Cube  string
	Raw   string
	Moves []Move
}

// Run encodes src, validates the result and only then asks solver for a
// solution. Structural failures never reach the solver.
func Run(ctx context.Context, src CubeSource, solver Solver) (Solution, error) {
	s, err := src.CubeString()
	if err != nil {
		return Solution{}, err
	}
	return SolveString(ctx, s, solver)
}

// SolveString validates a cube string and solves it.
func SolveString(ctx context.Context, s string, solver Solver) (Solution, error) {
	if err := encode.Validate(s); err != nil {
		return Solution{Cube: s}, err
	}
	raw, err := solver.Solve(ctx, s)
	if err != nil {
		return Solution{Cube: s}, err
	}
	moves, err := ParseMoves(raw)
	if err != nil {
		return Solution{Cube: s, Raw: raw}, fmt.Errorf("solver output: %w", err)
	}
	return Solution{Cube: s, Raw: raw, Moves: moves}, nil
}
