package solve

import (
	"fmt"
	"strings"

	"github.com/soocke/cube-scanner-go/domain/cube"
)

// Turn is the amount a face is rotated.
type Turn int

const (
	Clockwise Turn = iota
	CounterClockwise
	Double
)

func (t Turn) String() string {
	switch t {
	case CounterClockwise:
		return "counter-clockwise"
	case Double:
		return "double"
	default:
		return "clockwise"
	}
}

// Move is one face turn in standard notation.
type Move struct {
	Face cube.Face
	Turn Turn
}

func (m Move) String() string {
	switch m.Turn {
	case CounterClockwise:
		return m.Face.String() + "'"
	case Double:
		return m.Face.String() + "2"
	default:
		return m.Face.String()
	}
}

// ParseMoves parses a space-separated move sequence such as "R U R' U'".
func ParseMoves(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, tok := range fields {
		f, ok := cube.FaceForSymbol(tok[0])
		if !ok {
			return nil, fmt.Errorf("parse move %q: unknown face", tok)
		}
		m := Move{Face: f}
		switch tok[1:] {
		case "":
		case "'":
			m.Turn = CounterClockwise
		case "2", "2'":
			m.Turn = Double
		default:
			return nil, fmt.Errorf("parse move %q: unknown modifier", tok)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

var describeNames = [cube.NumFaces]string{
	cube.Up:    "TOP (White)",
	cube.Right: "RIGHT (Red)",
	cube.Front: "FRONT (Green)",
	cube.Down:  "BOTTOM (Yellow)",
	cube.Left:  "LEFT (Orange)",
	cube.Back:  "BACK (Blue)",
}

// Describe renders m for an operator, e.g. "Turn RIGHT (Red) face 180 degrees (Twice)".
func Describe(m Move) string {
	name := "?"
	if m.Face.Valid() {
		name = describeNames[m.Face]
	}
	dir := "Clockwise"
	switch m.Turn {
	case CounterClockwise:
		dir = "Counter-Clockwise"
	case Double:
		dir = "180 degrees (Twice)"
	}
	return fmt.Sprintf("Turn %s face %s", name, dir)
}

// Steps describes each move, numbered from 1.
func Steps(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = fmt.Sprintf("%d. %s", i+1, Describe(m))
	}
	return out
}
