package scan

import "github.com/soocke/cube-scanner-go/domain/cube"

// Sequence is the fixed scan order.
var Sequence = cube.Faces

// Store holds at most one captured grid per slot and tracks the scan index.
// Captures are accepted only for the slot currently expected.
// Not safe for concurrent use.
type Store struct {
	faces cube.State
	idx   int
}

// NewStore returns an empty store positioned at the first slot.
func NewStore() *Store { return &Store{} }

// Current returns the slot awaiting capture. ok is false once all six slots
// are filled.
func (s *Store) Current() (cube.Face, bool) {
	if s.idx >= len(Sequence) {
		return 0, false
	}
	return Sequence[s.idx], true
}

// Index returns the position in the scan sequence (0..6).
func (s *Store) Index() int { return s.idx }

// Capture stores a copy of fg for face and advances the scan index. It
// rejects a face that is not the current slot or is already filled.
func (s *Store) Capture(face cube.Face, fg cube.FaceGrid) bool {
	cur, ok := s.Current()
	if !ok || face != cur || s.faces[face] != nil {
		return false
	}
	g := fg
	s.faces[face] = &g
	s.idx++
	return true
}

// Captured reports whether face holds a grid.
func (s *Store) Captured(face cube.Face) bool {
	return face.Valid() && s.faces[face] != nil
}

// Grid returns a copy of the captured grid for face.
func (s *Store) Grid(face cube.Face) (cube.FaceGrid, bool) {
	if !s.Captured(face) {
		return cube.FaceGrid{}, false
	}
	return *s.faces[face], true
}

// Count returns the number of captured slots.
func (s *Store) Count() int { return s.faces.Count() }

// IsComplete reports whether every slot is filled.
func (s *Store) IsComplete() bool { return s.faces.Count() == cube.NumFaces }

// State returns a deep copy of the captured faces.
func (s *Store) State() cube.State {
	var out cube.State
	for i, g := range s.faces {
		if g != nil {
			c := *g
			out[i] = &c
		}
	}
	return out
}

// Reset discards all captures and rewinds to the first slot.
func (s *Store) Reset() {
	s.faces = cube.State{}
	s.idx = 0
}
