package model

import (
	"sync"

	"github.com/soocke/cube-scanner-go/domain/solve"
)

// SolvePhase is where the current scan stands with respect to solving.
type SolvePhase int

const (
	SolveIdle SolvePhase = iota
	SolveRunning
	SolveDone
	SolveFailed
)

func (p SolvePhase) String() string {
	switch p {
	case SolveRunning:
		return "solving"
	case SolveDone:
		return "solved"
	case SolveFailed:
		return "failed"
	default:
		return "scanning"
	}
}

// SolveModel holds the outcome of the last solve attempt. Safe for
// concurrent use; the zero value is idle.
type SolveModel struct {
	mu       sync.Mutex
	phase    SolvePhase
	solution solve.Solution
	err      error
}

// Begin marks a solve as in flight. It returns false when one already is or
// a result is pending reset.
func (m *SolveModel) Begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != SolveIdle {
		return false
	}
	m.phase = SolveRunning
	return true
}

// Finish records the solver result.
func (m *SolveModel) Finish(sol solve.Solution, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solution, m.err = sol, err
	if err != nil {
		m.phase = SolveFailed
		return
	}
	m.phase = SolveDone
}

// Reset returns to idle.
func (m *SolveModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phase, m.solution, m.err = SolveIdle, solve.Solution{}, nil
}

// Values returns the phase, solution and error.
func (m *SolveModel) Values() (SolvePhase, solve.Solution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase, m.solution, m.err
}
