package server

import (
	"time"

	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
)

// StatusMessage is the JSON form of one processed frame.
type StatusMessage struct {
	Type           string       `json:"type"`
	At             time.Time    `json:"at"`
	Step           int          `json:"step"`
	Expected       string       `json:"expected,omitempty"`
	ExpectedCenter string       `json:"expected_center,omitempty"`
	Instruction    string       `json:"instruction,omitempty"`
	Labels         [3][3]string `json:"labels"`
	Gate           string       `json:"gate"`
	Center         string       `json:"center"`
	HeldMs         int64        `json:"held_ms"`
	Progress       float64      `json:"progress"`
	Captured       string       `json:"captured,omitempty"`
	Complete       bool         `json:"complete"`
	Steps          []string     `json:"steps"`
}

// SolvedMessage reports the outcome of a solve attempt.
type SolvedMessage struct {
	Type     string   `json:"type"`
	Cube     string   `json:"cube,omitempty"`
	Solution string   `json:"solution,omitempty"`
	Steps    []string `json:"steps,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// NewStatusMessage converts a frame status for the wire.
func NewStatusMessage(st scan.FrameStatus) StatusMessage {
	m := StatusMessage{
		Type:     "status",
		At:       st.At,
		Step:     st.Step,
		Gate:     st.Gate.Status.String(),
		Center:   st.Gate.Center.String(),
		HeldMs:   st.Gate.Elapsed.Milliseconds(),
		Progress: st.Gate.Progress,
		Complete: st.Complete,
		Steps:    make([]string, 0, cube.NumFaces),
	}
	if !st.Complete {
		m.Expected = st.Expected.Name()
		m.ExpectedCenter = st.Expected.ExpectedCenter().String()
		m.Instruction = st.Expected.Instruction()
	}
	for r := range 3 {
		for c := range 3 {
			m.Labels[r][c] = st.Labels[r][c].String()
		}
	}
	if st.Captured {
		m.Captured = st.Face.Name()
	}
	for i, f := range scan.Sequence {
		m.Steps = append(m.Steps, st.Steps[i].Mark()+" "+f.Name())
	}
	return m
}

// NewSolvedMessage converts a solve result for the wire.
func NewSolvedMessage(sol solve.Solution, err error) SolvedMessage {
	m := SolvedMessage{Type: "solved", Cube: sol.Cube, Solution: sol.Raw}
	if err != nil {
		m.Error = err.Error()
		return m
	}
	m.Steps = solve.Steps(sol.Moves)
	return m
}
