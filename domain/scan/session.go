package scan

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/classify"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/encode"
	"github.com/soocke/cube-scanner-go/domain/reclassify"
	"github.com/soocke/cube-scanner-go/domain/sampler"
)

// StepState is the display state of one slot in the scan sequence.
type StepState int

const (
	StepPending StepState = iota
	StepCurrent
	StepDone
)

func (s StepState) String() string {
	switch s {
	case StepCurrent:
		return "current"
	case StepDone:
		return "done"
	default:
		return "pending"
	}
}

// Mark returns the step list marker: [X] done, [>] current, [ ] pending.
func (s StepState) Mark() string {
	switch s {
	case StepCurrent:
		return "[>]"
	case StepDone:
		return "[X]"
	default:
		return "[ ]"
	}
}

// CellStatus is the per-cell overlay data for one frame.
type CellStatus struct {
	Box   image.Rectangle
	ROIs  [4]image.Rectangle
	Label cube.Color
}

// FrameStatus summarizes one processed frame.
type FrameStatus struct {
	At       time.Time
	Step     int       // index into Sequence; 6 when complete
	Expected cube.Face // valid only when !Complete
	Cells    [3][3]CellStatus
	Labels   cube.LabelGrid
	Gate     GateResult
	Captured bool // a face was captured on this frame
	Face     cube.Face
	Complete bool
	Steps    [cube.NumFaces]StepState
}

// CaptureListener is called after a face is accepted.
type CaptureListener func(face cube.Face, fg cube.FaceGrid)

// Session drives one scan: sample, classify, gate the expected slot, store.
// Methods are safe for concurrent use.
type Session struct {
	cfg        *config.Config
	logger     *slog.Logger
	sampler    *sampler.Sampler
	classifier *classify.Classifier

	mu        sync.Mutex
	gate      *Gate
	store     *Store
	last      FrameStatus
	listeners []CaptureListener
}

// NewSession returns a session positioned at the first slot. A nil cfg uses
// the defaults.
func NewSession(cfg *config.Config, logger *slog.Logger) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Session{
		cfg:        cfg,
		logger:     logger,
		sampler:    sampler.New(cfg),
		classifier: classify.New(cfg),
		gate:       NewGate(cfg.StabilityDuration()),
		store:      NewStore(),
	}
}

// AddListener registers a capture callback. Callbacks run on the goroutine
// calling SubmitFrame, after the session lock is released.
func (s *Session) AddListener(l CaptureListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// SubmitFrame processes one frame observed at now.
func (s *Session) SubmitFrame(frame image.Image, now time.Time) FrameStatus {
	var fg cube.FaceGrid
	var layout sampler.Layout
	if frame != nil {
		fg = s.classifier.Face(s.sampler.Sample(frame))
		layout = s.sampler.Layout(frame.Bounds())
	}

	s.mu.Lock()
	st := FrameStatus{At: now, Labels: fg.Labels}
	for r := range 3 {
		for c := range 3 {
			cell := layout.Cells[r][c]
			st.Cells[r][c] = CellStatus{Box: cell.Box, ROIs: cell.ROIs, Label: fg.Labels[r][c]}
		}
	}

	var listeners []CaptureListener
	if face, ok := s.store.Current(); ok && frame != nil {
		prevCenter := s.last.Gate.Center
		st.Gate = s.gate.Observe(face, fg, now)
		switch st.Gate.Status {
		case GateWrongCenter:
			if s.logger != nil && (s.last.Gate.Status != GateWrongCenter || prevCenter != st.Gate.Center) {
				s.logger.Info("wrong center", "expected", face.ExpectedCenter().String(), "seen", st.Gate.Center.String(), "slot", face.Name())
			}
		case GateCaptured:
			if s.store.Capture(face, st.Gate.Grid) {
				st.Captured = true
				st.Face = face
				listeners = append(listeners, s.listeners...)
				if s.logger != nil {
					s.logger.Info("face captured", "slot", face.Name(), "count", s.store.Count(), "labels", labelNames(st.Gate.Grid.Labels))
				}
			}
		}
	}
	s.fillProgress(&st)
	s.last = st
	s.mu.Unlock()

	if st.Captured {
		for _, l := range listeners {
			l(st.Face, st.Gate.Grid)
		}
	}
	return st
}

func (s *Session) fillProgress(st *FrameStatus) {
	st.Step = s.store.Index()
	face, ok := s.store.Current()
	st.Complete = !ok
	if ok {
		st.Expected = face
	}
	for i, f := range Sequence {
		switch {
		case s.store.Captured(f):
			st.Steps[i] = StepDone
		case ok && f == face:
			st.Steps[i] = StepCurrent
		default:
			st.Steps[i] = StepPending
		}
	}
}

func labelNames(g cube.LabelGrid) []string {
	out := make([]string, 0, 9)
	for r := range 3 {
		for c := range 3 {
			out = append(out, g[r][c].String())
		}
	}
	return out
}

// Last returns the status of the most recent frame.
func (s *Session) Last() FrameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Current returns the slot awaiting capture.
func (s *Session) Current() (cube.Face, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Current()
}

// IsComplete reports whether all six faces are captured.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.IsComplete()
}

// State returns a copy of the captured faces.
func (s *Session) State() cube.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.State()
}

// Reclassify runs the perceptual pass over the captured faces.
func (s *Session) Reclassify() (reclassify.Result, error) {
	state := s.State()
	if err := checkComplete(state); err != nil {
		return reclassify.Result{}, err
	}
	return reclassify.Reclassify(state)
}

// CubeString reclassifies the captured faces and encodes them. It fails with
// encode.ErrIncomplete until every slot is filled.
func (s *Session) CubeString() (string, error) {
	res, err := s.Reclassify()
	if err != nil {
		return "", err
	}
	out, err := encode.Encode(res.Grids())
	if err != nil {
		return "", err
	}
	if s.logger != nil {
		s.logger.Info("cube encoded", "cube", out)
	}
	return out, nil
}

// CoarseString encodes the capture-time labels without reclassification.
func (s *Session) CoarseString() (string, error) {
	state := s.State()
	if err := checkComplete(state); err != nil {
		return "", err
	}
	return encode.FromLabels(state)
}

func checkComplete(state cube.State) error {
	for _, f := range cube.Faces {
		if state[f] == nil {
			return &encode.EncodeError{Face: f, Err: encode.ErrIncomplete}
		}
	}
	return nil
}

// Reset discards all captures and gate state.
func (s *Session) Reset() {
	s.mu.Lock()
	s.gate.Reset()
	s.store.Reset()
	s.last = FrameStatus{}
	s.fillProgress(&s.last)
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("scan reset")
	}
}
