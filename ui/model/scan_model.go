package model

import (
	"image"
	"sync"
	"time"

	"github.com/soocke/cube-scanner-go/domain/scan"
)

// ScanModel holds the active scan session. Applying new settings swaps in a
// fresh session; presenters keep talking to the model and never see the
// swap. Capture listeners are carried over to each new session.
type ScanModel struct {
	mu        sync.RWMutex
	sess      *scan.Session
	listeners []scan.CaptureListener
}

func NewScanModel(s *scan.Session) *ScanModel { return &ScanModel{sess: s} }

// Session returns the active session.
func (m *ScanModel) Session() *scan.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sess
}

// AddListener registers l on the active session and on every later one.
func (m *ScanModel) AddListener(l scan.CaptureListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
	m.sess.AddListener(l)
}

// Swap replaces the active session. Captures of the old session are dropped.
func (m *ScanModel) Swap(s *scan.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listeners {
		s.AddListener(l)
	}
	m.sess = s
}

func (m *ScanModel) SubmitFrame(frame image.Image, now time.Time) scan.FrameStatus {
	return m.Session().SubmitFrame(frame, now)
}

func (m *ScanModel) CubeString() (string, error) { return m.Session().CubeString() }

func (m *ScanModel) IsComplete() bool { return m.Session().IsComplete() }

func (m *ScanModel) Reset() { m.Session().Reset() }
