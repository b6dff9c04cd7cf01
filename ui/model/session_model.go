package model

import "time"

// SessionModel tracks how long the current scan has been running and how
// many scans finished. Presenters poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	active    bool
	scanStart time.Time
	elapsed   time.Duration
	completed int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the model. scanning is true while faces are still being
// captured; the transition to false counts a completed scan when complete
// is set.
func (m *SessionModel) OnTick(scanning, complete bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case scanning && !m.active:
		m.active = true
		m.scanStart = now
		m.elapsed = 0
	case scanning:
		m.elapsed = now.Sub(m.scanStart)
	case m.active:
		m.elapsed = now.Sub(m.scanStart)
		m.active = false
		if complete {
			m.completed++
		}
	}
}

// Values returns the current scan duration and the number of finished scans.
func (m *SessionModel) Values() (scan time.Duration, completed int) {
	if m == nil {
		return 0, 0
	}
	return m.elapsed, m.completed
}
