package presenter

import "time"

// Loop runs one UI tick: frame processing first, so the step list and
// session timer see the capture made on this tick. Schedule arms the next
// tick; nil fields are skipped.
type Loop struct {
	Scan     *ScanPresenter
	Steps    *StepPresenter
	Session  *SessionPresenter
	Schedule func()
	Now      func() time.Time
}

func NewLoop(scan *ScanPresenter, steps *StepPresenter, sess *SessionPresenter, schedule func()) *Loop {
	return &Loop{Scan: scan, Steps: steps, Session: sess, Schedule: schedule, Now: time.Now}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.Scan.ProcessFrame()
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	l.Steps.Tick(now)
	l.Session.Tick(now)
	if l.Schedule != nil {
		l.Schedule()
	}
}
