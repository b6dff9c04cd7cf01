package model

import "sync/atomic"

// CaptureModel tracks whether the camera feed is being scanned. The zero
// value is disabled and usable. UI callbacks and presenter ticks may race, so
// the flag is atomic.
type CaptureModel struct{ enabled atomic.Bool }

// Enabled reports whether scanning is on.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the flag and reports whether it changed.
func (m *CaptureModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.Swap(b) != b
}
