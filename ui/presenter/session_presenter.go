package presenter

import (
	"time"

	"github.com/soocke/cube-scanner-go/ui/model"
)

// CaptureEnabledModel reports whether scanning is enabled.
type CaptureEnabledModel interface{ Enabled() bool }

// ProgressSource reports whether every face has been captured.
type ProgressSource interface{ IsComplete() bool }

// SessionView displays the scan duration and finished scan count.
type SessionView interface {
	SetSession(scan time.Duration, completed int)
}

// SessionPresenter pushes scan timing from the model to the view.
type SessionPresenter struct {
	sess     *model.SessionModel
	cap      CaptureEnabledModel
	progress ProgressSource
	view     SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, cap CaptureEnabledModel, progress ProgressSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, cap: cap, progress: progress, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.cap == nil || p.progress == nil || p.view == nil {
		return
	}
	complete := p.progress.IsComplete()
	p.sess.OnTick(p.cap.Enabled() && !complete, complete, now)
	d, n := p.sess.Values()
	p.view.SetSession(d, n)
}
