package presenter

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool) bool
}

// LifecycleContract narrows what the presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// Resetter restarts a scan from the first face.
type Resetter interface{ Reset() }

// CaptureView updates UI elements affected by capture toggling.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for starting, stopping and
// restarting a scan.
type CapturePresenter struct {
	model   CaptureModel
	service LifecycleContract
	resets  []Resetter
	view    CaptureView
}

// NewCapturePresenter wires the toggle. resets are invoked in order on Restart.
func NewCapturePresenter(model CaptureModel, service LifecycleContract, view CaptureView, resets ...Resetter) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, view: view, resets: resets}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil
}

// Enable starts the capture service and locks the config panel. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
}

// Disable stops the capture service and clears the preview. Captured faces
// are kept. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// Restart discards all captures and begins a new scan at the first face.
func (c *CapturePresenter) Restart() {
	if c == nil {
		return
	}
	for _, r := range c.resets {
		if r != nil {
			r.Reset()
		}
	}
}
