package panel

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/docshell/internal/position"
)

// Default hover intent timings.
const (
	DefaultOpenDelay       = 200 * time.Millisecond
	DefaultCloseDelay      = 100 * time.Millisecond
	TooltipCloseTransition = 150 * time.Millisecond
)

// Measurer reports the natural size of the panel content. A zero
// dimension means the panel could not be measured.
type Measurer interface {
	Measure() position.Size
}

// Geometry provides live layout rectangles. It is queried on every open and
// reposition so the placement always reflects the current layout.
type Geometry interface {
	Trigger() position.Rect
	Viewport() position.Rect
	// Reference returns the side-mode anchor, usually the sidebar.
	Reference() (position.Rect, bool)
}

// Applier puts a placed panel on screen and takes it off again. Both
// methods are called with the controller lock held and must not call back
// into the Controller.
type Applier interface {
	Apply(p position.Placement, s position.Style)
	Hide()
}

// ConfigFunc builds the placement configuration for the current viewport.
type ConfigFunc func(viewport position.Rect) position.Config

// Options configures a Controller.
type Options struct {
	Name string

	// Config returns the placement configuration. Nil means
	// position.DefaultConfig.
	Config ConfigFunc

	// Fallback replaces unmeasurable dimensions.
	Fallback position.Size

	OpenDelay  time.Duration // Hover time on the trigger before opening
	CloseDelay time.Duration // Grace period before a close check after leaving

	// CloseTransition keeps the panel in StateClosing for this long before
	// it is hidden. Zero closes immediately.
	CloseTransition time.Duration

	// Gate vetoes hover and click opening when it returns false.
	Gate func() bool

	Scheduler Scheduler
	Logger    *slog.Logger
}

// Controller owns the lifecycle of a single panel instance.
// It is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	opts     Options
	measurer Measurer
	geometry Geometry
	applier  Applier
	logger   *slog.Logger

	state     State
	placement position.Placement
	style     position.Style

	hoverTrigger bool
	hoverPanel   bool

	// Pending tasks and their generation; a callback only runs when its
	// generation is still current.
	openTask    Task
	openGen     uint64
	closeTask   Task
	closeGen    uint64
	removeTask  Task
	removeGen   uint64
	listeners   []func(State)
	pendingEmit []State
}

// NewController creates a controller for one panel.
func NewController(opts Options, m Measurer, g Geometry, a Applier) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Name != "" {
		logger = logger.With("panel", opts.Name)
	}

	return &Controller{
		opts:     opts,
		measurer: m,
		geometry: g,
		applier:  a,
		logger:   logger,
	}
}

// OnChange registers fn to be called after every state transition.
// Callbacks run without the controller lock held.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsOpen reports whether the panel is open or opening.
func (c *Controller) IsOpen() bool {
	return c.State().Active()
}

// Placement returns the most recent placement.
func (c *Controller) Placement() position.Placement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placement
}

// Style returns the application instructions for the most recent placement.
func (c *Controller) Style() position.Style {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.style
}

// Open places and shows the panel immediately. Opening an open panel
// repositions it; opening a closing panel cancels the pending removal.
func (c *Controller) Open() {
	c.mu.Lock()
	c.openLocked()
	c.unlockAndEmit()
}

// Close hides the panel. Pending hover tasks are cancelled.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closeLocked()
	c.unlockAndEmit()
}

// Toggle opens a closed panel and closes an open one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	if c.state.Active() {
		c.closeLocked()
	} else {
		c.openLocked()
	}
	c.unlockAndEmit()
}

// Click handles an activation of the trigger. It toggles the panel and
// returns true, or returns false without doing anything when the gate
// vetoes opening so the caller can fall back to other behaviour.
func (c *Controller) Click() bool {
	c.mu.Lock()
	if !c.state.Active() && !c.allowedLocked() {
		c.mu.Unlock()
		return false
	}
	c.cancelOpenLocked()
	if c.state.Active() {
		c.closeLocked()
	} else {
		c.openLocked()
	}
	c.unlockAndEmit()
	return true
}

// Reposition recomputes and reapplies the placement of a visible panel,
// e.g. after the viewport was resized.
func (c *Controller) Reposition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Active() {
		return
	}
	c.placeLocked()
}

// HoverTrigger records the pointer entering or leaving the trigger.
// Entering schedules an open after OpenDelay; leaving cancels it and
// schedules a close check after CloseDelay.
func (c *Controller) HoverTrigger(inside bool) {
	c.mu.Lock()
	if c.hoverTrigger == inside {
		c.mu.Unlock()
		return
	}
	c.hoverTrigger = inside

	if inside {
		if c.allowedLocked() && !c.state.Active() {
			c.cancelCloseLocked()
			c.scheduleOpenLocked()
		}
	} else {
		c.cancelOpenLocked()
		c.scheduleCloseCheckLocked()
	}
	c.unlockAndEmit()
}

// HoverPanel records the pointer entering or leaving the panel itself.
// Entering cancels any pending open or close; leaving schedules a close
// check.
func (c *Controller) HoverPanel(inside bool) {
	c.mu.Lock()
	if c.hoverPanel == inside {
		c.mu.Unlock()
		return
	}
	c.hoverPanel = inside

	if inside {
		c.cancelOpenLocked()
		c.cancelCloseLocked()
	} else {
		c.scheduleCloseCheckLocked()
	}
	c.unlockAndEmit()
}

// Escape closes an open panel and reports whether it did.
func (c *Controller) Escape() bool {
	c.mu.Lock()
	if !c.state.Active() {
		c.mu.Unlock()
		return false
	}
	c.closeLocked()
	c.unlockAndEmit()
	return true
}

// ClickOutside closes an open panel after a click that hit neither the
// trigger nor the panel. Use Contains to decide whether a click is outside.
func (c *Controller) ClickOutside() {
	c.mu.Lock()
	if c.state.Active() {
		c.closeLocked()
	}
	c.unlockAndEmit()
}

// Contains reports whether (x, y) hits the trigger or the visible panel.
func (c *Controller) Contains(x, y float64) bool {
	if c.geometry.Trigger().ContainsPoint(x, y) {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Visible() && c.placement.Rect().ContainsPoint(x, y)
}

// PanelContains reports whether (x, y) hits the visible panel.
func (c *Controller) PanelContains(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Visible() && c.placement.Rect().ContainsPoint(x, y)
}

func (c *Controller) allowedLocked() bool {
	return c.opts.Gate == nil || c.opts.Gate()
}

func (c *Controller) openLocked() {
	c.cancelOpenLocked()
	c.cancelCloseLocked()
	c.cancelRemoveLocked()

	if c.state == StateOpen {
		c.placeLocked()
		return
	}

	c.setStateLocked(StateOpening)
	c.placeLocked()
	c.setStateLocked(StateOpen)
}

func (c *Controller) closeLocked() {
	c.cancelOpenLocked()
	c.cancelCloseLocked()

	if c.state == StateClosed || c.state == StateClosing {
		return
	}

	if c.opts.CloseTransition <= 0 {
		c.applier.Hide()
		c.setStateLocked(StateClosed)
		return
	}

	c.setStateLocked(StateClosing)
	c.removeGen++
	gen := c.removeGen
	c.removeTask = c.opts.Scheduler.After(c.opts.CloseTransition, func() {
		c.mu.Lock()
		if gen != c.removeGen || c.state != StateClosing {
			c.mu.Unlock()
			return
		}
		c.removeTask = nil
		c.applier.Hide()
		c.setStateLocked(StateClosed)
		c.unlockAndEmit()
	})
}

// placeLocked measures the panel, computes its placement and applies it.
func (c *Controller) placeLocked() {
	size := c.measurer.Measure()
	if size.IsZero() {
		size = size.OrDefault(c.opts.Fallback)
	}

	viewport := c.geometry.Viewport()
	cfg := position.DefaultConfig()
	if c.opts.Config != nil {
		cfg = c.opts.Config(viewport)
	}
	if cfg.Side && cfg.Reference == nil {
		if ref, ok := c.geometry.Reference(); ok {
			cfg.Reference = &ref
		}
	}

	trigger := c.geometry.Trigger()
	c.placement = position.Compute(trigger, size.At(0, 0), viewport, cfg)
	c.style = c.placement.Style(cfg)
	c.applier.Apply(c.placement, c.style)

	c.logger.Debug("panel placed",
		"placement", c.style.Placement,
		"left", c.style.Left,
		"top", c.style.Top,
		"width", c.placement.Width,
		"height", c.placement.Height)
}

func (c *Controller) scheduleOpenLocked() {
	if c.opts.OpenDelay <= 0 {
		c.openLocked()
		return
	}

	c.cancelOpenLocked()
	c.openGen++
	gen := c.openGen
	c.openTask = c.opts.Scheduler.After(c.opts.OpenDelay, func() {
		c.mu.Lock()
		if gen != c.openGen {
			c.mu.Unlock()
			return
		}
		c.openTask = nil
		c.openLocked()
		c.unlockAndEmit()
	})
}

func (c *Controller) scheduleCloseCheckLocked() {
	if c.opts.CloseDelay <= 0 {
		c.closeCheckLocked()
		return
	}

	c.cancelCloseLocked()
	c.closeGen++
	gen := c.closeGen
	c.closeTask = c.opts.Scheduler.After(c.opts.CloseDelay, func() {
		c.mu.Lock()
		if gen != c.closeGen {
			c.mu.Unlock()
			return
		}
		c.closeTask = nil
		c.closeCheckLocked()
		c.unlockAndEmit()
	})
}

// closeCheckLocked closes the panel unless the pointer is back on the
// trigger or the panel.
func (c *Controller) closeCheckLocked() {
	if c.hoverTrigger || c.hoverPanel {
		return
	}
	if c.state.Active() {
		c.closeLocked()
	}
}

func (c *Controller) cancelOpenLocked() {
	c.openGen++
	if c.openTask != nil {
		c.openTask.Stop()
		c.openTask = nil
	}
}

func (c *Controller) cancelCloseLocked() {
	c.closeGen++
	if c.closeTask != nil {
		c.closeTask.Stop()
		c.closeTask = nil
	}
}

func (c *Controller) cancelRemoveLocked() {
	c.removeGen++
	if c.removeTask != nil {
		c.removeTask.Stop()
		c.removeTask = nil
	}
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("panel state", "from", c.state, "to", s)
	c.state = s
	c.pendingEmit = append(c.pendingEmit, s)
}

// unlockAndEmit releases the lock and delivers queued state changes.
func (c *Controller) unlockAndEmit() {
	events := c.pendingEmit
	c.pendingEmit = nil
	listeners := c.listeners
	c.mu.Unlock()

	for _, s := range events {
		for _, fn := range listeners {
			fn(s)
		}
	}
}
