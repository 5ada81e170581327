package panel

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/docshell/internal/position"
)

// fakeScheduler is a manual clock for hover intent tests.
type fakeScheduler struct {
	now   time.Duration
	tasks []*fakeTask

	// ignoreStop makes stopped tasks fire anyway, emulating a timer that
	// already started running when it was stopped.
	ignoreStop bool
}

type fakeTask struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Task {
	t := &fakeTask{at: s.now + d, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		due := s.due(target)
		if len(due) == 0 {
			break
		}
		t := due[0]
		s.now = t.at
		t.fired = true
		t.fn()
	}
	s.now = target
}

func (s *fakeScheduler) due(target time.Duration) []*fakeTask {
	var out []*fakeTask
	for _, t := range s.tasks {
		if t.fired || t.at > target {
			continue
		}
		if t.stopped && !s.ignoreStop {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out
}

type fakeMeasurer struct{ size position.Size }

func (m *fakeMeasurer) Measure() position.Size { return m.size }

type fakeGeometry struct {
	trigger  position.Rect
	viewport position.Rect
	ref      *position.Rect
}

func (g *fakeGeometry) Trigger() position.Rect  { return g.trigger }
func (g *fakeGeometry) Viewport() position.Rect { return g.viewport }
func (g *fakeGeometry) Reference() (position.Rect, bool) {
	if g.ref == nil {
		return position.Rect{}, false
	}
	return *g.ref, true
}

type recordingApplier struct {
	applied []position.Placement
	styles  []position.Style
	hides   int
}

func (a *recordingApplier) Apply(p position.Placement, s position.Style) {
	a.applied = append(a.applied, p)
	a.styles = append(a.styles, s)
}

func (a *recordingApplier) Hide() { a.hides++ }

type harness struct {
	sched    *fakeScheduler
	measurer *fakeMeasurer
	geometry *fakeGeometry
	applier  *recordingApplier
	ctrl     *Controller
	states   []State
}

func newHarness(opts Options) *harness {
	h := &harness{
		sched:    &fakeScheduler{},
		measurer: &fakeMeasurer{size: position.Size{Width: 200, Height: 150}},
		geometry: &fakeGeometry{
			trigger:  position.NewRect(100, 10, 40, 40),
			viewport: position.NewViewport(800, 600),
		},
		applier: &recordingApplier{},
	}
	opts.Scheduler = h.sched
	h.ctrl = NewController(opts, h.measurer, h.geometry, h.applier)
	h.ctrl.OnChange(func(s State) { h.states = append(h.states, s) })
	return h
}

func popupOptions() Options {
	return Options{
		Name:       "user",
		Fallback:   PopupFallback,
		OpenDelay:  DefaultOpenDelay,
		CloseDelay: DefaultCloseDelay,
	}
}

func TestController_OpenPlacesAndApplies(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Open()

	assert.Equal(t, StateOpen, h.ctrl.State())
	assert.Equal(t, []State{StateOpening, StateOpen}, h.states)
	require.Len(t, h.applier.applied, 1)

	p := h.applier.applied[0]
	assert.Equal(t, 100.0, p.Left)
	assert.Equal(t, 62.0, p.Top)
	assert.Equal(t, "below-left", h.applier.styles[0].Placement)
	assert.Equal(t, p, h.ctrl.Placement())
	assert.Equal(t, h.applier.styles[0], h.ctrl.Style())
}

func TestController_OpenTwiceRepositions(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Open()
	h.ctrl.Open()

	assert.Len(t, h.applier.applied, 2)
	assert.Equal(t, []State{StateOpening, StateOpen}, h.states)
}

func TestController_FallbackSize(t *testing.T) {
	h := newHarness(popupOptions())
	h.measurer.size = position.Size{}

	h.ctrl.Open()

	p := h.ctrl.Placement()
	assert.Equal(t, 240.0, p.Width)
	assert.Equal(t, 200.0, p.Height)
}

func TestController_HoverIntentOpens(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.HoverTrigger(true)
	h.sched.Advance(199 * time.Millisecond)
	assert.Equal(t, StateClosed, h.ctrl.State())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, StateOpen, h.ctrl.State())
}

func TestController_LeavingBeforeDelayCancelsOpen(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.HoverTrigger(true)
	h.sched.Advance(100 * time.Millisecond)
	h.ctrl.HoverTrigger(false)
	h.sched.Advance(time.Second)

	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.Empty(t, h.applier.applied)
}

func TestController_MovingOntoPanelKeepsItOpen(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.HoverTrigger(true)
	h.sched.Advance(DefaultOpenDelay)
	require.Equal(t, StateOpen, h.ctrl.State())

	h.ctrl.HoverTrigger(false)
	h.sched.Advance(50 * time.Millisecond)
	h.ctrl.HoverPanel(true)
	h.sched.Advance(time.Second)
	assert.Equal(t, StateOpen, h.ctrl.State())

	h.ctrl.HoverPanel(false)
	h.sched.Advance(99 * time.Millisecond)
	assert.Equal(t, StateOpen, h.ctrl.State())
	h.sched.Advance(time.Millisecond)
	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.Equal(t, 1, h.applier.hides)
}

func TestController_ReturningToTriggerKeepsItOpen(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Open()
	h.ctrl.HoverTrigger(true)
	h.ctrl.HoverTrigger(false)
	h.sched.Advance(50 * time.Millisecond)
	h.ctrl.HoverTrigger(true)
	h.sched.Advance(time.Second)

	assert.Equal(t, StateOpen, h.ctrl.State())
}

func TestController_CloseCheckWhenPointerGone(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Open()
	h.ctrl.HoverPanel(true)
	h.ctrl.HoverPanel(false)
	h.sched.Advance(DefaultCloseDelay)

	assert.Equal(t, StateClosed, h.ctrl.State())
}

func TestController_Gate(t *testing.T) {
	allowed := false
	opts := popupOptions()
	opts.Gate = func() bool { return allowed }
	h := newHarness(opts)

	h.ctrl.HoverTrigger(true)
	h.sched.Advance(time.Second)
	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.False(t, h.ctrl.Click())
	assert.Equal(t, StateClosed, h.ctrl.State())

	allowed = true
	assert.True(t, h.ctrl.Click())
	assert.Equal(t, StateOpen, h.ctrl.State())

	// Closing is never vetoed.
	allowed = false
	assert.True(t, h.ctrl.Click())
	assert.Equal(t, StateClosed, h.ctrl.State())

	// Programmatic opens bypass the gate.
	h.ctrl.Open()
	assert.Equal(t, StateOpen, h.ctrl.State())
}

func TestController_ClickCancelsPendingHoverOpen(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.HoverTrigger(true)
	h.sched.Advance(50 * time.Millisecond)
	require.True(t, h.ctrl.Click())
	require.Equal(t, StateOpen, h.ctrl.State())

	require.True(t, h.ctrl.Click())
	h.sched.Advance(time.Second)
	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.Len(t, h.applier.applied, 1)
}

func TestController_Toggle(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Toggle()
	assert.True(t, h.ctrl.IsOpen())
	h.ctrl.Toggle()
	assert.False(t, h.ctrl.IsOpen())
	assert.Equal(t, []State{StateOpening, StateOpen, StateClosed}, h.states)
}

func TestController_CloseTransition(t *testing.T) {
	opts := popupOptions()
	opts.CloseTransition = TooltipCloseTransition
	h := newHarness(opts)

	h.ctrl.Open()
	h.ctrl.Close()
	assert.Equal(t, StateClosing, h.ctrl.State())
	assert.Zero(t, h.applier.hides)

	h.sched.Advance(149 * time.Millisecond)
	assert.Equal(t, StateClosing, h.ctrl.State())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.Equal(t, 1, h.applier.hides)
	assert.Equal(t, []State{StateOpening, StateOpen, StateClosing, StateClosed}, h.states)
}

func TestController_OpenDuringClosingCancelsRemoval(t *testing.T) {
	opts := popupOptions()
	opts.CloseTransition = TooltipCloseTransition
	h := newHarness(opts)

	h.ctrl.Open()
	h.ctrl.Close()
	h.sched.Advance(50 * time.Millisecond)
	h.ctrl.Open()
	h.sched.Advance(time.Second)

	assert.Equal(t, StateOpen, h.ctrl.State())
	assert.Zero(t, h.applier.hides)
}

func TestController_StaleCallbacksAreIgnored(t *testing.T) {
	h := newHarness(popupOptions())
	h.sched.ignoreStop = true

	h.ctrl.HoverTrigger(true)
	h.ctrl.HoverTrigger(false)
	h.sched.Advance(time.Second)

	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.Empty(t, h.applier.applied)
}

func TestController_Escape(t *testing.T) {
	h := newHarness(popupOptions())

	assert.False(t, h.ctrl.Escape())

	h.ctrl.Open()
	assert.True(t, h.ctrl.Escape())
	assert.Equal(t, StateClosed, h.ctrl.State())
}

func TestController_ClickOutside(t *testing.T) {
	h := newHarness(popupOptions())
	h.ctrl.Open()

	// Trigger and panel hits.
	assert.True(t, h.ctrl.Contains(110, 20))
	assert.True(t, h.ctrl.Contains(150, 100))
	assert.True(t, h.ctrl.PanelContains(150, 100))
	assert.False(t, h.ctrl.PanelContains(110, 20))
	assert.False(t, h.ctrl.Contains(700, 500))

	h.ctrl.ClickOutside()
	assert.Equal(t, StateClosed, h.ctrl.State())
	assert.False(t, h.ctrl.PanelContains(150, 100))

	// No-op when closed.
	h.ctrl.ClickOutside()
	assert.Equal(t, 1, h.applier.hides)
}

func TestController_SideModeUsesGeometryReference(t *testing.T) {
	opts := popupOptions()
	opts.Config = func(position.Rect) position.Config { return ThemePopupConfig() }
	h := newHarness(opts)
	h.geometry.trigger = position.NewRect(20, 100, 40, 40)
	h.geometry.ref = &position.Rect{Width: 300, Height: 600}
	h.measurer.size = position.Size{Width: 240, Height: 200}

	h.ctrl.Open()

	p := h.ctrl.Placement()
	assert.Equal(t, 312.0, p.Left)
	assert.Equal(t, position.HorizontalRight, p.Horizontal)
	assert.Equal(t, position.VerticalAligned, p.Vertical)
}

func TestController_RepositionFollowsViewport(t *testing.T) {
	h := newHarness(popupOptions())

	h.ctrl.Reposition()
	assert.Empty(t, h.applier.applied)

	h.ctrl.Open()
	h.geometry.viewport = position.NewViewport(800, 100)
	h.ctrl.Reposition()

	require.Len(t, h.applier.applied, 2)
	p := h.ctrl.Placement()
	assert.Equal(t, position.VerticalBelowConstrained, p.Vertical)
	assert.Equal(t, 38.0, p.Height)
	assert.Equal(t, 50.0, p.Top)
}

func TestController_ConfigSeesViewport(t *testing.T) {
	opts := popupOptions()
	opts.Config = func(vp position.Rect) position.Config {
		return UserPopupConfig(false, vp.Height)
	}
	h := newHarness(opts)
	h.geometry.viewport = position.NewViewport(800, 200)
	h.measurer.size = position.Size{Width: 200, Height: 300}

	h.ctrl.Open()

	p := h.ctrl.Placement()
	assert.Equal(t, 100.0, p.Height)
	assert.Equal(t, 100, h.ctrl.Style().MaxHeight)
	assert.True(t, h.ctrl.Style().ScrollY)
}

func TestController_TooltipOpensImmediately(t *testing.T) {
	h := newHarness(Options{
		Name:            "tooltip",
		Config:          func(position.Rect) position.Config { return TooltipConfig() },
		Fallback:        TooltipFallback,
		CloseTransition: TooltipCloseTransition,
	})

	h.ctrl.HoverTrigger(true)
	assert.Equal(t, StateOpen, h.ctrl.State())

	h.ctrl.HoverTrigger(false)
	assert.Equal(t, StateClosing, h.ctrl.State())

	h.sched.Advance(TooltipCloseTransition)
	assert.Equal(t, StateClosed, h.ctrl.State())
}

func TestTimerScheduler(t *testing.T) {
	done := make(chan struct{})
	task := TimerScheduler{}.After(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.False(t, task.Stop())

	stopped := TimerScheduler{}.After(time.Hour, func() { t.Error("stopped task ran") })
	assert.True(t, stopped.Stop())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "opening", StateOpening.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "closing", StateClosing.String())
	assert.Equal(t, "unknown", State(42).String())

	assert.False(t, StateClosed.Visible())
	assert.True(t, StateClosing.Visible())
	assert.False(t, StateClosing.Active())
	assert.True(t, StateOpening.Active())
}
