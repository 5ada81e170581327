package panel

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/docshell/internal/position"
)

// Step kinds accepted by ParseSteps.
const (
	StepTriggerIn  = "trigger-in"
	StepTriggerOut = "trigger-out"
	StepPanelIn    = "panel-in"
	StepPanelOut   = "panel-out"
	StepClick      = "click"
	StepEscape     = "escape"
	StepOutside    = "outside"
	StepWait       = "wait"
)

// Step is one instruction of a hover replay.
type Step struct {
	Kind string
	Wait time.Duration // Only for StepWait
}

// String returns the step as it is written on the command line.
func (s Step) String() string {
	if s.Kind == StepWait {
		return s.Wait.String()
	}
	return s.Kind
}

// ParseSteps parses replay instructions. A bare duration such as "250ms"
// waits on the replay clock.
func ParseSteps(args []string) ([]Step, error) {
	steps := make([]Step, 0, len(args))
	for _, arg := range args {
		arg = strings.ToLower(strings.TrimSpace(arg))
		switch arg {
		case StepTriggerIn, StepTriggerOut, StepPanelIn, StepPanelOut,
			StepClick, StepEscape, StepOutside:
			steps = append(steps, Step{Kind: arg})
			continue
		}

		d, err := time.ParseDuration(strings.TrimPrefix(arg, "wait:"))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("unknown replay step %q", arg)
		}
		steps = append(steps, Step{Kind: StepWait, Wait: d})
	}
	return steps, nil
}

// ReplayEvent is a state change observed during a replay.
type ReplayEvent struct {
	At        time.Duration
	Step      string
	State     State
	Placement position.Placement
}

// Replay feeds steps to c and records every state change with the replay
// clock time. c must have been created with sched as its Scheduler.
func Replay(c *Controller, sched *ManualScheduler, steps []Step) []ReplayEvent {
	var (
		events  []ReplayEvent
		current string
	)
	c.OnChange(func(s State) {
		events = append(events, ReplayEvent{
			At:        sched.Now(),
			Step:      current,
			State:     s,
			Placement: c.Placement(),
		})
	})

	for _, step := range steps {
		current = step.String()
		switch step.Kind {
		case StepTriggerIn:
			c.HoverTrigger(true)
		case StepTriggerOut:
			c.HoverTrigger(false)
		case StepPanelIn:
			c.HoverPanel(true)
		case StepPanelOut:
			c.HoverPanel(false)
		case StepClick:
			c.Click()
		case StepEscape:
			c.Escape()
		case StepOutside:
			c.ClickOutside()
		case StepWait:
			sched.Advance(step.Wait)
		}
	}
	return events
}

// FixedLayout is a Measurer, Geometry and Applier over constant
// rectangles. Apply records the last placement.
type FixedLayout struct {
	Panel    position.Size
	TriggerR position.Rect
	View     position.Rect
	Ref      *position.Rect

	Applied bool
}

// Measure implements Measurer.
func (l *FixedLayout) Measure() position.Size { return l.Panel }

// Trigger implements Geometry.
func (l *FixedLayout) Trigger() position.Rect { return l.TriggerR }

// Viewport implements Geometry.
func (l *FixedLayout) Viewport() position.Rect { return l.View }

// Reference implements Geometry.
func (l *FixedLayout) Reference() (position.Rect, bool) {
	if l.Ref == nil {
		return position.Rect{}, false
	}
	return *l.Ref, true
}

// Apply implements Applier.
func (l *FixedLayout) Apply(position.Placement, position.Style) { l.Applied = true }

// Hide implements Applier.
func (l *FixedLayout) Hide() { l.Applied = false }
