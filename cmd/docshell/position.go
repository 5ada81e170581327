package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/docshell/internal/config"
	"github.com/jmylchreest/docshell/internal/output"
	"github.com/jmylchreest/docshell/internal/panel"
	"github.com/jmylchreest/docshell/internal/position"
)

var positionOpts struct {
	trigger   string
	panel     string
	viewport  string
	reference string
	gap       float64
	prefer    string
	align     string
	side      bool
	center    bool
	maxWidth  float64
	maxHeight float64

	format   string
	field    string
	template string
	css      bool
}

var replayOpts struct {
	openDelay       string
	closeDelay      string
	closeTransition string
}

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Compute where a floating panel goes",
	Long: `Compute the placement of a floating panel next to a trigger.

Rectangles are written left,top,width,height and sizes widthxheight. The
viewport defaults to the size of the current terminal.

The panel opens below the trigger unless the trigger sits in the lower half
of the viewport or --prefer above is given, flips when it does not fit, and
is clamped to stay --gap away from every viewport edge. With --side the
panel is placed beside the --reference rectangle (or the trigger) instead.

Examples:
  docshell position --trigger 100,700,80,30 --panel 200x150 --viewport 1000x800
  docshell position --trigger 2,30,4,1 --panel 24x10 --side --reference 0,0,6,40 --gap 1
  docshell position --trigger 100,100,80,30 --panel 200x150 --field placement`,
	Args: cobra.NoArgs,
	RunE: runPosition,
}

var replayCmd = &cobra.Command{
	Use:   "replay STEP...",
	Short: "Replay a hover sequence against a panel",
	Long: `Replay pointer steps against a panel with hover intent and print every
state change with the time it happened.

Steps are trigger-in, trigger-out, panel-in, panel-out, click, escape,
outside, or a duration such as 250ms that advances the clock.

Example:
  docshell position replay --trigger 100,100,80,30 --panel 200x150 \
    trigger-in 250ms trigger-out panel-in 1s panel-out 150ms`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(positionCmd)
	positionCmd.AddCommand(replayCmd)

	flags := positionCmd.PersistentFlags()
	flags.StringVar(&positionOpts.trigger, "trigger", "",
		"Trigger rectangle as left,top,width,height (required)")
	flags.StringVar(&positionOpts.panel, "panel", "",
		"Natural panel size as widthxheight (required)")
	flags.StringVar(&positionOpts.viewport, "viewport", "auto",
		"Viewport size as widthxheight, or auto for the terminal size")
	flags.StringVar(&positionOpts.reference, "reference", "",
		"Side mode reference rectangle as left,top,width,height")
	flags.Float64Var(&positionOpts.gap, "gap", position.DefaultConfig().Gap,
		"Clearance to the trigger and viewport edges")
	flags.StringVar(&positionOpts.prefer, "prefer", "auto",
		"Vertical preference (auto, above, below)")
	flags.StringVar(&positionOpts.align, "align", "start",
		"Horizontal alignment to the trigger (start, center, end)")
	flags.BoolVar(&positionOpts.side, "side", false,
		"Place the panel beside the reference instead of above or below")
	flags.BoolVar(&positionOpts.center, "center", false,
		"Centre the panel on the trigger in side mode")
	flags.Float64Var(&positionOpts.maxWidth, "max-width", 0,
		"Maximum panel width (0 = unset)")
	flags.Float64Var(&positionOpts.maxHeight, "max-height", 0,
		"Maximum panel height (0 = unset)")
	flags.StringVarP(&positionOpts.format, "format", "o", "text",
		"Output format (text, json, yaml)")

	_ = positionCmd.MarkPersistentFlagRequired("trigger")
	_ = positionCmd.MarkPersistentFlagRequired("panel")

	positionCmd.Flags().StringVar(&positionOpts.field, "field", "",
		"Print a single field (placement, left, top, width, height, css, rect)")
	positionCmd.Flags().StringVar(&positionOpts.template, "template", "",
		"Go template for text output")
	positionCmd.Flags().BoolVar(&positionOpts.css, "css", false,
		"Include the inline style declaration in text output")

	replayCmd.Flags().StringVar(&replayOpts.openDelay, "open-delay", "",
		"Hover time before opening (default from config)")
	replayCmd.Flags().StringVar(&replayOpts.closeDelay, "close-delay", "",
		"Grace period after leaving (default from config)")
	replayCmd.Flags().StringVar(&replayOpts.closeTransition, "close-transition", "0",
		"Time the panel spends closing before it is removed")
}

// positionInput is the parsed geometry shared by position and replay.
type positionInput struct {
	trigger  position.Rect
	panel    position.Size
	viewport position.Rect
	config   position.Config
}

func parsePositionInput() (positionInput, error) {
	var in positionInput
	var err error

	if in.trigger, err = parseRect(positionOpts.trigger); err != nil {
		return in, fmt.Errorf("invalid --trigger: %w", err)
	}
	if in.panel, err = parseSize(positionOpts.panel); err != nil {
		return in, fmt.Errorf("invalid --panel: %w", err)
	}
	if in.viewport, err = resolveViewport(positionOpts.viewport); err != nil {
		return in, fmt.Errorf("invalid --viewport: %w", err)
	}

	align := position.Align(strings.ToLower(positionOpts.align))
	if !align.Valid() {
		return in, fmt.Errorf("invalid --align %q (want start, center or end)", positionOpts.align)
	}
	prefer := strings.ToLower(positionOpts.prefer)
	if prefer != "auto" && prefer != "above" && prefer != "below" {
		return in, fmt.Errorf("invalid --prefer %q (want auto, above or below)", positionOpts.prefer)
	}
	if positionOpts.gap < 0 {
		return in, fmt.Errorf("invalid --gap %v: must not be negative", positionOpts.gap)
	}

	in.config = position.Config{
		Gap:              positionOpts.gap,
		PreferAbove:      position.ParseVerticalPreference(prefer),
		Side:             positionOpts.side,
		Align:            align,
		MaxWidth:         positionOpts.maxWidth,
		MaxHeight:        positionOpts.maxHeight,
		CenterVertically: positionOpts.center,
	}
	if positionOpts.reference != "" {
		ref, err := parseRect(positionOpts.reference)
		if err != nil {
			return in, fmt.Errorf("invalid --reference: %w", err)
		}
		in.config.Reference = &ref
	}

	return in, nil
}

func runPosition(cmd *cobra.Command, args []string) error {
	in, err := parsePositionInput()
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(positionOpts.format)
	if err != nil {
		return err
	}

	p := position.Compute(in.trigger, in.panel.At(0, 0), in.viewport, in.config)
	logger.Debug("placement computed", "placement", p.Marker(), "left", p.Left, "top", p.Top)

	formatter := output.NewFormatter(format, output.FormatterOptions{
		Template: positionOpts.template,
		Field:    positionOpts.field,
		ShowCSS:  positionOpts.css,
	})
	return formatter.Format(cmd.OutOrStdout(), output.Result{
		Trigger:   in.trigger,
		Panel:     in.panel,
		Viewport:  in.viewport,
		Placement: p,
		Style:     p.Style(in.config),
	})
}

func runReplay(cmd *cobra.Command, args []string) error {
	in, err := parsePositionInput()
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(positionOpts.format)
	if err != nil {
		return err
	}
	steps, err := panel.ParseSteps(args)
	if err != nil {
		return err
	}

	openDelay, err := durationOr(replayOpts.openDelay, cfg.Popup.OpenDelay.Duration())
	if err != nil {
		return fmt.Errorf("invalid --open-delay: %w", err)
	}
	closeDelay, err := durationOr(replayOpts.closeDelay, cfg.Popup.CloseDelay.Duration())
	if err != nil {
		return fmt.Errorf("invalid --close-delay: %w", err)
	}
	closeTransition, err := durationOr(replayOpts.closeTransition, 0)
	if err != nil {
		return fmt.Errorf("invalid --close-transition: %w", err)
	}

	sched := &panel.ManualScheduler{}
	layout := &panel.FixedLayout{
		Panel:    in.panel,
		TriggerR: in.trigger,
		View:     in.viewport,
		Ref:      in.config.Reference,
	}
	pc := in.config
	c := panel.NewController(panel.Options{
		Name:            "replay",
		Config:          func(position.Rect) position.Config { return pc },
		OpenDelay:       openDelay,
		CloseDelay:      closeDelay,
		CloseTransition: closeTransition,
		Scheduler:       sched,
		Logger:          logger,
	}, layout, layout, layout)

	events := panel.Replay(c, sched, steps)

	trace := make([]output.Transition, 0, len(events))
	for _, ev := range events {
		t := output.Transition{
			AtMS:  ev.At.Milliseconds(),
			Step:  ev.Step,
			State: ev.State.String(),
		}
		if ev.State.Visible() {
			p := ev.Placement
			t.Placement = &p
		}
		trace = append(trace, t)
	}

	return output.NewFormatter(format, output.FormatterOptions{}).FormatTrace(cmd.OutOrStdout(), trace)
}

// parseRect parses "left,top,width,height".
func parseRect(s string) (position.Rect, error) {
	v, err := parseNumbers(s, ",", 4)
	if err != nil {
		return position.Rect{}, err
	}
	if v[2] < 0 || v[3] < 0 {
		return position.Rect{}, fmt.Errorf("%q: width and height must not be negative", s)
	}
	return position.NewRect(v[0], v[1], v[2], v[3]), nil
}

// parseSize parses "widthxheight" or "width,height".
func parseSize(s string) (position.Size, error) {
	sep := "x"
	if strings.Contains(s, ",") {
		sep = ","
	}
	v, err := parseNumbers(strings.ToLower(s), sep, 2)
	if err != nil {
		return position.Size{}, err
	}
	if v[0] < 0 || v[1] < 0 {
		return position.Size{}, fmt.Errorf("%q: size must not be negative", s)
	}
	return position.Size{Width: v[0], Height: v[1]}, nil
}

// resolveViewport parses a viewport size or, for "auto", asks the terminal.
func resolveViewport(s string) (position.Rect, error) {
	if s == "" || strings.EqualFold(s, "auto") {
		w, h, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return position.Rect{}, fmt.Errorf("terminal size unavailable, pass --viewport WxH: %w", err)
		}
		return position.NewViewport(float64(w), float64(h)), nil
	}

	size, err := parseSize(s)
	if err != nil {
		return position.Rect{}, err
	}
	return position.NewViewport(size.Width, size.Height), nil
}

func parseNumbers(s, sep string, n int) ([]float64, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d values separated by %q", s, n, sep)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// durationOr parses s like a config duration, or returns fallback when s
// is empty.
func durationOr(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	var d config.Duration
	if err := d.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return d.Duration(), nil
}
