package position

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	sidebar := NewRect(0, 0, 300, 600)

	tests := []struct {
		name    string
		trigger Rect
		panel   Size
		view    Rect
		cfg     Config
		want    Placement
	}{
		{
			name:    "top half trigger opens below",
			trigger: NewRect(100, 10, 40, 40),
			panel:   Size{Width: 200, Height: 150},
			view:    NewViewport(800, 600),
			cfg:     DefaultConfig(),
			want: Placement{
				Left: 100, Top: 62, Width: 200, Height: 150,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "start aligned trigger near left edge is pushed to the gap",
			trigger: NewRect(10, 10, 40, 40),
			panel:   Size{Width: 200, Height: 150},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Align: AlignStart},
			want: Placement{
				Left: 12, Top: 62, Width: 200, Height: 150,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "short viewport constrains below",
			trigger: NewRect(10, 10, 40, 40),
			panel:   Size{Width: 200, Height: 150},
			view:    NewViewport(800, 100),
			cfg:     Config{Gap: 12, Align: AlignStart},
			want: Placement{
				Left: 12, Top: 50, Width: 200, Height: 38,
				Horizontal: HorizontalLeft, Vertical: VerticalBelowConstrained,
				Scrollable: true,
			},
		},
		{
			name:    "side mode beside reference",
			trigger: NewRect(20, 100, 40, 40),
			panel:   Size{Width: 240, Height: 200},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &sidebar},
			want: Placement{
				Left: 312, Top: 100, Width: 240, Height: 200,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode falls back to the left of the trigger",
			trigger: NewRect(500, 100, 40, 40),
			panel:   Size{Width: 240, Height: 200},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &Rect{Width: 600, Height: 600}},
			want: Placement{
				Left: 248, Top: 100, Width: 240, Height: 200,
				Horizontal: HorizontalLeft, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode fallback is clamped to the gap",
			trigger: NewRect(100, 100, 40, 40),
			panel:   Size{Width: 240, Height: 200},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &Rect{Width: 600, Height: 600}},
			want: Placement{
				Left: 12, Top: 100, Width: 240, Height: 200,
				Horizontal: HorizontalLeft, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode without reference uses the trigger",
			trigger: NewRect(20, 100, 40, 40),
			panel:   Size{Width: 100, Height: 50},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true},
			want: Placement{
				Left: 72, Top: 100, Width: 100, Height: 50,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode bottom half aligns bottom edges",
			trigger: NewRect(20, 500, 40, 40),
			panel:   Size{Width: 240, Height: 200},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &sidebar},
			want: Placement{
				Left: 312, Top: 340, Width: 240, Height: 200,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode top half is pulled up from the bottom edge",
			trigger: NewRect(20, 250, 40, 20),
			panel:   Size{Width: 240, Height: 400},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &sidebar},
			want: Placement{
				Left: 312, Top: 188, Width: 240, Height: 400,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
			},
		},
		{
			name:    "side mode shrinks a panel taller than the viewport",
			trigger: NewRect(20, 100, 40, 40),
			panel:   Size{Width: 240, Height: 900},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &sidebar},
			want: Placement{
				Left: 312, Top: 12, Width: 240, Height: 576,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
				Scrollable: true,
			},
		},
		{
			name:    "side mode centred tooltip",
			trigger: NewRect(0, 100, 48, 20),
			panel:   Size{Width: 100, Height: 32},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Side: true, Reference: &Rect{Width: 48, Height: 600}, CenterVertically: true},
			want: Placement{
				Left: 60, Top: 94, Width: 100, Height: 32,
				Horizontal: HorizontalRight, Vertical: VerticalAligned,
			},
		},
		{
			name:    "explicit above preference with room",
			trigger: NewRect(100, 200, 40, 20),
			panel:   Size{Width: 100, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, PreferAbove: PreferAbove},
			want: Placement{
				Left: 100, Top: 88, Width: 100, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalAbove,
			},
		},
		{
			name:    "bottom half trigger prefers above",
			trigger: NewRect(100, 500, 40, 40),
			panel:   Size{Width: 200, Height: 150},
			view:    NewViewport(800, 600),
			cfg:     DefaultConfig(),
			want: Placement{
				Left: 100, Top: 338, Width: 200, Height: 150,
				Horizontal: HorizontalLeft, Vertical: VerticalAbove,
			},
		},
		{
			name:    "explicit below preference falls back to above constrained",
			trigger: NewRect(100, 500, 40, 40),
			panel:   Size{Width: 200, Height: 150},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, PreferAbove: PreferBelow},
			want: Placement{
				Left: 100, Top: 12, Width: 200, Height: 150,
				Horizontal: HorizontalLeft, Vertical: VerticalAboveConstrained,
			},
		},
		{
			name:    "above preference without room opens below",
			trigger: NewRect(100, 40, 40, 20),
			panel:   Size{Width: 100, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, PreferAbove: PreferAbove},
			want: Placement{
				Left: 100, Top: 72, Width: 100, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "above constrained shrinks to the space above",
			trigger: NewRect(100, 300, 40, 200),
			panel:   Size{Width: 100, Height: 400},
			view:    NewViewport(800, 600),
			cfg:     DefaultConfig(),
			want: Placement{
				Left: 100, Top: 12, Width: 100, Height: 288,
				Horizontal: HorizontalLeft, Vertical: VerticalAboveConstrained,
				Scrollable: true,
			},
		},
		{
			name:    "explicit max height is not shrunk further",
			trigger: NewRect(100, 300, 40, 200),
			panel:   Size{Width: 100, Height: 400},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, MaxHeight: 350},
			want: Placement{
				Left: 100, Top: 12, Width: 100, Height: 350,
				Horizontal: HorizontalLeft, Vertical: VerticalAboveConstrained,
				Scrollable: true,
			},
		},
		{
			name:    "max height taller than the viewport pins to the top gap",
			trigger: NewRect(100, 300, 40, 200),
			panel:   Size{Width: 100, Height: 1000},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, MaxHeight: 900},
			want: Placement{
				Left: 100, Top: 12, Width: 100, Height: 900,
				Horizontal: HorizontalLeft, Vertical: VerticalAboveConstrained,
				Scrollable: true,
			},
		},
		{
			name:    "max width and height clamp before placement",
			trigger: NewRect(100, 10, 40, 40),
			panel:   Size{Width: 500, Height: 500},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, MaxWidth: 300, MaxHeight: 200},
			want: Placement{
				Left: 100, Top: 62, Width: 300, Height: 200,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
				Scrollable: true,
			},
		},
		{
			name:    "end alignment",
			trigger: NewRect(600, 10, 100, 40),
			panel:   Size{Width: 200, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Align: AlignEnd},
			want: Placement{
				Left: 500, Top: 62, Width: 200, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "center alignment",
			trigger: NewRect(300, 10, 100, 40),
			panel:   Size{Width: 200, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     Config{Gap: 12, Align: AlignCenter},
			want: Placement{
				Left: 250, Top: 62, Width: 200, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "right edge clamp",
			trigger: NewRect(700, 10, 40, 40),
			panel:   Size{Width: 200, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     DefaultConfig(),
			want: Placement{
				Left: 588, Top: 62, Width: 200, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "over-wide panel is pinned to the left gap",
			trigger: NewRect(700, 10, 40, 40),
			panel:   Size{Width: 1000, Height: 100},
			view:    NewViewport(800, 600),
			cfg:     DefaultConfig(),
			want: Placement{
				Left: 12, Top: 62, Width: 1000, Height: 100,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
		{
			name:    "zero gap",
			trigger: NewRect(0, 0, 10, 1),
			panel:   Size{Width: 20, Height: 5},
			view:    NewViewport(80, 24),
			cfg:     Config{},
			want: Placement{
				Left: 0, Top: 1, Width: 20, Height: 5,
				Horizontal: HorizontalLeft, Vertical: VerticalBelow,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.trigger, tc.panel.At(0, 0), tc.view, tc.cfg)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompute_SideFallbackStaysInside(t *testing.T) {
	trigger := NewRect(700, 100, 40, 40)
	ref := NewRect(0, 0, 760, 600)

	got := Compute(trigger, Size{Width: 240, Height: 100}.At(0, 0), NewViewport(800, 600),
		Config{Gap: 12, Side: true, Reference: &ref})

	assert.Equal(t, HorizontalLeft, got.Horizontal)
	assert.GreaterOrEqual(t, got.Left, 12.0)
	assert.Equal(t, "aligned-left", got.Marker())
}

func TestCompute_ConstrainedHeightMatchesChosenSpace(t *testing.T) {
	view := NewViewport(800, 300)
	cfg := DefaultConfig()

	// More room above.
	trigger := NewRect(100, 180, 40, 40)
	got := Compute(trigger, Size{Width: 100, Height: 250}.At(0, 0), view, cfg)
	require.True(t, got.Constrained())
	assert.Equal(t, VerticalAboveConstrained, got.Vertical)
	assert.Equal(t, trigger.Top-cfg.Gap, got.Height)

	// More room below.
	trigger = NewRect(100, 60, 40, 40)
	got = Compute(trigger, Size{Width: 100, Height: 250}.At(0, 0), view, cfg)
	require.True(t, got.Constrained())
	assert.Equal(t, VerticalBelowConstrained, got.Vertical)
	assert.Equal(t, view.Height-trigger.Bottom()-cfg.Gap, got.Height)
}

func TestCompute_NegativeSpaceNeverYieldsNegativeHeight(t *testing.T) {
	// Trigger scrolled above the viewport.
	trigger := NewRect(100, -80, 40, 40)
	got := Compute(trigger, Size{Width: 100, Height: 700}.At(0, 0), NewViewport(800, 600), DefaultConfig())

	assert.GreaterOrEqual(t, got.Height, 0.0)
	assert.GreaterOrEqual(t, got.Top, 12.0)
}

func TestCompute_Idempotent(t *testing.T) {
	sidebar := NewRect(0, 0, 300, 600)
	trigger := NewRect(20, 480, 40, 40)
	panel := Size{Width: 240, Height: 200}.At(0, 0)
	view := NewViewport(800, 600)
	cfg := Config{Gap: 12, Side: true, Reference: &sidebar, MaxHeight: 500}

	first := Compute(trigger, panel, view, cfg)
	second := Compute(trigger, panel, view, cfg)
	assert.Equal(t, first, second)
}

func TestCompute_ContainmentProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	aligns := []Align{AlignStart, AlignCenter, AlignEnd, ""}
	prefs := []VerticalPreference{PreferAuto, PreferAbove, PreferBelow}

	for i := 0; i < 5000; i++ {
		vw := 200 + rng.Float64()*1400
		vh := 200 + rng.Float64()*1000
		gap := float64(rng.IntN(25))
		view := NewViewport(vw, vh)

		panel := Size{
			Width:  1 + rng.Float64()*(vw-2*gap-1),
			Height: 1 + rng.Float64()*(vh-2*gap-1),
		}.At(0, 0)

		tw := 1 + rng.Float64()*100
		th := 1 + rng.Float64()*60
		trigger := NewRect(rng.Float64()*(vw-tw), rng.Float64()*(vh-th), tw, th)

		cfg := Config{
			Gap:              gap,
			PreferAbove:      prefs[rng.IntN(len(prefs))],
			Side:             rng.IntN(2) == 0,
			Align:            aligns[rng.IntN(len(aligns))],
			CenterVertically: rng.IntN(4) == 0,
		}
		if rng.IntN(3) == 0 {
			ref := NewRect(0, 0, rng.Float64()*vw, vh)
			cfg.Reference = &ref
		}
		if rng.IntN(4) == 0 {
			cfg.MaxHeight = 1 + rng.Float64()*vh
		}
		if rng.IntN(4) == 0 {
			cfg.MaxWidth = 1 + rng.Float64()*vw
		}

		got := Compute(trigger, panel, view, cfg)

		const eps = 1e-9
		if !assert.GreaterOrEqual(t, got.Left, gap-eps, "case %d: left", i) ||
			!assert.LessOrEqual(t, got.Left+got.Width, vw-gap+eps, "case %d: right", i) ||
			!assert.GreaterOrEqual(t, got.Top, gap-eps, "case %d: top", i) ||
			!assert.LessOrEqual(t, got.Top+got.Height, vh-gap+eps, "case %d: bottom", i) {
			t.Logf("trigger=%+v panel=%+v view=%+v cfg=%+v got=%+v", trigger, panel, view, cfg, got)
			return
		}
	}
}

func TestPlacement_Style(t *testing.T) {
	p := Placement{
		Left: 12.4, Top: 61.6, Width: 200, Height: 38.2,
		Horizontal: HorizontalLeft, Vertical: VerticalBelowConstrained,
		Scrollable: true,
	}

	s := p.Style(Config{Gap: 12})
	assert.Equal(t, 12, s.Left)
	assert.Equal(t, 62, s.Top)
	assert.Equal(t, 38, s.MaxHeight)
	assert.True(t, s.ScrollY)
	assert.Zero(t, s.MaxWidth)
	assert.Equal(t, "below-constrained-left", s.Placement)

	assert.Equal(t,
		"position: fixed !important; left: 12px !important; top: 62px !important;"+
			" right: auto !important; bottom: auto !important;"+
			" max-height: 38px !important; overflow-y: auto !important;",
		s.CSS())
}

func TestPlacement_StyleWithCaps(t *testing.T) {
	p := Placement{Left: 312, Top: 100, Width: 240, Height: 200, Horizontal: HorizontalRight, Vertical: VerticalAligned}

	s := p.Style(Config{MaxWidth: 240, MaxHeight: 500})
	assert.Equal(t, 200, s.MaxHeight)
	assert.Equal(t, 240, s.MaxWidth)
	assert.Contains(t, s.CSS(), "max-width: 240px !important;")

	plain := p.Style(Config{})
	assert.False(t, plain.ScrollY)
	assert.NotContains(t, plain.CSS(), "max-height")
}

func TestVerticalPreference(t *testing.T) {
	assert.Equal(t, PreferAbove, ParseVerticalPreference("above"))
	assert.Equal(t, PreferBelow, ParseVerticalPreference("below"))
	assert.Equal(t, PreferAuto, ParseVerticalPreference(""))
	assert.Equal(t, PreferAuto, ParseVerticalPreference("sideways"))
	assert.Equal(t, "above", PreferAbove.String())
	assert.Equal(t, "auto", PreferAuto.String())
}
