package scrollspy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/docshell/internal/panel"
)

func testLinks() []Link {
	return []Link{
		{Target: "intro", Label: "Intro"},
		{Target: "install", Label: "Install"},
		{Target: "install__linux", Label: "Linux", Depth: 1},
		{Target: "usage", Label: "Usage"},
		{Target: "dark", Label: "Dark"},
	}
}

func isTheme(target string) bool {
	return target == "light" || target == "dark" || target == "high-contrast"
}

func TestMatches(t *testing.T) {
	tests := []struct {
		target, id string
		want       bool
	}{
		{"install", "install", true},
		{"install", "install__linux", true},
		{"install", "install_notes", true},
		{"install", "installer", false},
		{"install__linux", "install", false},
		{"usage", "intro", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Matches(tt.target, tt.id), "%s/%s", tt.target, tt.id)
	}
}

func TestNew_FiltersExcluded(t *testing.T) {
	s := New(append(testLinks(), Link{Label: "empty"}), Options{Exclude: isTheme})

	var targets []string
	for _, l := range s.Links() {
		targets = append(targets, l.Target)
	}
	assert.Equal(t, []string{"intro", "install", "install__linux", "usage"}, targets)
}

func TestSpy_Activate(t *testing.T) {
	s := New(testLinks(), Options{Exclude: isTheme})

	assert.True(t, s.Activate("install__linux"))
	assert.Equal(t, []string{"install", "install__linux"}, s.ActiveTargets())
	assert.Equal(t, "install__linux", s.Current())

	assert.False(t, s.Activate("install__linux"), "unchanged id is ignored")

	assert.True(t, s.Activate("usage"))
	assert.Equal(t, []string{"usage"}, s.ActiveTargets())
	assert.False(t, s.IsActive("install"))

	assert.True(t, s.Activate("appendix"))
	assert.Empty(t, s.ActiveTargets())
}

func TestSpy_ClickLock(t *testing.T) {
	sched := &panel.ManualScheduler{}
	s := New(testLinks(), Options{Exclude: isTheme, Scheduler: sched})

	s.Click("usage")
	assert.True(t, s.Locked())
	assert.Equal(t, []string{"usage"}, s.ActiveTargets())

	assert.False(t, s.Activate("intro"), "ignored while locked")
	assert.Equal(t, []string{"usage"}, s.ActiveTargets())

	sched.Advance(500 * time.Millisecond)
	s.Click("intro")

	// The lock from the first click no longer applies.
	sched.Advance(600 * time.Millisecond)
	assert.True(t, s.Locked())

	sched.Advance(400 * time.Millisecond)
	assert.False(t, s.Locked())
	assert.True(t, s.Activate("install"))
	assert.Equal(t, []string{"install"}, s.ActiveTargets())
}

func TestSpy_ActivateAfterClickRestoresObservedSection(t *testing.T) {
	sched := &panel.ManualScheduler{}
	s := New(testLinks(), Options{Exclude: isTheme, Scheduler: sched})

	assert.True(t, s.Activate("install"))
	s.Click("usage")
	assert.Empty(t, s.Current())

	sched.Advance(time.Second)
	assert.False(t, s.Locked())

	assert.True(t, s.Activate("install"), "same section as before the click")
	assert.True(t, s.IsActive("install"))
	assert.False(t, s.IsActive("usage"))
}

func TestSectionAt(t *testing.T) {
	sections := []Section{
		{ID: "intro", Top: 0, Height: 10},
		{ID: "install", Top: 10, Height: 30},
		{ID: "usage", Top: 40, Height: 20},
	}

	tests := []struct {
		name     string
		offset   int
		height   int
		wantID   string
		wantFind bool
	}{
		{"top", 0, 20, "intro", true},
		{"band reaches next", 6, 20, "install", true},
		{"band just short", 5, 20, "intro", true},
		{"deep", 45, 20, "usage", true},
		{"past end", 200, 20, "usage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := SectionAt(sections, tt.offset, tt.height, DefaultBand)
			assert.Equal(t, tt.wantFind, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}

	_, ok := SectionAt([]Section{{ID: "late", Top: 50}}, 0, 20, DefaultBand)
	assert.False(t, ok)
}

func TestSpy_Update(t *testing.T) {
	s := New(testLinks(), Options{})
	sections := []Section{{ID: "intro", Top: 0}, {ID: "usage", Top: 30}}

	assert.True(t, s.Update(sections, 0, 20))
	assert.Equal(t, "intro", s.Current())
	assert.True(t, s.Update(sections, 30, 20))
	assert.Equal(t, "usage", s.Current())
	assert.False(t, s.Update(nil, 30, 20))
}
