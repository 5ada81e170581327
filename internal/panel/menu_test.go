package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func themeMenu() *Menu {
	return NewMenu(
		MenuItem{ID: "light", Label: "Light"},
		MenuItem{ID: "dark", Label: "Dark"},
		MenuItem{ID: "high-contrast", Label: "High Contrast"},
	)
}

func TestMenu_FocusStartsOnTrigger(t *testing.T) {
	m := themeMenu()

	assert.Equal(t, -1, m.Focus())
	_, ok := m.Focused()
	assert.False(t, ok)

	m.Opened()
	it, ok := m.Focused()
	assert.True(t, ok)
	assert.Equal(t, "light", it.ID)

	m.Closed()
	assert.Equal(t, -1, m.Focus())
}

func TestMenu_ArrowNavigationWraps(t *testing.T) {
	tests := []struct {
		name  string
		start int
		moves []string
		want  int
	}{
		{"down from first", 0, []string{"down"}, 1},
		{"down wraps", 2, []string{"down"}, 0},
		{"up wraps", 0, []string{"up"}, 2},
		{"up from last", 2, []string{"up"}, 1},
		{"down from trigger", -1, []string{"down"}, 0},
		{"up from trigger", -1, []string{"up"}, 2},
		{"round trip", 0, []string{"down", "down", "down", "up"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := themeMenu()
			m.focus = tt.start
			for _, mv := range tt.moves {
				if mv == "down" {
					m.Next()
				} else {
					m.Prev()
				}
			}
			assert.Equal(t, tt.want, m.Focus())
		})
	}
}

func TestMenu_Empty(t *testing.T) {
	m := NewMenu()

	m.Opened()
	m.Next()
	m.Prev()
	assert.Equal(t, -1, m.Focus())
	assert.Zero(t, m.Len())
}

func TestMenu_Current(t *testing.T) {
	m := themeMenu()

	_, ok := m.Current()
	assert.False(t, ok)

	m.SetCurrent("dark")
	cur, ok := m.Current()
	assert.True(t, ok)
	assert.Equal(t, "dark", cur.ID)

	m.SetCurrent("high-contrast")
	cur, _ = m.Current()
	assert.Equal(t, "high-contrast", cur.ID)
	assert.False(t, m.Items()[1].Current)

	assert.True(t, m.FocusID("dark"))
	assert.Equal(t, 1, m.Focus())
	assert.False(t, m.FocusID("sepia"))
	assert.Equal(t, 1, m.Focus())
}
