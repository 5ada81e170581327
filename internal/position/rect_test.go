package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Edges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)

	assert.Equal(t, 40.0, r.Right())
	assert.Equal(t, 60.0, r.Bottom())
	assert.Equal(t, 40.0, r.CenterY())
	assert.Equal(t, Size{Width: 30, Height: 40}, r.Size())
}

func TestRect_ContainsPoint(t *testing.T) {
	r := NewRect(0, 0, 10, 5)

	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{9.9, 4.9, true},
		{10, 0, false},
		{0, 5, false},
		{-1, 2, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, r.ContainsPoint(tc.x, tc.y), "(%v,%v)", tc.x, tc.y)
	}
}

func TestRect_ContainsAndInset(t *testing.T) {
	view := NewViewport(100, 50)
	inner := view.Inset(12)

	assert.Equal(t, NewRect(12, 12, 76, 26), inner)
	assert.True(t, view.Contains(inner))
	assert.False(t, inner.Contains(view))
}

func TestRect_Round(t *testing.T) {
	assert.Equal(t, NewRect(2, 3, 10, 8), NewRect(1.6, 2.5, 9.6, 7.6).Round())
}

func TestSize_OrDefault(t *testing.T) {
	fallback := Size{Width: 240, Height: 200}

	assert.Equal(t, fallback, Size{}.OrDefault(fallback))
	assert.Equal(t, Size{Width: 50, Height: 200}, Size{Width: 50}.OrDefault(fallback))
	assert.Equal(t, Size{Width: 50, Height: 20}, Size{Width: 50, Height: 20}.OrDefault(fallback))
	assert.True(t, Size{Width: 50}.IsZero())
	assert.False(t, Size{Width: 1, Height: 1}.IsZero())
}
