package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/docshell/internal/position"
)

func TestParseRect(t *testing.T) {
	r, err := parseRect("10, 20,30,40")
	require.NoError(t, err)
	assert.Equal(t, position.NewRect(10, 20, 30, 40), r)

	_, err = parseRect("10,20,30")
	assert.Error(t, err)
	_, err = parseRect("a,b,c,d")
	assert.Error(t, err)
	_, err = parseRect("0,0,-1,5")
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    position.Size
		wantErr bool
	}{
		{"24x10", position.Size{Width: 24, Height: 10}, false},
		{"24X10", position.Size{Width: 24, Height: 10}, false},
		{"200,150", position.Size{Width: 200, Height: 150}, false},
		{"24", position.Size{}, true},
		{"-1x4", position.Size{}, true},
	}

	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestResolveViewport(t *testing.T) {
	v, err := resolveViewport("1000x800")
	require.NoError(t, err)
	assert.Equal(t, position.NewViewport(1000, 800), v)
}

func TestDurationOr(t *testing.T) {
	d, err := durationOr("", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	d, err = durationOr("250", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	_, err = durationOr("later", time.Second)
	assert.Error(t, err)
}

func executeCommand(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestPositionCommand_JSON(t *testing.T) {
	out := executeCommand(t, "position",
		"--trigger", "100,700,80,30",
		"--panel", "200x150",
		"--viewport", "1000x800",
		"--gap", "12",
		"-o", "json")

	var result struct {
		Placement position.Placement `json:"placement"`
		Style     position.Style     `json:"style"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, position.VerticalAbove, result.Placement.Vertical)
	assert.Equal(t, 538, result.Style.Top)
	assert.Equal(t, 100, result.Style.Left)
	assert.Equal(t, "above-left", result.Style.Placement)
}

func TestReplayCommand(t *testing.T) {
	out := executeCommand(t, "position", "replay",
		"--trigger", "100,100,80,30",
		"--panel", "200x150",
		"--viewport", "1000x800",
		"-o", "text",
		"--open-delay", "200ms",
		"--close-delay", "100ms",
		"trigger-in", "250ms", "trigger-out", "150ms")

	assert.Contains(t, out, "+200ms")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "+350ms")
	assert.Contains(t, out, "closed")
}
