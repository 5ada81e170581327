package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DetectsNewOverride(t *testing.T) {
	dir := t.TempDir()

	p, err := LoadPalette(Dark, dir)
	require.NoError(t, err)

	w := NewWatcher(p, dir, nil)
	w.SetPollInterval(10 * time.Millisecond)

	changes := make(chan *Palette, 1)
	w.SetChangeCallback(func(p *Palette) {
		select {
		case changes <- p:
		default:
		}
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	tmp := filepath.Join(t.TempDir(), "dark.toml")
	require.NoError(t, os.WriteFile(tmp, []byte("[colors]\naccent = \"#abcdef\"\n"), 0644))
	require.NoError(t, os.Rename(tmp, filepath.Join(dir, "dark.toml")))

	select {
	case got := <-changes:
		assert.Equal(t, "#abcdef", got.Colors.Accent)
		assert.Equal(t, "#abcdef", w.Palette().Colors.Accent)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for palette reload")
	}
}

func TestWatcher_CheckForChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "light.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colors]\naccent = \"#000001\"\n"), 0644))

	p, err := LoadPalette(Light, dir)
	require.NoError(t, err)

	var calls int
	w := NewWatcher(p, dir, nil)
	w.SetChangeCallback(func(*Palette) { calls++ })

	w.checkForChanges()
	assert.Equal(t, 0, calls)

	require.NoError(t, os.Remove(path))
	w.checkForChanges()
	assert.Equal(t, 1, calls)
	pal := w.Palette()
	assert.True(t, pal.IsBundledOnly())

	w.checkForChanges()
	assert.Equal(t, 1, calls)
}

func TestWatcher_NoDir(t *testing.T) {
	p, err := LoadPalette(Light, "")
	require.NoError(t, err)

	w := NewWatcher(p, "", nil)
	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
	w.Stop()
}

func TestWatcher_UpdatePalette(t *testing.T) {
	light, err := LoadPalette(Light, "")
	require.NoError(t, err)
	dark, err := LoadPalette(Dark, "")
	require.NoError(t, err)

	w := NewWatcher(light, t.TempDir(), nil)
	w.UpdatePalette(dark)
	assert.Equal(t, Dark, w.Palette().Name)
}
