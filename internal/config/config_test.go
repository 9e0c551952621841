package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toastkit/toastkit/internal/display"
	"github.com/toastkit/toastkit/internal/model"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, string(display.AnchorBottomRight), cfg.Display.Anchor)
	assert.Equal(t, 5, cfg.Display.MaxVisible)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[display]
anchor = "top-left"
max_visible = 3

[durations]
error = "10s"

[timing]
slide_in = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "top-left", cfg.Display.Anchor)
	assert.Equal(t, 3, cfg.Display.MaxVisible)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultConfig().Display.Width, cfg.Display.Width)

	assert.Equal(t, 10*time.Second, cfg.DurationFor(model.SeverityError))
	assert.Equal(t, time.Duration(0), cfg.DurationFor(model.SeverityInfo))

	assert.Equal(t, 250*time.Millisecond, cfg.RenderTiming().SlideIn)
}

func TestLoad_MillisecondCompat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[durations]\ninfo = \"1500\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.DurationFor(model.SeverityInfo))
}

func TestLoad_InvalidAnchorRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nanchor = \"middle\"\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.Width = 5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Display.MaxVisible = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Audio.Volume = 120
	assert.Error(t, cfg.Validate())
}

func TestLayout(t *testing.T) {
	cfg := DefaultConfig()
	layout := cfg.Layout()
	assert.Equal(t, display.AnchorBottomRight, layout.Anchor)
	assert.Equal(t, cfg.Display.Gap, layout.Gap)
	assert.Equal(t, cfg.Display.MaxVisible, layout.MaxVisible)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nanchor = \"top-left\"\n"), 0o600))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("[display]\nanchor = \"top-center\"\n"), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "top-center", cfg.Display.Anchor)
	case <-time.After(2 * time.Second):
		t.Fatal("config reload not observed")
	}
}

func TestWatcher_KeepsOldConfigOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display]\nanchor = \"top-left\"\n"), 0o600))

	calls := make(chan struct{}, 4)
	w, err := NewWatcher(path, func(*Config) { calls <- struct{}{} }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(path, []byte("not toml ==="), 0o600))

	select {
	case <-calls:
		t.Fatal("callback must not run for an unparsable config")
	case <-time.After(300 * time.Millisecond):
	}
}
