// Package config handles configuration file loading and parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/toastkit/toastkit/internal/display"
	"github.com/toastkit/toastkit/internal/model"
)

// Duration is a time.Duration unmarshaled from human-readable strings
// like "2s" or "500ms", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '2s', '500ms' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the toastd configuration. Policy caps and the spam window
// are controller contract constants and are deliberately absent here.
type Config struct {
	Display   DisplayConfig   `toml:"display"`
	Timing    TimingConfig    `toml:"timing"`
	Durations DurationsConfig `toml:"durations"`
	Audio     AudioConfig     `toml:"audio"`
	Demo      DemoConfig      `toml:"demo"`
}

// DisplayConfig contains stack geometry settings.
type DisplayConfig struct {
	Anchor     string `toml:"anchor"`      // "top-right", "bottom-left", ...
	OffsetX    int    `toml:"offset_x"`    // cells from the anchored edge
	OffsetY    int    `toml:"offset_y"`
	Width      int    `toml:"width"`       // card width
	CardHeight int    `toml:"card_height"` // height of one card
	Gap        int    `toml:"gap"`         // gap between stacked cards
	MaxVisible int    `toml:"max_visible"` // cards drawn at once
}

// TimingConfig contains animation timing. Consumed as data by render
// backends; no easing logic lives in the core.
type TimingConfig struct {
	SlideIn  Duration `toml:"slide_in"`
	SlideOut Duration `toml:"slide_out"`
	Easing   string   `toml:"easing"`
}

// DurationsConfig overrides the per-severity auto-dismiss durations
// for messages the application itself constructs. Zero keeps the
// severity default.
type DurationsConfig struct {
	Info    Duration `toml:"info"`
	Success Duration `toml:"success"`
	Warning Duration `toml:"warning"`
	Error   Duration `toml:"error"`
}

// AudioConfig contains notification sound settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-severity sound file paths.
type SoundConfig struct {
	Info    string `toml:"info"`
	Success string `toml:"success"`
	Warning string `toml:"warning"`
	Error   string `toml:"error"`
}

// DemoConfig tunes the demo sources the TUI runs.
type DemoConfig struct {
	Heartbeat         bool     `toml:"heartbeat"`
	HeartbeatInterval Duration `toml:"heartbeat_interval"`
	Connectivity      bool     `toml:"connectivity"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Anchor:     string(display.AnchorBottomRight),
			OffsetX:    2,
			OffsetY:    1,
			Width:      44,
			CardHeight: 3,
			Gap:        1,
			MaxVisible: 5,
		},
		Timing: TimingConfig{
			SlideIn:  Duration(180 * time.Millisecond),
			SlideOut: Duration(140 * time.Millisecond),
			Easing:   "ease-out",
		},
		Durations: DurationsConfig{},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		Demo: DemoConfig{
			Heartbeat:         true,
			HeartbeatInterval: Duration(15 * time.Second),
			Connectivity:      false,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastd", "config.toml")
}

// Load loads configuration from the specified path. If path is empty,
// the default config path is used. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents.
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validAnchor := false
	for _, a := range display.ValidAnchors() {
		if c.Display.Anchor == string(a) {
			validAnchor = true
			break
		}
	}
	if !validAnchor {
		return fmt.Errorf("invalid anchor %q, must be one of: %v", c.Display.Anchor, display.ValidAnchors())
	}

	if c.Display.Width < 20 || c.Display.Width > 200 {
		return fmt.Errorf("width must be between 20 and 200, got %d", c.Display.Width)
	}
	if c.Display.MaxVisible < 1 || c.Display.MaxVisible > 20 {
		return fmt.Errorf("max_visible must be between 1 and 20, got %d", c.Display.MaxVisible)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	return nil
}

// Layout derives the render-plan geometry from the config.
func (c *Config) Layout() display.Layout {
	return display.Layout{
		Anchor:     display.Anchor(c.Display.Anchor),
		OffsetX:    c.Display.OffsetX,
		OffsetY:    c.Display.OffsetY,
		Width:      c.Display.Width,
		CardHeight: c.Display.CardHeight,
		Gap:        c.Display.Gap,
		MaxVisible: c.Display.MaxVisible,
	}
}

// RenderTiming derives the animation timing from the config.
func (c *Config) RenderTiming() display.Timing {
	t := display.DefaultTiming()
	if c.Timing.SlideIn > 0 {
		t.SlideIn = c.Timing.SlideIn.Duration()
	}
	if c.Timing.SlideOut > 0 {
		t.SlideOut = c.Timing.SlideOut.Duration()
	}
	if c.Timing.Easing != "" {
		t.Easing = c.Timing.Easing
	}
	return t
}

// DurationFor returns the configured auto-dismiss override for the
// severity, or zero to keep the model default.
func (c *Config) DurationFor(severity model.Severity) time.Duration {
	switch severity {
	case model.SeverityInfo:
		return c.Durations.Info.Duration()
	case model.SeveritySuccess:
		return c.Durations.Success.Duration()
	case model.SeverityWarning:
		return c.Durations.Warning.Duration()
	case model.SeverityError:
		return c.Durations.Error.Duration()
	default:
		return 0
	}
}

// SoundFor returns the sound file path for the severity, with ~
// expanded.
func (c *Config) SoundFor(severity model.Severity) string {
	var path string
	switch severity {
	case model.SeverityInfo:
		path = c.Audio.Sounds.Info
	case model.SeveritySuccess:
		path = c.Audio.Sounds.Success
	case model.SeverityWarning:
		path = c.Audio.Sounds.Warning
	case model.SeverityError:
		path = c.Audio.Sounds.Error
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
