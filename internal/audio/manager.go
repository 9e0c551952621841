package audio

import (
	"log/slog"
	"os"
	"sync"

	"github.com/toastkit/toastkit/internal/config"
	"github.com/toastkit/toastkit/internal/model"
)

// Manager plays per-severity sounds for admitted messages. It plugs
// into the display scheduler's OnAdmit hook; playback failures log
// and never propagate.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	player *Player

	enabled bool
	sounds  map[model.Severity]string
}

// NewManager creates an audio manager from the config.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger: logger,
		player: NewPlayer(logger),
		sounds: make(map[model.Severity]string),
	}
	m.Reconfigure(cfg)
	return m
}

// Reconfigure applies a new config, e.g. after a hot reload.
func (m *Manager) Reconfigure(cfg *config.Config) {
	if cfg == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled = cfg.Audio.Enabled
	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	m.sounds = make(map[model.Severity]string)
	for _, sev := range []model.Severity{
		model.SeverityInfo,
		model.SeveritySuccess,
		model.SeverityWarning,
		model.SeverityError,
	} {
		path := cfg.SoundFor(sev)
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "severity", sev.String(), "path", path)
			continue
		}
		m.sounds[sev] = path
	}
}

// OnAdmit plays the configured sound for the message's severity.
// Suitable as a display.WithOnAdmit hook.
func (m *Manager) OnAdmit(msg model.Message) {
	m.mu.RLock()
	enabled := m.enabled
	path := m.sounds[msg.Severity]
	m.mu.RUnlock()

	if !enabled || path == "" {
		return
	}

	if err := m.player.Play(path); err != nil {
		m.logger.Warn("sound playback failed",
			"severity", msg.Severity.String(),
			"path", path,
			"error", err,
		)
	}
}

// Close releases the player.
func (m *Manager) Close() {
	m.player.Close()
}
