// Package connectivity pushes snackbar messages in reaction to
// NetworkManager connectivity changes on the D-Bus system bus.
package connectivity

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/model"
)

// NetworkManager NMState values (subset).
const (
	nmStateDisconnected    = 20
	nmStateConnectedGlobal = 70
)

const (
	nmService   = "org.freedesktop.NetworkManager"
	nmPath      = "/org/freedesktop/NetworkManager"
	nmInterface = "org.freedesktop.NetworkManager"
	nmSignal    = "StateChanged"
)

// Fixed identities so re-connects replace rather than pile up.
const (
	offlineID = "connectivity-offline"
	onlineID  = "connectivity-online"

	// GroupID clusters all connectivity messages for bulk-hide.
	GroupID = "connectivity"
)

// Source watches NetworkManager state and keeps one persistent
// "offline" message live while the machine has no connectivity.
// Restoring connectivity withdraws it and shows a transient note.
type Source struct {
	mu     sync.Mutex
	logger *slog.Logger

	conn    *dbus.Conn
	ctrl    *controller.Controller
	signals chan *dbus.Signal
	done    chan struct{}

	started bool
}

// New creates a connectivity source.
func New(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{logger: logger}
}

// Name implements adapter.Source.
func (s *Source) Name() string { return "connectivity" }

// Initialize connects to the system bus and subscribes to
// NetworkManager StateChanged signals.
func (s *Source) Initialize(ctx context.Context, ctrl *controller.Controller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return fmt.Errorf("failed to connect to system bus: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(nmInterface),
		dbus.WithMatchMember(nmSignal),
	); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	s.conn = conn
	s.ctrl = ctrl
	s.signals = make(chan *dbus.Signal, 16)
	s.done = make(chan struct{})
	s.started = true
	conn.Signal(s.signals)

	// Seed from the current state so a machine that starts offline
	// shows the message immediately.
	if state, err := s.currentState(); err == nil {
		s.apply(ctrl, state)
	} else {
		s.logger.Debug("could not read NetworkManager state", "error", err)
	}

	go s.watch(ctx)

	s.logger.Info("connectivity adapter started")
	return nil
}

// Dispose stops watching and withdraws any live connectivity
// messages. Safe to call after a partial Initialize.
func (s *Source) Dispose() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	close(s.done)
	conn := s.conn
	signals := s.signals
	ctrl := s.ctrl
	s.conn = nil
	s.ctrl = nil
	s.mu.Unlock()

	if conn != nil {
		conn.RemoveSignal(signals)
		if err := conn.Close(); err != nil {
			return fmt.Errorf("failed to close bus connection: %w", err)
		}
	}
	if ctrl != nil {
		ctrl.HideGroup(GroupID)
	}

	s.logger.Info("connectivity adapter stopped")
	return nil
}

// currentState reads the NetworkManager State property.
func (s *Source) currentState() (uint32, error) {
	obj := s.conn.Object(nmService, nmPath)
	variant, err := obj.GetProperty(nmInterface + ".State")
	if err != nil {
		return 0, err
	}
	state, ok := variant.Value().(uint32)
	if !ok {
		return 0, fmt.Errorf("unexpected State type %T", variant.Value())
	}
	return state, nil
}

// watch processes StateChanged signals until disposal.
func (s *Source) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case sig, ok := <-s.signals:
			if !ok {
				return
			}
			if sig == nil || sig.Name != nmInterface+"."+nmSignal || len(sig.Body) == 0 {
				continue
			}
			state, ok := sig.Body[0].(uint32)
			if !ok {
				continue
			}
			s.handleStateChange(state)
		}
	}
}

func (s *Source) handleStateChange(state uint32) {
	s.mu.Lock()
	ctrl := s.ctrl
	s.mu.Unlock()
	if ctrl == nil {
		return
	}

	s.logger.Debug("network state changed", "state", state)
	s.apply(ctrl, state)
}

// apply translates an NM state into queue operations.
func (s *Source) apply(ctrl *controller.Controller, state uint32) {
	switch {
	case state <= nmStateDisconnected:
		ctrl.Hide(onlineID)
		ctrl.Show(model.Message{
			ID:         offlineID,
			Text:       "No network connection",
			Severity:   model.SeverityWarning,
			Priority:   model.PriorityHigh,
			Persistent: true,
			GroupID:    GroupID,
		})
	case state >= nmStateConnectedGlobal:
		wasOffline := ctrl.Snapshot().Contains(offlineID)
		ctrl.Hide(offlineID)
		if wasOffline {
			ctrl.Show(model.Message{
				ID:       onlineID,
				Text:     "Back online",
				Severity: model.SeveritySuccess,
				GroupID:  GroupID,
			})
		}
	}
}
