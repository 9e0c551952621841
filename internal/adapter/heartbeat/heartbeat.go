// Package heartbeat is a demo source that exercises the queue with a
// periodic show-then-update cycle. It exists for the demo TUI and for
// manual testing of display backends.
package heartbeat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/model"
)

// Source periodically shows a loading message and updates it to a
// success once the simulated work finishes.
type Source struct {
	mu     sync.Mutex
	logger *slog.Logger

	interval time.Duration
	work     time.Duration

	done    chan struct{}
	started bool
	cycle   int
}

// New creates a heartbeat source. interval is the time between
// cycles, work the simulated task duration.
func New(logger *slog.Logger, interval, work time.Duration) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if work <= 0 {
		work = 2 * time.Second
	}
	return &Source{logger: logger, interval: interval, work: work}
}

// Name implements adapter.Source.
func (s *Source) Name() string { return "heartbeat" }

// Initialize starts the cycle goroutine.
func (s *Source) Initialize(ctx context.Context, ctrl *controller.Controller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.done = make(chan struct{})

	go s.run(ctx, ctrl)
	return nil
}

// Dispose stops the cycle.
func (s *Source) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false
	close(s.done)
	return nil
}

func (s *Source) run(ctx context.Context, ctrl *controller.Controller) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.cycle++
			id := fmt.Sprintf("heartbeat-%d", s.cycle)

			ctrl.Show(model.Message{
				ID:       id,
				Text:     "Syncing…",
				Severity: model.SeverityLoading,
				GroupID:  "heartbeat",
			})

			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-time.After(s.work):
			}

			ctrl.Update(id, model.Message{
				ID:       id,
				Text:     "Sync complete",
				Severity: model.SeveritySuccess,
				GroupID:  "heartbeat",
			})
		}
	}
}
