// Package adapter defines the source-adapter contract: pluggable
// producers that push and withdraw messages in reaction to external
// events.
package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/toastkit/toastkit/internal/controller"
)

// Source is a pluggable message producer. Initialize hands it the
// controller; from then on it calls Show/Hide/Update on its own
// schedule until Dispose. Initialize is meaningful at most once per
// active session; Dispose must be safe even after a partial or failed
// Initialize and must release every timer and subscription the source
// created.
type Source interface {
	// Name returns the adapter identifier (e.g., "connectivity").
	Name() string

	// Initialize wires the source to the controller and starts it.
	Initialize(ctx context.Context, ctrl *controller.Controller) error

	// Dispose stops the source and releases its resources.
	Dispose() error
}

// Set is a composed collection of sources with contained lifecycles:
// a fault in one source is logged and never reaches the host
// application or the other sources. Build sets with NewSet in
// application wiring code; there is no shared global set.
type Set struct {
	mu      sync.Mutex
	logger  *slog.Logger
	sources []Source

	// attempted marks sources whose Initialize ran, successfully or
	// not. A source is initialized once per session regardless of
	// outcome; there is no automatic retry.
	attempted map[string]bool
}

// NewSet composes sources into a Set.
func NewSet(logger *slog.Logger, sources ...Source) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	return &Set{
		logger:    logger,
		sources:   sources,
		attempted: make(map[string]bool),
	}
}

// Sources returns the composed sources.
func (s *Set) Sources() []Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Source, len(s.sources))
	copy(out, s.sources)
	return out
}

// InitializeAll initializes every source not yet attempted.
// Errors and panics are logged and swallowed.
func (s *Set) InitializeAll(ctx context.Context, ctrl *controller.Controller) {
	for _, src := range s.Sources() {
		s.mu.Lock()
		if s.attempted[src.Name()] {
			s.mu.Unlock()
			continue
		}
		s.attempted[src.Name()] = true
		s.mu.Unlock()

		if err := initializeContained(ctx, src, ctrl); err != nil {
			s.logger.Warn("source adapter failed to initialize",
				"adapter", src.Name(),
				"error", err,
			)
			continue
		}
		s.logger.Debug("source adapter initialized", "adapter", src.Name())
	}
}

// DisposeAll disposes every source in reverse composition order.
// Errors and panics are logged and swallowed. The set can be
// initialized again afterwards.
func (s *Set) DisposeAll() {
	sources := s.Sources()
	for i := len(sources) - 1; i >= 0; i-- {
		src := sources[i]
		if err := disposeContained(src); err != nil {
			s.logger.Warn("source adapter failed to dispose",
				"adapter", src.Name(),
				"error", err,
			)
		}
	}

	s.mu.Lock()
	s.attempted = make(map[string]bool)
	s.mu.Unlock()
}

// initializeContained calls Initialize with panic recovery.
func initializeContained(ctx context.Context, src Source, ctrl *controller.Controller) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s.Initialize: %v", src.Name(), r)
		}
	}()
	return src.Initialize(ctx, ctrl)
}

// disposeContained calls Dispose with panic recovery.
func disposeContained(src Source) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s.Dispose: %v", src.Name(), r)
		}
	}()
	return src.Dispose()
}
