package display

import (
	"log/slog"
	"sync"
	"time"

	"github.com/toastkit/toastkit/internal/controller"
	"github.com/toastkit/toastkit/internal/model"
)

// Scheduler owns the auto-dismiss timers the controller deliberately
// does not. It observes the controller, keeps exactly one timer per
// live non-persistent message, and calls Hide when a timer fires. A
// fire that races a removal is a harmless no-op on the controller
// side.
type Scheduler struct {
	mu     sync.Mutex
	ctrl   *controller.Controller
	logger *slog.Logger

	// seen maps live id -> admission seq already processed, so a
	// re-show (new seq) replaces the timer and re-fires onAdmit.
	seen   map[string]uint64
	timers map[string]*scheduledTimer
	paused bool

	// onAdmit fires once per admission (id+seq), including updates.
	onAdmit func(model.Message)

	unsubscribe func()
	started     bool
}

type scheduledTimer struct {
	seq   uint64
	timer *time.Timer
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the logger.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnAdmit registers a hook invoked once for each admission.
// Used for sounds and animation triggers.
func WithOnAdmit(hook func(model.Message)) SchedulerOption {
	return func(s *Scheduler) {
		s.onAdmit = hook
	}
}

// NewScheduler creates a Scheduler bound to the controller.
func NewScheduler(ctrl *controller.Controller, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		ctrl:   ctrl,
		logger: slog.Default(),
		seen:   make(map[string]uint64),
		timers: make(map[string]*scheduledTimer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to the controller and schedules timers for the
// current state. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	s.unsubscribe = s.ctrl.Subscribe(s.sync)
	s.sync()
}

// Stop unsubscribes and cancels all outstanding timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	unsub := s.unsubscribe
	s.unsubscribe = nil
	for id, st := range s.timers {
		st.timer.Stop()
		delete(s.timers, id)
	}
	s.seen = make(map[string]uint64)
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	s.logger.Debug("scheduler stopped")
}

// Pause stops all running timers without forgetting the messages.
// Resume reschedules with the full duration, matching a popup whose
// timeout restarts after hover ends.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paused {
		return
	}
	s.paused = true
	for id, st := range s.timers {
		st.timer.Stop()
		delete(s.timers, id)
	}
	s.logger.Debug("auto-dismiss paused")
}

// Resume restarts auto-dismiss scheduling.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	s.mu.Unlock()

	s.logger.Debug("auto-dismiss resumed")
	s.sync()
}

// sync reconciles admissions and timers with the controller state.
// It runs on every state-change notification.
func (s *Scheduler) sync() {
	live := s.ctrl.Messages()

	s.mu.Lock()

	if !s.started {
		s.mu.Unlock()
		return
	}

	liveByID := make(map[string]model.Message, len(live))
	for _, m := range live {
		liveByID[m.ID] = m
	}

	// Forget removed ids; cancel timers for removed or superseded
	// messages so a stale fire cannot double-remove a successor.
	for id := range s.seen {
		if _, ok := liveByID[id]; !ok {
			delete(s.seen, id)
		}
	}
	for id, st := range s.timers {
		if m, ok := liveByID[id]; !ok || m.Seq != st.seq {
			st.timer.Stop()
			delete(s.timers, id)
		}
	}

	var admitted []model.Message
	for _, m := range live {
		if s.seen[m.ID] != m.Seq {
			s.seen[m.ID] = m.Seq
			admitted = append(admitted, m)
		}
		if s.paused {
			continue
		}
		if st, ok := s.timers[m.ID]; ok && st.seq == m.Seq {
			continue
		}
		d, ok := m.AutoDismissAfter()
		if !ok {
			continue
		}
		id, seq := m.ID, m.Seq
		s.timers[id] = &scheduledTimer{
			seq:   seq,
			timer: time.AfterFunc(d, func() { s.expire(id, seq) }),
		}
	}
	hook := s.onAdmit
	s.mu.Unlock()

	if hook != nil {
		for _, m := range admitted {
			hook(m)
		}
	}
}

// expire fires when a timer elapses. The seq guard drops stale fires
// for ids that were re-admitted after this timer was armed.
func (s *Scheduler) expire(id string, seq uint64) {
	s.mu.Lock()
	st, ok := s.timers[id]
	if !ok || st.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	s.logger.Debug("message expired", "id", id)
	s.ctrl.Hide(id)
}

// PendingTimers returns the number of armed timers.
func (s *Scheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
