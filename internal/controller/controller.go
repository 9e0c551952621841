// Package controller implements the snackbar admission and eviction
// policy: which messages are live, in what order, and when they go.
package controller

import (
	"log/slog"
	"sync"
	"time"

	"github.com/toastkit/toastkit/internal/model"
	"github.com/toastkit/toastkit/internal/queue"
)

// Policy constants. These are contract values, not configuration.
const (
	// MaxTotal is the maximum number of live messages after any
	// operation completes.
	MaxTotal = 10

	// MaxPerGroup is the maximum number of live messages sharing a
	// non-empty group id.
	MaxPerGroup = 3

	// SpamWindow is the interval within which a re-shown id is
	// silently dropped. It applies to recently dismissed ids too.
	SpamWindow = 2 * time.Second
)

// Observer is a parameterless state-change callback. Observers re-read
// Messages or Count after being notified; delivery order across
// observers is unspecified.
type Observer func()

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for policy decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the time source. Tests use this to drive the
// spam window deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns the queue state. Every mutating operation runs as an
// atomic, serialized unit under one mutex, so concurrent source
// adapters cannot violate the capacity invariants or duplicate an id.
// Operations never return errors: each path either mutates state and
// notifies, or is a defined no-op.
type Controller struct {
	mu          sync.Mutex
	logger      *slog.Logger
	snap        queue.Snapshot
	lastShownAt map[string]time.Time
	seq         uint64
	now         func() time.Time

	observers map[int]Observer
	nextObsID int
}

// New creates an empty Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		logger:      slog.Default(),
		snap:        queue.Empty(),
		lastShownAt: make(map[string]time.Time),
		now:         time.Now,
		observers:   make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Show admits a message, applying the admission policy in order:
// spam check, replace-by-id, group capacity, total capacity. A call
// suppressed by the spam window is a silent no-op. Show never fails.
func (c *Controller) Show(msg model.Message) {
	c.mu.Lock()

	if msg.ID == "" {
		msg.ID = model.NewID()
	}

	now := c.now()
	if last, ok := c.lastShownAt[msg.ID]; ok && now.Sub(last) < SpamWindow {
		c.logger.Debug("message suppressed by spam window",
			"id", msg.ID,
			"since_last", now.Sub(last),
		)
		c.mu.Unlock()
		return
	}

	c.admitLocked(msg, now)
	observers := c.observerListLocked()
	c.mu.Unlock()

	notify(observers)
}

// Update replaces the live message with the given id by newMsg,
// bypassing the spam check: an explicit update is never spam. The two
// ids need not match, so rename-on-update is supported. The group and
// total capacity checks still apply to the admitted message.
func (c *Controller) Update(id string, newMsg model.Message) {
	c.mu.Lock()

	if newMsg.ID == "" {
		newMsg.ID = id
	}
	c.snap = c.snap.Without(id)
	c.admitLocked(newMsg, c.now())
	observers := c.observerListLocked()
	c.mu.Unlock()

	notify(observers)
}

// admitLocked runs the replace-by-id, group-cap and total-cap steps
// and admits the message. Caller must hold the lock.
func (c *Controller) admitLocked(msg model.Message, now time.Time) {
	snap := c.snap.Without(msg.ID)

	if msg.GroupID != "" && snap.GroupLen(msg.GroupID) >= MaxPerGroup {
		if oldest, ok := snap.OldestInGroup(msg.GroupID); ok {
			snap = snap.Without(oldest.ID)
			c.logger.Debug("evicted oldest group member",
				"group", msg.GroupID,
				"evicted", oldest.ID,
				"for", msg.ID,
			)
		}
	}

	// Growth is bounded to +1 per call, so evicting a single message
	// is enough to stay within the cap.
	if snap.Len() >= MaxTotal {
		if victim, ok := snap.EvictionCandidate(); ok {
			snap = snap.Without(victim.ID)
			c.logger.Debug("evicted message at total capacity",
				"evicted", victim.ID,
				"priority", victim.Priority.String(),
				"for", msg.ID,
			)
		}
	}

	c.seq++
	msg.Seq = c.seq
	msg.ShownAt = now
	c.snap = snap.Append(msg)
	c.lastShownAt[msg.ID] = now
	c.pruneLastShownLocked(now)
}

// pruneLastShownLocked drops suppression entries that have aged past
// the window and can never suppress again.
func (c *Controller) pruneLastShownLocked(now time.Time) {
	for id, at := range c.lastShownAt {
		if now.Sub(at) >= SpamWindow && !c.snap.Contains(id) {
			delete(c.lastShownAt, id)
		}
	}
}

// Hide removes the live message with the given id. A miss is a no-op
// and does not notify.
func (c *Controller) Hide(id string) {
	c.mu.Lock()
	before := c.snap.Len()
	c.snap = c.snap.Without(id)
	changed := c.snap.Len() != before
	observers := c.observerListLocked()
	c.mu.Unlock()

	if changed {
		notify(observers)
	}
}

// HideGroup removes every live message in the group. A miss or an
// empty group id is a no-op and does not notify.
func (c *Controller) HideGroup(groupID string) {
	if groupID == "" {
		return
	}

	c.mu.Lock()
	before := c.snap.Len()
	c.snap = c.snap.WithoutGroup(groupID)
	changed := c.snap.Len() != before
	observers := c.observerListLocked()
	c.mu.Unlock()

	if changed {
		notify(observers)
	}
}

// ClearAll resets the queue to empty, including the spam-suppression
// history.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	c.snap = queue.Empty()
	c.lastShownAt = make(map[string]time.Time)
	observers := c.observerListLocked()
	c.mu.Unlock()

	notify(observers)
}

// ClearNonPersistent removes every live message not marked persistent.
func (c *Controller) ClearNonPersistent() {
	c.mu.Lock()
	before := c.snap.Len()
	c.snap = c.snap.Filter(func(m model.Message) bool {
		return m.Persistent
	})
	changed := c.snap.Len() != before
	observers := c.observerListLocked()
	c.mu.Unlock()

	if changed {
		notify(observers)
	}
}

// Messages returns the live messages in display order.
func (c *Controller) Messages() []model.Message {
	return c.Snapshot().Sorted()
}

// Grouped returns the display-ordered messages partitioned by group.
func (c *Controller) Grouped() []queue.Group {
	return c.Snapshot().Grouped()
}

// Snapshot returns the current immutable queue snapshot.
func (c *Controller) Snapshot() queue.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Count returns the number of live messages.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Len()
}

// IsEmpty reports whether no messages are live.
func (c *Controller) IsEmpty() bool {
	return c.Count() == 0
}

// HasMessages reports whether any message is live.
func (c *Controller) HasMessages() bool {
	return !c.IsEmpty()
}

// Subscribe registers an observer and returns its cancel function.
// Notifications are synchronous with the mutating call; the observer
// runs outside the controller lock and may re-read state freely.
func (c *Controller) Subscribe(obs Observer) (cancel func()) {
	c.mu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = obs
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// observerListLocked copies the observer set so callbacks run outside
// the lock. Caller must hold the lock.
func (c *Controller) observerListLocked() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for _, obs := range c.observers {
		out = append(out, obs)
	}
	return out
}

func notify(observers []Observer) {
	for _, obs := range observers {
		obs()
	}
}
