// Package model defines the snackbar message types and their display ordering.
package model

import (
	"crypto/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// Severity classifies a message and selects its default lifetime.
// Iconography and colors derived from severity belong to the display
// layer, not to this package.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
	SeverityLoading
)

// String returns the string representation of a Severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeveritySuccess:
		return "success"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// DefaultDuration returns the auto-dismiss duration for the severity.
// Zero means no automatic dismissal.
func (s Severity) DefaultDuration() time.Duration {
	switch s {
	case SeverityInfo, SeveritySuccess:
		return 2 * time.Second
	case SeverityWarning:
		return 3 * time.Second
	case SeverityError:
		return 4 * time.Second
	default: // loading never expires on its own
		return 0
	}
}

// Priority is the ordinal importance of a message. Higher values sort
// first in the display order and are evicted last under capacity
// pressure.
type Priority int

const (
	PriorityLow      Priority = 0
	PriorityNormal   Priority = 1
	PriorityHigh     Priority = 2
	PriorityCritical Priority = 3
)

// String returns the string representation of a Priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Action is one interactive button on a message. The handler runs
// side effects owned by the caller; the queue never invokes it.
type Action struct {
	Label   string `json:"label" yaml:"label"`
	Handler func() `json:"-" yaml:"-"`
}

// Message is one snackbar notification. Messages are treated as
// immutable once handed to the controller; the controller stamps
// ShownAt and Seq on admission.
type Message struct {
	// ID is unique among live messages. Showing a message with an
	// existing ID replaces the live one. Empty IDs are filled with a
	// generated ULID on admission.
	ID   string `json:"id"`
	Text string `json:"text"`

	Severity Severity `json:"severity"`
	Priority Priority `json:"priority"`

	// Duration overrides the severity default when positive.
	// Ignored for persistent messages.
	Duration time.Duration `json:"duration,omitempty"`

	// Persistent messages are exempt from timer-based dismissal and
	// survive ClearNonPersistent.
	Persistent bool `json:"persistent,omitempty"`

	// GroupID clusters related messages for bulk-hide and the
	// per-group capacity limit. Empty means ungrouped.
	GroupID string `json:"group_id,omitempty"`

	Actions []Action `json:"actions,omitempty"`

	// ShownAt is the admission timestamp, set by the controller.
	ShownAt time.Time `json:"shown_at,omitempty"`

	// Seq is the admission sequence number, set by the controller.
	// It totally orders admissions and breaks recency ties.
	Seq uint64 `json:"seq,omitempty"`
}

// New creates a Message with a generated ULID, normal priority and the
// given severity.
func New(text string, severity Severity) Message {
	return Message{
		ID:       NewID(),
		Text:     text,
		Severity: severity,
		Priority: PriorityNormal,
	}
}

// NewID generates a fresh ULID message id.
func NewID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// AutoDismissAfter returns the effective auto-dismiss duration and
// whether the message auto-dismisses at all. Persistent messages and
// severities without a default duration never auto-dismiss.
func (m Message) AutoDismissAfter() (time.Duration, bool) {
	if m.Persistent {
		return 0, false
	}
	d := m.Duration
	if d <= 0 {
		d = m.Severity.DefaultDuration()
	}
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// DismissOnTap reports whether tapping the message body dismisses it.
// Messages carrying actions keep the tap for the action buttons.
func (m Message) DismissOnTap() bool {
	return len(m.Actions) == 0
}

// Clone returns a copy with its own actions slice.
func (m Message) Clone() Message {
	clone := m
	if m.Actions != nil {
		clone.Actions = make([]Action, len(m.Actions))
		copy(clone.Actions, m.Actions)
	}
	return clone
}

// Compare orders two messages for display: higher priority first, then
// more recently admitted first. Returns a negative value when a sorts
// before b, positive when b sorts before a, zero when equal.
func Compare(a, b Message) int {
	if a.Priority != b.Priority {
		return int(b.Priority) - int(a.Priority)
	}
	switch {
	case a.Seq > b.Seq:
		return -1
	case a.Seq < b.Seq:
		return 1
	default:
		return 0
	}
}

// SortForDisplay sorts messages in place into display order.
func SortForDisplay(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return Compare(msgs[i], msgs[j]) < 0
	})
}
