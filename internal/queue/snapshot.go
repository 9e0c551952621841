// Package queue holds the immutable snapshot of live snackbar messages
// and derives the read views the display layer consumes.
package queue

import (
	"github.com/toastkit/toastkit/internal/model"
)

// Snapshot is an immutable set of live messages in insertion order.
// Every mutation returns a new Snapshot, so readers can hold one
// without locking and equality-based tests stay trivial.
type Snapshot struct {
	messages []model.Message
}

// Empty returns a snapshot with no messages.
func Empty() Snapshot {
	return Snapshot{}
}

// FromMessages builds a snapshot from messages in insertion order.
func FromMessages(msgs []model.Message) Snapshot {
	copied := make([]model.Message, len(msgs))
	copy(copied, msgs)
	return Snapshot{messages: copied}
}

// Len returns the number of live messages.
func (s Snapshot) Len() int {
	return len(s.messages)
}

// IsEmpty reports whether the snapshot holds no messages.
func (s Snapshot) IsEmpty() bool {
	return len(s.messages) == 0
}

// Messages returns the live messages in insertion order.
func (s Snapshot) Messages() []model.Message {
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Sorted returns the live messages in display order: priority
// descending, then admission recency descending. Recomputed on each
// call; the live count is capped, so no index is kept.
func (s Snapshot) Sorted() []model.Message {
	out := s.Messages()
	model.SortForDisplay(out)
	return out
}

// Group is one partition of the sorted view. ID is empty for
// ungrouped messages.
type Group struct {
	ID       string
	Messages []model.Message
}

// Grouped partitions Sorted() by group id, preserving the relative
// order Sorted produces. Groups appear in order of their first
// sorted member; the ungrouped partition uses the empty id.
func (s Snapshot) Grouped() []Group {
	sorted := s.Sorted()

	index := make(map[string]int)
	groups := make([]Group, 0, len(sorted))
	for _, m := range sorted {
		i, ok := index[m.GroupID]
		if !ok {
			i = len(groups)
			index[m.GroupID] = i
			groups = append(groups, Group{ID: m.GroupID})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}

// Get returns the live message with the given id.
func (s Snapshot) Get(id string) (model.Message, bool) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, true
		}
	}
	return model.Message{}, false
}

// Contains reports whether a live message with the given id exists.
func (s Snapshot) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// GroupLen returns the number of live messages in the given group.
func (s Snapshot) GroupLen(groupID string) int {
	n := 0
	for _, m := range s.messages {
		if m.GroupID == groupID {
			n++
		}
	}
	return n
}

// Append returns a snapshot with the message added at the end of the
// insertion order.
func (s Snapshot) Append(m model.Message) Snapshot {
	out := make([]model.Message, 0, len(s.messages)+1)
	out = append(out, s.messages...)
	out = append(out, m)
	return Snapshot{messages: out}
}

// Without returns a snapshot with the message of the given id removed.
// Returns the receiver unchanged when the id is not live.
func (s Snapshot) Without(id string) Snapshot {
	return s.Filter(func(m model.Message) bool {
		return m.ID != id
	})
}

// WithoutGroup returns a snapshot with every member of the group
// removed.
func (s Snapshot) WithoutGroup(groupID string) Snapshot {
	return s.Filter(func(m model.Message) bool {
		return m.GroupID != groupID
	})
}

// Filter returns a snapshot with only the messages keep reports true
// for, preserving insertion order. Returns the receiver unchanged
// when nothing is dropped.
func (s Snapshot) Filter(keep func(model.Message) bool) Snapshot {
	kept := make([]model.Message, 0, len(s.messages))
	for _, m := range s.messages {
		if keep(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(s.messages) {
		return s
	}
	return Snapshot{messages: kept}
}

// OldestInGroup returns the earliest-inserted live member of the
// group. Used by the per-group capacity eviction, which ignores
// priority.
func (s Snapshot) OldestInGroup(groupID string) (model.Message, bool) {
	for _, m := range s.messages {
		if m.GroupID == groupID {
			return m, true
		}
	}
	return model.Message{}, false
}

// EvictionCandidate returns the message the total-capacity policy
// removes: lowest priority first, insertion order breaking ties.
func (s Snapshot) EvictionCandidate() (model.Message, bool) {
	if len(s.messages) == 0 {
		return model.Message{}, false
	}
	victim := s.messages[0]
	for _, m := range s.messages[1:] {
		if m.Priority < victim.Priority {
			victim = m
		}
	}
	return victim, true
}
