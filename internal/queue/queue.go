// Package queue holds the per-spot FIFO wait-lists. The manager is the
// single authoritative store for queue state in the process: positions are
// derived from list order under one lock, so a join, leave or pop and the
// re-numbering it implies are a single atomic step.
package queue

import (
	"sync"
	"time"

	"carpso-backend/internal/domain"
)

// Manager tracks who is waiting for which spot. Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	queues map[string][]*domain.QueueEntry // spotID -> ordered entries
	clock  func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		queues: make(map[string][]*domain.QueueEntry),
		clock:  time.Now,
	}
}

// WithClock replaces the manager's time source. Tests use this to control
// queue timestamps.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.clock = clock
	return m
}

// Join appends the user to the spot's queue and returns their 1-based
// position. A user already queued for the spot is not added again: Join
// then returns (0, false), which callers must treat as "already queued",
// not as an error.
func (m *Manager) Join(userID, spotID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.queues[spotID] {
		if e.UserID == userID {
			return 0, false
		}
	}

	m.queues[spotID] = append(m.queues[spotID], &domain.QueueEntry{
		UserID:         userID,
		SpotID:         spotID,
		QueueTimestamp: m.clock(),
	})
	return len(m.queues[spotID]), true
}

// Leave removes the user's entry from the spot's queue. Everyone behind
// the removed user moves up one place, which falls out of list order.
// Returns whether an entry was removed.
func (m *Manager) Leave(userID, spotID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.queues[spotID]
	for i, e := range entries {
		if e.UserID == userID {
			m.queues[spotID] = append(entries[:i], entries[i+1:]...)
			if len(m.queues[spotID]) == 0 {
				delete(m.queues, spotID)
			}
			return true
		}
	}
	return false
}

// NotifyNext peeks at the head of the spot's queue without removing it.
// On the first call for a given head entry it marks the entry notified and
// reports firstNotify=true; the caller triggers the out-of-band
// notification only on that transition. Repeat calls return the same entry
// with firstNotify=false, so re-notification is idempotent. Returns nil
// when the queue is empty.
func (m *Manager) NotifyNext(spotID string) (entry *domain.QueueEntry, firstNotify bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.queues[spotID]
	if len(entries) == 0 {
		return nil, false
	}

	head := entries[0]
	if head.Notified {
		copied := *head
		return &copied, false
	}
	head.Notified = true
	now := m.clock()
	head.NotifiedAt = &now
	copied := *head
	return &copied, true
}

// PopFront removes and returns the head entry, or nil when the queue is
// empty. Used once the notified user reserves the spot or their hold
// expires.
func (m *Manager) PopFront(spotID string) *domain.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.queues[spotID]
	if len(entries) == 0 {
		return nil
	}
	head := entries[0]
	m.queues[spotID] = entries[1:]
	if len(m.queues[spotID]) == 0 {
		delete(m.queues, spotID)
	}
	copied := *head
	return &copied
}

// Length returns the number of users waiting for the spot.
func (m *Manager) Length(spotID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[spotID])
}

// UserStatus derives the user's position in every queue they are part of
// by scanning the authoritative lists. Positions are 1-based.
func (m *Manager) UserStatus(userID string) []domain.QueuePosition {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.QueuePosition
	for spotID, entries := range m.queues {
		for i, e := range entries {
			if e.UserID == userID {
				out = append(out, domain.QueuePosition{SpotID: spotID, Position: i + 1})
				break
			}
		}
	}
	return out
}

// Position returns the user's 1-based position in one spot's queue, or 0
// when they are not queued for it.
func (m *Manager) Position(userID, spotID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.queues[spotID] {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}

// StaleHeads returns a copy of every head entry that was notified before
// the cutoff and still has not claimed its spot. The hold-expiry job pops
// these and notifies the next waiter.
func (m *Manager) StaleHeads(cutoff time.Time) []domain.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.QueueEntry
	for _, entries := range m.queues {
		head := entries[0]
		if head.Notified && head.NotifiedAt != nil && head.NotifiedAt.Before(cutoff) {
			out = append(out, *head)
		}
	}
	return out
}
