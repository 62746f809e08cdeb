package reservation

import (
	"sync"
	"time"
)

// Session is one in-flight reservation confirmation: a user, the spot they
// are holding, and the countdown they must beat. Sessions are ephemeral;
// they are removed as soon as the timer reaches a terminal state.
type Session struct {
	ID        string
	UserID    string
	LotID     string
	SpotID    string
	Timer     *ConfirmationTimer
	CreatedAt time.Time
}

// SessionManager owns all live sessions and drives their timers off a
// single shared ticker. Looking a session up after it has been removed
// fails, which is what makes late ticks and stale fetches harmless: a
// timer that no longer has a session behind it fires into nothing.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
}

// Run drives every live timer with one tick per interval until Stop is
// called. Meant to be started once, as a goroutine, with a 1s interval.
func (m *SessionManager) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.TickAll()
		case <-m.stop:
			return
		}
	}
}

// Stop halts the ticker loop. Live timers stop advancing; the stale-session
// sweep cleans up whatever is left.
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// TickAll advances every live session's timer by one second. Terminal
// timers ignore the tick.
func (m *SessionManager) TickAll() {
	m.mu.Lock()
	timers := make([]*ConfirmationTimer, 0, len(m.sessions))
	for _, s := range m.sessions {
		timers = append(timers, s.Timer)
	}
	m.mu.Unlock()

	// Callbacks run outside the manager lock so they may Remove sessions.
	for _, t := range timers {
		t.Tick()
	}
}

func (m *SessionManager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Stale returns sessions created before the cutoff, whatever state their
// timer is in. Any session that old is stuck (the countdown would have
// resolved it long before); the sweep job cancels and clears them.
func (m *SessionManager) Stale(cutoff time.Time) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.CreatedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}
