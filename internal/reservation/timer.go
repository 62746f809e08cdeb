// Package reservation implements the timed confirmation flow for spot
// holds: a countdown the user must beat by dragging a confirmation control
// past a threshold, else the hold is released.
package reservation

import "sync"

// State of a confirmation timer. Confirmed, TimedOut and Cancelled are
// terminal: once reached, further ticks and interactions are ignored.
type State string

const (
	StateRunning   State = "Running"
	StateSliding   State = "Sliding"
	StateConfirmed State = "Confirmed"
	StateTimedOut  State = "TimedOut"
	StateCancelled State = "Cancelled"
)

const (
	// DefaultTimeoutSeconds is the product default confirmation window.
	DefaultTimeoutSeconds = 15
	// SpotTimeoutSeconds is the window used for spot reservations.
	SpotTimeoutSeconds = 60
	// ConfirmThreshold is the progress value (on a 0-100+ scale) the user
	// must reach to confirm.
	ConfirmThreshold = 95.0
)

// ConfirmationTimer is an explicit state machine driven by an external
// 1-second ticker. While Running, the confirmation progress decays linearly
// from the threshold toward zero in lockstep with the remaining time.
// Dragging (PointerDown) pauses the decay and hands the user direct control
// of the value; releasing below the threshold resumes the decay from
// however much time is left. The confirm and timeout callbacks each fire at
// most once, and never both.
type ConfirmationTimer struct {
	mu             sync.Mutex
	state          State
	timeoutSeconds int
	timeLeft       int
	value          float64
	disabled       bool
	fired          bool
	onConfirm      func()
	onTimeout      func()
}

func NewConfirmationTimer(timeoutSeconds int, onConfirm, onTimeout func()) *ConfirmationTimer {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultTimeoutSeconds
	}
	return &ConfirmationTimer{
		state:          StateRunning,
		timeoutSeconds: timeoutSeconds,
		timeLeft:       timeoutSeconds,
		value:          ConfirmThreshold,
		onConfirm:      onConfirm,
		onTimeout:      onTimeout,
	}
}

// Tick advances the countdown by one second. Ignored while the user is
// dragging, while disabled, and in any terminal state. The timeout
// callback fires exactly once, on the tick that exhausts the window.
func (t *ConfirmationTimer) Tick() {
	t.mu.Lock()
	if t.state != StateRunning || t.disabled {
		t.mu.Unlock()
		return
	}
	t.timeLeft--
	if t.timeLeft > 0 {
		t.value = t.decayedValue()
		t.mu.Unlock()
		return
	}
	t.timeLeft = 0
	t.value = 0
	t.state = StateTimedOut
	cb := t.takeCallback(t.onTimeout)
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// PointerDown enters the Sliding sub-state, pausing the automatic decay.
func (t *ConfirmationTimer) PointerDown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning || t.disabled {
		return
	}
	t.state = StateSliding
}

// SetValue is the value-change handler while dragging. Reaching the
// threshold confirms immediately, without waiting for release.
func (t *ConfirmationTimer) SetValue(v float64) {
	t.mu.Lock()
	if t.state != StateSliding || t.disabled {
		t.mu.Unlock()
		return
	}
	t.value = v
	if v < ConfirmThreshold {
		t.mu.Unlock()
		return
	}
	t.state = StateConfirmed
	cb := t.takeCallback(t.onConfirm)
	t.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// PointerUp ends the drag with the released value. At or above the
// threshold it confirms; below, the countdown resumes from the remaining
// time and the progress snaps back onto the decay curve.
func (t *ConfirmationTimer) PointerUp(v float64) {
	t.mu.Lock()
	if t.state != StateSliding || t.disabled {
		t.mu.Unlock()
		return
	}
	if v >= ConfirmThreshold {
		t.state = StateConfirmed
		cb := t.takeCallback(t.onConfirm)
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
		return
	}
	t.state = StateRunning
	t.value = t.decayedValue()
	t.mu.Unlock()
}

// Cancel tears the timer down without side effects: no callback fires,
// and every later event is ignored.
func (t *ConfirmationTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminal() {
		return
	}
	t.state = StateCancelled
	t.fired = true
}

// SetDisabled suppresses the countdown and all interaction while true,
// e.g. while an async confirm is in flight.
func (t *ConfirmationTimer) SetDisabled(disabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disabled = disabled
}

func (t *ConfirmationTimer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Progress returns the current confirmation progress value.
func (t *ConfirmationTimer) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// TimeLeft returns the remaining whole seconds.
func (t *ConfirmationTimer) TimeLeft() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timeLeft
}

// decayedValue maps the remaining time onto the progress scale:
// max(0, timeLeft/timeoutSeconds * threshold). Callers hold the lock.
func (t *ConfirmationTimer) decayedValue() float64 {
	v := float64(t.timeLeft) / float64(t.timeoutSeconds) * ConfirmThreshold
	if v < 0 {
		return 0
	}
	return v
}

func (t *ConfirmationTimer) terminal() bool {
	return t.state == StateConfirmed || t.state == StateTimedOut || t.state == StateCancelled
}

// takeCallback hands out the terminal callback at most once, guarding
// against double fire under racing ticks and interactions. Callers hold
// the lock.
func (t *ConfirmationTimer) takeCallback(cb func()) func() {
	if t.fired {
		return nil
	}
	t.fired = true
	return cb
}
