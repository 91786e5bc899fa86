package server

import (
	"sync"
	"time"
)

// controlTimeout is how long after the last command the remote
// control session is still considered active.
const controlTimeout = 15 * time.Second

// Notifier receives control session transitions. The Windows build
// wires toast notifications; tests use a recorder.
type Notifier interface {
	NotifyControlStarted()
	NotifyControlEnded()
}

// ControlTracker tracks whether the hosted agent is actively driving
// the machine. Activity decays: with no command for controlTimeout the
// session flips back to inactive on the next observation.
type ControlTracker struct {
	mu           sync.Mutex
	active       bool
	lastActivity time.Time
	timeout      time.Duration
	notifier     Notifier
	now          func() time.Time
}

// NewControlTracker returns a tracker. notifier may be nil.
func NewControlTracker(notifier Notifier) *ControlTracker {
	return &ControlTracker{
		timeout:  controlTimeout,
		notifier: notifier,
		now:      time.Now,
	}
}

// Touch marks the session active and refreshes the activity clock.
func (t *ControlTracker) Touch() {
	t.mu.Lock()
	wasActive := t.active
	t.active = true
	t.lastActivity = t.now()
	t.mu.Unlock()

	if !wasActive && t.notifier != nil {
		t.notifier.NotifyControlStarted()
	}
}

// Stop deactivates the session immediately.
func (t *ControlTracker) Stop() {
	t.mu.Lock()
	wasActive := t.active
	t.active = false
	t.mu.Unlock()

	if wasActive && t.notifier != nil {
		t.notifier.NotifyControlEnded()
	}
}

// Status returns the current activity state and the last activity
// time. An expired session is deactivated here, lazily.
func (t *ControlTracker) Status() (active bool, lastActivity time.Time) {
	t.mu.Lock()
	if t.active && t.now().Sub(t.lastActivity) > t.timeout {
		t.active = false
		t.mu.Unlock()
		if t.notifier != nil {
			t.notifier.NotifyControlEnded()
		}
		t.mu.Lock()
	}
	active, lastActivity = t.active, t.lastActivity
	t.mu.Unlock()
	return active, lastActivity
}

// Active is Status without the timestamp.
func (t *ControlTracker) Active() bool {
	active, _ := t.Status()
	return active
}
