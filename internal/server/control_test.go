package server

import (
	"testing"
	"time"
)

func TestControlTrackerTimeout(t *testing.T) {
	now := time.Now()
	notifier := &recordingNotifier{}
	tracker := NewControlTracker(notifier)
	tracker.now = func() time.Time { return now }

	tracker.Touch()
	if !tracker.Active() {
		t.Fatal("inactive right after Touch")
	}
	if notifier.started != 1 {
		t.Errorf("started notifications = %d, want 1", notifier.started)
	}

	// Repeated touches do not re-announce.
	tracker.Touch()
	if notifier.started != 1 {
		t.Errorf("started notifications after second Touch = %d", notifier.started)
	}

	// Just inside the window the session stays active.
	now = now.Add(controlTimeout - time.Second)
	if !tracker.Active() {
		t.Error("session expired too early")
	}

	// Past the window it decays on observation.
	now = now.Add(2 * time.Second)
	if tracker.Active() {
		t.Error("session still active past timeout")
	}
	if notifier.ended != 1 {
		t.Errorf("ended notifications = %d, want 1", notifier.ended)
	}
}

func TestControlTrackerStopIdempotent(t *testing.T) {
	notifier := &recordingNotifier{}
	tracker := NewControlTracker(notifier)

	tracker.Stop()
	if notifier.ended != 0 {
		t.Error("Stop on inactive session announced an end")
	}

	tracker.Touch()
	tracker.Stop()
	tracker.Stop()
	if notifier.ended != 1 {
		t.Errorf("ended notifications = %d, want 1", notifier.ended)
	}
}
