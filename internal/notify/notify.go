//go:build windows

// Package notify sends Windows toast notifications for remote control
// session state. The toasts replace an always-on-top indicator window:
// they tell the user when the hosted agent takes and releases control
// without stealing focus.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-toast/toast"

	"github.com/hevolve/companion/internal/appinfo"
	"github.com/hevolve/companion/internal/logging"
)

// Manager sends toasts with per-event throttling so a flapping
// session cannot flood the action center.
type Manager struct {
	mu       sync.Mutex
	enabled  bool
	lastSent map[string]time.Time
	throttle time.Duration
	log      *logging.Logger
}

// NewManager returns an enabled Manager. log may be nil.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		enabled:  true,
		lastSent: make(map[string]time.Time),
		throttle: 30 * time.Second,
		log:      log,
	}
}

// SetEnabled turns all toasts on or off.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// NotifyControlStarted announces that the agent has taken control of
// the machine.
func (m *Manager) NotifyControlStarted() {
	if !m.shouldSend("control_started") {
		return
	}
	go m.send("Agent control active", "The Hevolve agent is now controlling this computer.")
}

// NotifyControlEnded announces that the agent released control.
func (m *Manager) NotifyControlEnded() {
	if !m.shouldSend("control_ended") {
		return
	}
	go m.send("Agent control ended", "The Hevolve agent is no longer controlling this computer.")
}

// NotifyServerStarted announces that the companion is running in the
// background. Sent once per process.
func (m *Manager) NotifyServerStarted(port int) {
	m.mu.Lock()
	if !m.enabled {
		m.mu.Unlock()
		return
	}
	if _, seen := m.lastSent["server_started"]; seen {
		m.mu.Unlock()
		return
	}
	m.lastSent["server_started"] = time.Now()
	m.mu.Unlock()

	go m.send("Companion running",
		fmt.Sprintf("%s is running in the background on port %d.", appinfo.Name, port))
}

func (m *Manager) shouldSend(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return false
	}
	if time.Since(m.lastSent[key]) < m.throttle {
		return false
	}
	m.lastSent[key] = time.Now()
	return true
}

func (m *Manager) send(title, message string) {
	n := toast.Notification{
		AppID:   appinfo.Name,
		Title:   title,
		Message: message,
	}
	if err := n.Push(); err != nil {
		m.log.Warn("Toast notification failed: %v", err)
	}
}
