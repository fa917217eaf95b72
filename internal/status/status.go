// Package status provides a thread-safe status tracker for the oven
// controller daemon. It is read by HTTP handlers and the MQTT heartbeat.
package status

import (
	"sync"
	"time"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// ProcessState is the controller-side view, refreshed from the run loop
// on every tick.
type ProcessState struct {
	Running        bool
	PhaseName      string
	PhaseIndex     int // -1 when idle
	PhaseCount     int
	Setpoint       float64
	Slope          float64
	Temperature    float64
	Duty           float64
	HeaterOn       bool
	ProcessElapsed time.Duration
	PhaseElapsed   time.Duration
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after the lock is released.
type Snapshot struct {
	Process       ProcessState
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Process:   ProcessState{PhaseIndex: -1},
		},
	}
}

// Update replaces the process view. Called from runLoop on every tick.
func (t *Tracker) Update(ps ProcessState) {
	t.mu.Lock()
	t.snap.Process = ps
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
