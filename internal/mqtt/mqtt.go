// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/oven-controller/internal/control"
)

// TopicEvents is the MQTT topic for oven controller events.
const TopicEvents = "oven/controller/events"

// TopicStatus is the MQTT topic for system lifecycle and status messages.
const TopicStatus = "oven/controller/status"

// Publisher publishes controller traffic to MQTT.
type Publisher interface {
	// Publish sends a controller event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event control.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// OvenPayload reports a process start or stop.
type OvenPayload struct {
	Timestamp string `json:"timestamp"`
	State     string `json:"state"`
}

// PhasePayload reports the phase the sequencer entered, with the
// configured (not effective) slope and duration.
type PhasePayload struct {
	Timestamp string  `json:"timestamp"`
	Name      string  `json:"name"`
	EndTemp   float64 `json:"end_temp"`
	Slope     float64 `json:"slope"`
	Duration  int     `json:"duration"`
}

// PIDPayload is the periodic regulation report.
type PIDPayload struct {
	Timestamp   string  `json:"timestamp"`
	ElapsedMs   int64   `json:"elapsed_ms"`
	Temperature float64 `json:"temperature"`
	Slope       float64 `json:"slope"`
	Setpoint    float64 `json:"setpoint"`
	Output      float64 `json:"output"`
}

// TempPayload is the idle temperature report.
type TempPayload struct {
	Timestamp   string  `json:"timestamp"`
	UptimeMs    int64   `json:"uptime_ms"`
	LastStartMs int64   `json:"last_start_ms"`
	Temperature float64 `json:"temperature"`
}

// FormatPayload creates the JSON payload for a controller event. Each
// event kind marshals under its own envelope key, mirroring the line
// records.
func FormatPayload(event control.Event) ([]byte, error) {
	switch e := event.(type) {
	case control.OvenState:
		state := "OFF"
		if e.On {
			state = "ON"
		}
		return json.Marshal(struct {
			Oven OvenPayload `json:"oven"`
		}{OvenPayload{
			Timestamp: e.Time.UTC().Format(time.RFC3339),
			State:     state,
		}})

	case control.PhaseInfo:
		return json.Marshal(struct {
			Phase PhasePayload `json:"phase"`
		}{PhasePayload{
			Timestamp: e.Time.UTC().Format(time.RFC3339),
			Name:      e.Name,
			EndTemp:   e.EndTemp,
			Slope:     e.Slope,
			Duration:  e.Duration,
		}})

	case control.PIDStatus:
		return json.Marshal(struct {
			PID PIDPayload `json:"pid"`
		}{PIDPayload{
			Timestamp:   e.Time.UTC().Format(time.RFC3339),
			ElapsedMs:   e.ProcessElapsed.Milliseconds(),
			Temperature: e.Temperature,
			Slope:       e.Slope,
			Setpoint:    e.Setpoint,
			Output:      e.Output,
		}})

	case control.TempStatus:
		return json.Marshal(struct {
			Temp TempPayload `json:"temp"`
		}{TempPayload{
			Timestamp:   e.Time.UTC().Format(time.RFC3339),
			UptimeMs:    e.At.Milliseconds(),
			LastStartMs: e.LastStart.Milliseconds(),
			Temperature: e.Temperature,
		}})

	default:
		return nil, fmt.Errorf("unknown event type %T", event)
	}
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (STARTUP, SHUTDOWN) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
