package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Running        bool       `json:"running"`
	Phase          *PhaseJSON `json:"phase,omitempty"`
	Setpoint       float64    `json:"setpoint"`
	Slope          float64    `json:"slope"`
	Temperature    float64    `json:"temperature"`
	Duty           float64    `json:"duty"`
	HeaterOn       bool       `json:"heater_on"`
	ProcessSeconds int64      `json:"process_seconds"`
	PhaseSeconds   int64      `json:"phase_seconds"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	MQTT           MQTTStatus `json:"mqtt"`
	Config         ConfigJSON `json:"config"`
}

// PhaseJSON identifies the active phase. Omitted entirely while idle.
type PhaseJSON struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Count int    `json:"count"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Running:        snap.Process.Running,
		Setpoint:       snap.Process.Setpoint,
		Slope:          snap.Process.Slope,
		Temperature:    snap.Process.Temperature,
		Duty:           snap.Process.Duty,
		HeaterOn:       snap.Process.HeaterOn,
		ProcessSeconds: int64(snap.Process.ProcessElapsed.Truncate(time.Second).Seconds()),
		PhaseSeconds:   int64(snap.Process.PhaseElapsed.Truncate(time.Second).Seconds()),
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}

	if snap.Process.Running {
		inner.Phase = &PhaseJSON{
			Name:  snap.Process.PhaseName,
			Index: snap.Process.PhaseIndex,
			Count: snap.Process.PhaseCount,
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
