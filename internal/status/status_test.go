package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 10, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 10 {
		t.Errorf("Config.PollMs: got %d, want 10", snap.Config.PollMs)
	}
	if snap.Config.HTTPAddr != ":8080" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":8080")
	}
	if snap.Process.Running {
		t.Error("expected Running=false initially")
	}
	if snap.Process.PhaseIndex != -1 {
		t.Errorf("PhaseIndex: got %d, want -1", snap.Process.PhaseIndex)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(ProcessState{
		Running:        true,
		PhaseName:      "soak",
		PhaseIndex:     1,
		PhaseCount:     3,
		Setpoint:       150,
		Slope:          1.6,
		Temperature:    148.2,
		Duty:           42.5,
		HeaterOn:       true,
		ProcessElapsed: 90 * time.Second,
		PhaseElapsed:   30 * time.Second,
	})

	snap := tr.Snapshot()
	if !snap.Process.Running {
		t.Error("expected Running=true")
	}
	if snap.Process.PhaseName != "soak" {
		t.Errorf("PhaseName: got %q, want soak", snap.Process.PhaseName)
	}
	if snap.Process.Setpoint != 150 {
		t.Errorf("Setpoint: got %v, want 150", snap.Process.Setpoint)
	}
	if snap.Process.Duty != 42.5 {
		t.Errorf("Duty: got %v, want 42.5", snap.Process.Duty)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(ProcessState{Running: true, PhaseName: "ramp"})

	snap1 := tr.Snapshot()

	tr.Update(ProcessState{Running: false})

	// snap1 should still reflect old state
	if !snap1.Process.Running || snap1.Process.PhaseName != "ramp" {
		t.Error("snapshot should be a copy; process state was modified")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			tr.Update(ProcessState{Running: n%2 == 0, PhaseIndex: n})
		}(i)
		go func() {
			defer wg.Done()
			_ = tr.Snapshot()
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Process: ProcessState{
			Running:        true,
			PhaseName:      "soak",
			PhaseIndex:     1,
			PhaseCount:     3,
			Setpoint:       150,
			Slope:          0,
			Temperature:    148.2,
			Duty:           42.5,
			HeaterOn:       true,
			ProcessElapsed: 90 * time.Second,
			PhaseElapsed:   30 * time.Second,
		},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPAddr: ":8080"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if !parsed.Status.Running {
		t.Error("expected running=true")
	}
	if parsed.Status.Phase == nil {
		t.Fatal("expected phase block while running")
	}
	if parsed.Status.Phase.Name != "soak" || parsed.Status.Phase.Index != 1 || parsed.Status.Phase.Count != 3 {
		t.Errorf("unexpected phase block: %+v", parsed.Status.Phase)
	}
	if parsed.Status.Setpoint != 150 {
		t.Errorf("Setpoint: got %v, want 150", parsed.Status.Setpoint)
	}
	if parsed.Status.ProcessSeconds != 90 {
		t.Errorf("ProcessSeconds: got %d, want 90", parsed.Status.ProcessSeconds)
	}
	if parsed.Status.PhaseSeconds != 30 {
		t.Errorf("PhaseSeconds: got %d, want 30", parsed.Status.PhaseSeconds)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("MQTT.Broker: got %q", parsed.Status.MQTT.Broker)
	}
	if parsed.Status.Config.HTTPAddr != ":8080" {
		t.Errorf("Config.HTTPAddr: got %q", parsed.Status.Config.HTTPAddr)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", parsed.Status.Reason)
	}
}

func TestFormatJSONIdleOmitsPhase(t *testing.T) {
	snap := Snapshot{
		Process:   ProcessState{Running: false, PhaseIndex: -1},
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatJSON(snap)

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	statusMap := parsed["status"].(map[string]interface{})
	if _, exists := statusMap["phase"]; exists {
		t.Error("phase block should be omitted while idle")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.UptimeSeconds != 60 {
		t.Errorf("UptimeSeconds: got %d, want 60", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventWithReason(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 5, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q", parsed.Status.Reason)
	}
}
