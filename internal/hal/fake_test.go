package hal

import (
	"errors"
	"testing"
)

func TestFakeDeviceReadSensor(t *testing.T) {
	f := NewFakeDevice([]int{100, 200, 300})

	// Read first sample
	code, err := f.ReadSensor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 100 {
		t.Errorf("sample 0: expected 100, got %d", code)
	}

	// Read second sample
	code, err = f.ReadSensor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 200 {
		t.Errorf("sample 1: expected 200, got %d", code)
	}

	// Read third sample
	code, err = f.ReadSensor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 300 {
		t.Errorf("sample 2: expected 300, got %d", code)
	}

	// Fourth read should repeat last sample
	code, err = f.ReadSensor()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 300 {
		t.Errorf("sample 3 (repeat): expected 300, got %d", code)
	}
}

func TestFakeDeviceNoSamples(t *testing.T) {
	f := NewFakeDevice(nil)

	_, err := f.ReadSensor()
	if err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeDeviceReadError(t *testing.T) {
	f := NewFakeDevice([]int{512})
	f.ReadError = errors.New("simulated error")

	_, err := f.ReadSensor()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeDeviceSetHeater(t *testing.T) {
	f := NewFakeDevice([]int{512})

	if err := f.SetHeater(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Heater {
		t.Error("heater should be on")
	}

	if err := f.SetHeater(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Heater {
		t.Error("heater should be off")
	}

	if len(f.Writes) != 2 || f.Writes[0] != true || f.Writes[1] != false {
		t.Errorf("unexpected write record: %v", f.Writes)
	}
}

func TestFakeDeviceSetHeaterError(t *testing.T) {
	f := NewFakeDevice([]int{512})
	f.HeaterError = errors.New("simulated error")

	if err := f.SetHeater(true); err == nil {
		t.Error("expected error to be returned")
	}
	if f.Heater {
		t.Error("heater state should not change on error")
	}
	if len(f.Writes) != 0 {
		t.Errorf("no writes should be recorded on error, got %v", f.Writes)
	}
}

func TestFakeDeviceClose(t *testing.T) {
	f := NewFakeDevice([]int{512})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeDeviceReset(t *testing.T) {
	f := NewFakeDevice([]int{100, 200})

	// Consume first sample and record a write
	f.ReadSensor()
	f.SetHeater(true)

	f.Reset()

	// Should read first sample again with a clean write record
	code, _ := f.ReadSensor()
	if code != 100 {
		t.Errorf("after reset: expected 100, got %d", code)
	}
	if f.Heater || len(f.Writes) != 0 {
		t.Error("after reset: heater record should be clean")
	}
}
