package hal

import "errors"

// FakeDevice is a test double that returns scripted ADC counts and records
// heater writes.
type FakeDevice struct {
	// Samples contains scripted ADC counts to return.
	// Each call to ReadSensor() consumes the next sample.
	Samples []int

	// index tracks current position in Samples
	index int

	// ReadError, if set, will be returned by ReadSensor()
	ReadError error

	// HeaterError, if set, will be returned by SetHeater()
	HeaterError error

	// Heater is the last commanded switch level
	Heater bool

	// Writes records every SetHeater call in order
	Writes []bool

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeDevice creates a FakeDevice with the given scripted counts.
func NewFakeDevice(samples []int) *FakeDevice {
	return &FakeDevice{Samples: samples}
}

// ReadSensor returns the next scripted count.
// If samples are exhausted, returns the last count repeatedly.
func (f *FakeDevice) ReadSensor() (int, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	code := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return code, nil
}

// SetHeater records the commanded level.
func (f *FakeDevice) SetHeater(on bool) error {
	if f.HeaterError != nil {
		return f.HeaterError
	}
	f.Heater = on
	f.Writes = append(f.Writes, on)
	return nil
}

// Close marks the device as closed.
func (f *FakeDevice) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the sample script and clears recorded heater writes.
func (f *FakeDevice) Reset() {
	f.index = 0
	f.Heater = false
	f.Writes = nil
	f.Closed = false
}
