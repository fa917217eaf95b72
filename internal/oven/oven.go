// Package oven assembles the hardware stack: a filtered temperature probe
// and a time-proportioned heater sharing a single device. It is the plant
// surface the controller regulates; the run loop pumps it with Tick.
package oven

import (
	"fmt"
	"time"

	"github.com/sweeney/oven-controller/internal/heater"
	"github.com/sweeney/oven-controller/internal/sensor"
)

// Device is the hardware the oven needs: an ADC count source and a heater
// switch. hal implementations satisfy it.
type Device interface {
	ReadSensor() (int, error)
	SetHeater(on bool) error
}

// Config sets the probe and heater timing. Zero values select defaults.
type Config struct {
	Converter      sensor.Converter
	FilterSize     int
	SampleInterval time.Duration
	HeaterPeriod   time.Duration
}

// DefaultConfig returns the stock probe and heater timing.
func DefaultConfig() Config {
	return Config{
		Converter:      sensor.DefaultConverter,
		FilterSize:     sensor.DefaultFilterSize,
		SampleInterval: sensor.DefaultSampleInterval,
		HeaterPeriod:   heater.DefaultPeriod,
	}
}

// Oven owns the probe and the actuator. Not safe for concurrent use; the
// run loop goroutine is the only caller.
type Oven struct {
	probe    *sensor.Probe
	actuator *heater.Actuator
}

// New assembles an Oven over dev. now anchors the sampling and heater
// windows.
func New(dev Device, cfg Config, now time.Time) *Oven {
	if cfg.Converter == (sensor.Converter{}) {
		cfg.Converter = sensor.DefaultConverter
	}
	if cfg.FilterSize <= 0 {
		cfg.FilterSize = sensor.DefaultFilterSize
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = sensor.DefaultSampleInterval
	}
	if cfg.HeaterPeriod <= 0 {
		cfg.HeaterPeriod = heater.DefaultPeriod
	}

	return &Oven{
		probe:    sensor.NewProbe(dev, cfg.Converter, cfg.FilterSize, cfg.SampleInterval, now),
		actuator: heater.NewActuator(dev, cfg.HeaterPeriod, now),
	}
}

// Tick performs the hardware upkeep due at now: pump the probe, then
// refresh the heater window. Call it before the controller's Tick so the
// control step sees the newest sample.
func (o *Oven) Tick(now time.Time) error {
	var errs []error

	if err := o.probe.Tick(now); err != nil {
		errs = append(errs, err)
	}
	if err := o.actuator.Update(now); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("oven tick: %v", errs)
	}
	return nil
}

// Temperature returns the filtered oven temperature in degC, 0 until the
// first sample lands.
func (o *Oven) Temperature() float64 {
	return o.probe.Temperature()
}

// SetHeaterDuty commands the heater duty percentage in [0,100].
func (o *Oven) SetHeaterDuty(duty float64) {
	o.actuator.SetDuty(duty)
}

// Duty returns the commanded heater duty percentage.
func (o *Oven) Duty() float64 {
	return o.actuator.Duty()
}

// HeaterLevel returns the switch level last written to the device.
func (o *Oven) HeaterLevel() bool {
	return o.actuator.Level()
}

// SampleCount returns the number of samples held by the probe filter.
func (o *Oven) SampleCount() int {
	return o.probe.SampleCount()
}
