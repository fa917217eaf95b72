// Package heater time-proportions a duty percentage onto a binary heater
// output. A solid-state relay switched at mains zero crossings wants slow
// whole-period proportioning, not PWM.
package heater

import (
	"fmt"
	"time"
)

// DefaultPeriod is the proportioning window.
const DefaultPeriod = 250 * time.Millisecond

// Switch drives the physical heater output.
type Switch interface {
	// SetHeater sets the heater drive level.
	// Returns error if the hardware write fails (should not crash the process).
	SetHeater(on bool) error
}

// Actuator converts a duty percentage into ON/OFF drive over a fixed
// period: ON while elapsed-in-period is under period*duty/100, OFF for the
// remainder. The level is re-derived on every Update, so a duty change
// lands mid-period instead of waiting for the next window.
type Actuator struct {
	sw          Switch
	period      time.Duration
	duty        float64
	onTime      time.Duration
	periodStart time.Time
	level       bool
	applied     bool
}

// NewActuator creates an Actuator over sw with the given proportioning
// period. Duty starts at 0 (heater off).
func NewActuator(sw Switch, period time.Duration, start time.Time) *Actuator {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Actuator{
		sw:          sw,
		period:      period,
		periodStart: start,
	}
}

// SetDuty sets the requested duty percentage, clamped to [0,100].
// 0 holds the output permanently OFF, 100 permanently ON.
func (a *Actuator) SetDuty(d float64) {
	if d < 0 {
		d = 0
	} else if d > 100 {
		d = 100
	}
	a.duty = d
	a.onTime = time.Duration(float64(a.period) * d / 100.0)
}

// Duty returns the current duty percentage.
func (a *Actuator) Duty() float64 {
	return a.duty
}

// Period returns the proportioning period.
func (a *Actuator) Period() time.Duration {
	return a.period
}

// Update recomputes the drive level for now and writes it to the switch if
// it changed. Period boundaries advance by whole periods once elapsed time
// reaches the period, so a late caller cannot smear the duty window.
func (a *Actuator) Update(now time.Time) error {
	elapsed := now.Sub(a.periodStart)
	if elapsed >= a.period {
		a.periodStart = a.periodStart.Add(elapsed.Truncate(a.period))
		elapsed = now.Sub(a.periodStart)
	}

	on := elapsed < a.onTime
	if a.applied && on == a.level {
		return nil
	}
	if err := a.sw.SetHeater(on); err != nil {
		return fmt.Errorf("set heater: %w", err)
	}
	a.level = on
	a.applied = true
	return nil
}

// Level returns the drive level written by the last Update.
func (a *Actuator) Level() bool {
	return a.level
}
