// Package pid implements the duty-cycle regulator for the heater loop.
// It is a position-form PID with the derivative taken on the measurement,
// so setpoint steps at phase boundaries do not kick the output. The caller
// owns the execution cadence; Compute runs exactly one step per call.
package pid

import "time"

// DefaultPeriod is the regulation step period the gains are scaled for.
const DefaultPeriod = 250 * time.Millisecond

// Default output clamp, in duty percent.
const (
	DefaultOutputMin = 0.0
	DefaultOutputMax = 100.0
)

// Tunings is the gain triple as configured, in per-second units.
type Tunings struct {
	Kp float64
	Ki float64
	Kd float64
}

// Regulator computes a clamped duty command from setpoint and measured
// temperature. Internal gains are pre-scaled by the step period at
// SetTunings time, so Compute itself stays period-free.
type Regulator struct {
	tunings Tunings
	period  time.Duration

	// working gains: ki and kd absorb the step period
	kp float64
	ki float64
	kd float64

	outMin float64
	outMax float64

	iTerm     float64
	lastInput float64
	output    float64
	enabled   bool
}

// New creates a disabled Regulator stepping at the given period, with the
// output clamped to [0,100].
func New(period time.Duration) *Regulator {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Regulator{
		period: period,
		outMin: DefaultOutputMin,
		outMax: DefaultOutputMax,
	}
}

// SetTunings installs a new gain triple, scaling Ki and Kd by the step
// period. Negative gains are rejected as a no-op.
func (r *Regulator) SetTunings(t Tunings) {
	if t.Kp < 0 || t.Ki < 0 || t.Kd < 0 {
		return
	}
	r.tunings = t
	sec := r.period.Seconds()
	r.kp = t.Kp
	r.ki = t.Ki * sec
	r.kd = t.Kd / sec
}

// Tunings returns the gains as configured (unscaled).
func (r *Regulator) Tunings() Tunings {
	return r.tunings
}

// Period returns the regulation step period.
func (r *Regulator) Period() time.Duration {
	return r.period
}

// SetOutputLimits changes the output clamp. min must be below max or the
// call is a no-op. While enabled, the current output and integral sum are
// re-clamped into the new range.
func (r *Regulator) SetOutputLimits(min, max float64) {
	if min >= max {
		return
	}
	r.outMin = min
	r.outMax = max
	if r.enabled {
		r.output = r.clamp(r.output)
		r.iTerm = r.clamp(r.iTerm)
	}
}

// Enable turns the loop on with bump-less transfer: the integral sum is
// seeded from the last output so the first Compute carries on from the
// duty that was last applied. Enabling an already-enabled regulator is a
// no-op and does not disturb the running state.
func (r *Regulator) Enable(input float64) {
	if r.enabled {
		return
	}
	r.lastInput = input
	r.iTerm = r.clamp(r.output)
	r.enabled = true
}

// Disable turns the loop off, forces the output to 0 and freezes the rest
// of the internal state until the next Enable.
func (r *Regulator) Disable() {
	r.enabled = false
	r.output = 0
}

// Compute runs one regulation step and returns the clamped output.
// While disabled it leaves all state alone and returns the frozen output.
func (r *Regulator) Compute(setpoint, input float64) float64 {
	if !r.enabled {
		return r.output
	}

	e := setpoint - input
	r.iTerm = r.clamp(r.iTerm + r.ki*e)

	// Derivative on measurement: -kd * d(input), immune to setpoint steps.
	dInput := input - r.lastInput

	r.output = r.clamp(r.kp*e + r.iTerm - r.kd*dInput)
	r.lastInput = input
	return r.output
}

// Output returns the output of the last Compute (0 while disabled).
func (r *Regulator) Output() float64 {
	return r.output
}

// Enabled reports whether the loop is running.
func (r *Regulator) Enabled() bool {
	return r.enabled
}

func (r *Regulator) clamp(v float64) float64 {
	if v > r.outMax {
		return r.outMax
	}
	if v < r.outMin {
		return r.outMin
	}
	return v
}
