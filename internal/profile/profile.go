// Package profile models ramp/soak phases and traces the setpoint
// trajectory along them. A Trajectory is anchored at the measured
// temperature when its phase starts, ramps toward the phase end
// temperature, then holds there until the phase's completion rule fires.
package profile

import (
	"math"
	"time"
)

// DefaultMaxSlope caps the ramp rate, in degC/s, for phases that specify
// neither a slope nor a duration.
const DefaultMaxSlope = 100.0

// Phase is one segment of a temperature profile. The controller never
// mutates phase data; callers own the list.
type Phase struct {
	// Name labels the phase in status output.
	Name string

	// EndTemp is the target temperature in degrees Celsius.
	EndTemp float64

	// Slope is the ramp rate in degC/s. 0 means compute it from the
	// duration, or ramp at the maximum slope if there is no duration.
	// Only the magnitude is used; the direction always runs from the
	// phase-start temperature toward EndTemp.
	Slope float64

	// Duration in seconds. 0 completes the phase when the measured
	// temperature reaches EndTemp, positive is the minimum time in the
	// phase before it can complete, negative holds indefinitely until
	// an explicit stop.
	Duration int
}

// Trajectory generates setpoints for one phase. It is pure state plus
// arithmetic; the caller supplies time and gates the sampling cadence.
type Trajectory struct {
	phase     Phase
	startTemp float64
	startTime time.Time
	slope     float64
	setpoint  float64
}

// Begin anchors a trajectory for p at the measured startTemp. The
// effective slope is signed toward EndTemp regardless of how the phase
// spells it; a phase already at its end temperature starts out holding.
func Begin(p Phase, startTemp float64, now time.Time, maxSlope float64) *Trajectory {
	if maxSlope <= 0 {
		maxSlope = DefaultMaxSlope
	}
	t := &Trajectory{
		phase:     p,
		startTemp: startTemp,
		startTime: now,
		setpoint:  startTemp,
	}
	switch {
	case p.EndTemp == startTemp:
		t.slope = 0
	case p.Slope != 0:
		t.slope = math.Copysign(p.Slope, p.EndTemp-startTemp)
	case p.Duration > 0:
		t.slope = (p.EndTemp - startTemp) / float64(p.Duration)
	default:
		t.slope = math.Copysign(maxSlope, p.EndTemp-startTemp)
	}
	return t
}

// Advance recomputes the setpoint for now and reports whether the phase
// is complete. While ramping, the setpoint follows start + slope*elapsed
// and clamps at the end temperature, which switches the trajectory into
// its hold state. Completion is only ever evaluated while holding:
// positive durations compare elapsed phase time, zero durations wait for
// the measured temperature to arrive, negative durations never complete.
func (t *Trajectory) Advance(now time.Time, measured float64) bool {
	if t.slope != 0 {
		sp := t.startTemp + t.slope*now.Sub(t.startTime).Seconds()
		if (t.slope > 0 && sp >= t.phase.EndTemp) || (t.slope < 0 && sp <= t.phase.EndTemp) {
			sp = t.phase.EndTemp
			t.slope = 0
		}
		t.setpoint = sp
	}

	if t.slope != 0 {
		return false
	}

	switch {
	case t.phase.Duration > 0:
		return now.Sub(t.startTime) >= time.Duration(t.phase.Duration)*time.Second
	case t.phase.Duration == 0:
		return (t.startTemp <= t.phase.EndTemp && measured >= t.phase.EndTemp) ||
			(t.startTemp >= t.phase.EndTemp && measured <= t.phase.EndTemp)
	default:
		return false
	}
}

// Setpoint returns the current target temperature.
func (t *Trajectory) Setpoint() float64 {
	return t.setpoint
}

// Slope returns the current effective slope in degC/s, 0 while holding.
func (t *Trajectory) Slope() float64 {
	return t.slope
}

// Holding reports whether the ramp portion has finished.
func (t *Trajectory) Holding() bool {
	return t.slope == 0
}

// Phase returns the phase this trajectory follows.
func (t *Trajectory) Phase() Phase {
	return t.phase
}

// StartTemp returns the anchor temperature captured at phase entry.
func (t *Trajectory) StartTemp() float64 {
	return t.startTemp
}

// Elapsed returns time spent in the phase so far.
func (t *Trajectory) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.startTime)
}
