// Package control contains the phase-sequencing controller: pure state
// machines driven by an injected clock. It talks to hardware only through
// the Plant interface and to the outside world only through the Reporter
// interface, so the whole package tests without hardware or goroutines.
package control

import (
	"fmt"
	"time"
)

// Event is one structured status record emitted by the controller.
// Implementations are small value types; the Record string is the
// line-oriented wire format consumed by host-side tooling, with framing
// left to the reporter.
type Event interface {
	Record() string
}

// Reporter consumes controller events. Report must not block the tick
// path; implementations log their own delivery failures.
type Reporter interface {
	Report(e Event)
}

// OvenState reports the running flag, emitted on every start, stop and
// natural finish.
type OvenState struct {
	Time time.Time
	On   bool
}

// Record renders e, e.g. `oven[on=1]`.
func (e OvenState) Record() string {
	if e.On {
		return "oven[on=1]"
	}
	return "oven[on=0]"
}

// PhaseInfo announces the phase the sequencer just entered. None marks
// the "no active phase" record.
type PhaseInfo struct {
	Time     time.Time
	None     bool
	Name     string
	EndTemp  float64
	Slope    float64
	Duration int
}

// Record renders e with the configured (not effective) slope and
// duration, e.g. `phase[nam="soak",end=150.00,m=0.00,t=90]`.
func (e PhaseInfo) Record() string {
	if e.None {
		return `phase[nam=""]`
	}
	return fmt.Sprintf("phase[nam=%q,end=%.2f,m=%.2f,t=%d]",
		e.Name, e.EndTemp, e.Slope, e.Duration)
}

// PIDStatus is the periodic regulation record, emitted once per PID step
// while running.
type PIDStatus struct {
	Time           time.Time
	ProcessElapsed time.Duration
	Temperature    float64
	Slope          float64
	Setpoint       float64
	Output         float64
}

// Record renders e, e.g. `pid[pdt=1250,tmp=21.37,slp=1.60,spt=22.00,out=43.75]`.
func (e PIDStatus) Record() string {
	return fmt.Sprintf("pid[pdt=%d,tmp=%.2f,slp=%.2f,spt=%.2f,out=%.2f]",
		e.ProcessElapsed.Milliseconds(), e.Temperature, e.Slope, e.Setpoint, e.Output)
}

// TempStatus is the rate-limited idle temperature record. Both offsets
// count from the controller epoch; LastStart is zero when no process has
// run yet.
type TempStatus struct {
	Time        time.Time
	At          time.Duration
	LastStart   time.Duration
	Temperature float64
}

// Record renders e, e.g. `temp[st=73500,lpt=12000,tmp=24.81]`.
func (e TempStatus) Record() string {
	return fmt.Sprintf("temp[st=%d,lpt=%d,tmp=%.2f]",
		e.At.Milliseconds(), e.LastStart.Milliseconds(), e.Temperature)
}
