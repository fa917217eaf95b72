package control

import (
	"time"

	"github.com/sweeney/oven-controller/internal/pid"
	"github.com/sweeney/oven-controller/internal/profile"
)

// Plant is the hardware-facing surface the controller drives. Calls must
// be immediate and non-blocking; sensor-fault handling lives behind the
// implementation, the controller assumes both always succeed.
type Plant interface {
	// Temperature returns the filtered oven temperature in degC.
	Temperature() float64

	// SetHeaterDuty commands the heater duty percentage in [0,100].
	SetHeaterDuty(duty float64)
}

// Timer names, registered in evaluation order: the profile update must
// precede the PID step inside a tick because it moves the setpoint the
// PID consumes.
const (
	timerProfile  = "profile"
	timerPID      = "pid"
	timerIdleTemp = "idletemp"
)

// Default loop timing.
const (
	DefaultPIDPeriod      = 250 * time.Millisecond
	DefaultProfilePeriod  = 50 * time.Millisecond
	DefaultIdleTempPeriod = 500 * time.Millisecond
)

// Config carries the controller's loop periods and ramp limit.
type Config struct {
	PIDPeriod      time.Duration
	ProfilePeriod  time.Duration
	IdleTempPeriod time.Duration
	MaxSlope       float64 // cap for auto-computed ramp rates, degC/s
	IdleTempLog    bool    // emit temp records while idle
}

// DefaultConfig returns the stock loop timing with idle logging off.
func DefaultConfig() Config {
	return Config{
		PIDPeriod:      DefaultPIDPeriod,
		ProfilePeriod:  DefaultProfilePeriod,
		IdleTempPeriod: DefaultIdleTempPeriod,
		MaxSlope:       profile.DefaultMaxSlope,
	}
}

// Controller sequences ramp/soak phases over a Plant. It owns all mutable
// process state and is the sole writer into the regulator and the plant
// duty; everything advances from explicit time passed into Tick, Start and
// Stop, so a single goroutine must drive it.
type Controller struct {
	plant    Plant
	reporter Reporter
	sched    *Schedule
	cfg      Config

	epoch   time.Time
	tunings pid.Tunings
	reg     *pid.Regulator

	phases       []profile.Phase
	running      bool
	index        int
	traj         *profile.Trajectory
	processStart time.Time
	started      bool // a process has run at least once
}

// New creates an idle Controller. The reporter may be nil to discard
// events. now anchors the record timebase.
func New(plant Plant, reporter Reporter, cfg Config, now time.Time) *Controller {
	if cfg.PIDPeriod <= 0 {
		cfg.PIDPeriod = DefaultPIDPeriod
	}
	if cfg.ProfilePeriod <= 0 {
		cfg.ProfilePeriod = DefaultProfilePeriod
	}
	if cfg.IdleTempPeriod <= 0 {
		cfg.IdleTempPeriod = DefaultIdleTempPeriod
	}
	if cfg.MaxSlope <= 0 {
		cfg.MaxSlope = profile.DefaultMaxSlope
	}

	c := &Controller{
		plant:    plant,
		reporter: reporter,
		sched:    NewSchedule(),
		cfg:      cfg,
		epoch:    now,
		reg:      pid.New(cfg.PIDPeriod),
		index:    -1,
	}
	c.sched.Register(timerProfile, cfg.ProfilePeriod)
	c.sched.Register(timerPID, cfg.PIDPeriod)
	c.sched.Register(timerIdleTemp, cfg.IdleTempPeriod)
	if cfg.IdleTempLog {
		c.sched.Arm(timerIdleTemp, now)
	}
	return c
}

// SetTunings stores a new gain triple. It takes effect at the next phase
// (re)start, not mid-phase.
func (c *Controller) SetTunings(t pid.Tunings) {
	c.tunings = t
}

// Tunings returns the stored gain triple.
func (c *Controller) Tunings() pid.Tunings {
	return c.tunings
}

// SetPhases installs a new phase list and forces the controller idle,
// whatever it was doing. The list is borrowed, never copied or mutated;
// the caller keeps it alive while installed. A nil or empty list leaves
// the controller unable to start.
func (c *Controller) SetPhases(phases []profile.Phase, now time.Time) {
	c.Stop(now)
	c.phases = phases
}

// Phases returns the installed phase list.
func (c *Controller) Phases() []profile.Phase {
	return c.phases
}

// Start begins the process at phase 0 and reports whether the controller
// is running afterwards. Starting with no phases installed, or while
// already running, changes nothing.
func (c *Controller) Start(now time.Time) bool {
	if c.running || len(c.phases) == 0 {
		return c.running
	}

	c.processStart = now
	c.started = true
	c.running = true
	c.report(OvenState{Time: now, On: true})

	c.startPhase(0, now)

	// Mirror a fresh regulator: the first PID step lands on the very
	// next tick instead of one full period in.
	c.sched.ArmDue(timerPID, now)
	c.sched.Disarm(timerIdleTemp)
	return c.running
}

// Stop forces the controller idle: regulator off, heater duty 0, oven-off
// event. It is unconditional and idempotent, safe to call whether or not
// anything is running.
func (c *Controller) Stop(now time.Time) {
	c.halt(now)
}

// Tick advances the controller to now. The caller owns the cadence; an
// irregular or missed tick costs latency, never drift or double-stepping.
func (c *Controller) Tick(now time.Time) {
	for _, name := range c.sched.Advance(now) {
		switch name {
		case timerProfile:
			c.stepProfile(now)
		case timerPID:
			c.stepPID(now)
		case timerIdleTemp:
			c.stepIdleTemp(now)
		}
	}
}

// Running reports whether a process is active.
func (c *Controller) Running() bool {
	return c.running
}

// CurrentPhase returns a copy of the active phase, or nil whenever the
// controller is not running. There is no residual phase observable after
// SetPhases, Stop or a finished process.
func (c *Controller) CurrentPhase() *profile.Phase {
	if !c.running || c.index < 0 || c.index >= len(c.phases) {
		return nil
	}
	p := c.phases[c.index]
	return &p
}

// PhaseIndex returns the active phase index, -1 when idle or finished.
func (c *Controller) PhaseIndex() int {
	if !c.running {
		return -1
	}
	return c.index
}

// Setpoint returns the current target temperature, 0 while idle.
func (c *Controller) Setpoint() float64 {
	if c.traj == nil {
		return 0
	}
	return c.traj.Setpoint()
}

// Slope returns the current effective ramp rate, 0 while idle or holding.
func (c *Controller) Slope() float64 {
	if c.traj == nil {
		return 0
	}
	return c.traj.Slope()
}

// Duty returns the duty last commanded by the regulator.
func (c *Controller) Duty() float64 {
	return c.reg.Output()
}

// ProcessElapsed returns time since Start, 0 when not running.
func (c *Controller) ProcessElapsed(now time.Time) time.Duration {
	if !c.running {
		return 0
	}
	return now.Sub(c.processStart)
}

// PhaseElapsed returns time in the active phase, 0 when not running.
func (c *Controller) PhaseElapsed(now time.Time) time.Duration {
	if !c.running || c.traj == nil {
		return 0
	}
	return c.traj.Elapsed(now)
}

// startPhase anchors phase index at the measured temperature and restarts
// the profile cadence. An out-of-range index ends the process.
func (c *Controller) startPhase(index int, now time.Time) {
	if index < 0 || index >= len(c.phases) {
		c.halt(now)
		return
	}

	c.index = index
	p := c.phases[index]
	startTemp := c.plant.Temperature()
	c.traj = profile.Begin(p, startTemp, now, c.cfg.MaxSlope)

	// Tunings apply at phase boundaries. The regulator keeps its state
	// across phases; Enable only re-seeds after a Stop.
	c.reg.SetTunings(c.tunings)
	c.reg.SetOutputLimits(pid.DefaultOutputMin, pid.DefaultOutputMax)
	c.reg.Enable(startTemp)

	c.sched.Arm(timerProfile, now)
	c.report(PhaseInfo{
		Time:     now,
		Name:     p.Name,
		EndTemp:  p.EndTemp,
		Slope:    p.Slope,
		Duration: p.Duration,
	})
}

// halt is the shared idle transition for Stop, SetPhases and running past
// the last phase: duty forced to exactly 0, regulator off, oven-off event.
func (c *Controller) halt(now time.Time) {
	c.reg.Disable()
	c.plant.SetHeaterDuty(0)
	c.running = false
	c.index = -1
	c.traj = nil
	c.sched.Disarm(timerProfile)
	c.sched.Disarm(timerPID)
	if c.cfg.IdleTempLog {
		c.sched.Arm(timerIdleTemp, now)
	}
	c.report(OvenState{Time: now, On: false})
}

func (c *Controller) stepProfile(now time.Time) {
	if !c.running || c.traj == nil {
		return
	}
	if c.traj.Advance(now, c.plant.Temperature()) {
		c.startPhase(c.index+1, now)
	}
}

func (c *Controller) stepPID(now time.Time) {
	if !c.running {
		return
	}
	input := c.plant.Temperature()
	out := c.reg.Compute(c.traj.Setpoint(), input)
	c.plant.SetHeaterDuty(out)

	c.report(PIDStatus{
		Time:           now,
		ProcessElapsed: now.Sub(c.processStart),
		Temperature:    input,
		Slope:          c.traj.Slope(),
		Setpoint:       c.traj.Setpoint(),
		Output:         out,
	})
}

func (c *Controller) stepIdleTemp(now time.Time) {
	if c.running {
		return
	}
	var lastStart time.Duration
	if c.started {
		lastStart = c.processStart.Sub(c.epoch)
	}
	c.report(TempStatus{
		Time:        now,
		At:          now.Sub(c.epoch),
		LastStart:   lastStart,
		Temperature: c.plant.Temperature(),
	})
}

func (c *Controller) report(e Event) {
	if c.reporter != nil {
		c.reporter.Report(e)
	}
}
