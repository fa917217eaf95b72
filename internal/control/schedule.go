package control

import "time"

// timerSlot is one named periodic job.
type timerSlot struct {
	name   string
	period time.Duration
	last   time.Time
	armed  bool
}

// Schedule is a named-timer scheduler for the controller's periodic jobs.
// Registration order fixes evaluation order, which matters within a tick:
// the profile update must land before the PID step that consumes its
// setpoint. Timers gate on elapsed time against their last firing, so an
// irregular caller costs at most one tick of latency, never drift.
// Not safe for concurrent use; the controller is the only caller.
type Schedule struct {
	slots  []*timerSlot
	byName map[string]*timerSlot
}

// NewSchedule creates an empty Schedule.
func NewSchedule() *Schedule {
	return &Schedule{byName: make(map[string]*timerSlot)}
}

// Register adds a disarmed timer with the given period. Registering a
// name twice is a no-op.
func (s *Schedule) Register(name string, period time.Duration) {
	if _, ok := s.byName[name]; ok {
		return
	}
	slot := &timerSlot{name: name, period: period}
	s.slots = append(s.slots, slot)
	s.byName[name] = slot
}

// Arm enables a timer; it first fires one period after now.
func (s *Schedule) Arm(name string, now time.Time) {
	if slot, ok := s.byName[name]; ok {
		slot.last = now
		slot.armed = true
	}
}

// ArmDue enables a timer with its period already elapsed, so it fires on
// the very next Advance.
func (s *Schedule) ArmDue(name string, now time.Time) {
	if slot, ok := s.byName[name]; ok {
		slot.last = now.Add(-slot.period)
		slot.armed = true
	}
}

// Disarm stops a timer. Unknown names are ignored.
func (s *Schedule) Disarm(name string) {
	if slot, ok := s.byName[name]; ok {
		slot.armed = false
	}
}

// Armed reports whether the named timer is currently armed.
func (s *Schedule) Armed(name string) bool {
	slot, ok := s.byName[name]
	return ok && slot.armed
}

// Advance evaluates every armed timer against now, in registration order,
// and returns the names of those that fired. A fired timer re-anchors at
// now. Call it exactly once per external tick.
func (s *Schedule) Advance(now time.Time) []string {
	var due []string
	for _, slot := range s.slots {
		if !slot.armed {
			continue
		}
		if now.Sub(slot.last) >= slot.period {
			slot.last = now
			due = append(due, slot.name)
		}
	}
	return due
}
