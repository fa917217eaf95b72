package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleFiresInRegistrationOrder(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("b", 10*time.Millisecond)
	s.Register("a", 10*time.Millisecond)
	s.Arm("a", now)
	s.Arm("b", now)

	due := s.Advance(now.Add(10 * time.Millisecond))
	assert.Equal(t, []string{"b", "a"}, due)
}

func TestScheduleGatesOnPeriod(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("pid", 250*time.Millisecond)
	s.Arm("pid", now)

	assert.Empty(t, s.Advance(now.Add(249*time.Millisecond)))
	assert.Equal(t, []string{"pid"}, s.Advance(now.Add(250*time.Millisecond)))

	// Re-anchored at the firing instant: quiet until another period passes.
	assert.Empty(t, s.Advance(now.Add(400*time.Millisecond)))
	assert.Equal(t, []string{"pid"}, s.Advance(now.Add(500*time.Millisecond)))
}

func TestScheduleLateTickFiresOnce(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("profile", 50*time.Millisecond)
	s.Arm("profile", now)

	// A 2s stall produces a single firing, not forty.
	assert.Equal(t, []string{"profile"}, s.Advance(now.Add(2*time.Second)))
	assert.Empty(t, s.Advance(now.Add(2*time.Second+10*time.Millisecond)))
}

func TestScheduleArmDueFiresImmediately(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("pid", 250*time.Millisecond)
	s.ArmDue("pid", now)

	assert.Equal(t, []string{"pid"}, s.Advance(now.Add(time.Millisecond)))
	assert.Empty(t, s.Advance(now.Add(2*time.Millisecond)))
}

func TestScheduleDisarm(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("idletemp", 500*time.Millisecond)
	s.Arm("idletemp", now)
	assert.True(t, s.Armed("idletemp"))

	s.Disarm("idletemp")
	assert.False(t, s.Armed("idletemp"))
	assert.Empty(t, s.Advance(now.Add(time.Hour)))
}

func TestScheduleUnknownNamesIgnored(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Arm("ghost", now)
	s.Disarm("ghost")
	assert.False(t, s.Armed("ghost"))
	assert.Empty(t, s.Advance(now))
}

func TestScheduleDuplicateRegisterKeepsFirst(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSchedule()
	s.Register("pid", 250*time.Millisecond)
	s.Register("pid", time.Millisecond)
	s.Arm("pid", now)

	assert.Empty(t, s.Advance(now.Add(100*time.Millisecond)))
	assert.Equal(t, []string{"pid"}, s.Advance(now.Add(250*time.Millisecond)))
}
