package utils

import "time"

// Timer measures wall-clock time elapsed since it was started. It is used to
// enforce deadlines that span many suspension points (for example a polling
// loop), where a per-request timeout would measure the wrong thing.
type Timer struct {
	startTime time.Time
	now       func() time.Time
}

// NewTimer creates a Timer started at the current instant.
func NewTimer() *Timer {
	return NewTimerWithClock(time.Now)
}

// NewTimerWithClock creates a Timer that reads time from now, so tests can
// drive it with a fake clock. A nil now falls back to time.Now.
func NewTimerWithClock(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{startTime: now(), now: now}
}

// Elapsed returns the time passed since the timer was started.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.startTime)
}

// Exceeded reports whether more than limit has elapsed. A non-positive limit
// never expires.
func (t *Timer) Exceeded(limit time.Duration) bool {
	if limit <= 0 {
		return false
	}
	return t.Elapsed() > limit
}
