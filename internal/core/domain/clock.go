package domain

import (
	"sync"
	"time"
)

// Clock supplies the timestamp recorded on every Operation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a wall clock reporting time in loc (time.Local when nil).
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always answers the same instant until told otherwise.
// It is safe for concurrent use, so a test can move time between operations
// on a shared account.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock returns a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// NewFixedClockAt is a shorthand for a frozen civil date and time in loc.
func NewFixedClockAt(year int, month time.Month, day, hour, minute, sec int, loc *time.Location) *FixedClock {
	if loc == nil {
		loc = time.UTC
	}
	return NewFixedClock(time.Date(year, month, day, hour, minute, sec, 0, loc))
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set replaces the current instant.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// SetDate keeps the time of day and zone, replacing the calendar date.
func (c *FixedClock) SetDate(year int, month time.Month, day int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, m, s := c.now.Clock()
	c.now = time.Date(year, month, day, h, m, s, c.now.Nanosecond(), c.now.Location())
}

// SetTime keeps the date and zone, replacing the time of day.
func (c *FixedClock) SetTime(hour, minute, sec int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, mo, d := c.now.Date()
	c.now = time.Date(y, mo, d, hour, minute, sec, 0, c.now.Location())
}

// SetLocation keeps the wall-clock reading and moves it to loc.
func (c *FixedClock) SetLocation(loc *time.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, mo, d := c.now.Date()
	h, m, s := c.now.Clock()
	c.now = time.Date(y, mo, d, h, m, s, c.now.Nanosecond(), loc)
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
