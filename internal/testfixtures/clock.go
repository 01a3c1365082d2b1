package testfixtures

import (
	"sync"
	"time"
)

// Workday is the date every fixture lives on unless overridden.
var Workday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

// At returns hour:minute on Workday in UTC.
func At(hour, minute int) time.Time {
	return Workday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Clock is a controllable time source shared between a service and its test.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts the clock at start, or at 09:00 on Workday when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = At(9, 0)
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for constructors taking func() time.Time. A nil clock
// falls back to the wall clock.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// SetTime moves the clock to hour:minute on the clock's current date.
func (c *Clock) SetTime(hour, minute int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.current.Date()
	c.current = time.Date(y, m, d, hour, minute, 0, 0, c.current.Location())
	return c.current
}

// Advance moves the clock forward and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
