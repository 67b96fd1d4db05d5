package domain

import (
	"sync"
	"time"
)

// Clock supplies the current instant and the current calendar date.
type Clock interface {
	Now() time.Time
	Today() Date
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
func (SystemClock) Today() Date    { return DateOf(time.Now().UTC()) }

// FixedClock always reports the same instant until moved.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock creates a clock pinned to now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

// FixedClockOn creates a clock pinned to noon UTC of the given day.
func FixedClockOn(d Date) *FixedClock {
	return NewFixedClock(d.Time().Add(12 * time.Hour))
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *FixedClock) Today() Date {
	return DateOf(c.Now())
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
