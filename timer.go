package main

import "time"

// frameClock measures wall-clock time between frames in milliseconds.
type frameClock struct {
	last time.Time
}

// tick returns the milliseconds elapsed since the previous tick. The first
// tick returns zero so startup stalls do not count as beam time.
func (c *frameClock) tick() float64 {
	now := time.Now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last).Seconds() * 1000
	c.last = now
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
