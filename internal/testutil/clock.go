// Package testutil provides shared fakes and helpers for package tests.
package testutil

import "time"

// Clock is a manually advanced clock for tests.
type Clock struct {
	Current time.Time
}

// NewClock returns a Clock starting at the given time.
func NewClock(start time.Time) *Clock {
	return &Clock{Current: start}
}

// Now returns the frozen current time.
func (c *Clock) Now() time.Time { return c.Current }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// Set jumps the clock to t.
func (c *Clock) Set(t time.Time) {
	c.Current = t
}
