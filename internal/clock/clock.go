// Package clock abstracts the wall-clock time source so calendar and
// expiry logic is testable without real timers.
package clock

import "time"

// Clock returns the current wall-clock time.
// Components should accept a Clock rather than calling time.Now directly.
type Clock interface {
	Now() time.Time
}

// System is the production Clock backed by time.Now.
type System struct{}

// Now implements Clock.
func (System) Now() time.Time { return time.Now() }
