// Package booking implements the reservation core: invariant checking,
// the status state machine, conflict detection against the reservation
// store and the daily maintenance jobs.  Handlers and scheduled jobs call
// into this package instead of mutating reservations through the
// repository directly, so the invariants have a single home.
package booking

import "time"

// Clock supplies the current time to the checker and the maintenance
// jobs.  Production code uses SystemClock; tests substitute a fixed
// clock to make date comparisons deterministic.
type Clock interface {
    Now() time.Time
}

// SystemClock is the production Clock backed by time.Now in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
