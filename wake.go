package cosched

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Condition is the wake-condition contract shared by every ordered
// scheduler: given an observed snapshot of the world (the current time, the
// current priority floor), has the event this value waits for already
// happened?
//
// Implementations are small value types; the constraint is self-referential
// so a scheduler compares like with like.
type Condition[W any] interface {
	// ReadyToWake reports whether this condition is satisfied when observed
	// is the current state of the world.
	ReadyToWake(observed W) bool
}

// ByDelay schedules a wake-up at an absolute time point on a clock.
// The zero value is not usable; construct via [DelayAfter] or [DelayNow].
type ByDelay struct {
	clk     clock.Clock
	expires time.Time
}

// DelayAfter returns a condition expiring after delay has elapsed on clk.
func DelayAfter(clk clock.Clock, delay time.Duration) ByDelay {
	return ByDelay{clk: clk, expires: clk.Now().Add(delay)}
}

// DelayNow returns a condition that has already expired, i.e. the observed
// "current time" snapshot passed to [OrderedScheduler.Resume].
func DelayNow(clk clock.Clock) ByDelay {
	return ByDelay{clk: clk, expires: clk.Now()}
}

// ReadyToWake reports whether the observed time point is past this
// condition's expiry.
func (d ByDelay) ReadyToWake(observed ByDelay) bool {
	return observed.expires.After(d.expires)
}

// Delay returns the remaining time until expiry, never negative.
func (d ByDelay) Delay() time.Duration {
	if remaining := d.expires.Sub(d.clk.Now()); remaining > 0 {
		return remaining
	}
	return 0
}

// Expires returns the absolute expiry time point.
func (d ByDelay) Expires() time.Time {
	return d.expires
}

// ByPriority schedules a wake-up at or above an integer priority level.
// Higher priorities are "more ready"; ties resolve as ready.
type ByPriority struct {
	// Priority is the level this condition waits at.
	Priority int
}

// ReadyToWake reports whether this condition's priority meets or exceeds
// the observed priority floor.
func (p ByPriority) ReadyToWake(observed ByPriority) bool {
	return p.Priority >= observed.Priority
}
