package cosched

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// TimerDriver is the minimal contract of a compare-match timer: arming a
// one-shot expiry that fires an installed handler, typically an
// [IRQ.Trigger]. Re-arming before expiry replaces the pending compare
// point.
type TimerDriver interface {
	// SetTimeCmp arms the timer to fire once offset from now.
	SetTimeCmp(offset time.Duration)

	// Close disarms the timer and releases its resources. The handler does
	// not fire after Close returns.
	Close() error
}

// ClockTimerDriver is the portable [TimerDriver], built on a clock's
// timers; with a mock clock, expiries fire as mock time is advanced. On
// Linux, [NewTimerFDDriver] provides a kernel-timer alternative.
type ClockTimerDriver struct {
	clk     clock.Clock
	handler func()

	mu      sync.Mutex
	pending *clock.Timer
	seq     uint64
	closed  bool
}

// NewClockTimerDriver creates a disarmed timer firing handler on expiry.
// The handler runs on the clock's timer goroutine — treat it as interrupt
// context.
func NewClockTimerDriver(clk clock.Clock, handler func()) *ClockTimerDriver {
	if clk == nil {
		panic(`cosched: timer: nil clock`)
	}
	if handler == nil {
		panic(`cosched: timer: nil handler`)
	}
	return &ClockTimerDriver{clk: clk, handler: handler}
}

// SetTimeCmp arms the timer to fire once offset from now, replacing any
// pending compare point. A replaced expiry never fires, even if its
// callback was already in flight when it was replaced.
func (t *ClockTimerDriver) SetTimeCmp(offset time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if t.pending != nil {
		t.pending.Stop()
	}
	t.seq++
	seq := t.seq
	t.pending = t.clk.AfterFunc(offset, func() { t.fire(seq) })
}

// Close disarms the timer.
func (t *ClockTimerDriver) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.seq++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	return nil
}

func (t *ClockTimerDriver) fire(seq uint64) {
	t.mu.Lock()
	if t.closed || seq != t.seq {
		// Stale expiry: disarmed, or replaced by a later SetTimeCmp.
		t.mu.Unlock()
		return
	}
	t.pending = nil
	t.mu.Unlock()
	t.handler()
}
