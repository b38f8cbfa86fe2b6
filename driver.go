package cosched

import (
	"github.com/benbjohnson/clock"
)

// RunDelay is the canonical driver loop for a [DelayScheduler]: resume
// with the current time, then sleep until the soonest still-waiting entry
// is due, until done reports true. It returns early if the scheduler
// drains while done still reports false — the remaining work is waiting
// somewhere else.
//
// RunDelay blocks on real sleeps; with a mock clock, advance time from
// another goroutine or drive the scheduler directly instead.
func RunDelay(clk clock.Clock, sched *DelayScheduler, done func() bool) {
	for !done() {
		pending, next := sched.Resume(DelayNow(clk))
		if !pending {
			return
		}
		if next != nil {
			if d := next.Delay(); d > 0 {
				clk.Sleep(d)
			}
		}
	}
}

// RunPriority is the canonical driver loop for a [PriorityScheduler]:
// resume at the given priority floor until done reports true, or the
// scheduler drains.
func RunPriority(sched *PriorityScheduler, floor int, done func() bool) {
	for !done() {
		pending, _ := sched.Resume(ByPriority{Priority: floor})
		if !pending {
			return
		}
	}
}
