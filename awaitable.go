package cosched

import (
	"time"
)

// Awaitable is the three-method suspension protocol consumed by
// [Coroutine.Await]: Ready decides whether to suspend at all, Suspend
// hands the coroutine handle to a scheduler, and Resumed runs on the
// coroutine after it wakes. Awaitables borrow their scheduler for the
// duration of one suspension and hold no other state worth trusting after
// the wake.
type Awaitable interface {
	// Ready reports whether the awaited event has already happened, in
	// which case the coroutine continues without suspending.
	Ready() bool

	// Suspend records the coroutine handle with the awaitable's scheduler.
	// The handle must already be parked-visible: the scheduler may resume
	// it from another context the instant it is recorded.
	Suspend(h *Handle)

	// Resumed runs on the coroutine's goroutine immediately after the wake
	// (or immediately after Ready reported true).
	Resumed()
}

// delayAwaitable suspends a coroutine for a relative delay on a
// [DelayScheduler]; the absolute wake condition is constructed at the
// suspension point.
type delayAwaitable struct {
	s *DelayScheduler
	d time.Duration
}

func (a delayAwaitable) Ready() bool {
	// Only wait if there is a delay.
	return a.d == 0
}

func (a delayAwaitable) Suspend(h *Handle) {
	a.s.Insert(h, DelayAfter(a.s.clk, a.d))
}

func (a delayAwaitable) Resumed() {}

// priorityAwaitable suspends a coroutine at a priority level on a
// [PriorityScheduler]. It always yields once.
type priorityAwaitable struct {
	s        *PriorityScheduler
	priority int
}

func (a priorityAwaitable) Ready() bool {
	// Wait for the explicit context switch.
	return false
}

func (a priorityAwaitable) Suspend(h *Handle) {
	a.s.Insert(h, ByPriority{Priority: a.priority})
}

func (a priorityAwaitable) Resumed() {}

// unorderedAwaitable suspends a coroutine on an [UnorderedScheduler]
// until the next edge.
type unorderedAwaitable struct {
	s *UnorderedScheduler
}

func (a unorderedAwaitable) Ready() bool {
	return false
}

func (a unorderedAwaitable) Suspend(h *Handle) {
	a.s.Insert(h)
}

func (a unorderedAwaitable) Resumed() {}

// Wait returns an awaitable suspending the coroutine until this
// scheduler's next [UnorderedScheduler.Resume] edge.
func (s *UnorderedScheduler) Wait() Awaitable {
	return unorderedAwaitable{s: s}
}
