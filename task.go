package cosched

import (
	"sync/atomic"
)

// taskIDCounter issues unique ids for diagnostics; ids start at 1 so 0
// reads as "no task" in log output.
var taskIDCounter atomic.Uint64

// Handle is an opaque, non-owning reference to a coroutine frame,
// sufficient to resume it. Handles are created by [Spawn] and passed to
// schedulers via the awaitable suspension protocol; application code only
// observes them through [Task].
//
// The coroutine is goroutine-backed: resuming transfers control to the
// coroutine's goroutine and returns only once it has parked again or
// completed, so driver and coroutine never run user code simultaneously.
type Handle struct {
	id    uint64
	state taskState

	// resume carries the wake token, buffered so an interrupt-context
	// resume racing the park never blocks; at most one token is ever
	// outstanding (guarded by the Suspended→Running CAS).
	resume chan struct{}

	// yield is closed on completion; each park sends exactly one value,
	// received by whichever resumer is waiting for the coroutine to settle.
	yield chan struct{}
}

// ID returns the diagnostic id of the coroutine.
func (h *Handle) ID() uint64 {
	return h.id
}

// Done reports whether the coroutine body has finished.
func (h *Handle) Done() bool {
	return h.state.Load() == StateDone
}

// transfer resumes the coroutine and blocks until it suspends again or
// completes. Safe no-op on a nil, done, or not-currently-suspended handle;
// the CAS guarantees at most one resumer wins a given suspension.
func (h *Handle) transfer() {
	if h == nil {
		return
	}
	if !h.state.TryTransition(StateSuspended, StateRunning) {
		return
	}
	h.resume <- struct{}{}
	<-h.yield
}

// park hands control back to the resumer and blocks until the next wake
// token. Must only be called from the coroutine's own goroutine; the
// caller stores StateSuspended before the handle becomes visible to a
// scheduler, so a wake arriving in the insert window is never lost.
func (h *Handle) park() {
	h.yield <- struct{}{}
	<-h.resume
}

// Task is the value returned by [Spawn]. It reports on, but does not own,
// the coroutine: there is no cancellation and no return value. The zero
// Task (also returned on arena exhaustion) is inactive — never done,
// resumable by nobody.
type Task struct {
	h *Handle
}

// Active reports whether the task holds a live coroutine frame. False
// means frame allocation failed and the body never ran.
func (t Task) Active() bool {
	return t.h != nil
}

// Done reports whether the coroutine body has finished. An inactive task
// is never done.
func (t Task) Done() bool {
	return t.h != nil && t.h.Done()
}

// Coroutine is the execution context passed to a coroutine body. It is
// only valid within that body, on the coroutine's own goroutine.
type Coroutine struct {
	h *Handle
}

// Await suspends the coroutine on the given awaitable until a scheduler
// resumes it, per the three-method suspension protocol: a ready awaitable
// never suspends; otherwise the handle is handed to the awaitable's
// scheduler and control returns to the driver until the wake condition is
// observed.
func (co *Coroutine) Await(a Awaitable) {
	if a.Ready() {
		a.Resumed()
		return
	}
	h := co.h
	h.state.Store(StateSuspended)
	a.Suspend(h)
	h.park()
	a.Resumed()
}

// Spawn runs fn as a coroutine, eagerly: the body executes on its own
// goroutine up to its first suspension (or completion) before Spawn
// returns. The coroutine frame is charged against arena; on exhaustion the
// body never runs and the returned Task is inactive.
//
// Completion — return or panic — marks the task done. A panic is logged
// and ends the coroutine silently; it does not propagate.
func Spawn(arena *Arena, fn func(co *Coroutine)) Task {
	if arena == nil {
		panic(`cosched: nil arena`)
	}
	if fn == nil {
		panic(`cosched: nil coroutine body`)
	}
	h := arena.allocFrame()
	if h == nil {
		return Task{}
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logTask(LevelError, h.id, "coroutine body panicked", nil, map[string]interface{}{"panic": r})
			}
			h.state.Store(StateDone)
			close(h.yield)
		}()
		fn(&Coroutine{h: h})
	}()
	// Start-eager: wait for the first suspension or completion.
	<-h.yield
	return Task{h: h}
}
