// Package cosched provides a cooperative coroutine scheduler in the style of
// bare-metal async runtimes: suspended work is parked on named wake
// conditions and resumed by a driver loop or an interrupt-style signal, with
// all bookkeeping held in fixed-capacity storage that never grows after
// construction.
//
// # Architecture
//
// The scheduler core is built from four layers:
//
//   - [StaticList]: a fixed-capacity doubly-linked list with an embedded free
//     chain, backed by a slice allocated once at construction. Links are
//     small indices rather than pointers.
//   - Wake conditions ([ByDelay], [ByPriority]): value types implementing
//     [Condition], deciding whether a suspended coroutine is eligible to run
//     given an observed snapshot of the world (the current time, the current
//     priority floor).
//   - Schedulers: [OrderedScheduler] keeps waiters sorted by wake condition
//     and resumes at most one per [OrderedScheduler.Resume] call;
//     [UnorderedScheduler] is an edge-triggered latch whose
//     [UnorderedScheduler.Resume] drains exactly the waiters queued at the
//     moment of the call.
//   - Tasks ([Spawn], [Task], [Arena]): coroutine bodies run eagerly to
//     their first suspension; coroutine frames are charged against a
//     monotonic bump [Arena] whose exhaustion yields an inactive task.
//
// # Execution Model
//
// Coroutines are goroutine-backed with a synchronous yield/resume handshake:
// resuming a handle transfers control to the coroutine and returns only once
// it has suspended again or completed. Exactly one of driver and coroutine
// runs at any instant, so all code between two suspension points executes
// atomically with respect to every other coroutine managed by the same
// scheduler. There is no preemption and no cancellation.
//
// Suspension happens at exactly three points, all via [Coroutine.Await]:
// a delay awaitable ([DelayScheduler.Delay]), a priority awaitable
// ([PriorityScheduler.Priority]), or an unordered awaitable
// ([UnorderedScheduler.Wait]).
//
// # Thread Safety
//
// Each scheduler instance assumes a single logical executor, with one
// exception: [UnorderedScheduler.Insert] and [UnorderedScheduler.Resume] are
// safe to call from asymmetric contexts, so an interrupt-style goroutine
// (see [IRQ]) may signal the latch while the main loop drains it.
//
// # Failure Semantics
//
// There is no recoverable error channel across a suspension point.
// Scheduler capacity exhaustion drops the insertion ([ErrSchedulerFull]) and
// arena exhaustion produces an inactive task ([ErrArenaExhausted]); both are
// surfaced through the structured log and metrics counters, and a dropped
// insertion additionally through the scheduler's optional overload hook (an
// [Arena] has no such hook). Neither corrupts memory or panics in release
// use.
// A panic inside a coroutine body marks its task done and ends it silently.
//
// # Usage
//
//	clk := clock.New()
//	arena, _ := cosched.NewArena()
//	sched, _ := cosched.NewDelayScheduler(clk)
//
//	task := cosched.Spawn(arena, func(co *cosched.Coroutine) {
//	    for i := 0; i < 10; i++ {
//	        co.Await(sched.Delay(100 * time.Millisecond))
//	    }
//	})
//
//	cosched.RunDelay(clk, sched, task.Done)
package cosched
