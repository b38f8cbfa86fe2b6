package cosched

import (
	"time"

	"github.com/benbjohnson/clock"
)

// scheduleEntry pairs a suspended coroutine handle with the wake condition
// it is waiting on. The handle is borrowed: ownership transfers back to the
// coroutine the moment the entry is erased and resumed. The entry carries
// no lifetime reference to the frame — the frame outlives the entry by
// construction.
type scheduleEntry[W Condition[W]] struct {
	handle *Handle
	cond   W
}

// OrderedScheduler holds suspended coroutines sorted by wake condition, so
// the entry most likely to fire first is at the front. It is driven by
// repeated [OrderedScheduler.Resume] calls, each presenting an observed
// condition and running at most one ready entry.
//
// An OrderedScheduler assumes a single logical executor; it is not safe
// for concurrent use. Instances must be created with [NewOrderedScheduler]
// (or the [NewDelayScheduler] / [NewPriorityScheduler] wrappers) and must
// not be copied.
type OrderedScheduler[W Condition[W]] struct {
	_ [0]func() // prevent copying

	waiting *StaticList[scheduleEntry[W]]
	metrics *SchedulerMetrics

	// OnOverload is invoked with ErrSchedulerFull when an insertion is
	// dropped for want of capacity. Optional; assign before first use.
	OnOverload func(error)
}

// NewOrderedScheduler creates an ordered scheduler with the configured
// waiting-list capacity (DefaultCapacity unless overridden).
func NewOrderedScheduler[W Condition[W]](opts ...SchedulerOption) (*OrderedScheduler[W], error) {
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &OrderedScheduler[W]{}
	s.init(cfg)
	return s, nil
}

// init applies resolved configuration; shared with the concrete wrappers.
func (s *OrderedScheduler[W]) init(cfg *schedulerOptions) {
	s.waiting = NewStaticList[scheduleEntry[W]](cfg.capacity)
	s.OnOverload = cfg.onOverload
	if cfg.metrics {
		s.metrics = &SchedulerMetrics{}
	}
}

// Empty reports whether no coroutines are waiting.
func (s *OrderedScheduler[W]) Empty() bool {
	return s.waiting.Empty()
}

// Len returns the number of waiting coroutines.
func (s *OrderedScheduler[W]) Len() int {
	return s.waiting.Len()
}

// Metrics returns a snapshot of the scheduler's counters, zero when
// metrics were not enabled.
func (s *OrderedScheduler[W]) Metrics() SchedulerMetricsSnapshot {
	return s.metrics.snapshot()
}

// Insert parks a coroutine handle under a wake condition, keeping the
// waiting list sorted: the entry goes before the first waiter whose
// condition the new condition is ready-to-wake against.
//
// At capacity the insertion is dropped and Insert reports false — the
// awaiter stays suspended forever unless resumed by other means. The drop
// is surfaced via the log, metrics, and the OnOverload hook.
func (s *OrderedScheduler[W]) Insert(h *Handle, cond W) bool {
	pos := s.waiting.Begin()
	for pos.Valid() {
		if cond.ReadyToWake(pos.Value().cond) {
			break
		}
		pos.Next()
	}
	if !s.waiting.InsertBefore(pos, scheduleEntry[W]{handle: h, cond: cond}) {
		s.metrics.addInsertDrop()
		logScheduler(LevelWarn, "insert dropped", ErrSchedulerFull, map[string]interface{}{
			"task":     h.ID(),
			"capacity": s.waiting.Cap(),
		})
		if s.OnOverload != nil {
			s.OnOverload(ErrSchedulerFull)
		}
		return false
	}
	s.metrics.addInsert()
	return true
}

// Resume walks the waiting list front to back and runs at most one entry
// whose condition is satisfied by observed, erasing it first so the
// coroutine may freely re-suspend on this scheduler (or spawn new work)
// while it runs. pending reports whether any waiter was seen at all; next
// carries the condition of the soonest still-waiting entry — or, when an
// entry fired, a snapshot of its condition — and is nil when there is
// nothing to wait for.
//
// The walk is deliberately single-step per call: the caller re-invokes
// Resume until no entry fires, using next to decide how long to sleep or
// when to arm a timer in between.
func (s *OrderedScheduler[W]) Resume(observed W) (pending bool, next *W) {
	pos := s.waiting.Begin()
	for pos.Valid() {
		entry := pos.Value()
		// We have seen at least one pending coroutine.
		pending = true

		if entry.cond.ReadyToWake(observed) {
			snapshot := entry.cond
			h := entry.handle
			s.waiting.Erase(pos)
			s.metrics.addResume()
			logScheduler(LevelDebug, "resuming", nil, map[string]interface{}{"task": h.ID()})
			// Don't continue iterating: the coroutine may reschedule
			// itself, so the list can change under us. The caller loops.
			h.transfer()
			return true, &snapshot
		}

		// Keep track of the soonest still-waiting entry: the candidate
		// wins only when it would be satisfied with the champion as the
		// observed state.
		if next == nil || entry.cond.ReadyToWake(*next) {
			cond := entry.cond
			next = &cond
		}
		pos.Next()
	}
	return pending, next
}

// DelayScheduler schedules coroutines by elapsed time on a clock. It is an
// [OrderedScheduler] over [ByDelay] bound to the clock that constructs its
// wake conditions.
type DelayScheduler struct {
	OrderedScheduler[ByDelay]
	clk clock.Clock
}

// NewDelayScheduler creates a delay scheduler on the given clock.
func NewDelayScheduler(clk clock.Clock, opts ...SchedulerOption) (*DelayScheduler, error) {
	if clk == nil {
		return nil, errNilClock
	}
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &DelayScheduler{clk: clk}
	s.init(cfg)
	return s, nil
}

// Clock returns the clock wake conditions are constructed against.
func (s *DelayScheduler) Clock() clock.Clock {
	return s.clk
}

// Delay returns an awaitable suspending the coroutine for d on this
// scheduler. A zero delay is ready immediately and never suspends.
func (s *DelayScheduler) Delay(d time.Duration) Awaitable {
	return delayAwaitable{s: s, d: d}
}

// PriorityScheduler schedules coroutines by integer priority level. It is
// an [OrderedScheduler] over [ByPriority].
type PriorityScheduler struct {
	OrderedScheduler[ByPriority]
}

// NewPriorityScheduler creates a priority scheduler.
func NewPriorityScheduler(opts ...SchedulerOption) (*PriorityScheduler, error) {
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &PriorityScheduler{}
	s.init(cfg)
	return s, nil
}

// Priority returns an awaitable suspending the coroutine at the given
// priority level on this scheduler. It always yields once, even when the
// level would be immediately ready.
func (s *PriorityScheduler) Priority(priority int) Awaitable {
	return priorityAwaitable{s: s, priority: priority}
}
