package cosched

import (
	"sync"
)

// UnorderedScheduler is an edge-triggered signal: a FIFO of suspended
// coroutine handles, released in one lap by [UnorderedScheduler.Resume].
// Coroutines that re-suspend on the scheduler during the drain wait for
// the next call.
//
// Unlike the ordered schedulers, Insert and Resume are usable from
// asymmetric contexts: Insert may run on an interrupt-style goroutine (an
// [IRQ] handler) while the main loop drains. List mutation is guarded by a
// mutex, the Go rendition of masking the interrupt around the critical
// section; benchmarks on the ingress path this design is taken from showed
// a mutex outperforming lock-free CAS under contention.
//
// Instances must be created with [NewUnorderedScheduler] and must not be
// copied.
type UnorderedScheduler struct {
	_ [0]func() // prevent copying

	mu      sync.Mutex
	waiting *StaticList[*Handle]
	metrics *SchedulerMetrics

	// OnOverload is invoked with ErrSchedulerFull when an insertion is
	// dropped for want of capacity. Optional; assign before first use.
	OnOverload func(error)
}

// NewUnorderedScheduler creates an unordered scheduler with the configured
// waiting-list capacity (DefaultCapacity unless overridden).
func NewUnorderedScheduler(opts ...SchedulerOption) (*UnorderedScheduler, error) {
	cfg, err := resolveSchedulerOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &UnorderedScheduler{
		waiting:    NewStaticList[*Handle](cfg.capacity),
		OnOverload: cfg.onOverload,
	}
	if cfg.metrics {
		s.metrics = &SchedulerMetrics{}
	}
	return s, nil
}

// Empty reports whether no coroutines are waiting.
func (s *UnorderedScheduler) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.Empty()
}

// Len returns the number of waiting coroutines.
func (s *UnorderedScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting.Len()
}

// Metrics returns a snapshot of the scheduler's counters, zero when
// metrics were not enabled.
func (s *UnorderedScheduler) Metrics() SchedulerMetricsSnapshot {
	return s.metrics.snapshot()
}

// Insert appends a coroutine handle at the tail of the waiting list. At
// capacity the insertion is dropped and Insert reports false, surfaced via
// the log, metrics, and the OnOverload hook.
func (s *UnorderedScheduler) Insert(h *Handle) bool {
	s.mu.Lock()
	ok := s.waiting.PushBack(h)
	s.mu.Unlock()
	if !ok {
		s.metrics.addInsertDrop()
		logUnordered(LevelWarn, "insert dropped", ErrSchedulerFull, map[string]interface{}{
			"task": h.ID(),
		})
		if s.OnOverload != nil {
			s.OnOverload(ErrSchedulerFull)
		}
		return false
	}
	s.metrics.addInsert()
	return true
}

// Resume releases every coroutine that was suspended on the scheduler at
// the moment of the call, in FIFO order, before returning. The drain is
// bounded to one lap: each handle is popped before it runs, so a coroutine
// that re-suspends here lands behind the lap boundary and waits for the
// next call.
func (s *UnorderedScheduler) Resume() {
	s.mu.Lock()
	lap := s.waiting.Len()
	s.mu.Unlock()

	for ; lap > 0; lap-- {
		s.mu.Lock()
		front := s.waiting.Front()
		if front == nil {
			s.mu.Unlock()
			return
		}
		h := *front
		s.waiting.PopFront()
		s.mu.Unlock()

		s.metrics.addResume()
		h.transfer()
	}
}
