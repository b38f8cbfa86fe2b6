package cosched

import (
	"errors"
	"sync"
	"unsafe"
)

// Standard errors.
var (
	// ErrArenaExhausted is reported (via log and metrics) when a coroutine
	// frame cannot be allocated; the corresponding Spawn yields an inactive
	// Task rather than an error.
	ErrArenaExhausted = errors.New("cosched: task arena exhausted")

	// ErrSchedulerFull is reported (via log, metrics, and the overload
	// hook) when a scheduler's waiting list is at capacity; the insertion
	// is dropped and the awaiter stays suspended.
	ErrSchedulerFull = errors.New("cosched: scheduler waiting list full")
)

const (
	// DefaultArenaSize is the coroutine-frame arena size used by [NewArena]
	// unless overridden, sized for host use.
	DefaultArenaSize = 4096

	// TargetArenaSize is the conventional arena size for constrained
	// targets; pass it via [WithArenaSize] to reproduce that budget.
	TargetArenaSize = 512
)

// frame is the per-coroutine activation record. All frames live in storage
// allocated once at arena construction; the bump cursor only ever charges
// whole frames.
type frame struct {
	handle Handle
}

// frameSize is the number of arena bytes charged per coroutine frame.
const frameSize = int(unsafe.Sizeof(frame{}))

// Arena is a process-lifetime linear allocator for coroutine frames:
// a fixed byte budget consumed by a monotonic bump cursor. Deallocation is
// a no-op — frames outlive every awaitable referencing them, by
// construction — so total allocation is non-decreasing and spawning stops
// permanently once the budget is spent.
//
// Instances must be created with [NewArena] and must not be copied.
type Arena struct {
	_ [0]func() // prevent copying

	mu      sync.Mutex
	frames  []frame
	cursor  int
	size    int
	metrics *ArenaMetrics
}

// NewArena creates an arena with the configured byte budget
// (DefaultArenaSize unless overridden). The frame storage is allocated
// here, once; allocation never happens after construction.
func NewArena(opts ...ArenaOption) (*Arena, error) {
	cfg, err := resolveArenaOptions(opts)
	if err != nil {
		return nil, err
	}
	a := &Arena{
		frames: make([]frame, cfg.size/frameSize),
		size:   cfg.size,
	}
	if cfg.metrics {
		a.metrics = &ArenaMetrics{}
	}
	return a, nil
}

// Capacity returns the arena's byte budget.
func (a *Arena) Capacity() int {
	return a.size
}

// Allocated returns the cumulative bytes charged so far. Monotonic.
func (a *Arena) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}

// Metrics returns a snapshot of the arena's counters, zero when metrics
// were not enabled.
func (a *Arena) Metrics() ArenaMetricsSnapshot {
	return a.metrics.snapshot()
}

// allocFrame charges one frame against the bump cursor and returns its
// handle, initialized and ready to run. Returns nil once the cumulative
// charge would exceed the budget; the arena is monotonic, so there is no
// retry.
func (a *Arena) allocFrame() *Handle {
	a.mu.Lock()
	if a.cursor+frameSize > a.size {
		a.mu.Unlock()
		a.metrics.addSpawnFailure()
		logArena(LevelWarn, "frame allocation failed", ErrArenaExhausted, map[string]interface{}{
			"capacity": a.size,
			"cursor":   a.cursor,
		})
		return nil
	}
	f := &a.frames[a.cursor/frameSize]
	a.cursor += frameSize
	a.mu.Unlock()

	h := &f.handle
	h.id = taskIDCounter.Add(1)
	h.resume = make(chan struct{}, 1)
	h.yield = make(chan struct{})
	a.metrics.addSpawn(uint64(frameSize))
	logTask(LevelDebug, h.id, "frame allocated", nil, nil)
	return h
}
