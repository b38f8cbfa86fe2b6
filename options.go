package cosched

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the per-scheduler waiting-list capacity unless
// overridden via [WithCapacity].
const DefaultCapacity = 10

var errNilClock = errors.New("cosched: nil clock")

// schedulerOptions holds configuration options for scheduler creation.
type schedulerOptions struct {
	capacity   int
	metrics    bool
	onOverload func(error)
}

// --- Scheduler Options ---

// SchedulerOption configures a scheduler instance.
type SchedulerOption interface {
	applyScheduler(*schedulerOptions) error
}

// schedulerOptionImpl implements SchedulerOption.
type schedulerOptionImpl struct {
	applySchedulerFunc func(*schedulerOptions) error
}

func (o *schedulerOptionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.applySchedulerFunc(opts)
}

// WithCapacity sets the fixed waiting-list capacity. The list never grows;
// insertions beyond the capacity are dropped.
func WithCapacity(capacity int) SchedulerOption {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		if capacity <= 0 {
			return fmt.Errorf("cosched: invalid scheduler capacity %d", capacity)
		}
		opts.capacity = capacity
		return nil
	}}
}

// WithSchedulerMetrics enables runtime metrics collection on the
// scheduler, accessible via its Metrics method. Adds one atomic update per
// insert/resume; disabled by default.
func WithSchedulerMetrics(enabled bool) SchedulerOption {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		opts.metrics = enabled
		return nil
	}}
}

// WithOnOverload installs a hook invoked whenever an insertion is dropped
// because the waiting list is full. The hook runs on whichever goroutine
// attempted the insertion.
func WithOnOverload(fn func(error)) SchedulerOption {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		opts.onOverload = fn
		return nil
	}}
}

// resolveSchedulerOptions applies SchedulerOption instances to
// schedulerOptions.
func resolveSchedulerOptions(opts []SchedulerOption) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		capacity: DefaultCapacity, // default
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// arenaOptions holds configuration options for Arena creation.
type arenaOptions struct {
	size    int
	metrics bool
}

// --- Arena Options ---

// ArenaOption configures an Arena instance.
type ArenaOption interface {
	applyArena(*arenaOptions) error
}

// arenaOptionImpl implements ArenaOption.
type arenaOptionImpl struct {
	applyArenaFunc func(*arenaOptions) error
}

func (o *arenaOptionImpl) applyArena(opts *arenaOptions) error {
	return o.applyArenaFunc(opts)
}

// WithArenaSize sets the arena's byte budget. Sizes smaller than one
// coroutine frame are rejected — such an arena could never spawn anything.
func WithArenaSize(size int) ArenaOption {
	return &arenaOptionImpl{func(opts *arenaOptions) error {
		if size < frameSize {
			return fmt.Errorf("cosched: arena size %d below frame size %d", size, frameSize)
		}
		opts.size = size
		return nil
	}}
}

// WithArenaMetrics enables runtime metrics collection on the arena,
// accessible via its Metrics method.
func WithArenaMetrics(enabled bool) ArenaOption {
	return &arenaOptionImpl{func(opts *arenaOptions) error {
		opts.metrics = enabled
		return nil
	}}
}

// resolveArenaOptions applies ArenaOption instances to arenaOptions.
func resolveArenaOptions(opts []ArenaOption) (*arenaOptions, error) {
	cfg := &arenaOptions{
		size: DefaultArenaSize, // default
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyArena(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
