package cosched

import (
	"sync/atomic"
)

// SchedulerMetrics tracks runtime statistics for a scheduler. Metrics are
// optional (see [WithSchedulerMetrics]) and designed to be low-overhead:
// one atomic add per counted event, safe from any goroutine.
type SchedulerMetrics struct {
	inserts     atomic.Uint64
	insertDrops atomic.Uint64
	resumes     atomic.Uint64
}

// SchedulerMetricsSnapshot is a point-in-time copy of a scheduler's
// counters, safe for concurrent reads.
type SchedulerMetricsSnapshot struct {
	// Inserts counts accepted insertions.
	Inserts uint64
	// InsertDrops counts insertions dropped at capacity.
	InsertDrops uint64
	// Resumes counts coroutine resumptions performed by the scheduler.
	Resumes uint64
}

// The nil receiver is the disabled state; every recording method tolerates
// it so call sites stay unconditional.

func (m *SchedulerMetrics) addInsert() {
	if m != nil {
		m.inserts.Add(1)
	}
}

func (m *SchedulerMetrics) addInsertDrop() {
	if m != nil {
		m.insertDrops.Add(1)
	}
}

func (m *SchedulerMetrics) addResume() {
	if m != nil {
		m.resumes.Add(1)
	}
}

func (m *SchedulerMetrics) snapshot() SchedulerMetricsSnapshot {
	if m == nil {
		return SchedulerMetricsSnapshot{}
	}
	return SchedulerMetricsSnapshot{
		Inserts:     m.inserts.Load(),
		InsertDrops: m.insertDrops.Load(),
		Resumes:     m.resumes.Load(),
	}
}

// ArenaMetrics tracks runtime statistics for a task arena, optional via
// [WithArenaMetrics].
type ArenaMetrics struct {
	spawns         atomic.Uint64
	spawnFailures  atomic.Uint64
	bytesAllocated atomic.Uint64
}

// ArenaMetricsSnapshot is a point-in-time copy of an arena's counters.
type ArenaMetricsSnapshot struct {
	// Spawns counts successful frame allocations.
	Spawns uint64
	// SpawnFailures counts allocations rejected at capacity.
	SpawnFailures uint64
	// BytesAllocated is the cumulative bytes charged; monotonic.
	BytesAllocated uint64
}

func (m *ArenaMetrics) addSpawn(size uint64) {
	if m != nil {
		m.spawns.Add(1)
		m.bytesAllocated.Add(size)
	}
}

func (m *ArenaMetrics) addSpawnFailure() {
	if m != nil {
		m.spawnFailures.Add(1)
	}
}

func (m *ArenaMetrics) snapshot() ArenaMetricsSnapshot {
	if m == nil {
		return ArenaMetricsSnapshot{}
	}
	return ArenaMetricsSnapshot{
		Spawns:         m.spawns.Load(),
		SpawnFailures:  m.spawnFailures.Load(),
		BytesAllocated: m.bytesAllocated.Load(),
	}
}
