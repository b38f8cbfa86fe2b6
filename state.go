package cosched

import (
	"sync/atomic"
)

// TaskState represents the lifecycle state of a coroutine handle.
//
// State machine:
//
//	StateRunning (0) → StateSuspended (1)   [park at an await]
//	StateSuspended (1) → StateRunning (0)   [resume via CAS]
//	StateRunning (0) → StateDone (2)        [body returned or panicked]
//
// StateDone is terminal. Transitions into StateRunning use TryTransition
// (CAS) so a racing double-resume loses cleanly. Transitions into
// StateSuspended and StateDone use Store: only the running coroutine's own
// goroutine makes them.
type TaskState uint32

const (
	// StateRunning indicates the coroutine body is executing (or about to).
	StateRunning TaskState = 0
	// StateSuspended indicates the coroutine is parked on a scheduler.
	StateSuspended TaskState = 1
	// StateDone indicates the coroutine body has finished.
	StateDone TaskState = 2
)

// String returns a human-readable representation of the state.
func (s TaskState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateSuspended:
		return "Suspended"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// taskState is a lock-free state holder for a coroutine handle.
type taskState struct {
	v atomic.Uint32
}

// Load returns the current state atomically.
func (s *taskState) Load() TaskState {
	return TaskState(s.v.Load())
}

// Store atomically stores a new state. Used for the transitions the running
// coroutine makes itself (into StateSuspended or StateDone); transitions
// that may race go through TryTransition.
func (s *taskState) Store(state TaskState) {
	s.v.Store(uint32(state))
}

// TryTransition attempts to atomically transition from one state to
// another, reporting whether it succeeded.
func (s *taskState) TryTransition(from, to TaskState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}
