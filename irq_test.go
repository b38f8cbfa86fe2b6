package cosched

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRQ_TriggerLifecycle(t *testing.T) {
	irq := NewIRQ()
	var fired int

	// No handler, disabled: dropped.
	irq.Trigger()
	assert.Zero(t, fired)

	irq.Install(func() { fired++ })

	// Installed but still masked: dropped.
	irq.Trigger()
	assert.Zero(t, fired)

	irq.Enable()
	irq.Trigger()
	assert.Equal(t, 1, fired)
	irq.Trigger()
	assert.Equal(t, 2, fired)

	irq.Disable()
	irq.Trigger()
	assert.Equal(t, 2, fired)
}

func TestIRQ_HandlerMayRetrigger(t *testing.T) {
	irq := NewIRQ()
	var fired int
	irq.Install(func() {
		fired++
		if fired == 1 {
			// Re-entry from within the handler must not deadlock.
			irq.Trigger()
		}
	})
	irq.Enable()
	irq.Trigger()
	assert.Equal(t, 2, fired)
}

func TestIRQ_InstallReplaces(t *testing.T) {
	irq := NewIRQ()
	var first, second int
	irq.Install(func() { first++ })
	irq.Enable()
	irq.Install(func() { second++ })
	irq.Trigger()
	assert.Zero(t, first)
	assert.Equal(t, 1, second)
}

// TestIRQ_SignalsUnorderedScheduler is the interrupt-driven shape: a timer
// goroutine triggers the line, the handler resumes the latch, and the
// suspended coroutine advances — all without the spawning goroutine
// resuming anything itself.
func TestIRQ_SignalsUnorderedScheduler(t *testing.T) {
	latch, err := NewUnorderedScheduler()
	require.NoError(t, err)
	arena, err := NewArena()
	require.NoError(t, err)

	const iterations = 3
	var count atomic.Int32
	task := Spawn(arena, func(co *Coroutine) {
		for i := 0; i < iterations; i++ {
			co.Await(latch.Wait())
			count.Add(1)
		}
	})

	irq := NewIRQ()
	var timer *ClockTimerDriver
	irq.Install(func() {
		latch.Resume()
		if !task.Done() {
			timer.SetTimeCmp(time.Millisecond)
		}
	})
	irq.Enable()

	timer = NewClockTimerDriver(clock.New(), irq.Trigger)
	defer timer.Close()
	timer.SetTimeCmp(time.Millisecond)

	require.Eventually(t, task.Done, 5*time.Second, time.Millisecond)
	assert.Equal(t, int32(iterations), count.Load())
}
