package cosched

import (
	"sync"
)

// IRQ models a single interrupt line for host use: a zero-argument handler
// is installed once, enabled, and then invoked synchronously on whatever
// goroutine calls [IRQ.Trigger] — that goroutine is the "interrupt
// context" for the duration of the call. The scheduler core only requires
// that [UnorderedScheduler.Resume] be callable inside the handler.
//
// Triggers delivered while the line is disabled, or before a handler is
// installed, are dropped (edges are not pended).
type IRQ struct {
	mu      sync.Mutex
	handler func()
	enabled bool
}

// NewIRQ creates a disabled interrupt line with no handler.
func NewIRQ() *IRQ {
	return &IRQ{}
}

// Install sets the interrupt handler, replacing any previous one.
func (i *IRQ) Install(handler func()) {
	i.mu.Lock()
	i.handler = handler
	i.mu.Unlock()
}

// Enable arms the line.
func (i *IRQ) Enable() {
	i.mu.Lock()
	i.enabled = true
	i.mu.Unlock()
}

// Disable masks the line; subsequent triggers are dropped until Enable.
func (i *IRQ) Disable() {
	i.mu.Lock()
	i.enabled = false
	i.mu.Unlock()
}

// Trigger delivers one edge, running the installed handler synchronously
// on the calling goroutine. The handler runs outside the line's internal
// lock, so it may freely Enable, Disable, or re-Trigger.
func (i *IRQ) Trigger() {
	i.mu.Lock()
	handler := i.handler
	enabled := i.enabled
	i.mu.Unlock()
	if !enabled || handler == nil {
		logIRQ(LevelDebug, "edge dropped", nil, map[string]interface{}{"enabled": enabled})
		return
	}
	handler()
}
