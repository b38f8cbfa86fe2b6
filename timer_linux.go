//go:build linux

package cosched

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// TimerFDDriver is a [TimerDriver] backed by a kernel timerfd on the
// monotonic clock. A dedicated goroutine blocks reading the descriptor and
// invokes the handler on each expiry; that goroutine is the interrupt
// context.
type TimerFDDriver struct {
	handler func()
	fd      int

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewTimerFDDriver creates a disarmed timerfd-backed driver firing handler
// on expiry.
func NewTimerFDDriver(handler func()) (*TimerFDDriver, error) {
	if handler == nil {
		panic(`cosched: timer: nil handler`)
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	t := &TimerFDDriver{
		handler: handler,
		fd:      fd,
		done:    make(chan struct{}),
	}
	go t.wait()
	return t, nil
}

// SetTimeCmp arms the timer to fire once offset from now, replacing any
// pending compare point. A non-positive offset fires as soon as the wait
// goroutine is scheduled.
func (t *TimerFDDriver) SetTimeCmp(offset time.Duration) {
	if offset <= 0 {
		// timerfd treats an all-zero value as disarm; the smallest
		// representable offset preserves fire-immediately semantics.
		offset = time.Nanosecond
	}
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(offset.Nanoseconds())}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	if err := unix.TimerfdSettime(t.fd, 0, &spec, nil); err != nil {
		logIRQ(LevelError, "timerfd settime failed", err, nil)
	}
}

// Close disarms the timer, stops the wait goroutine, and closes the
// descriptor. The handler does not fire after Close returns.
func (t *TimerFDDriver) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	// Kick the wait goroutine out of its blocking read; the descriptor is
	// only closed once it has exited.
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(1)}
	_ = unix.TimerfdSettime(t.fd, 0, &spec, nil)
	t.mu.Unlock()
	<-t.done
	return unix.Close(t.fd)
}

func (t *TimerFDDriver) wait() {
	defer close(t.done)
	var buf [8]byte
	for {
		n, err := unix.Read(t.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}
		if err != nil || n != 8 {
			logIRQ(LevelError, "timerfd read failed", err, nil)
			return
		}
		t.handler()
	}
}
