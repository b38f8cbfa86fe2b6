package cosched

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/joeycumines/logiface"
)

// testEvent is a minimal logiface.Event implementation for testing the
// structured logging bridge.
type testEvent struct {
	logiface.UnimplementedEvent
	level  logiface.Level
	fields map[string]any
	msg    string
}

func (e *testEvent) Level() logiface.Level { return e.level }
func (e *testEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = map[string]any{}
	}
	e.fields[key] = val
}
func (e *testEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

// testEventFactory creates testEvent instances.
type testEventFactory struct{}

func (f *testEventFactory) NewEvent(level logiface.Level) *testEvent {
	return &testEvent{level: level}
}

// testEventWriter writes testEvent instances.
type testEventWriter struct {
	onWrite func(*testEvent) error
}

func (w *testEventWriter) Write(event *testEvent) error {
	if w.onWrite != nil {
		return w.onWrite(event)
	}
	return nil
}

func withGlobalLogger(t *testing.T, logger Logger) {
	t.Helper()
	SetStructuredLogger(logger)
	t.Cleanup(func() { SetStructuredLogger(nil) })
}

func TestLogLevel_String(t *testing.T) {
	for _, tc := range [...]struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, `DEBUG`},
		{LevelInfo, `INFO`},
		{LevelWarn, `WARN`},
		{LevelError, `ERROR`},
		{LogLevel(42), `UNKNOWN(42)`},
	} {
		if got := tc.level.String(); got != tc.want {
			t.Errorf(`%d: got %q, want %q`, tc.level, got, tc.want)
		}
	}
}

func TestNoOpLogger_IsDefault(t *testing.T) {
	SetStructuredLogger(nil)
	logger := getGlobalLogger()
	if logger.IsEnabled(LevelError) {
		t.Error(`default logger must be disabled`)
	}
	logger.Log(LogEntry{Level: LevelError, Message: `dropped`})
}

func TestDefaultLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelInfo)
	logger.Out = &buf
	withGlobalLogger(t, logger)

	logScheduler(LevelWarn, "insert dropped", ErrSchedulerFull, map[string]interface{}{"capacity": 10})
	logScheduler(LevelDebug, "suppressed", nil, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf(`got %d lines, want 1: %q`, len(lines), buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf(`invalid JSON: %v`, err)
	}
	if record[`level`] != `WARN` || record[`category`] != `scheduler` || record[`message`] != `insert dropped` {
		t.Errorf(`unexpected record: %v`, record)
	}
	if record[`error`] != ErrSchedulerFull.Error() || record[`capacity`] != float64(10) {
		t.Errorf(`unexpected record: %v`, record)
	}
}

func TestDefaultLogger_SetLevel(t *testing.T) {
	logger := NewDefaultLogger(LevelError)
	if logger.IsEnabled(LevelWarn) {
		t.Error(`warn enabled at error level`)
	}
	logger.SetLevel(LevelDebug)
	if !logger.IsEnabled(LevelDebug) {
		t.Error(`debug disabled at debug level`)
	}
}

// TestLogifaceLogger bridges the package logger into logiface and checks
// the structured fields survive the trip.
func TestLogifaceLogger(t *testing.T) {
	var events []*testEvent
	writer := &testEventWriter{onWrite: func(event *testEvent) error {
		events = append(events, event)
		return nil
	}}
	factory := &testEventFactory{}
	typedLogger := logiface.New[*testEvent](
		logiface.WithEventFactory[*testEvent](factory),
		logiface.WithWriter[*testEvent](writer),
		logiface.WithLevel[*testEvent](logiface.LevelDebug),
	)

	bridge := NewLogifaceLogger(typedLogger.Logger())
	withGlobalLogger(t, bridge)

	if !bridge.IsEnabled(LevelDebug) {
		t.Fatal(`debug not enabled`)
	}

	logTask(LevelWarn, 7, "frame allocated", ErrArenaExhausted, map[string]interface{}{"capacity": 512})

	if len(events) != 1 {
		t.Fatalf(`got %d events, want 1`, len(events))
	}
	event := events[0]
	if event.level != logiface.LevelWarning {
		t.Errorf(`level %v, want warning`, event.level)
	}
	if event.msg != `frame allocated` {
		t.Errorf(`message %q`, event.msg)
	}
	if event.fields[`category`] != `task` {
		t.Errorf(`fields %v`, event.fields)
	}
	// Uint64 falls back to decimal-string encoding on events without
	// native uint64 support.
	if event.fields[`task`] != `7` {
		t.Errorf(`fields %v`, event.fields)
	}
	if event.fields[`capacity`] != 512 {
		t.Errorf(`fields %v`, event.fields)
	}
}

func TestNewLogifaceLogger_Nil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error(`expected panic`)
		}
	}()
	NewLogifaceLogger(nil)
}

// TestScheduledPathsLog exercises the log-emitting failure paths with the
// structured logger installed, so the entries are actually constructed.
func TestScheduledPathsLog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelDebug)
	logger.Out = &buf
	withGlobalLogger(t, logger)

	s, err := NewUnorderedScheduler(WithCapacity(1))
	if err != nil {
		t.Fatal(err)
	}
	s.Insert(newParkedHandle())
	s.Insert(newParkedHandle()) // dropped, logged

	arena, err := NewArena(WithArenaSize(frameSize))
	if err != nil {
		t.Fatal(err)
	}
	Spawn(arena, func(co *Coroutine) {})
	Spawn(arena, func(co *Coroutine) {}) // exhausted, logged

	out := buf.String()
	for _, want := range [...]string{`"unordered"`, `"arena"`, `insert dropped`, `frame allocation failed`} {
		if !strings.Contains(out, want) {
			t.Errorf(`log output missing %q: %s`, want, out)
		}
	}
}
