package cosched

import (
	"github.com/joeycumines/logiface"
)

// LogifaceLogger adapts a generic logiface logger to the package [Logger]
// interface, so the scheduler core's structured entries flow into whatever
// backend the application wired (zerolog, logrus, slog, stumpy, ...).
//
// Install it via [SetStructuredLogger]:
//
//	cosched.SetStructuredLogger(cosched.NewLogifaceLogger(typedLogger.Logger()))
type LogifaceLogger struct {
	l *logiface.Logger[logiface.Event]
}

// NewLogifaceLogger wraps a generic logiface logger; obtain one from a
// typed logger via its Logger method. A nil argument panics.
func NewLogifaceLogger(l *logiface.Logger[logiface.Event]) *LogifaceLogger {
	if l == nil {
		panic(`cosched: nil logiface logger`)
	}
	return &LogifaceLogger{l: l}
}

// logifaceLevel maps the package's levels onto the syslog-style logiface
// levels.
func logifaceLevel(level LogLevel) logiface.Level {
	switch level {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	default:
		return logiface.LevelError
	}
}

// IsEnabled checks if the specified level would be logged
func (x *LogifaceLogger) IsEnabled(level LogLevel) bool {
	return logifaceLevel(level) <= x.l.Level()
}

// Log writes a structured log entry
func (x *LogifaceLogger) Log(entry LogEntry) {
	b := x.l.Build(logifaceLevel(entry.Level))
	if b == nil {
		return
	}
	if entry.Category != "" {
		b = b.Str("category", entry.Category)
	}
	if entry.TaskID != 0 {
		b = b.Uint64("task", entry.TaskID)
	}
	if entry.Err != nil {
		b = b.Err(entry.Err)
	}
	for k, v := range entry.Context {
		b = b.Field(k, v)
	}
	b.Log(entry.Message)
}
