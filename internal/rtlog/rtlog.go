// Package rtlog is the runtime's internal logging facade. It follows the
// same separation the logiface family of packages uses: callers build up a
// structured event through a narrow interface and never touch the backend
// directly, so the backend can be swapped (zerolog in production, a no-op
// sink in tests) without touching call sites.
package rtlog

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level mirrors the small, closed level set logiface defines, rather than
// zerolog's larger one, since this module only ever needs a handful.
type Level int8

const (
	LevelDisabled Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

// Event accumulates fields for a single log line. Nil-receiver-safe so a
// disabled level can return a (*Event)(nil) and every chained call is a
// no-op, the same trick zerolog's own *zerolog.Event uses.
type Event struct {
	zev *zerolog.Event
}

func (e *Event) Str(key, val string) *Event {
	if e == nil {
		return nil
	}
	e.zev.Str(key, val)
	return e
}

func (e *Event) Int(key string, val int) *Event {
	if e == nil {
		return nil
	}
	e.zev.Int(key, val)
	return e
}

func (e *Event) Int64(key string, val int64) *Event {
	if e == nil {
		return nil
	}
	e.zev.Int64(key, val)
	return e
}

func (e *Event) Dur(key string, val time.Duration) *Event {
	if e == nil {
		return nil
	}
	e.zev.Dur(key, val)
	return e
}

func (e *Event) Err(err error) *Event {
	if e == nil {
		return nil
	}
	e.zev.Err(err)
	return e
}

func (e *Event) Bool(key string, val bool) *Event {
	if e == nil {
		return nil
	}
	e.zev.Bool(key, val)
	return e
}

func (e *Event) Msg(msg string) {
	if e == nil {
		return
	}
	e.zev.Msg(msg)
}

// Logger is the facade's entry point. The zero value is a disabled logger
// (every level gate returns nil), matching logiface's "zero value doesn't
// panic, logs nothing" contract for Event.
type Logger struct {
	z       zerolog.Logger
	enabled bool
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = Logger{}
)

// Configure installs the process-wide default logger, writing JSON lines to
// w (os.Stderr in production, io.Discard or a test buffer otherwise) at or
// above level.
func Configure(w io.Writer, level Level) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = New(w, level)
}

// New builds a standalone Logger writing to w.
func New(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(toZerolog(level))
	return Logger{z: zl, enabled: level != LevelDisabled}
}

// Default returns the process-wide logger, defaulting to a stderr console
// writer at Info if Configure was never called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if !defaultLogger.enabled {
		return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, LevelInfo)
	}
	return defaultLogger
}

func toZerolog(l Level) zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.Disabled
	}
}

func (l Logger) event(level Level, zl func() *zerolog.Event) *Event {
	if toZerolog(level) < l.z.GetLevel() || l.z.GetLevel() == zerolog.Disabled {
		return nil
	}
	ev := zl()
	if ev == nil {
		return nil
	}
	return &Event{zev: ev}
}

func (l Logger) Debug() *Event { return l.event(LevelDebug, l.z.Debug) }
func (l Logger) Info() *Event  { return l.event(LevelInfo, l.z.Info) }
func (l Logger) Warn() *Event  { return l.event(LevelWarn, l.z.Warn) }
func (l Logger) Error() *Event { return l.event(LevelError, l.z.Error) }

// With returns a child logger carrying an additional "component" field,
// so a caller (cmd/mintlibdemo, for one) can tag its log lines without
// hand-rolling the With().Str(...) boilerplate.
func (l Logger) With(component string) Logger {
	l.z = l.z.With().Str("component", component).Logger()
	return l
}
