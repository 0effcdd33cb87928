package logger

import (
	"fmt"
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level is a textual log level as accepted by --log-level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Logger is the structured logger used across csfix.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

// SetLevel changes the threshold of a live logger.
func (c *charmLogger) SetLevel(level Level) { c.l.SetLevel(level.charm()) }

// Leveler is implemented by loggers whose level can change after creation.
type Leveler interface {
	SetLevel(Level)
}

// ParseLevel validates a --log-level value.
func ParseLevel(value string) (Level, error) {
	switch lvl := Level(strings.ToLower(strings.TrimSpace(value))); lvl {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return lvl, nil
	case "":
		return WarnLevel, nil
	default:
		return "", fmt.Errorf("invalid --log-level value %q (expected debug|info|warn|error)", value)
	}
}

func (l Level) charm() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case InfoLevel:
		return charmlog.InfoLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.WarnLevel
	}
}

// New returns a text logger writing to w. Timestamps are omitted: the
// process is short-lived and the output is read interactively.
func New(w io.Writer, level Level) Logger {
	l := charmlog.NewWithOptions(w, charmlog.Options{
		Level:  level.charm(),
		Prefix: "csfix",
	})
	return &charmLogger{l: l}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
