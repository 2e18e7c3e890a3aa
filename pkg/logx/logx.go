package logx

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
)

// Level mirrors the gommon levels we expose
type Level = log.Lvl

const (
	LevelDebug Level = log.DEBUG
	LevelInfo  Level = log.INFO
	LevelWarn  Level = log.WARN
	LevelError Level = log.ERROR
	LevelOff   Level = log.OFF
)

const defaultHeader = "${time_rfc3339} ${level}"

var std = newLogger()

func newLogger() *log.Logger {
	l := log.New("intake")
	l.SetHeader(defaultHeader)
	l.SetOutput(os.Stdout)
	l.SetLevel(log.INFO)
	return l
}

// SetLevel changes the minimum level written by the package logger
func SetLevel(level Level) { std.SetLevel(level) }

// SetOutput redirects the package logger
func SetOutput(w io.Writer) { std.SetOutput(w) }

// SetHeader changes the gommon header template
func SetHeader(h string) { std.SetHeader(h) }

// ParseLevel maps a config string onto a Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "off", "none":
		return LevelOff
	default:
		return LevelInfo
	}
}

func Debug(args ...any)                 { std.Debug(args...) }
func Debugf(format string, args ...any) { std.Debugf(format, args...) }
func Info(args ...any)                  { std.Info(args...) }
func Infof(format string, args ...any)  { std.Infof(format, args...) }
func Warn(args ...any)                  { std.Warn(args...) }
func Warnf(format string, args ...any)  { std.Warnf(format, args...) }
func Error(args ...any)                 { std.Error(args...) }
func Errorf(format string, args ...any) { std.Errorf(format, args...) }
func Fatal(args ...any)                 { std.Fatal(args...) }
func Fatalf(format string, args ...any) { std.Fatalf(format, args...) }

// Fields are structured key/value pairs appended to a log line
type Fields map[string]any

// Entry is a logger bound to a set of fields
type Entry struct {
	fields Fields
}

// WithFields returns an Entry that appends fields to every message
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

// WithField is a shorthand for a single field
func WithField(key string, value any) *Entry {
	return &Entry{fields: Fields{key: value}}
}

// WithError binds err under the "error" key
func WithError(err error) *Entry {
	return WithField("error", err)
}

// WithFields merges more fields into the entry
func (e *Entry) WithFields(fields Fields) *Entry {
	merged := make(Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{fields: merged}
}

func (e *Entry) Debugf(format string, args ...any) { std.Debug(e.render(format, args...)) }
func (e *Entry) Infof(format string, args ...any)  { std.Info(e.render(format, args...)) }
func (e *Entry) Warnf(format string, args ...any)  { std.Warn(e.render(format, args...)) }
func (e *Entry) Errorf(format string, args ...any) { std.Error(e.render(format, args...)) }
func (e *Entry) Info(msg string)                   { std.Info(e.render("%s", msg)) }
func (e *Entry) Warn(msg string)                   { std.Warn(e.render("%s", msg)) }
func (e *Entry) Error(msg string)                  { std.Error(e.render("%s", msg)) }

func (e *Entry) render(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if len(e.fields) == 0 {
		return msg
	}

	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.fields[k])
	}
	return b.String()
}
