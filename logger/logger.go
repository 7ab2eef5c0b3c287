// Package logger holds the application logger used outside the request path.
// Request lines are written by Echo's own logger.
package logger

import (
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface the application depends on.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Log is the process-wide logger. It logs at info until Init is called.
var Log Logger = New("info")

// Init replaces Log with a logger at the given level ("debug", "info", "warn", "error").
// Unknown or empty levels fall back to info.
func Init(level string) {
	Log = New(level)
}

// New builds a JSON console logger that emits records at level and above.
func New(level string) Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	max := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= max {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.TimeFormat = "2006-01-02T15:04:05Z07:00"
	}))
	return slog.NewWithHandlers(h)
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return discard{}
}

type discard struct{}

func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}
