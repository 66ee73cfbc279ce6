// internal/logging/log.go
package logging

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Logger wraps slog.Logger with the fields this tool logs consistently.
type Logger struct {
	*slog.Logger
}

// New returns a Logger writing to dst in the given format. Quiet discards
// everything below warning level.
func New(dst io.Writer, format string, quiet bool) *Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(dst, opts)
	} else {
		h = slog.NewTextHandler(dst, opts)
	}
	return &Logger{Logger: slog.New(h)}
}

// Noop discards all output.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithFile adds the input file name.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{Logger: l.Logger.With("file", path)}
}

// Progress rate-limits a recurring log line to at most one per interval.
// The first call always logs. A zero interval disables progress lines.
type Progress struct {
	log *Logger
	s   *rate.Sometimes
}

func NewProgress(l *Logger, every time.Duration) *Progress {
	if every <= 0 {
		return &Progress{}
	}
	return &Progress{log: l, s: &rate.Sometimes{First: 1, Interval: every}}
}

// Reads logs the number of reads processed so far.
func (p *Progress) Reads(n, matched int) {
	if p.s == nil {
		return
	}
	p.s.Do(func() {
		p.log.Info("progress", "reads", n, "matched", matched)
	})
}
