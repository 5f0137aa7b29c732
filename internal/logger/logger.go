// Package logger configures structured logging for the server. Production
// environments emit JSON; everything else gets a colorized console format.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Logger wraps slog.Logger so packages depend on one concrete type.
type Logger struct {
	*slog.Logger
}

// Config controls output destination and verbosity.
type Config struct {
	Writer      io.Writer
	Format      string // "json" or "console"; derived from Environment when empty
	Environment string
	Level       slog.Level
	AddSource   bool
}

// New builds a logger from cfg. A nil Writer defaults to stdout.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}

	format := cfg.Format
	if format == "" {
		format = "console"
		if cfg.Environment == "production" {
			format = "json"
		}
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
		ReplaceAttr: trimSourcePath,
	}

	if format == "json" {
		return &Logger{Logger: slog.New(slog.NewJSONHandler(w, opts))}
	}
	return &Logger{Logger: slog.New(newConsoleHandler(w, opts))}
}

// trimSourcePath drops the directory prefix from source attributes.
func trimSourcePath(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if src, ok := a.Value.Any().(*slog.Source); ok {
			src.File = filepath.Base(src.File)
		}
	}
	return a
}

// ParseLevel maps a config string to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	ansiReset = "\033[0m"
	ansiFaint = "\033[2m"
	ansiBold  = "\033[1m"
)

var levelStyles = map[slog.Level]struct {
	label string
	color string
}{
	slog.LevelDebug: {"DEBUG", "\033[35m"},
	slog.LevelInfo:  {"INFO ", "\033[32m"},
	slog.LevelWarn:  {"WARN ", "\033[33m"},
	slog.LevelError: {"ERROR", "\033[31m"},
}

// consoleHandler renders records as single colorized lines:
//
//	12:04:31 INFO  Server listening addr=:8080 env=development
type consoleHandler struct {
	opts  *slog.HandlerOptions
	out   io.Writer
	attrs []slog.Attr
	group string
}

func newConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *consoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &consoleHandler{opts: opts, out: w}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.Grow(128)

	fmt.Fprintf(&b, "%s%s%s ", ansiFaint, r.Time.Format("15:04:05"), ansiReset)

	style, ok := levelStyles[r.Level]
	if !ok {
		style.label = r.Level.String()
		style.color = ansiFaint
	}
	b.WriteString(style.color)
	b.WriteString(style.label)
	b.WriteString(ansiReset)
	b.WriteByte(' ')

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		fmt.Fprintf(&b, "%s%s:%d%s ", ansiFaint, filepath.Base(frame.File), frame.Line, ansiReset)
	}

	b.WriteString(ansiBold)
	b.WriteString(r.Message)
	b.WriteString(ansiReset)

	for _, a := range h.attrs {
		h.writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&b, a)
		return true
	})

	b.WriteByte('\n')
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *consoleHandler) writeAttr(b *strings.Builder, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(b, " %s%s=%s%s", ansiFaint, key, renderValue(a.Value), ansiReset)
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.String()
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}
