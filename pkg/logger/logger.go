// Package logger provides structured logging setup for the course
// discovery hub. It configures log/slog with JSON output, level parsing
// and context propagation, plus field helpers for domain identifiers.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Options configures the logger.
type Options struct {
	// Output is where log lines are written (default: os.Stdout).
	Output io.Writer

	// Level is the minimum level to emit.
	Level slog.Level

	// Format is "json" or "text" (default: "json").
	Format string

	// AddSource includes the caller file:line in each record.
	AddSource bool
}

// DefaultOptions returns sensible defaults for production.
func DefaultOptions() Options {
	return Options{
		Output: os.Stdout,
		Level:  slog.LevelInfo,
		Format: "json",
	}
}

// New creates a configured *slog.Logger.
func New(opts Options) *slog.Logger {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	}

	return slog.New(handler)
}

// ParseLevel parses a string into a slog.Level. Unknown values fall back
// to Info, a misconfigured level should never silence logs.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Context propagation
// ═══════════════════════════════════════════════════════════════════════════

type ctxKey struct{}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// ═══════════════════════════════════════════════════════════════════════════
// Domain field helpers
// ═══════════════════════════════════════════════════════════════════════════

// Err creates an error attribute with a stable key.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

func CourseID(id string) slog.Attr     { return slog.String("course_id", id) }
func UserID(id string) slog.Attr       { return slog.String("user_id", id) }
func DiscussionID(id string) slog.Attr { return slog.String("discussion_id", id) }
func JourneyID(id string) slog.Attr    { return slog.String("journey_id", id) }
func PlatformName(p string) slog.Attr  { return slog.String("platform", p) }
func Component(name string) slog.Attr  { return slog.String("component", name) }
func Operation(name string) slog.Attr  { return slog.String("operation", name) }

// Latency records an operation duration as a string.
func Latency(d time.Duration) slog.Attr { return slog.String("latency", d.String()) }
