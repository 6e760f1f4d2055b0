package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// sentryTransport replaces the Sentry SDK transport when set. Tests use it.
var sentryTransport sentry.Transport

type Options struct {
	Level     string // debug, info, warn, error
	Format    string // text or json; empty picks text in dev and json otherwise
	Dev       bool
	SentryDSN string
}

// Init installs the global logger. Output goes to stderr so stdout stays
// clean for command output. Errors are also sent to Sentry when a DSN is set.
func Init(opts Options) {
	Log = New(os.Stderr, opts)
	slog.SetDefault(Log)
}

func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handlers []slog.Handler
	format := opts.Format
	if format == "" {
		format = "json"
		if opts.Dev {
			format = "text"
		}
	}
	if format == "json" {
		handlers = append(handlers, slog.NewJSONHandler(w, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(w, hopts))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: environment(opts.Dev),
			Transport:   sentryTransport,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}
	return slog.New(handler)
}

// Flush waits up to timeout for queued Sentry events. It is a no-op when
// Sentry is not configured.
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}

// ParseLevel maps a config level name to a slog level. Unknown names give
// warn.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func environment(dev bool) string {
	if dev {
		return "development"
	}
	return "production"
}
