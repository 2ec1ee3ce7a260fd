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

// Options controls how the process-wide logger is built.
type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	Output      io.Writer // defaults to os.Stdout
}

// Init installs the default slog logger and returns a flush function that
// must run before the process exits so buffered Sentry events are sent.
//
// Development: text output at debug level.
// Production: JSON output at info level.
// With a Sentry DSN, error records are also forwarded to Sentry.
func Init(opts Options) (flush func()) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlers := []slog.Handler{newStdoutHandler(out, opts.Development)}

	flush = func() {}
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Environment,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	slog.SetDefault(slog.New(handler))
	if opts.SentryDSN != "" {
		slog.Info("sentry error reporting enabled", "environment", opts.Environment)
	}

	return flush
}

func newStdoutHandler(out io.Writer, isDev bool) slog.Handler {
	if isDev {
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
}
