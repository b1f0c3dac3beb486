// Package cli implements the cardstack command-line interface.
//
// This package provides commands for computing card stack layouts, rendering
// them to files, dragging cards around in an interactive terminal view, and
// serving rendered previews over HTTP. The CLI is built using cobra and logs
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute one layout pass and print or export the snapshot
//   - render: Generate SVG, PNG, DOT, occlusion graph or JSON output
//   - play: Scroll, expose and drag cards of a stored deck in the terminal
//   - deck: Create, list, show and delete stored decks
//   - serve: Run the preview server
//   - config, cache: Manage the configuration file and the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the command logger. Timestamps are "HH:MM:SS.ms"
// (e.g., "14:32:01.45"); the play view passes a file or io.Discard as w
// since it owns the terminal.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline stage and logs it with its key-values.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with an "elapsed" key appended to keyvals,
// e.g. "Computed exposed layout cards=6 cached=false elapsed=3ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx; the root command does this for every
// subcommand.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() for contexts built outside the root command (tests, the
// server's request contexts).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
