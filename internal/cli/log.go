package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgmcp/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Converted 1 file (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Context
// =============================================================================

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports conversion, tool and output events to a logger at debug
// level. serve registers it at startup.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.ConversionHooks = logHooks{}
	_ observability.ToolHooks       = logHooks{}
	_ observability.OutputHooks     = logHooks{}
)

func (h logHooks) OnConvertStart(_ context.Context, format string) {
	h.logger.Debug("conversion started", "format", format)
}

func (h logHooks) OnConvertComplete(_ context.Context, format string, width, height, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion failed", "format", format, "error", err, "duration", d)
		return
	}
	h.logger.Debug("conversion finished", "format", format, "width", width, "height", height, "bytes", bytes, "duration", d)
}

func (h logHooks) OnToolCall(_ context.Context, tool string) {
	h.logger.Debug("tool call", "tool", tool)
}

func (h logHooks) OnToolResult(_ context.Context, tool, code string, d time.Duration) {
	if code != "" {
		h.logger.Debug("tool call failed", "tool", tool, "code", code, "duration", d)
		return
	}
	h.logger.Debug("tool call succeeded", "tool", tool, "duration", d)
}

func (h logHooks) OnFileEmitted(_ context.Context, path string, size int) {
	h.logger.Debug("file emitted", "path", path, "bytes", size)
}

// registerLogHooks installs logHooks for every event category.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetConversionHooks(h)
	observability.SetToolHooks(h)
	observability.SetOutputHooks(h)
}
