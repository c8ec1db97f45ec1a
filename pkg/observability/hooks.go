// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through the hooks registered here;
// the default hooks do nothing. Consumers register their own
// implementations once at startup:
//
//	func main() {
//	    observability.SetConversionHooks(&myConversionHooks{})
//	    observability.SetToolHooks(&myToolHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Conversion().OnConvertStart(ctx, "png")
//	// ... rasterize and encode ...
//	observability.Conversion().OnConvertComplete(ctx, "png", w, h, n, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Conversion Hooks
// =============================================================================

// ConversionHooks receives events from the SVG conversion service.
type ConversionHooks interface {
	OnConvertStart(ctx context.Context, format string)
	// OnConvertComplete reports the final raster size and encoded byte
	// count; both are zero on failure.
	OnConvertComplete(ctx context.Context, format string, width, height, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Tool Hooks
// =============================================================================

// ToolHooks receives events from the tool dispatcher.
type ToolHooks interface {
	// OnToolCall records an incoming invocation before argument checks.
	OnToolCall(ctx context.Context, tool string)

	// OnToolResult records the outcome; code is empty on success.
	OnToolResult(ctx context.Context, tool string, code string, duration time.Duration)
}

// =============================================================================
// Output Hooks
// =============================================================================

// OutputHooks receives events from the output packager.
type OutputHooks interface {
	// OnFileEmitted records a file created and handed over to the caller.
	OnFileEmitted(ctx context.Context, path string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopConversionHooks is a no-op implementation of ConversionHooks.
type NoopConversionHooks struct{}

func (NoopConversionHooks) OnConvertStart(context.Context, string) {}
func (NoopConversionHooks) OnConvertComplete(context.Context, string, int, int, int, time.Duration, error) {
}

// NoopToolHooks is a no-op implementation of ToolHooks.
type NoopToolHooks struct{}

func (NoopToolHooks) OnToolCall(context.Context, string)                          {}
func (NoopToolHooks) OnToolResult(context.Context, string, string, time.Duration) {}

// NoopOutputHooks is a no-op implementation of OutputHooks.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnFileEmitted(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	conversionHooks ConversionHooks = NoopConversionHooks{}
	toolHooks       ToolHooks       = NoopToolHooks{}
	outputHooks     OutputHooks     = NoopOutputHooks{}
	hooksMu         sync.RWMutex
)

// SetConversionHooks registers custom conversion hooks.
// This should be called once at application startup before any conversions.
func SetConversionHooks(h ConversionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		conversionHooks = h
	}
}

// SetToolHooks registers custom tool hooks.
func SetToolHooks(h ToolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		toolHooks = h
	}
}

// SetOutputHooks registers custom output hooks.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
	}
}

// Conversion returns the registered conversion hooks.
func Conversion() ConversionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return conversionHooks
}

// Tools returns the registered tool hooks.
func Tools() ToolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return toolHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	conversionHooks = NoopConversionHooks{}
	toolHooks = NoopToolHooks{}
	outputHooks = NoopOutputHooks{}
}
