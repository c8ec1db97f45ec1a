package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgmcp/pkg/convert"
	"github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/observability"
	"github.com/matzehuels/svgmcp/pkg/output"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><rect width="100" height="100" fill="teal"/></svg>`

func newTestDispatcher(t *testing.T, opts ...Option) *Dispatcher {
	t.Helper()
	logger := log.New(io.Discard)
	pkgr := &output.Packager{Dir: t.TempDir(), Registry: output.NewRegistry()}
	return NewDispatcher(convert.NewConverter(pkgr, logger), logger, opts...)
}

func TestCallPNGBase64(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Call(context.Background(), NamePNG, Args{
		"svg_content":   square,
		"width":         float64(50),
		"height":        float64(200),
		"return_base64": true,
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if !resp.Success {
		t.Error("Success = false")
	}
	if resp.Result.MIMEType != "image/png" || resp.Result.FilePath != "" {
		t.Errorf("Result = %+v", resp.Result)
	}

	data, err := base64.StdEncoding.DecodeString(resp.Result.Base64Data)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 50 || cfg.Height != 200 {
		t.Errorf("size = %dx%d, want 50x200", cfg.Width, cfg.Height)
	}

	var content output.Result
	if err := json.Unmarshal([]byte(resp.Content), &content); err != nil {
		t.Fatalf("Content is not JSON: %v", err)
	}
	if content != *resp.Result {
		t.Error("Content does not match Result")
	}
}

func TestCallJPEGFile(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Call(context.Background(), NameJPEG, Args{
		"svg_content": square,
		"width":       json.Number("32"),
		"quality":     json.Number("90"),
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if resp.Result.MIMEType != "image/jpeg" || resp.Result.Base64Data != "" {
		t.Errorf("Result = %+v", resp.Result)
	}
	if !strings.HasSuffix(resp.Result.FilePath, ".jpg") {
		t.Errorf("FilePath = %q, want .jpg suffix", resp.Result.FilePath)
	}
	data, err := os.ReadFile(resp.Result.FilePath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeConfig() error = %v", err)
	}
	if cfg.Width != 32 || cfg.Height != 100 {
		t.Errorf("size = %dx%d, want 32x100", cfg.Width, cfg.Height)
	}
}

func TestCallAcceptsIntegerTypesAndNull(t *testing.T) {
	d := newTestDispatcher(t)

	resp, err := d.Call(context.Background(), NamePNG, Args{
		"svg_content":   square,
		"width":         12,
		"height":        uint16(8),
		"return_base64": nil,
	})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if resp.Result.FilePath == "" {
		t.Error("null return_base64 should default to file mode")
	}
}

func TestCallInvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    Args
		wantMsg string
	}{
		{"nil bag", NamePNG, nil, "missing arguments"},
		{"empty bag", NameJPEG, Args{}, "missing arguments"},
		{"missing svg", NamePNG, Args{"width": 10.0}, "missing svg_content"},
		{"null svg", NamePNG, Args{"svg_content": nil}, "missing svg_content"},
		{"svg not string", NamePNG, Args{"svg_content": 42.0}, "svg_content must be a string"},
		{"empty svg", NamePNG, Args{"svg_content": ""}, "svg_content cannot be empty"},
		{"fractional width", NamePNG, Args{"svg_content": square, "width": 10.5}, "width must be an integer"},
		{"negative height", NamePNG, Args{"svg_content": square, "height": -1.0}, "height must be an integer"},
		{"string width", NamePNG, Args{"svg_content": square, "width": "10"}, "width must be an integer"},
		{"width over uint32", NamePNG, Args{"svg_content": square, "width": 4294967296.0}, "width must be an integer"},
		{"quality over uint8", NameJPEG, Args{"svg_content": square, "quality": 256.0}, "quality must be an integer"},
		{"quality not number", NameJPEG, Args{"svg_content": square, "quality": true}, "quality must be an integer"},
		{"base64 not bool", NamePNG, Args{"svg_content": square, "return_base64": "yes"}, "return_base64 must be a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			resp, err := d.Call(context.Background(), tt.tool, tt.args)
			if resp != nil {
				t.Errorf("Call() response = %+v, want nil", resp)
			}
			if !errors.Is(err, errors.ErrCodeInvalidParams) {
				t.Fatalf("Call() error = %v, want INVALID_PARAMS", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Call() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCallPNGIgnoresQuality(t *testing.T) {
	d := newTestDispatcher(t)
	if _, err := d.Call(context.Background(), NamePNG, Args{"svg_content": square, "quality": "high", "return_base64": true}); err != nil {
		t.Errorf("Call() error = %v, want quality ignored for PNG", err)
	}
}

func TestCallUnknownTool(t *testing.T) {
	tests := []struct {
		name        string
		wantSuggest string
	}{
		{"svg_to_gif", ""},
		{"png", NamePNG},
		{"jpeg", NameJPEG},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			_, err := d.Call(context.Background(), tt.name, Args{"svg_content": square})
			if !errors.Is(err, errors.ErrCodeMethodNotFound) {
				t.Fatalf("Call() error = %v, want METHOD_NOT_FOUND", err)
			}
			msg := errors.UserMessage(err)
			if !strings.HasPrefix(msg, "unknown tool: "+tt.name) {
				t.Errorf("message = %q, want it to name the tool", msg)
			}
			if tt.wantSuggest != "" && !strings.Contains(msg, "did you mean "+tt.wantSuggest) {
				t.Errorf("message = %q, want suggestion %q", msg, tt.wantSuggest)
			}
			if tt.wantSuggest == "" && strings.Contains(msg, "did you mean") {
				t.Errorf("message = %q, want no suggestion", msg)
			}
		})
	}
}

func TestCallConversionFailures(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    Args
		prefix  string
		wrapped errors.Code
	}{
		{"malformed svg", NamePNG, Args{"svg_content": "<svg><rect"}, "PNG conversion failed: ", errors.ErrCodeParseFailure},
		{"zero width", NamePNG, Args{"svg_content": square, "width": 0.0}, "PNG conversion failed: ", errors.ErrCodeInvalidDimensions},
		{"quality above 100", NameJPEG, Args{"svg_content": square, "quality": 101.0}, "JPEG conversion failed: ", errors.ErrCodeInvalidParams},
		{"too large", NameJPEG, Args{"svg_content": square, "width": 4294967295.0, "height": 4294967295.0}, "JPEG conversion failed: ", errors.ErrCodeAllocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(t)
			_, err := d.Call(context.Background(), tt.tool, tt.args)
			if !errors.Is(err, errors.ErrCodeInternal) {
				t.Fatalf("Call() error = %v, want INTERNAL_ERROR", err)
			}
			if !errors.HasCode(err, tt.wrapped) {
				t.Errorf("Call() error = %v, want wrapped %v", err, tt.wrapped)
			}
			if msg := errors.UserMessage(err); !strings.HasPrefix(msg, tt.prefix) {
				t.Errorf("message = %q, want prefix %q", msg, tt.prefix)
			}
		})
	}
}

func TestCallDefaultQuality(t *testing.T) {
	sizeWith := func(opts ...Option) int {
		d := newTestDispatcher(t, opts...)
		resp, err := d.Call(context.Background(), NameJPEG, Args{"svg_content": busy, "return_base64": true})
		if err != nil {
			t.Fatalf("Call() error = %v", err)
		}
		return len(resp.Result.Base64Data)
	}

	if sizeWith(WithDefaultQuality(5)) == sizeWith(WithDefaultQuality(100)) {
		t.Error("default quality option had no effect")
	}
}

func TestCallRecoversPanics(t *testing.T) {
	observability.SetConversionHooks(panickingHooks{})
	defer observability.Reset()

	d := newTestDispatcher(t)
	resp, err := d.Call(context.Background(), NamePNG, Args{"svg_content": square})
	if resp != nil {
		t.Errorf("Call() response = %+v, want nil", resp)
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Call() error = %v, want INTERNAL_ERROR", err)
	}
}

func TestCallReportsToolHooks(t *testing.T) {
	hooks := &recordingToolHooks{}
	observability.SetToolHooks(hooks)
	defer observability.Reset()

	d := newTestDispatcher(t)
	_, _ = d.Call(context.Background(), NamePNG, Args{"svg_content": square, "return_base64": true})
	_, _ = d.Call(context.Background(), "nope", Args{"svg_content": square})

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []string{"svg_to_png:", "nope:METHOD_NOT_FOUND"}
	if len(hooks.results) != len(want) {
		t.Fatalf("results = %v, want %v", hooks.results, want)
	}
	for i := range want {
		if hooks.results[i] != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, hooks.results[i], want[i])
		}
	}
	if hooks.calls != 2 {
		t.Errorf("calls = %d, want 2", hooks.calls)
	}
}

func TestCallConcurrent(t *testing.T) {
	d := newTestDispatcher(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tool := NamePNG
			if i%2 == 1 {
				tool = NameJPEG
			}
			if _, err := d.Call(context.Background(), tool, Args{"svg_content": square, "width": float64(10 + i), "return_base64": true}); err != nil {
				t.Errorf("Call(%s) error = %v", tool, err)
			}
		}(i)
	}
	wg.Wait()
}

const busy = `<svg xmlns="http://www.w3.org/2000/svg" width="96" height="96">
  <circle cx="30" cy="30" r="25" fill="#e63946"/>
  <circle cx="66" cy="30" r="25" fill="#457b9d" stroke="#1d3557" stroke-width="4"/>
  <path d="M4 92 L30 50 L52 80 L70 58 L92 92 Z" fill="#2a9d8f"/>
</svg>`

type panickingHooks struct{ observability.NoopConversionHooks }

func (panickingHooks) OnConvertStart(context.Context, string) { panic("boom") }

type recordingToolHooks struct {
	mu      sync.Mutex
	calls   int
	results []string
}

func (h *recordingToolHooks) OnToolCall(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
}

func (h *recordingToolHooks) OnToolResult(_ context.Context, tool, code string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, tool+":"+code)
}
