package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/svgmcp/pkg/convert"
	"github.com/matzehuels/svgmcp/pkg/encode"
	"github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/observability"
	"github.com/matzehuels/svgmcp/pkg/output"
)

// Response is the envelope of a successful call.
type Response struct {
	Success bool           `json:"success"`
	Result  *output.Result `json:"result"`
	// Content is the JSON text of Result, the form transports forward.
	Content string `json:"-"`
}

// Dispatcher maps tool calls onto the conversion service. It holds no
// per-call state and is safe for concurrent use.
type Dispatcher struct {
	converter      *convert.Converter
	logger         *log.Logger
	defaultQuality int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDefaultQuality sets the JPEG quality used when a call gives none.
func WithDefaultQuality(q int) Option {
	return func(d *Dispatcher) { d.defaultQuality = q }
}

// NewDispatcher creates a dispatcher backed by conv.
// If conv is nil, a converter with default settings is used.
// If logger is nil, log.Default() is used.
func NewDispatcher(conv *convert.Converter, logger *log.Logger, opts ...Option) *Dispatcher {
	if conv == nil {
		conv = convert.NewConverter(nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	d := &Dispatcher{
		converter:      conv,
		logger:         logger,
		defaultQuality: encode.DefaultQuality,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call runs the named tool with args.
//
// The returned error is always an *errors.Error:
//   - METHOD_NOT_FOUND for an unknown tool name
//   - INVALID_PARAMS for a missing argument bag or a missing or wrong-typed field
//   - INTERNAL_ERROR for any conversion failure, wrapping the service error
//
// A panic during the call is recovered and reported as INTERNAL_ERROR.
func (d *Dispatcher) Call(ctx context.Context, name string, args Args) (resp *Response, err error) {
	start := time.Now()
	observability.Tools().OnToolCall(ctx, name)
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool call panicked", "tool", name, "panic", r)
			resp, err = nil, errors.New(errors.ErrCodeInternal, "%s failed: %v", name, r)
		}
		code := ""
		if err != nil {
			code = string(errors.GetCode(err))
		}
		observability.Tools().OnToolResult(ctx, name, code, time.Since(start))
	}()

	desc, ok := Lookup(name)
	if !ok {
		return nil, unknownTool(name)
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParams, "missing arguments")
	}

	req, err := d.request(desc, args)
	if err != nil {
		return nil, err
	}

	res, err := d.converter.Convert(ctx, req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s conversion failed", desc.Format().Label())
	}

	content, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	d.logger.Debug("tool call", "tool", name, "mime_type", res.MIMEType, "duration", time.Since(start))
	return &Response{Success: true, Result: res, Content: string(content)}, nil
}

// request validates args against the tool's fields and builds a typed
// conversion request.
func (d *Dispatcher) request(desc Descriptor, args Args) (convert.Request, error) {
	svg, err := args.requiredString("svg_content")
	if err != nil {
		return convert.Request{}, err
	}
	if err := errors.ValidateSVGContent(svg); err != nil {
		return convert.Request{}, err
	}
	width, err := args.optionalUint("width", math.MaxUint32)
	if err != nil {
		return convert.Request{}, err
	}
	height, err := args.optionalUint("height", math.MaxUint32)
	if err != nil {
		return convert.Request{}, err
	}
	b64, err := args.optionalBool("return_base64")
	if err != nil {
		return convert.Request{}, err
	}

	req := convert.Request{
		SVG:          svg,
		Width:        width,
		Height:       height,
		Format:       desc.Format(),
		ReturnBase64: b64,
	}

	if desc.Format() == encode.JPEG {
		quality, err := args.optionalUint("quality", math.MaxUint8)
		if err != nil {
			return convert.Request{}, err
		}
		if quality == nil {
			quality = convert.Int(d.defaultQuality)
		}
		req.Quality = quality
	}
	return req, nil
}

func unknownTool(name string) error {
	msg := fmt.Sprintf("unknown tool: %s", name)
	if s := suggest(name); s != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", s)
	}
	return errors.New(errors.ErrCodeMethodNotFound, "%s", msg)
}

// suggest returns the closest known tool name, or "" if none is close.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	if matches := fuzzy.Find(name, Names()); len(matches) > 0 {
		return matches[0].Str
	}
	return ""
}
