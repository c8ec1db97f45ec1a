package raster

import (
	"strings"

	"github.com/srwiley/oksvg"

	"github.com/matzehuels/svgmcp/pkg/errors"
)

// Document is a parsed SVG scene together with its intrinsic size.
//
// A Document is not safe for concurrent use: rasterizing retargets the
// underlying scene. Parse one per conversion.
type Document struct {
	icon   *oksvg.SvgIcon
	width  float64
	height float64
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	strict bool
}

// WithStrict makes elements the renderer cannot draw a parse failure
// instead of silently skipping them.
func WithStrict(strict bool) ParseOption {
	return func(c *parseConfig) { c.strict = strict }
}

// Parse parses SVG markup into a Document.
// Every failure is an *errors.Error with code PARSE_FAILURE whose cause is
// the underlying parser diagnostic.
func Parse(svg string, opts ...ParseOption) (*Document, error) {
	var cfg parseConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	mode := oksvg.IgnoreErrorMode
	if cfg.strict {
		mode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), mode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "parse svg")
	}

	root, err := readRoot(svg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "parse svg")
	}
	w, h, err := intrinsicSize(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParseFailure, err, "parse svg size")
	}

	// Without a usable viewBox the user coordinate system is the pixel
	// grid of the intrinsic size.
	if _, ok := parseViewBox(root.viewBox); !ok {
		icon.ViewBox.X, icon.ViewBox.Y = 0, 0
		icon.ViewBox.W, icon.ViewBox.H = w, h
	}

	return &Document{icon: icon, width: w, height: h}, nil
}

// Size returns the intrinsic width and height in (possibly fractional)
// pixels.
func (d *Document) Size() (width, height float64) {
	return d.width, d.height
}
