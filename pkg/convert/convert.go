// Package convert turns SVG documents into PNG or JPEG images.
//
// A conversion runs five stages:
//
//  1. Parse: build a scene from the SVG markup and read its intrinsic size
//  2. Resolve: pick the output size, axis by axis
//  3. Rasterize: stretch the scene onto a fresh transparent buffer
//  4. Encode: PNG (lossless, alpha kept) or JPEG (alpha dropped)
//  5. Package: return base64 text or write a file
//
// # Usage
//
//	conv := convert.NewConverter(output.NewPackager(""), logger)
//	res, err := conv.PNG(ctx, convert.Request{
//	    SVG:          svg,
//	    Width:        convert.Int(50),
//	    Height:       convert.Int(200),
//	    ReturnBase64: true,
//	})
//
// Every call works on its own buffers, so one Converter serves any number
// of goroutines.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svgmcp/pkg/encode"
	"github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/observability"
	"github.com/matzehuels/svgmcp/pkg/output"
	"github.com/matzehuels/svgmcp/pkg/raster"
)

// Converter runs conversions. The zero value writes files to os.TempDir()
// and logs through log.Default().
type Converter struct {
	Packager *output.Packager
	Logger   *log.Logger

	// MaxPixels bounds the raster buffer; zero means raster.DefaultMaxPixels.
	MaxPixels int
	// Strict turns unsupported SVG elements into parse failures.
	Strict bool
}

// NewConverter creates a converter with the given packager and logger.
// If packager is nil, files go to os.TempDir() and the default registry.
// If logger is nil, log.Default() is used.
func NewConverter(packager *output.Packager, logger *log.Logger) *Converter {
	if packager == nil {
		packager = output.NewPackager("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{Packager: packager, Logger: logger}
}

// PNG converts req to PNG, ignoring req.Format and req.Quality.
func (c *Converter) PNG(ctx context.Context, req Request) (*output.Result, error) {
	req.Format = encode.PNG
	req.Quality = nil
	return c.Convert(ctx, req)
}

// JPEG converts req to JPEG, ignoring req.Format.
func (c *Converter) JPEG(ctx context.Context, req Request) (*output.Result, error) {
	req.Format = encode.JPEG
	return c.Convert(ctx, req)
}

// Convert runs the full conversion for req.
//
// Errors carry one of the codes INVALID_PARAMS, PARSE_FAILURE,
// INVALID_DIMENSIONS, ALLOCATION_FAILURE or IO_FAILURE. No file is left
// behind when an error is returned.
func (c *Converter) Convert(ctx context.Context, req Request) (*output.Result, error) {
	start := time.Now()
	format := string(req.Format)
	observability.Conversion().OnConvertStart(ctx, format)

	res, w, h, n, err := c.convert(ctx, req)

	duration := time.Since(start)
	observability.Conversion().OnConvertComplete(ctx, format, w, h, n, duration, err)
	if err != nil {
		c.logger().Debug("conversion failed", "format", format, "code", errors.GetCode(err), "duration", duration)
		return nil, err
	}
	c.logger().Debug("converted svg",
		"format", format,
		"size", sizeString(w, h),
		"bytes", n,
		"base64", req.ReturnBase64,
		"duration", duration)
	return res, nil
}

func (c *Converter) convert(ctx context.Context, req Request) (res *output.Result, w, h, n int, err error) {
	if err := req.Validate(); err != nil {
		return nil, 0, 0, 0, err
	}

	doc, err := raster.Parse(req.SVG, raster.WithStrict(c.Strict))
	if err != nil {
		return nil, 0, 0, 0, err
	}

	iw, ih := doc.Size()
	w, h, err = ResolveSize(iw, ih, req.Width, req.Height)
	if err != nil {
		return nil, 0, 0, 0, err
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, 0, 0, err
	}

	img, err := raster.Rasterize(doc, w, h, raster.WithMaxPixels(c.MaxPixels))
	if err != nil {
		return nil, 0, 0, 0, err
	}

	data, err := encode.Encode(img, req.Format, req.EffectiveQuality())
	if err != nil {
		return nil, 0, 0, 0, err
	}

	packager := c.Packager
	if packager == nil {
		packager = output.NewPackager("")
	}
	res, err = packager.Package(ctx, data, req.Format, req.ReturnBase64)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return res, w, h, len(data), nil
}

func (c *Converter) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

func sizeString(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}
