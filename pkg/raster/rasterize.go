package raster

import (
	"image"
	"math"

	"github.com/srwiley/rasterx"

	"github.com/matzehuels/svgmcp/pkg/errors"
)

// DefaultMaxPixels bounds the pixel count of a single buffer (1 GiB of RGBA).
const DefaultMaxPixels = 16384 * 16384

// Option configures Rasterize.
type Option func(*rasterConfig)

type rasterConfig struct {
	maxPixels int
}

// WithMaxPixels overrides DefaultMaxPixels. Non-positive values are ignored.
func WithMaxPixels(n int) Option {
	return func(c *rasterConfig) {
		if n > 0 {
			c.maxPixels = n
		}
	}
}

// Scale returns the per-axis scale factors that map the document's
// intrinsic size onto a width×height target.
func Scale(d *Document, width, height int) (sx, sy float64) {
	return float64(width) / d.width, float64(height) / d.height
}

// Rasterize renders d into a freshly allocated, zero-initialized (fully
// transparent) RGBA buffer of exactly width×height pixels, stretching the
// document to fill it.
//
// Non-positive dimensions fail with INVALID_DIMENSIONS. Dimensions whose
// buffer would exceed the pixel limit, or overflow int, fail with
// ALLOCATION_FAILURE before anything is allocated.
func Rasterize(d *Document, width, height int, opts ...Option) (*image.RGBA, error) {
	cfg := rasterConfig{maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := errors.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("height", height); err != nil {
		return nil, err
	}
	if height > math.MaxInt/4/width {
		return nil, errors.New(errors.ErrCodeAllocation, "%dx%d raster overflows addressable memory", width, height)
	}
	if width*height > cfg.maxPixels {
		return nil, errors.New(errors.ErrCodeAllocation, "%dx%d raster exceeds the %d pixel limit", width, height, cfg.maxPixels)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)

	// User space maps onto the target as S·(p - viewBox origin), with
	// independent x and y factors.
	vb := d.icon.ViewBox
	d.icon.Transform = rasterx.Identity.
		Scale(float64(width)/vb.W, float64(height)/vb.H).
		Translate(-vb.X, -vb.Y)
	d.icon.Draw(dasher, 1.0)

	return img, nil
}
