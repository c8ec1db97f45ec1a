package convert

import (
	"math"

	"github.com/matzehuels/svgmcp/pkg/encode"
	"github.com/matzehuels/svgmcp/pkg/errors"
)

// Request describes one conversion.
// This struct supports JSON serialization for API and CLI use.
type Request struct {
	// SVG is the complete SVG document text.
	SVG string `json:"svg_content"`

	// Width and Height override the output size per axis. Nil means the
	// intrinsic size of that axis, rounded to whole pixels.
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`

	Format encode.Format `json:"format"`

	// Quality is the JPEG quality (0-100); nil means encode.DefaultQuality.
	// Ignored for PNG.
	Quality *int `json:"quality,omitempty"`

	// ReturnBase64 selects inline base64 delivery instead of a file.
	ReturnBase64 bool `json:"return_base64,omitempty"`
}

// Validate checks the fields that can be checked without parsing the SVG.
func (r *Request) Validate() error {
	if err := errors.ValidateSVGContent(r.SVG); err != nil {
		return err
	}
	if !r.Format.Valid() {
		return errors.New(errors.ErrCodeInvalidParams, "unsupported format %q (must be 'png' or 'jpeg')", r.Format)
	}
	if r.Width != nil {
		if err := errors.ValidateDimension("width", *r.Width); err != nil {
			return err
		}
	}
	if r.Height != nil {
		if err := errors.ValidateDimension("height", *r.Height); err != nil {
			return err
		}
	}
	if r.Format == encode.JPEG && r.Quality != nil {
		if err := errors.ValidateQuality(*r.Quality); err != nil {
			return err
		}
	}
	return nil
}

// EffectiveQuality returns the JPEG quality to encode with.
func (r *Request) EffectiveQuality() int {
	if r.Quality == nil {
		return encode.DefaultQuality
	}
	return *r.Quality
}

// ResolveSize returns the output size for a document of the given intrinsic
// size. Each axis is resolved on its own: an explicit value wins, otherwise
// the intrinsic value rounded to the nearest pixel is used. No aspect ratio
// is derived from the other axis.
func ResolveSize(intrinsicW, intrinsicH float64, width, height *int) (w, h int, err error) {
	w, err = resolveAxis("width", intrinsicW, width)
	if err != nil {
		return 0, 0, err
	}
	h, err = resolveAxis("height", intrinsicH, height)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func resolveAxis(name string, intrinsic float64, explicit *int) (int, error) {
	if explicit != nil {
		return *explicit, errors.ValidateDimension(name, *explicit)
	}
	v := math.Round(intrinsic)
	if v < 1 || v > math.MaxInt32 {
		return 0, errors.New(errors.ErrCodeInvalidDimensions, "intrinsic %s %g does not round to a usable pixel size", name, intrinsic)
	}
	return int(v), nil
}

// Int returns a pointer to v, for filling optional Request fields.
func Int(v int) *int {
	return &v
}
