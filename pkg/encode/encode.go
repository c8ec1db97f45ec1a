// Package encode serializes rasterized SVGs into PNG or JPEG byte streams.
//
// PNG output is lossless and keeps the alpha channel. JPEG has no alpha
// channel: the encoder drops it with a straight channel drop on the stored
// samples, without compositing against any background colour. Go stores
// *image.RGBA alpha-premultiplied, so fully transparent pixels come out
// black and partially transparent ones darkened. This loss of transparency
// is the defined behaviour of JPEG output.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/matzehuels/svgmcp/pkg/errors"
)

// Format identifies an output image format.
type Format string

// Supported output formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultQuality is the JPEG quality used when the caller gives none.
const DefaultQuality = 85

// MIMEType returns the canonical media type, e.g. "image/png".
func (f Format) MIMEType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}
	return ""
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	}
	return ""
}

// Label returns the upper-case name used in messages ("PNG", "JPEG").
func (f Format) Label() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	}
	return string(f)
}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	return f == PNG || f == JPEG
}

// ParseFormat maps a user-facing name to a Format.
// "jpg" is accepted as an alias of "jpeg".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be 'png' or 'jpeg')", s)
}

// Encode serializes img in format f. quality is only used for JPEG.
func Encode(img *image.RGBA, f Format, quality int) ([]byte, error) {
	switch f {
	case PNG:
		return EncodePNG(img)
	case JPEG:
		return EncodeJPEG(img, quality)
	}
	return nil, errors.New(errors.ErrCodeInvalidParams, "unsupported format %q", f)
}

// EncodePNG losslessly encodes img.
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG drops img's alpha channel and encodes the result at quality,
// which must lie in [0, 100]. Quality 0 is passed through; the standard
// library encoder treats anything below 1 as 1.
func EncodeJPEG(img *image.RGBA, quality int) ([]byte, error) {
	if err := errors.ValidateQuality(quality); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, DropAlpha(img), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// DropAlpha returns an opaque copy of src holding the same R, G and B
// samples with alpha forced to 255. No blending takes place.
func DropAlpha(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	w := src.Bounds().Dx() * 4
	for y := 0; y < src.Bounds().Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for i := 0; i < w; i += 4 {
			d[i] = s[i]
			d[i+1] = s[i+1]
			d[i+2] = s[i+2]
			d[i+3] = 0xff
		}
	}
	return dst
}
