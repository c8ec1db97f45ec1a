package errors

import (
	"strings"
	"unicode/utf8"
)

// Quality bounds accepted by the JPEG encoder.
const (
	MinQuality = 0
	MaxQuality = 100
)

// ValidateSVGContent checks that svg is usable as conversion input.
//
// The rules are deliberately shallow; whether the markup is actually SVG is
// decided by the parser:
//   - Not empty or whitespace-only
//   - Valid UTF-8
func ValidateSVGContent(svg string) error {
	if strings.TrimSpace(svg) == "" {
		return New(ErrCodeInvalidParams, "svg_content cannot be empty")
	}
	if !utf8.ValidString(svg) {
		return New(ErrCodeInvalidParams, "svg_content is not valid UTF-8")
	}
	return nil
}

// ValidateDimension checks that an explicitly requested output dimension is
// a positive pixel count. name identifies the axis in the message.
func ValidateDimension(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidDimensions, "%s must be a positive pixel count, got %d", name, v)
	}
	return nil
}

// ValidateQuality checks a JPEG quality value.
// Out-of-range values are rejected rather than clamped.
func ValidateQuality(q int) error {
	if q < MinQuality || q > MaxQuality {
		return New(ErrCodeInvalidParams, "quality must be between %d and %d, got %d", MinQuality, MaxQuality, q)
	}
	return nil
}
