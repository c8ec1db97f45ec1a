package raster

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// DefaultSize is the intrinsic size used for an axis the document does not
// declare at all (neither directly nor through its viewBox).
const DefaultSize = 100.0

// Font size assumed when resolving em/ex units on the root element.
const defaultFontSize = 12.0

// unitToPx converts absolute CSS units to pixels at 96 DPI.
var unitToPx = map[string]float64{
	"":   1,
	"px": 1,
	"pt": 4.0 / 3.0,
	"pc": 16,
	"mm": 96 / 25.4,
	"cm": 96 / 2.54,
	"in": 96,
	"em": defaultFontSize,
	"ex": defaultFontSize / 2,
}

// rootAttrs holds the top-level attributes that determine intrinsic size.
type rootAttrs struct {
	width   string
	height  string
	viewBox string
}

// viewBox is a parsed viewBox attribute.
type viewBox struct {
	X, Y, W, H float64
}

// readRoot returns the size-related attributes of the document's root
// element. It fails when the first element is not <svg> or when there is no
// element at all.
func readRoot(svg string) (rootAttrs, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return rootAttrs{}, fmt.Errorf("no <svg> root element")
		}
		if err != nil {
			return rootAttrs{}, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return rootAttrs{}, fmt.Errorf("root element is <%s>, want <svg>", se.Name.Local)
		}
		var r rootAttrs
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "width":
				r.width = attr.Value
			case "height":
				r.height = attr.Value
			case "viewBox":
				r.viewBox = attr.Value
			}
		}
		return r, nil
	}
}

// parseLength converts a width/height attribute to pixels.
// ok is false for empty values and percentages, which leave the axis to be
// derived from the viewBox.
func parseLength(s string) (px float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false, nil
	}

	i := len(s)
	for i > 0 && isUnitLetter(s[i-1]) {
		i--
	}
	num, unit := s[:i], strings.ToLower(s[i:])

	factor, known := unitToPx[unit]
	if !known {
		return 0, false, fmt.Errorf("unsupported length unit %q in %q", unit, s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid length %q", s)
	}
	if v <= 0 {
		return 0, false, fmt.Errorf("non-positive length %q", s)
	}
	return v * factor, true, nil
}

func isUnitLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseViewBox parses "min-x min-y width height" separated by whitespace
// and/or commas. ok is false when the attribute is absent or unusable.
func parseViewBox(s string) (vb viewBox, ok bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return viewBox{}, false
	}
	var vals [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return viewBox{}, false
		}
		vals[i] = v
	}
	vb = viewBox{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	if vb.W <= 0 || vb.H <= 0 {
		return viewBox{}, false
	}
	return vb, true
}

// intrinsicSize resolves the document size in pixels.
//
// Explicit width/height win. A single explicit axis is completed from the
// viewBox aspect ratio; with no explicit axes the viewBox size is used; any
// axis still unknown falls back to DefaultSize.
func intrinsicSize(r rootAttrs) (w, h float64, err error) {
	w, hasW, err := parseLength(r.width)
	if err != nil {
		return 0, 0, fmt.Errorf("width: %w", err)
	}
	h, hasH, err := parseLength(r.height)
	if err != nil {
		return 0, 0, fmt.Errorf("height: %w", err)
	}
	vb, hasVB := parseViewBox(r.viewBox)

	switch {
	case hasW && hasH:
	case hasW && hasVB:
		h = w * vb.H / vb.W
	case hasH && hasVB:
		w = h * vb.W / vb.H
	case hasVB:
		w, h = vb.W, vb.H
	default:
		if !hasW {
			w = DefaultSize
		}
		if !hasH {
			h = DefaultSize
		}
	}
	return w, h, nil
}
