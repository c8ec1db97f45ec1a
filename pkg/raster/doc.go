// Package raster parses SVG markup and rasterizes it into RGBA pixel buffers.
//
// Parsing and drawing are delegated to [github.com/srwiley/oksvg] and
// [github.com/srwiley/rasterx]; this package adds what those libraries
// leave to the caller:
//
//   - Rejecting input whose root element is not <svg>
//   - Computing the document's intrinsic size from its top-level
//     width, height and viewBox attributes (absolute units converted to px)
//   - Bounding the pixel buffer before it is allocated
//
// # Usage
//
//	doc, err := raster.Parse(svg)
//	if err != nil {
//	    return err // PARSE_FAILURE
//	}
//	w, h := doc.Size()
//	img, err := raster.Rasterize(doc, 50, 200)
//
// Rasterize stretches the document to the exact target rectangle: scale
// factors are computed independently per axis and no aspect ratio is
// preserved.
//
// Feature coverage (filters, text, animation, scripting) is whatever oksvg
// supports; unsupported elements are skipped unless strict parsing is on.
package raster
