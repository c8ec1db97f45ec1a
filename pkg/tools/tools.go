// Package tools exposes the SVG conversions as named tools that take an
// untyped argument bag, the calling convention shared by every transport.
//
// The tool set and the schemas describing it are static data built once at
// package initialization. [List] serves discovery; [Dispatcher.Call]
// validates an argument bag, runs the conversion and wraps the outcome in a
// uniform response.
package tools

import (
	"github.com/matzehuels/svgmcp/pkg/encode"
)

// Tool names.
const (
	NamePNG  = "svg_to_png"
	NameJPEG = "svg_to_jpeg"
)

// Descriptor describes one tool for discovery.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Schema      *Schema `json:"schema"`

	format encode.Format
}

// Format returns the output format the tool produces.
func (d Descriptor) Format() encode.Format {
	return d.format
}

// ListResult is the discovery response. NextCursor is always nil: the
// tool set fits in one page.
type ListResult struct {
	Tools      []Descriptor `json:"tools"`
	NextCursor *string      `json:"next_cursor"`
}

var descriptors = []Descriptor{
	{
		Name:        NamePNG,
		Description: "Convert SVG text to PNG image",
		Schema: object("SvgToPngRequest", "Convert SVG markup to a PNG image.",
			[]string{"svg_content"},
			svgContentField(),
			dimensionField("width", "width"),
			dimensionField("height", "height"),
			returnBase64Field(),
		),
		format: encode.PNG,
	},
	{
		Name:        NameJPEG,
		Description: "Convert SVG text to JPEG image",
		Schema: object("SvgToJpegRequest", "Convert SVG markup to a JPEG image. Transparency is dropped, not composited.",
			[]string{"svg_content"},
			svgContentField(),
			dimensionField("width", "width"),
			dimensionField("height", "height"),
			qualityField(),
			returnBase64Field(),
		),
		format: encode.JPEG,
	},
}

// Names returns the tool names in discovery order.
func Names() []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// List returns every tool descriptor. The descriptors are copies; changing
// them does not affect later calls.
func List() ListResult {
	out := make([]Descriptor, len(descriptors))
	for i, d := range descriptors {
		out[i] = d
		out[i].Schema = d.Schema.Clone()
	}
	return ListResult{Tools: out}
}

// Lookup returns a copy of the named tool's descriptor.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			d.Schema = d.Schema.Clone()
			return d, true
		}
	}
	return Descriptor{}, false
}
