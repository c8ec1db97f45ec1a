// Package pkg provides the core libraries for svgmcp SVG conversion.
//
// # Overview
//
// svgmcp turns SVG markup into PNG or JPEG images and exposes that as two
// tools, svg_to_png and svg_to_jpeg, over the Model Context Protocol and a
// JSON HTTP API. The pkg directory is organized into four areas:
//
//  1. [raster] and [encode] - Rendering (parse, size, rasterize, encode)
//  2. [convert] and [output] - The conversion service and result delivery
//  3. [tools] - Tool descriptors, argument validation and dispatch
//  4. [transport] - MCP stdio and HTTP front ends
//
// # Architecture
//
// The data flow for one tool call:
//
//	tool name + JSON arguments
//	         ↓
//	    [tools] package (lookup, validate, build request)
//	         ↓
//	    [convert] package (resolve size)
//	         ↓
//	    [raster] package (parse + rasterize to RGBA)
//	         ↓
//	    [encode] package (PNG or JPEG bytes)
//	         ↓
//	    [output] package (temp file path or base64)
//
// # Quick Start
//
// Convert SVG text to a 512x512 PNG file:
//
//	conv := convert.NewConverter(output.NewPackager(""), nil)
//	res, err := conv.PNG(ctx, convert.Request{
//	    SVG:    svg,
//	    Width:  convert.Int(512),
//	    Height: convert.Int(512),
//	})
//	fmt.Println(res.FilePath)
//
// Dispatch a tool call from decoded JSON arguments:
//
//	d := tools.NewDispatcher(conv, logger)
//	resp, err := d.Call(ctx, tools.NameJPEG, tools.Args{
//	    "svg_content":   svg,
//	    "quality":       90,
//	    "return_base64": true,
//	})
//
// # Supporting Packages
//
// [errors] - Structured error codes shared by every layer.
//
// [observability] - Hooks for conversion, tool and file events.
//
// [buildinfo] - Version information set at build time.
//
// [raster]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/raster
// [encode]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/encode
// [convert]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/convert
// [output]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/output
// [tools]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/tools
// [transport]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/transport
// [errors]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/svgmcp/pkg/buildinfo
package pkg
