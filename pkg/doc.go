// Package pkg provides the libraries behind svglayout, a layered layout
// language for SVG documents.
//
// # Overview
//
// A unified layered document is a canvas plus an ordered list of layers of
// styled paths. Layers and paths can be placed into named regions of the
// canvas (a 3×3 grid plus center, full and custom regions), anchored inside
// them and sized relative to them. The same document renders on any of the
// supported aspect ratios.
//
// # Architecture
//
// The typical data flow:
//
//	JSON / YAML document
//	         ↓
//	    [io] package (decode)
//	         ↓
//	    [core/validate] package (schema, coordinates, layout blocks)
//	         ↓
//	    [core/render] package (aspect conversion + interpretation)
//	         ↓
//	    SVG/PNG/JSON output
//
// [pipeline] runs these stages behind a [cache] and is what the CLI uses.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/svglayout/pkg/core/render"
//	    "github.com/matzehuels/svglayout/pkg/core/validate"
//	)
//
//	res := validate.New(validate.DefaultOptions()).ValidateDocument(raw)
//	if !res.Success {
//	    return fmt.Errorf("invalid document: %v", res.Errors)
//	}
//	svg, err := render.ConvertToSVG(*res.Data, render.WithOptimize())
//
// # Main Packages
//
// [core/aspect] - Supported aspect ratios and their canvas sizes.
//
// [core/region] - Region registry, anchors and pixel bounds for a canvas.
//
// [core/coords] - Mapping between normalized, region and pixel coordinates.
//
// [core/layout] - Parsing of layout blocks (region, anchor, size, offset,
// zIndex, grid) with suggestions for misspelled names.
//
// [core/schema] - A small JSON Schema validator for the document format.
//
// [core/validate] - Document validation, coordinate sanitizing, batch
// validation and size reports.
//
// [core/render] - SVG interpretation, PNG rasterizing, aspect conversion,
// bounds and SVG import.
//
// [core/debug] - Region and layer overlays, structure graphs and summaries.
//
// [pipeline] - Validate → convert → render with caching and hooks.
//
// [cache] - File, Redis and no-op caches keyed by document content.
//
// [config] - svglayout.toml loading.
//
// [errors] - Coded errors shared by all packages.
//
// [core/aspect]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/aspect
// [core/region]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/region
// [core/coords]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/coords
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/layout
// [core/schema]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/schema
// [core/validate]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/validate
// [core/render]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/render
// [core/debug]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/core/debug
// [io]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/svglayout/pkg/errors
package pkg
