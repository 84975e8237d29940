package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/render"
	"github.com/matzehuels/svglayout/pkg/observability"
)

// Convert moves doc to opts.AspectRatio. An empty ratio returns doc as is.
func Convert(ctx context.Context, doc document.Document, opts Options) (document.Document, error) {
	if opts.AspectRatio == "" {
		return doc, nil
	}
	ratio, err := aspect.Parse(opts.AspectRatio)
	if err != nil {
		return document.Document{}, err
	}
	var copts []render.ConvertOption
	if opts.Rescale {
		copts = append(copts, render.WithRescale())
	}

	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, opts.AspectRatio)
	start := time.Now()
	out, err := render.ConvertToAspectRatio(doc, ratio, copts...)
	hooks.OnConvertComplete(ctx, opts.AspectRatio, time.Since(start), err)
	return out, err
}

// Render produces every format in opts.Formats from an already validated
// document.
func Render(doc document.Document, opts Options) (map[string][]byte, error) {
	in := render.New(interpreterOptions(opts)...)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			var s string
			s, err = in.ConvertToSVG(doc)
			data = []byte(s)
		case FormatPNG:
			data, err = in.RenderPNG(doc, pngScale(opts))
		case FormatJSON:
			data, err = json.MarshalIndent(doc, "", "  ")
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func interpreterOptions(opts Options) []render.Option {
	var out []render.Option
	if opts.Background != "" {
		out = append(out, render.WithBackground(opts.Background))
	}
	if opts.Title != "" {
		out = append(out, render.WithTitle(opts.Title))
	}
	if opts.Optimize {
		out = append(out, render.WithOptimize())
	}
	return out
}

func pngScale(opts Options) float64 {
	if opts.PNGScale > 0 {
		return opts.PNGScale
	}
	return DefaultPNGScale
}
