// Package pipeline runs the validate → convert → render flow over a document.
//
// The CLI and any embedding service go through the same [Runner] so that
// defaults, caching and logging behave identically everywhere.
//
// # Stages
//
//  1. Validate: schema check, coordinate sanitizing, layout parsing
//  2. Convert: optional move to another aspect ratio
//  3. Render: SVG, PNG or the final document as JSON
//
// Validation results and artifacts are cached by content hash, so rendering
// an unchanged document with unchanged options is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, raw, pipeline.Options{
//	    Formats:     []string{"svg", "png"},
//	    AspectRatio: "16:9",
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/svglayout/pkg/cache"
	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// DefaultPNGScale is the raster scale applied when none is set.
const DefaultPNGScale = 1.0

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options configure a pipeline run. The zero value validates leniently and
// renders SVG.
type Options struct {
	// Validation options; the zero value is replaced by validate.DefaultOptions.
	Validation validate.Options `json:"validation"`

	// Regions are custom regions made available to every document. A
	// region the document declares itself takes precedence.
	Regions []layout.RegionDefinition `json:"regions,omitempty"`

	// Convert options
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Rescale     bool   `json:"rescale,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Optimize   bool     `json:"optimize,omitempty"`
	Background string   `json:"background,omitempty"`
	Title      string   `json:"title,omitempty"`
	PNGScale   float64  `json:"png_scale,omitempty"`

	// ArtifactTTL overrides cache.ArtifactTTL when positive.
	ArtifactTTL time.Duration `json:"-"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// DocHash is the content hash of the input document.
	DocHash string

	// Validation is the validator's verdict on the input.
	Validation validate.Result

	// Document is the validated document after any aspect conversion.
	Document document.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers       int
	Paths        int
	ValidateTime time.Duration
	ConvertTime  time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each cached stage.
type CacheInfo struct {
	ValidateHit bool
	RenderHit   bool // all artifacts came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Validation == (validate.Options{}) {
		o.Validation = validate.DefaultOptions()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.AspectRatio != "" {
		if _, err := aspect.Parse(o.AspectRatio); err != nil {
			return err
		}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", o.PNGScale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidationKeyOpts returns the cache key options of the validation stage.
func (o *Options) ValidationKeyOpts() cache.ValidationKeyOpts {
	v := o.Validation
	return cache.ValidationKeyOpts{
		Strict:             v.Strict,
		Sanitize:           v.Sanitize,
		AllowCustomRegions: v.AllowCustomRegions,
		Min:                v.Bounds.Min,
		Max:                v.Bounds.Max,
		Precision:          v.Bounds.Precision,
	}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:      format,
		AspectRatio: o.AspectRatio,
		Rescale:     o.Rescale,
		Optimize:    o.Optimize,
		Background:  o.Background,
		Title:       o.Title,
	}
	if format == FormatPNG {
		k.Scale = o.PNGScale
	}
	return k
}
