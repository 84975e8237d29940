// Package validate checks and sanitizes unified layered documents.
//
// [Validator.ValidateDocument] runs a structural schema check (which
// short-circuits on failure), then walks every layer, path and command:
// coordinates are rounded and clamped to the configured
// [document.CoordinateBounds], path structure is checked, layout blocks are
// handed to the layout parser, and document-wide rules (unique ids, canvas
// size, performance thresholds) are applied last.
//
// Messages are prefixed with their location:
//
//	Layer 2: Path 0: Command 5: coordinate 600.99 is outside [0, 512]
//
// Validation never panics and never recurses deeper than the document
// schema, whatever the input.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/schema"
	"github.com/matzehuels/svglayout/pkg/errors"
	"github.com/samber/lo"
)

// Performance heuristics; exceeding them warns but never fails.
const (
	maxPathCommands    = 1000
	maxPathCoordinates = 2000
	maxDocumentPaths   = 100
	maxDocumentCmds    = 1000
	maxCanvasSide      = 4096
)

// Options configure a Validator.
type Options struct {
	// Strict reports out-of-bounds coordinates, unknown regions and anchors
	// and other correctable problems as errors.
	Strict bool `json:"strict" toml:"strict"`

	// Sanitize writes corrected coordinates into the returned document.
	Sanitize bool `json:"sanitize" toml:"sanitize"`

	// AllowCustomRegions lets documents declare and use custom regions.
	AllowCustomRegions bool `json:"allow_custom_regions" toml:"allow_custom_regions"`

	// Bounds constrain every coordinate.
	Bounds document.CoordinateBounds `json:"bounds" toml:"bounds"`
}

// DefaultOptions returns lenient, sanitizing options with default bounds.
func DefaultOptions() Options {
	return Options{
		Sanitize:           true,
		AllowCustomRegions: true,
		Bounds:             document.DefaultBounds(),
	}
}

// Result is the outcome of validating a document.
//
// Data is set whenever the input passed the schema check, even if later
// checks failed, so tooling can inspect invalid documents. It holds the
// sanitized document when Sanitized is true.
type Result struct {
	Success   bool               `json:"success"`
	Data      *document.Document `json:"data,omitempty"`
	Errors    []string           `json:"errors"`
	Warnings  []string           `json:"warnings"`
	Sanitized bool               `json:"sanitized"`
}

// Validator validates documents. It is immutable and safe for concurrent
// use.
type Validator struct {
	opts Options
}

// New returns a validator using opts.
func New(opts Options) *Validator {
	return &Validator{opts: opts}
}

// Options returns the validator's options.
func (v *Validator) Options() Options { return v.opts }

// WithOptions returns a new validator using opts.
func (v *Validator) WithOptions(opts Options) *Validator { return New(opts) }

// run holds the state of one ValidateDocument call.
type run struct {
	opts      Options
	parser    *layout.Parser
	ctx       *layout.Context
	errors    []string
	warnings  []string
	sanitized bool
}

func (r *run) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *run) warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// merge adds parser messages under a location prefix.
func (r *run) merge(prefix string, errs, warns []string) {
	for _, e := range errs {
		r.errors = append(r.errors, prefix+e)
	}
	for _, w := range warns {
		r.warnings = append(r.warnings, prefix+w)
	}
}

func (r *run) result(doc *document.Document) Result {
	res := Result{
		Success:   len(r.errors) == 0,
		Data:      doc,
		Errors:    r.errors,
		Warnings:  r.warnings,
		Sanitized: r.sanitized,
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res
}

// ValidateDocument validates input, which may be raw JSON ([]byte or
// string), a decoded generic value, or a [document.Document]. Any other
// value, including nil, fails with a schema error.
func (v *Validator) ValidateDocument(input any) Result {
	r := &run{opts: v.opts}

	raw, err := schema.Normalize(input)
	if err != nil {
		r.errorf("%s: %v", schema.Prefix, err)
		return r.result(nil)
	}
	if errs := schema.Check(raw, documentSchema, ""); len(errs) > 0 {
		r.errors = errs
		return r.result(nil)
	}
	obj := raw.(map[string]any)
	doc := decodeDocument(obj)

	r.checkCanvas(doc.Canvas)
	regions := r.regionManager(doc.Canvas)
	r.ctx = &layout.Context{Canvas: regions.Canvas()}
	r.parser = layout.NewParser(regions, layout.Options{
		Strict:             v.opts.Strict,
		AllowCustomRegions: v.opts.AllowCustomRegions,
	})

	if lc, ok := obj["layout"]; ok {
		doc.Layout = r.checkConfig(lc, regions)
	}

	layers := obj["layers"].([]any)
	for i := range doc.Layers {
		rawLayer := layers[i].(map[string]any)
		r.checkLayer(i, &doc.Layers[i], rawLayer)
	}
	r.checkDocument(doc)

	return r.result(&doc)
}

func (r *run) checkCanvas(c document.Canvas) {
	if c.Width <= 0 || c.Height <= 0 {
		r.errorf("Canvas: width and height must be positive, got %d×%d", c.Width, c.Height)
		return
	}
	if c.Width > maxCanvasSide || c.Height > maxCanvasSide {
		r.warnf("Canvas: %d×%d exceeds %d px and may render slowly", c.Width, c.Height, maxCanvasSide)
	}
	if c.AspectRatio == "" {
		return
	}
	want := aspect.MustDimensions(c.AspectRatio)
	if want.Width != c.Width || want.Height != c.Height {
		msg := fmt.Sprintf("Canvas: %d×%d does not match aspect ratio %s (%d×%d)",
			c.Width, c.Height, c.AspectRatio, want.Width, want.Height)
		if r.opts.Strict {
			r.errors = append(r.errors, msg)
		} else {
			r.warnings = append(r.warnings, msg)
		}
	}
}

// regionManager returns a fresh manager for the canvas. Every document gets
// its own so custom regions never leak between documents.
func (r *run) regionManager(c document.Canvas) *region.Manager {
	size := aspect.Size{Width: c.Width, Height: c.Height}
	if m, err := region.NewCanvasManager(c.Ratio(), size); err == nil {
		return m
	}
	m, _ := region.NewManager(aspect.Default)
	return m
}

func (r *run) checkConfig(raw any, regions *region.Manager) *layout.Config {
	res := r.parser.ParseConfig(raw, r.ctx)
	r.merge("Layout: ", res.Errors, res.Warnings)
	if !res.Success {
		return nil
	}
	if err := res.Data.Register(regions); err != nil {
		r.errorf("Layout: %s", errors.UserMessage(err))
	}
	return &res.Data
}

// checkID rejects empty ids. Other identifier rules only warn, since ids are
// escaped on output.
func (r *run) checkID(prefix, id string) {
	if id == "" {
		r.errorf("%sinvalid id: identifier cannot be empty", prefix)
		return
	}
	if err := errors.ValidateIdentifier(id); err != nil {
		r.warnf("%sid: %s", prefix, errors.UserMessage(err))
	}
}

func (r *run) checkLayer(i int, l *document.Layer, raw map[string]any) {
	prefix := fmt.Sprintf("Layer %d: ", i)
	r.checkID(prefix, l.ID)

	paths := raw["paths"].([]any)
	for j := range l.Paths {
		r.checkPath(prefix+fmt.Sprintf("Path %d: ", j), &l.Paths[j], paths[j].(map[string]any))
	}

	if dups := lo.FindDuplicates(lo.Map(l.Paths, func(p document.Path, _ int) string { return p.ID })); len(dups) > 0 {
		r.errorf("%sduplicate path IDs: %s", prefix, strings.Join(dups, ", "))
	}

	if lr, ok := raw["layout"]; ok {
		res := r.parser.ParseSpecification(lr, r.ctx)
		r.merge(prefix+"Layout: ", res.Errors, res.Warnings)
		if res.Success {
			l.Layout = &res.Data
		}
	}
}

func (r *run) checkPath(prefix string, p *document.Path, raw map[string]any) {
	r.checkID(prefix, p.ID)
	for _, c := range []struct{ name, value string }{{"fill", p.Style.Fill}, {"stroke", p.Style.Stroke}} {
		if c.value == "" {
			continue
		}
		if err := errors.ValidateColor(c.value); err != nil {
			r.warnf("%sStyle: %s", prefix, errors.UserMessage(err))
		}
	}
	for _, o := range []struct {
		name  string
		value *float64
	}{{"opacity", p.Style.Opacity}, {"fillOpacity", p.Style.FillOpacity}, {"strokeOpacity", p.Style.StrokeOpacity}} {
		if o.value != nil && (*o.value < 0 || *o.value > 1) {
			r.warnf("%sStyle: %s %g is outside [0, 1]", prefix, o.name, *o.value)
		}
	}

	if len(p.Commands) == 0 {
		r.errorf("%sPath has no commands", prefix)
	} else if first := p.Commands[0].Cmd; first != document.MoveTo {
		r.errorf("%sPath must start with a Move (M) command, got %s", prefix, first)
	}

	coordinates := 0
	for k := range p.Commands {
		r.checkCommand(prefix+fmt.Sprintf("Command %d: ", k), &p.Commands[k])
		coordinates += len(p.Commands[k].Coords)
	}
	if len(p.Commands) > maxPathCommands {
		r.warnf("%s%d commands exceed %d and may render slowly", prefix, len(p.Commands), maxPathCommands)
	}
	if coordinates > maxPathCoordinates {
		r.warnf("%s%d coordinates exceed %d and may render slowly", prefix, coordinates, maxPathCoordinates)
	}

	if lr, ok := raw["layout"]; ok {
		res := r.parser.ParseSpecification(lr, r.ctx)
		r.merge(prefix+"Layout: ", res.Errors, res.Warnings)
		if res.Success {
			p.Layout = &res.Data
		}
	}
}

// checkCommand validates arity and coordinates. When sanitizing, corrected
// values are written back into c, which belongs to the decoded copy.
func (r *run) checkCommand(prefix string, c *document.Command) {
	if want := c.Cmd.Arity(); len(c.Coords) != want {
		r.errorf("%s%s expects %d coordinates, got %d", prefix, c.Cmd, want, len(c.Coords))
	}
	if c.Cmd == document.ClosePath {
		return
	}

	b := r.opts.Bounds
	changed := false
	rounded := 0
	out := make([]float64, len(c.Coords))
	for i, v := range c.Coords {
		s, clamped, wasRounded := sanitize(v, b)
		out[i] = s
		if wasRounded {
			rounded++
			changed = true
		}
		if clamped {
			changed = true
			msg := fmt.Sprintf("%scoordinate %s is outside [%s, %s]", prefix, format(v), format(b.Min), format(b.Max))
			if r.opts.Strict {
				r.errors = append(r.errors, msg)
			} else {
				r.warnings = append(r.warnings, fmt.Sprintf("%s; clamped to %s", msg, format(s)))
			}
		}
	}
	if rounded > 0 {
		r.warnf("%s%d coordinate(s) rounded to %d decimal place(s)", prefix, rounded, b.Precision)
	}
	if changed && r.opts.Sanitize {
		c.Coords = out
		r.sanitized = true
	}
}

func (r *run) checkDocument(d document.Document) {
	ids := lo.Map(d.Layers, func(l document.Layer, _ int) string { return l.ID })
	if dups := lo.FindDuplicates(ids); len(dups) > 0 {
		r.errorf("Duplicate layer IDs: %s", strings.Join(dups, ", "))
	}

	stats := d.Stats()
	if stats.Paths > maxDocumentPaths {
		r.warnf("Document has %d paths (more than %d) and may render slowly", stats.Paths, maxDocumentPaths)
	}
	if stats.Commands > maxDocumentCmds {
		r.warnf("Document has %d commands (more than %d) and may render slowly", stats.Commands, maxDocumentCmds)
	}
}

func format(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
