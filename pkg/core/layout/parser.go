package layout

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/schema"
	"github.com/matzehuels/svglayout/pkg/errors"
	"github.com/samber/lo"
)

// MaxElements caps the copies a single repetition may produce.
const MaxElements = 1000

// Heuristic thresholds behind the non-blocking warnings.
const (
	largeOffset         = 0.8
	radialDriftOffset   = 0.5
	largeRelativeSize   = 0.8
	minAspect           = 0.1
	maxAspect           = 10
	maxGridAxis         = 20
	maxRadialCount      = 50
	minGridSpacing      = 0.05
	maxRadialRadius     = 200
	crowdedElements     = 10
	minCustomRegionSide = 0.05
)

var number = &schema.Field{Kind: schema.Number}

var specificationSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "region", Kind: schema.String},
		{Name: "anchor", Kind: schema.String},
		{Name: "offset", Kind: schema.Array, Items: number, MinItems: 2, MaxItems: 2},
		{Name: "size", Kind: schema.Object, Fields: []schema.Field{
			{Name: "absolute", Kind: schema.Object, Fields: []schema.Field{
				{Name: "width", Kind: schema.Number, Required: true},
				{Name: "height", Kind: schema.Number, Required: true},
			}},
			{Name: "relative", Kind: schema.Number},
			{Name: "aspect_constrained", Kind: schema.Object, Fields: []schema.Field{
				{Name: "width", Kind: schema.Number, Required: true},
				{Name: "aspect", Kind: schema.Number, Required: true},
			}},
		}},
		{Name: "repeat", Kind: schema.Object, Fields: []schema.Field{
			{Name: "type", Kind: schema.String, Required: true, Enum: []string{"grid", "radial"}},
			{Name: "count", Kind: schema.Integer | schema.Array, Required: true,
				Items: &schema.Field{Kind: schema.Integer}, MinItems: 2, MaxItems: 2},
			{Name: "spacing", Kind: schema.Number},
			{Name: "radius", Kind: schema.Number},
		}},
		{Name: "zIndex", Kind: schema.Integer},
	},
}

var configSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "regions", Kind: schema.Array, Items: &schema.Field{
			Kind: schema.Object,
			Fields: []schema.Field{
				{Name: "name", Kind: schema.String, Required: true},
				{Name: "bounds", Kind: schema.Object, Required: true, Fields: []schema.Field{
					{Name: "x", Kind: schema.Number, Required: true},
					{Name: "y", Kind: schema.Number, Required: true},
					{Name: "width", Kind: schema.Number, Required: true},
					{Name: "height", Kind: schema.Number, Required: true},
				}},
			},
		}},
		{Name: "defaultRegion", Kind: schema.String},
		{Name: "defaultAnchor", Kind: schema.String},
	},
}

// Options control how strictly layout blocks are checked.
type Options struct {
	// Strict turns correctable problems (unknown region or anchor,
	// out-of-range offset) into errors instead of warnings.
	Strict bool

	// AllowCustomRegions permits references to custom regions registered on
	// the parser's region manager.
	AllowCustomRegions bool
}

// DefaultOptions returns lenient options with custom regions enabled.
func DefaultOptions() Options {
	return Options{AllowCustomRegions: true}
}

// Context carries optional information about where a layout block is used.
type Context struct {
	// Canvas is the pixel size of the target canvas. A zero value disables
	// the canvas-aware size and radius warnings.
	Canvas aspect.Size
}

func (c *Context) canvas() aspect.Size {
	if c == nil {
		return aspect.Size{}
	}
	return c.Canvas
}

// Result is the outcome of parsing a layout block. Success is true iff
// Errors is empty; Data is only set on success.
type Result[T any] struct {
	Success  bool     `json:"success"`
	Data     T        `json:"data,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Parser parses and cross-validates layout specifications and configs.
// A Parser is immutable and safe for concurrent use; use [Parser.WithOptions]
// or [Parser.WithRegions] to derive a differently configured one.
type Parser struct {
	opts    Options
	regions *region.Manager
}

// NewParser returns a parser resolving region names against regions. A nil
// manager means the standard regions of the default aspect ratio.
func NewParser(regions *region.Manager, opts Options) *Parser {
	if regions == nil {
		regions, _ = region.NewManager(aspect.Default)
	}
	return &Parser{opts: opts, regions: regions}
}

// Options returns the parser's options.
func (p *Parser) Options() Options { return p.opts }

// Regions returns the region manager the parser resolves names against.
func (p *Parser) Regions() *region.Manager { return p.regions }

// WithOptions returns a copy of p using opts.
func (p *Parser) WithOptions(opts Options) *Parser {
	return &Parser{opts: opts, regions: p.regions}
}

// WithRegions returns a copy of p resolving names against m.
func (p *Parser) WithRegions(m *region.Manager) *Parser {
	return &Parser{opts: p.opts, regions: m}
}

// collector accumulates errors and warnings for one parse.
type collector struct {
	strict   bool
	errors   []string
	warnings []string
}

func (c *collector) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *collector) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// correctable records msg as an error in strict mode and otherwise as a
// warning carrying the applied correction.
func (c *collector) correctable(msg, correction string) {
	if c.strict {
		c.errors = append(c.errors, msg)
		return
	}
	c.warnings = append(c.warnings, msg+"; "+correction)
}

func finish[T any](c *collector, data T) Result[T] {
	r := Result[T]{
		Success:  len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	if r.Success {
		r.Data = data
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	return r
}

// ParseSpecification parses a layout specification. input may be raw JSON,
// a decoded generic value or a [Specification]. It never panics; malformed
// input yields a failed result whose errors start with "Schema validation".
func (p *Parser) ParseSpecification(input any, ctx *Context) Result[Specification] {
	c := &collector{strict: p.opts.Strict}
	v, err := schema.Normalize(input)
	if err != nil {
		c.errorf("%s: %v", schema.Prefix, err)
		return finish(c, Specification{})
	}
	if errs := schema.Check(v, specificationSchema, "layout"); len(errs) > 0 {
		c.errors = errs
		return finish(c, Specification{})
	}
	raw := v.(map[string]any)

	var spec Specification
	if name, ok := raw["region"].(string); ok {
		spec.Region = p.checkRegion(c, name, nil)
	}
	if name, ok := raw["anchor"].(string); ok {
		a := p.checkAnchor(c, name)
		spec.Anchor = &a
	}
	if off, ok := offsetFrom(raw); ok {
		spec.Offset = p.checkOffset(c, off)
	}
	if sz, ok := raw["size"].(map[string]any); ok {
		spec.Size = p.checkSize(c, sz, ctx.canvas())
	}
	if rp, ok := raw["repeat"].(map[string]any); ok {
		spec.Repeat = p.checkRepeat(c, rp, ctx.canvas())
	}
	spec.ZIndex, _ = schema.Int(raw["zIndex"])

	crossValidate(c, spec)
	return finish(c, spec)
}

// ParseConfig parses a document-level layout config. Custom regions are
// checked but not registered; see [Config.Register].
func (p *Parser) ParseConfig(input any, ctx *Context) Result[Config] {
	c := &collector{strict: p.opts.Strict}
	v, err := schema.Normalize(input)
	if err != nil {
		c.errorf("%s: %v", schema.Prefix, err)
		return finish(c, Config{})
	}
	if errs := schema.Check(v, configSchema, "layout"); len(errs) > 0 {
		c.errors = errs
		return finish(c, Config{})
	}
	raw := v.(map[string]any)

	var cfg Config
	if defs, ok := raw["regions"].([]any); ok {
		cfg.Regions = p.checkCustomRegions(c, defs)
	}
	declared := lo.Map(cfg.Regions, func(d RegionDefinition, _ int) string { return string(d.Name) })
	if name, ok := raw["defaultRegion"].(string); ok {
		cfg.DefaultRegion = p.checkRegion(c, name, declared)
	}
	if name, ok := raw["defaultAnchor"].(string); ok {
		a := p.checkAnchor(c, name)
		cfg.DefaultAnchor = &a
	}
	return finish(c, cfg)
}

// checkRegion resolves a region reference. extra lists regions declared
// alongside the reference that are not yet registered on the manager.
func (p *Parser) checkRegion(c *collector, name string, extra []string) region.Name {
	if region.IsStandard(name) {
		return region.Name(name)
	}
	custom := p.regions.HasRegion(name) || slices.Contains(extra, name)
	if custom && p.opts.AllowCustomRegions {
		return region.Name(name)
	}

	var msg string
	if custom {
		msg = fmt.Sprintf("Region %q is a custom region but custom regions are not allowed", name)
	} else {
		msg = fmt.Sprintf("Unknown region %q", name)
		candidates := region.StandardNames()
		if p.opts.AllowCustomRegions {
			candidates = append(candidates, p.regions.CustomRegions()...)
			candidates = append(candidates, extra...)
		}
		if s := Suggest(name, candidates, maxSuggestions); len(s) > 0 {
			msg += ". Did you mean: " + strings.Join(s, ", ") + "?"
		}
	}
	c.correctable(msg, `defaulting to "center"`)
	return "center"
}

func (p *Parser) checkAnchor(c *collector, name string) region.Anchor {
	if a, ok := region.ParseAnchor(name); ok {
		return a
	}
	msg := fmt.Sprintf("Unknown anchor %q", name)
	if s := Suggest(name, region.AnchorNames(), maxSuggestions); len(s) > 0 {
		msg += ". Did you mean: " + strings.Join(s, ", ") + "?"
	}
	c.correctable(msg, `defaulting to "center"`)
	return region.Center
}

func (p *Parser) checkOffset(c *collector, off Offset) Offset {
	for i, axis := range []string{"x", "y"} {
		if off[i] < -1 || off[i] > 1 {
			clamped := clamp(off[i], -1, 1)
			c.correctable(
				fmt.Sprintf("Offset %s component %g is outside [-1, 1]", axis, off[i]),
				fmt.Sprintf("clamping to %g", clamped))
			off[i] = clamped
		}
	}
	if math.Abs(off[0]) > largeOffset || math.Abs(off[1]) > largeOffset {
		c.warnf("Large offset [%g, %g] may move elements outside the visible area", off[0], off[1])
	}
	return off
}

func (p *Parser) checkSize(c *collector, raw map[string]any, canvas aspect.Size) Size {
	size, errs := sizeFrom(raw)
	c.errors = append(c.errors, errs...)
	if len(errs) > 0 {
		return nil
	}

	switch s := size.(type) {
	case Relative:
		if float64(s) > largeRelativeSize {
			c.warnf("Relative size %g is large and may overlap other elements", float64(s))
		}
	case AspectConstrained:
		if _, h := s.Resolve(0); math.IsInf(h, 0) || math.IsNaN(h) {
			c.errorf("Aspect ratio %g gives a non-finite height for width %g", s.Aspect, s.Width)
			return nil
		}
		if s.Aspect < minAspect || s.Aspect > maxAspect {
			c.warnf("Aspect ratio %g is outside [%g, %g] and produces extreme proportions", s.Aspect, minAspect, float64(maxAspect))
		}
		if canvas.Width > 0 && s.Width > float64(canvas.Width) {
			c.warnf("Width %g may exceed the %d px canvas width", s.Width, canvas.Width)
		}
	case Absolute:
		if canvas.Width > 0 && (s.Width > float64(canvas.Width) || s.Height > float64(canvas.Height)) {
			c.warnf("Absolute size %g×%g may exceed the %d×%d canvas", s.Width, s.Height, canvas.Width, canvas.Height)
		}
	}
	return size
}

func (p *Parser) checkRepeat(c *collector, raw map[string]any, canvas aspect.Size) Repetition {
	rep, errs := repeatFrom(raw)
	c.errors = append(c.errors, errs...)
	if len(errs) > 0 {
		return nil
	}

	if n, ok := elements(rep); !ok {
		c.errorf("Repetition of %d elements exceeds the limit of %d", n, MaxElements)
		return nil
	}

	switch r := rep.(type) {
	case Grid:
		if r.Columns > maxGridAxis || r.Rows > maxGridAxis {
			c.warnf("Grid of %d×%d elements exceeds %d per axis and may render slowly", r.Columns, r.Rows, maxGridAxis)
		}
		if r.Spacing > 0 && r.Spacing < minGridSpacing {
			c.warnf("Grid spacing %g is below %g and elements may overlap", r.Spacing, minGridSpacing)
		}
		if _, ok := raw["radius"]; ok {
			c.warnf("Radius is ignored for grid repetition")
		}
	case Radial:
		if r.Count > maxRadialCount {
			c.warnf("Radial count %d exceeds %d and may render slowly", r.Count, maxRadialCount)
		}
		limit := float64(maxRadialRadius)
		if canvas.Width > 0 {
			limit = float64(canvas.Min()) / 2
		}
		if r.Radius > limit {
			c.warnf("Radius %g may place elements outside the canvas", r.Radius)
		}
		if _, ok := raw["spacing"]; ok {
			c.warnf("Spacing is ignored for radial repetition")
		}
	}
	return rep
}

// elements returns the number of copies rep produces and whether it is
// within MaxElements. Grid axes are checked first so the product cannot
// overflow.
func elements(rep Repetition) (int, bool) {
	if g, ok := rep.(Grid); ok && (g.Columns > MaxElements || g.Rows > MaxElements) {
		return max(g.Columns, g.Rows), false
	}
	n := rep.Elements()
	return n, n <= MaxElements
}

func (p *Parser) checkCustomRegions(c *collector, defs []any) []RegionDefinition {
	if !p.opts.AllowCustomRegions && len(defs) > 0 {
		c.correctable(
			fmt.Sprintf("Layout declares %d custom region(s) but custom regions are not allowed", len(defs)),
			"ignoring them")
		return nil
	}

	var out []RegionDefinition
	seen := make(map[string]bool)
	for i, d := range defs {
		obj := d.(map[string]any)
		name := obj["name"].(string)
		b := obj["bounds"].(map[string]any)
		var rect region.Rect
		rect.X, _ = schema.Float(b["x"])
		rect.Y, _ = schema.Float(b["y"])
		rect.Width, _ = schema.Float(b["width"])
		rect.Height, _ = schema.Float(b["height"])

		prefix := fmt.Sprintf("Region %d", i)
		n, err := region.ParseName(name)
		switch {
		case err != nil:
			c.errorf("%s: %s", prefix, errors.UserMessage(err))
			continue
		case region.IsStandard(name):
			c.errorf("%s: name %q conflicts with a standard region", prefix, name)
			continue
		case seen[name]:
			c.errorf("%s: duplicate region name %q", prefix, name)
			continue
		}
		seen[name] = true
		if err := rect.CheckNormalized(); err != nil {
			c.errorf("%s (%s): %s", prefix, name, errors.UserMessage(err))
			continue
		}
		if rect.Width < minCustomRegionSide || rect.Height < minCustomRegionSide {
			c.warnf("%s (%s): %g×%g is very small and content may be hard to see", prefix, name, rect.Width, rect.Height)
		}
		out = append(out, RegionDefinition{Name: n, Bounds: rect})
	}
	return out
}

// crossValidate checks combinations of otherwise valid fields.
func crossValidate(c *collector, spec Specification) {
	if spec.Size != nil && spec.Repeat != nil && spec.Repeat.Elements() > crowdedElements {
		c.warnf("Size combined with %d repeated elements may cause overlap", spec.Repeat.Elements())
	}
	if _, radial := spec.Repeat.(Radial); radial {
		if math.Abs(spec.Offset[0]) > radialDriftOffset || math.Abs(spec.Offset[1]) > radialDriftOffset {
			c.warnf("Large offset combined with radial repetition may push elements outside the expected area")
		}
	}
}
