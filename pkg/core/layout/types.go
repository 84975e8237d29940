package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/schema"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// Offset displaces an element from its anchor point, as fractions of the
// region's width and height. Components lie in [-1, 1].
type Offset [2]float64

// IsZero reports whether both components are zero.
func (o Offset) IsZero() bool { return o[0] == 0 && o[1] == 0 }

// Size is the sealed sum type of element size specifications: [Absolute],
// [Relative] or [AspectConstrained].
type Size interface {
	// Resolve returns the element size in pixels for a canvas whose smaller
	// side is minSide pixels.
	Resolve(minSide float64) (width, height float64)
	isSize()
}

// Absolute is a fixed size in pixels.
type Absolute struct {
	Width  float64
	Height float64
}

// Relative is a square whose side is a fraction in (0, 1] of the smaller
// canvas side.
type Relative float64

// AspectConstrained fixes the width in pixels and derives the height from the
// width/height ratio Aspect.
type AspectConstrained struct {
	Width  float64
	Aspect float64
}

func (s Absolute) Resolve(float64) (float64, float64) { return s.Width, s.Height }

func (s Relative) Resolve(minSide float64) (float64, float64) {
	side := float64(s) * minSide
	return side, side
}

func (s AspectConstrained) Resolve(float64) (float64, float64) {
	return s.Width, s.Width / s.Aspect
}

func (Absolute) isSize()          {}
func (Relative) isSize()          {}
func (AspectConstrained) isSize() {}

// Repetition is the sealed sum type of repetition patterns: [Grid] or [Radial].
type Repetition interface {
	// Elements returns the number of copies the pattern produces.
	Elements() int
	isRepetition()
}

// Grid repeats an element over Columns × Rows cells. Spacing is the distance
// between neighbouring cells as a fraction of the region size; zero lets the
// renderer spread the cells evenly.
type Grid struct {
	Columns int
	Rows    int
	Spacing float64
}

// Radial repeats an element Count times on a circle around the anchor point.
// A zero Radius lets the renderer pick one from the region size.
type Radial struct {
	Count  int
	Radius float64
}

func (g Grid) Elements() int   { return g.Columns * g.Rows }
func (r Radial) Elements() int { return r.Count }

func (Grid) isRepetition()   {}
func (Radial) isRepetition() {}

// Specification is a set of placement instructions attached to a layer or a
// path. Zero fields mean "not specified".
type Specification struct {
	Region region.Name
	Anchor *region.Anchor
	Offset Offset
	Size   Size
	Repeat Repetition
	ZIndex int
}

// AnchorOr returns the specified anchor or def.
func (s Specification) AnchorOr(def region.Anchor) region.Anchor {
	if s.Anchor != nil {
		return *s.Anchor
	}
	return def
}

// RegionOr returns the specified region or def.
func (s Specification) RegionOr(def region.Name) region.Name {
	if s.Region != "" {
		return s.Region
	}
	return def
}

// Places reports whether the specification carries any geometric placement
// (region, anchor, offset, size or repetition) beyond z-ordering.
func (s Specification) Places() bool {
	return s.Region != "" || s.Anchor != nil || !s.Offset.IsZero() || s.Size != nil || s.Repeat != nil
}

// MarshalJSON encodes the specification in its wire form.
func (s Specification) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if s.Region != "" {
		out["region"] = string(s.Region)
	}
	if s.Anchor != nil {
		out["anchor"] = s.Anchor.String()
	}
	if !s.Offset.IsZero() {
		out["offset"] = []float64{s.Offset[0], s.Offset[1]}
	}
	if s.Size != nil {
		out["size"] = sizeWire(s.Size)
	}
	if s.Repeat != nil {
		out["repeat"] = repeatWire(s.Repeat)
	}
	if s.ZIndex != 0 {
		out["zIndex"] = s.ZIndex
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form. It checks structure only: region
// names must be well formed and anchors known, but whether a region exists
// is left to [Parser].
func (s *Specification) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if errs := schema.Check(v, specificationSchema, "layout"); len(errs) > 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "%s", strings.Join(errs, "; "))
	}
	raw := v.(map[string]any)

	var spec Specification
	var errs []string
	if name, ok := raw["region"].(string); ok {
		n, err := region.ParseName(name)
		if err != nil {
			errs = append(errs, errors.UserMessage(err))
		}
		spec.Region = n
	}
	if name, ok := raw["anchor"].(string); ok {
		a, ok := region.ParseAnchor(name)
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown anchor %q", name))
		}
		spec.Anchor = &a
	}
	spec.Offset, _ = offsetFrom(raw)
	if sz, ok := raw["size"].(map[string]any); ok {
		size, sizeErrs := sizeFrom(sz)
		errs = append(errs, sizeErrs...)
		spec.Size = size
	}
	if rp, ok := raw["repeat"].(map[string]any); ok {
		rep, repErrs := repeatFrom(rp)
		errs = append(errs, repErrs...)
		spec.Repeat = rep
	}
	spec.ZIndex, _ = schema.Int(raw["zIndex"])

	if len(errs) > 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "%s", strings.Join(errs, "; "))
	}
	*s = spec
	return nil
}

func sizeWire(s Size) map[string]any {
	switch v := s.(type) {
	case Absolute:
		return map[string]any{"absolute": map[string]float64{"width": v.Width, "height": v.Height}}
	case Relative:
		return map[string]any{"relative": float64(v)}
	case AspectConstrained:
		return map[string]any{"aspect_constrained": map[string]float64{"width": v.Width, "aspect": v.Aspect}}
	}
	return nil
}

func repeatWire(r Repetition) map[string]any {
	switch v := r.(type) {
	case Grid:
		out := map[string]any{"type": "grid", "count": []int{v.Columns, v.Rows}}
		if v.Rows == 1 {
			out["count"] = v.Columns
		}
		if v.Spacing != 0 {
			out["spacing"] = v.Spacing
		}
		return out
	case Radial:
		out := map[string]any{"type": "radial", "count": v.Count}
		if v.Radius != 0 {
			out["radius"] = v.Radius
		}
		return out
	}
	return nil
}

// offsetFrom extracts the schema-checked offset and reports whether it was
// present.
func offsetFrom(raw map[string]any) (Offset, bool) {
	arr, ok := raw["offset"].([]any)
	if !ok || len(arr) != 2 {
		return Offset{}, false
	}
	dx, _ := schema.Float(arr[0])
	dy, _ := schema.Float(arr[1])
	return Offset{dx, dy}, true
}

// sizeFrom builds a Size from a schema-checked size object, enforcing that
// exactly one variant is present and that its dimensions are positive.
func sizeFrom(raw map[string]any) (Size, []string) {
	var present []string
	for _, k := range []string{"absolute", "relative", "aspect_constrained"} {
		if _, ok := raw[k]; ok {
			present = append(present, k)
		}
	}
	switch len(present) {
	case 0:
		return nil, []string{"Size must specify exactly one of absolute, relative or aspect_constrained"}
	case 1:
	default:
		return nil, []string{fmt.Sprintf("Size variants are mutually exclusive, got %s", strings.Join(present, " and "))}
	}

	var errs []string
	switch present[0] {
	case "absolute":
		obj := raw["absolute"].(map[string]any)
		w, _ := schema.Float(obj["width"])
		h, _ := schema.Float(obj["height"])
		if w <= 0 || h <= 0 {
			errs = append(errs, fmt.Sprintf("Absolute size must be positive, got %g×%g", w, h))
		}
		return Absolute{Width: w, Height: h}, errs
	case "relative":
		v, _ := schema.Float(raw["relative"])
		if v <= 0 || v > 1 {
			errs = append(errs, fmt.Sprintf("Relative size must be in (0, 1], got %g", v))
		}
		return Relative(v), errs
	default:
		obj := raw["aspect_constrained"].(map[string]any)
		w, _ := schema.Float(obj["width"])
		a, _ := schema.Float(obj["aspect"])
		if w <= 0 {
			errs = append(errs, fmt.Sprintf("Aspect-constrained width must be positive, got %g", w))
		}
		if a <= 0 {
			errs = append(errs, fmt.Sprintf("Aspect-constrained aspect must be positive, got %g", a))
		}
		return AspectConstrained{Width: w, Aspect: a}, errs
	}
}

// repeatFrom builds a Repetition from a schema-checked repeat object. A
// scalar grid count lays the copies out in a single row.
func repeatFrom(raw map[string]any) (Repetition, []string) {
	var errs []string
	kind, _ := raw["type"].(string)

	var counts []int
	switch c := raw["count"].(type) {
	case []any:
		for _, v := range c {
			n, _ := schema.Int(v)
			counts = append(counts, n)
		}
	default:
		n, _ := schema.Int(c)
		counts = []int{n}
	}
	for _, n := range counts {
		if n <= 0 {
			errs = append(errs, fmt.Sprintf("Repeat count must be a positive integer, got %d", n))
			break
		}
	}

	switch kind {
	case "grid":
		g := Grid{Columns: counts[0], Rows: 1}
		if len(counts) == 2 {
			g.Rows = counts[1]
		}
		if v, ok := raw["spacing"]; ok {
			g.Spacing, _ = schema.Float(v)
			if g.Spacing <= 0 || g.Spacing > 1 {
				errs = append(errs, fmt.Sprintf("Grid spacing must be in (0, 1], got %g", g.Spacing))
			}
		}
		return g, errs
	default:
		if len(counts) != 1 {
			errs = append(errs, "Radial repeat count must be a single integer")
		}
		r := Radial{Count: counts[0]}
		if v, ok := raw["radius"]; ok {
			r.Radius, _ = schema.Float(v)
			if r.Radius <= 0 {
				errs = append(errs, fmt.Sprintf("Radial radius must be positive, got %g", r.Radius))
			}
		}
		return r, errs
	}
}

// RegionDefinition declares a custom region in normalized canvas units.
type RegionDefinition struct {
	Name   region.Name `json:"name" toml:"name"`
	Bounds region.Rect `json:"bounds" toml:"bounds"`
}

// Config is the document-level layout configuration: custom regions plus the
// defaults applied to layout specifications that omit region or anchor.
type Config struct {
	Regions       []RegionDefinition `json:"regions,omitempty"`
	DefaultRegion region.Name        `json:"defaultRegion,omitempty"`
	DefaultAnchor *region.Anchor     `json:"defaultAnchor,omitempty"`
}

// Register adds the config's custom regions to m. It stops at the first
// region the manager rejects.
func (c Config) Register(m *region.Manager) error {
	for _, def := range c.Regions {
		if err := m.AddCustomRegion(string(def.Name), def.Bounds); err != nil {
			return err
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
