// Package document defines the unified layered document model.
//
// A [Document] holds a canvas and an ordered list of layers; each [Layer]
// holds paths, and each [Path] is a list of SVG-style commands with a style.
// Layers and paths may carry a layout specification placing them inside a
// named region; the document may carry a layout config declaring custom
// regions and placement defaults.
//
// Documents are treated as values. Transformations elsewhere (sanitizing,
// aspect conversion) start from [Document.Clone] and never modify their input.
package document

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/layout"
)

// Version is the document format identifier.
const Version = "unified-layered-1.0"

// Document is a unified layered SVG document.
type Document struct {
	Version string         `json:"version"`
	Canvas  Canvas         `json:"canvas"`
	Layout  *layout.Config `json:"layout,omitempty"`
	Layers  []Layer        `json:"layers"`
}

// Canvas is the drawing surface in pixels.
type Canvas struct {
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	AspectRatio aspect.Ratio `json:"aspectRatio,omitempty"`
}

// Ratio returns the canvas aspect ratio, falling back to the ratio implied by
// its dimensions and then to the default ratio.
func (c Canvas) Ratio() aspect.Ratio {
	if c.AspectRatio != "" {
		return c.AspectRatio
	}
	if r, ok := aspect.FromDimensions(c.Width, c.Height); ok {
		return r
	}
	return aspect.Default
}

// NewCanvas returns the canvas for a supported aspect ratio.
func NewCanvas(r aspect.Ratio) (Canvas, error) {
	size, err := aspect.Dimensions(r)
	if err != nil {
		return Canvas{}, err
	}
	return Canvas{Width: size.Width, Height: size.Height, AspectRatio: r}, nil
}

// Layer is a named group of paths rendered in document order.
type Layer struct {
	ID     string                `json:"id"`
	Label  string                `json:"label,omitempty"`
	Paths  []Path                `json:"paths"`
	Layout *layout.Specification `json:"layout,omitempty"`
}

// Path is a single vector path.
type Path struct {
	ID       string                `json:"id"`
	Style    Style                 `json:"style"`
	Commands []Command             `json:"commands"`
	Layout   *layout.Specification `json:"layout,omitempty"`
}

// ZIndex returns the path's z-order; paths without a layout sit at zero.
func (p Path) ZIndex() int {
	if p.Layout == nil {
		return 0
	}
	return p.Layout.ZIndex
}

// Op is a path command letter.
type Op string

// Supported path commands.
const (
	MoveTo    Op = "M"
	LineTo    Op = "L"
	CubicTo   Op = "C"
	QuadTo    Op = "Q"
	ClosePath Op = "Z"
)

// Ops lists the supported commands.
var Ops = []Op{MoveTo, LineTo, CubicTo, QuadTo, ClosePath}

// Arity returns the number of coordinates op takes, or -1 for unknown ops.
func (op Op) Arity() int {
	switch op {
	case MoveTo, LineTo:
		return 2
	case QuadTo:
		return 4
	case CubicTo:
		return 6
	case ClosePath:
		return 0
	}
	return -1
}

// Command is one path instruction.
type Command struct {
	Cmd    Op        `json:"cmd"`
	Coords []float64 `json:"coords"`
}

// Points returns the command's coordinates as (x, y) pairs. A trailing
// unpaired value is ignored.
func (c Command) Points() [][2]float64 {
	pts := make([][2]float64, 0, len(c.Coords)/2)
	for i := 0; i+1 < len(c.Coords); i += 2 {
		pts = append(pts, [2]float64{c.Coords[i], c.Coords[i+1]})
	}
	return pts
}

// The MarshalJSON methods below encode nil slices as empty arrays so that
// documents built in code survive a round trip through the validator.

// MarshalJSON implements json.Marshaler.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Layers == nil {
		d.Layers = []Layer{}
	}
	return json.Marshal(plain(d))
}

// MarshalJSON implements json.Marshaler.
func (l Layer) MarshalJSON() ([]byte, error) {
	type plain Layer
	if l.Paths == nil {
		l.Paths = []Path{}
	}
	return json.Marshal(plain(l))
}

// MarshalJSON implements json.Marshaler.
func (p Path) MarshalJSON() ([]byte, error) {
	type plain Path
	if p.Commands == nil {
		p.Commands = []Command{}
	}
	return json.Marshal(plain(p))
}

// MarshalJSON implements json.Marshaler.
func (c Command) MarshalJSON() ([]byte, error) {
	type plain Command
	if c.Coords == nil {
		c.Coords = []float64{}
	}
	return json.Marshal(plain(c))
}

// CoordinateBounds constrains every coordinate of every command.
type CoordinateBounds struct {
	Min       float64 `json:"min" toml:"min"`
	Max       float64 `json:"max" toml:"max"`
	Precision int     `json:"precision" toml:"precision"`
}

// DefaultBounds returns the bounds of a 512 px canvas with two decimals.
func DefaultBounds() CoordinateBounds {
	return CoordinateBounds{Min: 0, Max: aspect.BaseSize, Precision: 2}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	if d.Layout != nil {
		cfg := *d.Layout
		cfg.Regions = slices.Clone(d.Layout.Regions)
		if d.Layout.DefaultAnchor != nil {
			a := *d.Layout.DefaultAnchor
			cfg.DefaultAnchor = &a
		}
		out.Layout = &cfg
	}
	out.Layers = make([]Layer, len(d.Layers))
	for i, l := range d.Layers {
		out.Layers[i] = l.Clone()
	}
	return out
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	out := l
	out.Layout = cloneSpec(l.Layout)
	out.Paths = make([]Path, len(l.Paths))
	for i, p := range l.Paths {
		out.Paths[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of p.
func (p Path) Clone() Path {
	out := p
	out.Style = p.Style.clone()
	out.Layout = cloneSpec(p.Layout)
	out.Commands = make([]Command, len(p.Commands))
	for i, c := range p.Commands {
		out.Commands[i] = Command{Cmd: c.Cmd, Coords: slices.Clone(c.Coords)}
	}
	return out
}

func cloneSpec(s *layout.Specification) *layout.Specification {
	if s == nil {
		return nil
	}
	c := *s
	if s.Anchor != nil {
		a := *s.Anchor
		c.Anchor = &a
	}
	return &c
}

// Stats summarizes the size of a document.
type Stats struct {
	Layers      int `json:"layers"`
	Paths       int `json:"paths"`
	Commands    int `json:"commands"`
	Coordinates int `json:"coordinates"`
	Layouts     int `json:"layouts"`
}

// Stats counts layers, paths, commands, coordinate scalars and attached
// layout blocks.
func (d Document) Stats() Stats {
	s := Stats{Layers: len(d.Layers)}
	for _, l := range d.Layers {
		if l.Layout != nil {
			s.Layouts++
		}
		s.Paths += len(l.Paths)
		for _, p := range l.Paths {
			if p.Layout != nil {
				s.Layouts++
			}
			s.Commands += len(p.Commands)
			for _, c := range p.Commands {
				s.Coordinates += len(c.Coords)
			}
		}
	}
	return s
}
