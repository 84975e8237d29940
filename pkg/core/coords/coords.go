// Package coords resolves layout placements to absolute canvas pixels.
//
// Resolution runs in four steps:
//
//  1. look up the region's pixel bounds
//  2. take the anchor's point inside the region as the base point
//  3. displace it by offset × region size
//  4. resolve the element size against the smaller canvas side
//
// The resulting [Box] is aligned so that the element's own anchor point sits
// on the base point; a top_left element grows right and down from it, a
// bottom_right element grows left and up.
package coords

import (
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
)

// Placement is a fully specified layout instruction.
type Placement struct {
	Region region.Name
	Anchor region.Anchor
	Offset layout.Offset
	Size   layout.Size // nil keeps the element's natural size
}

// Box is a resolved placement in canvas pixels. X and Y are the base point;
// Width and Height are zero when no size was requested.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Anchor region.Anchor `json:"anchor"`
	Region region.Rect   `json:"region"`
}

// Origin returns the top-left corner of the box.
func (b Box) Origin() (x, y float64) {
	fx, fy := b.Anchor.Fraction()
	return b.X - fx*b.Width, b.Y - fy*b.Height
}

// Rect returns the box as a rectangle anchored at its origin.
func (b Box) Rect() region.Rect {
	x, y := b.Origin()
	return region.Rect{X: x, Y: y, Width: b.Width, Height: b.Height}
}

// Mapper resolves placements against a region manager.
type Mapper struct {
	regions *region.Manager
}

// NewMapper returns a mapper using regions for region geometry.
func NewMapper(regions *region.Manager) *Mapper {
	return &Mapper{regions: regions}
}

// Resolve converts p to absolute canvas coordinates. It fails only when the
// region is unknown.
func (m *Mapper) Resolve(p Placement) (Box, error) {
	r, err := m.regions.PixelBounds(string(p.Region))
	if err != nil {
		return Box{}, err
	}
	bx, by := r.Point(p.Anchor)
	bx += p.Offset[0] * r.Width
	by += p.Offset[1] * r.Height

	box := Box{X: bx, Y: by, Anchor: p.Anchor, Region: r}
	if p.Size != nil {
		box.Width, box.Height = p.Size.Resolve(float64(m.regions.Canvas().Min()))
	}
	return box, nil
}

// FromSpecification builds a placement from a layout specification, filling
// missing fields from the document-level config. Without either, elements go
// to full_canvas at center.
func FromSpecification(spec layout.Specification, cfg *layout.Config) Placement {
	defRegion := region.Name("full_canvas")
	defAnchor := region.Center
	if cfg != nil {
		if cfg.DefaultRegion != "" {
			defRegion = cfg.DefaultRegion
		}
		if cfg.DefaultAnchor != nil {
			defAnchor = *cfg.DefaultAnchor
		}
	}
	return Placement{
		Region: spec.RegionOr(defRegion),
		Anchor: spec.AnchorOr(defAnchor),
		Offset: spec.Offset,
		Size:   spec.Size,
	}
}
