package render

import (
	"math"

	"github.com/matzehuels/svglayout/pkg/core/coords"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// placement maps an element's local coordinates onto the canvas: scale
// first, then translate, once per copy.
type placement struct {
	tx, ty float64
	sx, sy float64
	copies [][2]float64
}

// place resolves spec against the mapper and fits local into the resulting
// box.
func place(m *coords.Mapper, spec layout.Specification, cfg *layout.Config, local Bounds) (placement, error) {
	box, err := m.Resolve(coords.FromSpecification(spec, cfg))
	if err != nil {
		return placement{}, err
	}
	sx, sy := 1.0, 1.0
	if box.Width > 0 && local.Width > 0 {
		sx = box.Width / local.Width
	}
	if box.Height > 0 && local.Height > 0 {
		sy = box.Height / local.Height
	}
	box.Width, box.Height = local.Width*sx, local.Height*sy

	ox, oy := box.Origin()
	pl := placement{
		tx: ox - sx*local.MinX,
		ty: oy - sy*local.MinY,
		sx: sx,
		sy: sy,
	}
	if !finite(pl.tx, pl.ty, pl.sx, pl.sy) {
		return placement{}, errors.New(errors.ErrCodeInvalidLayout, "placement is not finite (scale %g×%g)", sx, sy)
	}
	copies, err := repeatOffsets(spec.Repeat, box.Region)
	if err != nil {
		return placement{}, err
	}
	pl.copies = copies
	return pl, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// offsets returns the displacement of every copy; a single zero
// displacement without repetition.
func (p placement) offsets() [][2]float64 {
	if len(p.copies) == 0 {
		return [][2]float64{{0, 0}}
	}
	return p.copies
}

func (p placement) transform(off [2]float64) string {
	s := "translate(" + num(p.tx+off[0]) + " " + num(p.ty+off[1]) + ")"
	if p.sx != 1 || p.sy != 1 {
		s += " scale(" + num(p.sx) + " " + num(p.sy) + ")"
	}
	return s
}

// apply returns the canvas bounds of local after placement, over all copies.
func (p placement) apply(local Bounds) Bounds {
	var acc boundsAcc
	for _, off := range p.offsets() {
		acc.add(p.tx+off[0]+p.sx*local.MinX, p.ty+off[1]+p.sy*local.MinY)
		acc.add(p.tx+off[0]+p.sx*local.MaxX, p.ty+off[1]+p.sy*local.MaxY)
	}
	return acc.bounds()
}

// repeatOffsets lays copies out around the resolved position. Grid cells
// default to an even split of the region and are spaced by a fraction of the
// region size when spacing is set; radial copies sit on a circle starting at
// twelve o'clock, by default a third of the region's smaller side away.
func repeatOffsets(r layout.Repetition, area region.Rect) ([][2]float64, error) {
	switch r := r.(type) {
	case layout.Grid:
		cols, rows := max(r.Columns, 1), max(r.Rows, 1)
		if cols > layout.MaxElements || rows > layout.MaxElements || cols*rows > layout.MaxElements {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"grid of %d×%d elements exceeds %d", cols, rows, layout.MaxElements)
		}
		stepX, stepY := area.Width/float64(cols), area.Height/float64(rows)
		if r.Spacing > 0 {
			stepX, stepY = r.Spacing*area.Width, r.Spacing*area.Height
		}
		out := make([][2]float64, 0, cols*rows)
		for row := range rows {
			for col := range cols {
				out = append(out, [2]float64{
					(float64(col) - float64(cols-1)/2) * stepX,
					(float64(row) - float64(rows-1)/2) * stepY,
				})
			}
		}
		return out, nil
	case layout.Radial:
		if r.Count > layout.MaxElements {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"radial count %d exceeds %d", r.Count, layout.MaxElements)
		}
		radius := r.Radius
		if radius <= 0 {
			radius = math.Min(area.Width, area.Height) / 3
		}
		n := max(r.Count, 1)
		out := make([][2]float64, n)
		for k := range out {
			angle := -math.Pi/2 + 2*math.Pi*float64(k)/float64(n)
			out[k] = [2]float64{radius * math.Cos(angle), radius * math.Sin(angle)}
		}
		return out, nil
	}
	return nil, nil
}
