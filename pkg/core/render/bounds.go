package render

import (
	"math"

	"github.com/matzehuels/svglayout/pkg/core/document"
)

// Bounds is an axis-aligned bounding box in canvas pixels.
type Bounds struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SVGBounds returns the bounding box over every coordinate pair of every
// command in d. Close commands carry no coordinates and do not count. A
// document without coordinates has zero bounds.
func SVGBounds(d document.Document) Bounds {
	var acc boundsAcc
	for _, l := range d.Layers {
		for _, p := range l.Paths {
			acc.addPath(p)
		}
	}
	return acc.bounds()
}

// PathBounds returns the bounding box of one path's coordinates.
func PathBounds(p document.Path) (Bounds, bool) {
	var acc boundsAcc
	acc.addPath(p)
	return acc.bounds(), acc.ok
}

type boundsAcc struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (a *boundsAcc) add(x, y float64) {
	if !a.ok {
		a.minX, a.maxX, a.minY, a.maxY = x, x, y, y
		a.ok = true
		return
	}
	a.minX = math.Min(a.minX, x)
	a.maxX = math.Max(a.maxX, x)
	a.minY = math.Min(a.minY, y)
	a.maxY = math.Max(a.maxY, y)
}

func (a *boundsAcc) addPath(p document.Path) {
	for _, c := range p.Commands {
		for _, pt := range c.Points() {
			a.add(pt[0], pt[1])
		}
	}
}

func (a *boundsAcc) addBounds(b Bounds) {
	a.add(b.MinX, b.MinY)
	a.add(b.MaxX, b.MaxY)
}

func (a *boundsAcc) bounds() Bounds {
	if !a.ok {
		return Bounds{}
	}
	return Bounds{
		MinX: a.minX, MinY: a.minY, MaxX: a.maxX, MaxY: a.maxY,
		Width: a.maxX - a.minX, Height: a.maxY - a.minY,
	}
}
