package render

import (
	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
)

// ConvertOption configures [ConvertToAspectRatio].
type ConvertOption func(*converter)

type converter struct {
	rescale bool
}

// WithRescale scales every coordinate from the old canvas to the new one,
// x by the width ratio and y by the height ratio.
func WithRescale() ConvertOption { return func(c *converter) { c.rescale = true } }

// ConvertToAspectRatio returns a copy of d on the standard canvas of ratio.
//
// By default only the canvas changes: layout-placed content follows its
// regions on the new canvas, while absolute coordinates stay where they
// are and may fall outside a smaller canvas. [WithRescale] maps absolute
// coordinates as well.
func ConvertToAspectRatio(d document.Document, ratio aspect.Ratio, opts ...ConvertOption) (document.Document, error) {
	var c converter
	for _, opt := range opts {
		opt(&c)
	}
	canvas, err := document.NewCanvas(ratio)
	if err != nil {
		return document.Document{}, err
	}

	out := d.Clone()
	if c.rescale && d.Canvas.Width > 0 && d.Canvas.Height > 0 {
		sx := float64(canvas.Width) / float64(d.Canvas.Width)
		sy := float64(canvas.Height) / float64(d.Canvas.Height)
		for _, l := range out.Layers {
			for _, p := range l.Paths {
				for _, cmd := range p.Commands {
					for i := range cmd.Coords {
						if i%2 == 0 {
							cmd.Coords[i] *= sx
						} else {
							cmd.Coords[i] *= sy
						}
					}
				}
			}
		}
	}
	out.Canvas = canvas
	return out, nil
}
