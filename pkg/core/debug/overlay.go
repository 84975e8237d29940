package debug

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/render"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// RenderOverlay renders doc and draws the overlay elements of r on top of
// it, inside a group with id "debug-overlay". Regions are dashed outlines,
// layer markers solid ones; each carries its label in the top left corner.
func RenderOverlay(doc document.Document, r Result, opts ...render.Option) (string, error) {
	base, err := render.New(opts...).ConvertToSVG(doc)
	if err != nil {
		return "", err
	}
	end := strings.LastIndex(base, "</svg>")
	if end < 0 {
		return "", errors.New(errors.ErrCodeInternal, "rendered SVG has no closing tag")
	}

	var buf bytes.Buffer
	writeOverlay(svg.New(&buf), r.OverlayElements)
	return base[:end] + buf.String() + base[end:], nil
}

// OverlaySVG draws only the overlay, on the canvas of r.
func OverlaySVG(r Result) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := r.Canvas.Width, r.Canvas.Height
	canvas.Startview(w, h, 0, 0, w, h)
	writeOverlay(canvas, r.OverlayElements)
	canvas.End()
	return buf.String()
}

func writeOverlay(canvas *svg.SVG, elements []OverlayElement) {
	canvas.Group(`id="debug-overlay"`, `fill="none"`, `font-family="monospace"`, `font-size="10"`)
	for _, el := range elements {
		b := el.Bounds
		d := fmt.Sprintf("M%s %s H%s V%s H%s Z", f(b.X), f(b.Y), f(b.X+b.Width), f(b.Y+b.Height), f(b.X))
		attrs := []string{attr("class", "debug-"+string(el.Kind)), attr("stroke", el.Color)}
		if el.Kind == KindRegion {
			attrs = append(attrs, `stroke-dasharray="4 3"`, `stroke-width="1"`)
		} else {
			attrs = append(attrs, `stroke-width="2"`)
		}
		canvas.Path(d, attrs...)
		canvas.Text(int(b.X)+3, int(b.Y)+11, el.Label, attr("fill", el.Color))
	}
	canvas.Gend()
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}
