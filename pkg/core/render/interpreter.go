package render

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/coords"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// Option configures an [Interpreter].
type Option func(*Interpreter)

// Interpreter converts documents to SVG. Its zero configuration writes
// plain, unoptimized markup. An Interpreter is immutable and safe to share.
type Interpreter struct {
	background string
	title      string
	optimize   bool
}

func WithBackground(color string) Option { return func(in *Interpreter) { in.background = color } }
func WithTitle(title string) Option      { return func(in *Interpreter) { in.title = title } }
func WithOptimize() Option               { return func(in *Interpreter) { in.optimize = true } }

// New returns an interpreter with the given options applied.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ConvertToSVG is shorthand for New(opts...).ConvertToSVG(d).
func ConvertToSVG(d document.Document, opts ...Option) (string, error) {
	return New(opts...).ConvertToSVG(d)
}

// ConvertToSVG renders d as an SVG document. It fails when the canvas is
// unusable, a layout names a region that does not exist, or a path holds a
// malformed command. Paths without commands are skipped.
func (in *Interpreter) ConvertToSVG(d document.Document) (string, error) {
	w, h := d.Canvas.Width, d.Canvas.Height
	m, err := newMapper(d)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(w, h, 0, 0, w, h)
	if in.title != "" {
		canvas.Title(in.title)
	}
	if in.background != "" {
		canvas.Rect(0, 0, w, h, attr("fill", in.background))
	}
	for i, l := range d.Layers {
		lw := layerWriter{canvas: canvas, mapper: m, cfg: d.Layout}
		if err := lw.write(l); err != nil {
			return "", fmt.Errorf("layer %d (%s): %w", i, l.ID, err)
		}
	}
	canvas.End()

	out := buf.String()
	if in.optimize {
		out = OptimizeSVG(out)
	}
	return out, nil
}

// newMapper builds the per-document region geometry: the canvas as given,
// plus the custom regions the document declares.
func newMapper(d document.Document) (*coords.Mapper, error) {
	size := aspect.Size{Width: d.Canvas.Width, Height: d.Canvas.Height}
	regions, err := region.NewCanvasManager(d.Canvas.Ratio(), size)
	if err != nil {
		return nil, err
	}
	if d.Layout != nil {
		if err := d.Layout.Register(regions); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "register document regions")
		}
	}
	return coords.NewMapper(regions), nil
}

type layerWriter struct {
	canvas *svg.SVG
	mapper *coords.Mapper
	cfg    *layout.Config
}

// placedPath is a path ready to be written, with its placement when it
// carries a layout.
type placedPath struct {
	path  document.Path
	d     string
	place *placement
}

// layerPlan is a layer with every placement resolved.
type layerPlan struct {
	paths  []placedPath
	place  *placement
	bounds Bounds // canvas bounds after placement
	ok     bool   // false when the layer has no coordinates
}

func planLayer(m *coords.Mapper, cfg *layout.Config, l document.Layer) (layerPlan, error) {
	paths := slices.Clone(l.Paths)
	slices.SortStableFunc(paths, func(a, b document.Path) int {
		return cmp.Compare(a.ZIndex(), b.ZIndex())
	})

	var (
		plan layerPlan
		acc  boundsAcc
	)
	for _, p := range paths {
		if len(p.Commands) == 0 {
			continue
		}
		d, err := PathData(p.Commands)
		if err != nil {
			return plan, fmt.Errorf("path %s: %w", p.ID, err)
		}
		pp := placedPath{path: p, d: d}
		local, _ := PathBounds(p)
		if p.Layout != nil && p.Layout.Places() {
			pl, err := place(m, *p.Layout, cfg, local)
			if err != nil {
				return plan, fmt.Errorf("path %s: %w", p.ID, err)
			}
			pp.place = &pl
			local = pl.apply(local)
		}
		acc.addBounds(local)
		plan.paths = append(plan.paths, pp)
	}

	plan.bounds, plan.ok = acc.bounds(), acc.ok
	if l.Layout == nil || !l.Layout.Places() || !plan.ok {
		return plan, nil
	}
	lp, err := place(m, *l.Layout, cfg, plan.bounds)
	if err != nil {
		return plan, err
	}
	plan.place = &lp
	plan.bounds = lp.apply(plan.bounds)
	return plan, nil
}

// LayerBounds returns the canvas bounds of every layer after layout
// placement, in document order. The second result reports which layers have
// any coordinates at all.
func LayerBounds(d document.Document) ([]Bounds, []bool, error) {
	m, err := newMapper(d)
	if err != nil {
		return nil, nil, err
	}
	bounds := make([]Bounds, len(d.Layers))
	ok := make([]bool, len(d.Layers))
	for i, l := range d.Layers {
		plan, err := planLayer(m, d.Layout, l)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %d (%s): %w", i, l.ID, err)
		}
		bounds[i], ok[i] = plan.bounds, plan.ok
	}
	return bounds, ok, nil
}

func (lw layerWriter) write(l document.Layer) error {
	plan, err := planLayer(lw.mapper, lw.cfg, l)
	if err != nil {
		return err
	}

	attrs := []string{attr("id", l.ID)}
	if l.Label != "" {
		attrs = append(attrs, attr("data-label", l.Label))
	}
	lw.canvas.Group(attrs...)
	defer lw.canvas.Gend()

	if plan.place == nil {
		lw.writePaths(plan.paths, "")
		return nil
	}
	offsets := plan.place.offsets()
	for k, off := range offsets {
		lw.canvas.Group(attr("transform", plan.place.transform(off)))
		suffix := ""
		if len(offsets) > 1 {
			suffix = "-" + strconv.Itoa(k)
		}
		lw.writePaths(plan.paths, suffix)
		lw.canvas.Gend()
	}
	return nil
}

func (lw layerWriter) writePaths(paths []placedPath, suffix string) {
	for _, p := range paths {
		id := p.path.ID + suffix
		style := styleAttrs(p.path.Style)
		if p.place == nil {
			lw.canvas.Path(p.d, append([]string{attr("id", id)}, style...)...)
			continue
		}

		offsets := p.place.offsets()
		if len(offsets) == 1 {
			lw.canvas.Group(attr("transform", p.place.transform(offsets[0])))
			lw.canvas.Path(p.d, append([]string{attr("id", id)}, style...)...)
			lw.canvas.Gend()
			continue
		}
		lw.canvas.Group(attr("id", id), attr("data-repeat", strconv.Itoa(len(offsets))))
		for k, off := range offsets {
			lw.canvas.Group(attr("transform", p.place.transform(off)))
			lw.canvas.Path(p.d, append([]string{attr("id", id+"-"+strconv.Itoa(k))}, style...)...)
			lw.canvas.Gend()
		}
		lw.canvas.Gend()
	}
}

func styleAttrs(s document.Style) []string {
	as := s.Attributes()
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = attr(a.Name, a.Value)
	}
	return out
}

// attr formats an escaped name="value" pair. svgo passes strings containing
// "=" through verbatim.
func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}
