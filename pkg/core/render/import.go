package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rustyoz/svg"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/errors"
)

// ImportSVG reads SVG text, typically produced by [Interpreter.ConvertToSVG],
// back into a document. Top-level groups become layers and every <path>
// below them becomes a path of that layer; paths outside any group are
// collected into a layer named "imported".
//
// Geometry is read from the d attributes as written. Layout transforms are
// not inverted, so layout-placed paths come back in their local coordinates
// and without their layout block.
func ImportSVG(text string) (document.Document, error) {
	parsed, err := svg.ParseSvg(text, "import", 1.0)
	if err != nil {
		return document.Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse SVG")
	}
	meta, err := scanAttributes(text)
	if err != nil {
		return document.Document{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read SVG attributes")
	}

	canvas, err := meta.canvas()
	if err != nil {
		return document.Document{}, err
	}
	doc := document.Document{Version: document.Version, Canvas: canvas}

	im := importer{meta: meta, layers: make(map[string]bool), paths: make(map[string]bool)}
	for i := range parsed.Groups {
		g := &parsed.Groups[i]
		if err := im.addLayer(&doc, g); err != nil {
			return document.Document{}, err
		}
	}
	loose := document.Layer{ID: "imported"}
	for _, el := range parsed.Elements {
		switch el := el.(type) {
		case *svg.Group:
			if err := im.addLayer(&doc, el); err != nil {
				return document.Document{}, err
			}
		case *svg.Path:
			if err := im.addPath(&loose, el); err != nil {
				return document.Document{}, err
			}
		}
	}
	if len(loose.Paths) > 0 {
		doc.Layers = append(doc.Layers, loose)
	}
	return doc, nil
}

type importer struct {
	meta   svgMeta
	layers map[string]bool
	paths  map[string]bool
	anon   int
}

func (im *importer) addLayer(doc *document.Document, g *svg.Group) error {
	if g.ID != "" {
		if im.layers[g.ID] {
			return nil
		}
		im.layers[g.ID] = true
	}
	l := document.Layer{ID: g.ID, Label: im.meta.labels[g.ID], Paths: []document.Path{}}
	if l.ID == "" {
		l.ID = fmt.Sprintf("layer-%d", len(doc.Layers))
	}
	if err := im.walk(&l, g.Elements); err != nil {
		return fmt.Errorf("layer %s: %w", l.ID, err)
	}
	doc.Layers = append(doc.Layers, l)
	return nil
}

func (im *importer) walk(l *document.Layer, elements []svg.DrawingInstructionParser) error {
	for _, el := range elements {
		switch el := el.(type) {
		case *svg.Group:
			if err := im.walk(l, el.Elements); err != nil {
				return err
			}
		case *svg.Path:
			if err := im.addPath(l, el); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *importer) addPath(l *document.Layer, p *svg.Path) error {
	id := p.ID
	if id == "" {
		im.anon++
		id = fmt.Sprintf("path-%d", im.anon)
	}
	key := l.ID + "/" + id
	if im.paths[key] {
		return nil
	}
	im.paths[key] = true

	cmds, err := ParsePathData(p.D)
	if err != nil {
		return fmt.Errorf("path %s: %w", id, err)
	}
	l.Paths = append(l.Paths, document.Path{
		ID:       id,
		Style:    styleFrom(im.meta.pathAttrs[p.ID]),
		Commands: cmds,
	})
	return nil
}

// svgMeta holds the attributes the structural parser does not expose.
type svgMeta struct {
	width, height, viewBox string
	labels                 map[string]string
	pathAttrs              map[string]map[string]string
}

// scanAttributes collects root dimensions, layer labels and path
// presentation attributes keyed by element id.
func scanAttributes(text string) (svgMeta, error) {
	meta := svgMeta{labels: make(map[string]string), pathAttrs: make(map[string]map[string]string)}
	dec := xml.NewDecoder(strings.NewReader(text))
	root := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return meta, nil
		}
		if err != nil {
			return meta, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = a.Value
		}
		switch {
		case root && start.Name.Local == "svg":
			meta.width, meta.height, meta.viewBox = attrs["width"], attrs["height"], attrs["viewBox"]
			root = false
		case start.Name.Local == "g" && attrs["data-label"] != "":
			meta.labels[attrs["id"]] = attrs["data-label"]
		case start.Name.Local == "path" && attrs["id"] != "":
			meta.pathAttrs[attrs["id"]] = attrs
		}
	}
}

// canvas derives the canvas from width and height, falling back to the
// viewBox and then to the default canvas.
func (m svgMeta) canvas() (document.Canvas, error) {
	w, werr := pixels(m.width)
	h, herr := pixels(m.height)
	if werr != nil || herr != nil {
		f := strings.Fields(strings.ReplaceAll(m.viewBox, ",", " "))
		if len(f) != 4 {
			return document.NewCanvas(aspect.Default)
		}
		w, werr = pixels(f[2])
		h, herr = pixels(f[3])
		if werr != nil || herr != nil {
			return document.Canvas{}, errors.New(errors.ErrCodeInvalidFormat, "invalid viewBox %q", m.viewBox)
		}
	}
	c := document.Canvas{Width: w, Height: h}
	if r, ok := aspect.FromDimensions(w, h); ok {
		c.AspectRatio = r
	}
	return c, nil
}

func pixels(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("size %g must be positive", v)
	}
	return int(v + 0.5), nil
}

func styleFrom(attrs map[string]string) document.Style {
	f := func(name string) *float64 {
		v, err := strconv.ParseFloat(attrs[name], 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return document.Style{
		Fill:           attrs["fill"],
		Stroke:         attrs["stroke"],
		StrokeWidth:    f("stroke-width"),
		Opacity:        f("opacity"),
		FillOpacity:    f("fill-opacity"),
		StrokeOpacity:  f("stroke-opacity"),
		FillRule:       attrs["fill-rule"],
		StrokeLinecap:  attrs["stroke-linecap"],
		StrokeLinejoin: attrs["stroke-linejoin"],
	}
}
