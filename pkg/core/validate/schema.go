package validate

import (
	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/schema"
	"github.com/samber/lo"
)

var commandSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "cmd", Kind: schema.String, Required: true, Enum: opNames()},
		{Name: "coords", Kind: schema.Array, Required: true, Items: &schema.Field{Kind: schema.Number}},
	},
}

var styleSchema = schema.Field{
	Name: "style",
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "fill", Kind: schema.String},
		{Name: "stroke", Kind: schema.String},
		{Name: "strokeWidth", Kind: schema.Number},
		{Name: "opacity", Kind: schema.Number},
		{Name: "fillOpacity", Kind: schema.Number},
		{Name: "strokeOpacity", Kind: schema.Number},
		{Name: "fillRule", Kind: schema.String, Enum: []string{"nonzero", "evenodd"}},
		{Name: "strokeLinecap", Kind: schema.String, Enum: []string{"butt", "round", "square"}},
		{Name: "strokeLinejoin", Kind: schema.String, Enum: []string{"miter", "round", "bevel"}},
	},
}

var pathSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "id", Kind: schema.String, Required: true},
		styleSchema,
		{Name: "commands", Kind: schema.Array, Required: true, Items: &commandSchema},
		{Name: "layout", Kind: schema.Object},
	},
}

var layerSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "id", Kind: schema.String, Required: true},
		{Name: "label", Kind: schema.String},
		{Name: "paths", Kind: schema.Array, Required: true, Items: &pathSchema},
		{Name: "layout", Kind: schema.Object},
	},
}

// documentSchema is the structural schema of a whole document. Layout
// blocks are only required to be objects here; their contents are checked
// by the layout parser.
var documentSchema = schema.Field{
	Kind: schema.Object,
	Fields: []schema.Field{
		{Name: "version", Kind: schema.String, Required: true, Enum: []string{document.Version}},
		{Name: "canvas", Kind: schema.Object, Required: true, Fields: []schema.Field{
			{Name: "width", Kind: schema.Integer, Required: true},
			{Name: "height", Kind: schema.Integer, Required: true},
			{Name: "aspectRatio", Kind: schema.String, Enum: ratioNames()},
		}},
		{Name: "layout", Kind: schema.Object},
		{Name: "layers", Kind: schema.Array, Required: true, MinItems: 1, Items: &layerSchema},
	},
}

func opNames() []string {
	return lo.Map(document.Ops, func(op document.Op, _ int) string { return string(op) })
}

func ratioNames() []string {
	return lo.Map(aspect.Supported(), func(r aspect.Ratio, _ int) string { return string(r) })
}

// The decode helpers below assume their input passed documentSchema.

func decodeDocument(raw map[string]any) document.Document {
	canvas := raw["canvas"].(map[string]any)
	d := document.Document{Version: raw["version"].(string)}
	d.Canvas.Width, _ = schema.Int(canvas["width"])
	d.Canvas.Height, _ = schema.Int(canvas["height"])
	if r, ok := canvas["aspectRatio"].(string); ok {
		d.Canvas.AspectRatio = aspect.Ratio(r)
	}

	layers := raw["layers"].([]any)
	d.Layers = make([]document.Layer, len(layers))
	for i, l := range layers {
		d.Layers[i] = decodeLayer(l.(map[string]any))
	}
	return d
}

func decodeLayer(raw map[string]any) document.Layer {
	l := document.Layer{ID: raw["id"].(string)}
	l.Label, _ = raw["label"].(string)
	paths := raw["paths"].([]any)
	l.Paths = make([]document.Path, len(paths))
	for i, p := range paths {
		l.Paths[i] = decodePath(p.(map[string]any))
	}
	return l
}

func decodePath(raw map[string]any) document.Path {
	p := document.Path{ID: raw["id"].(string)}
	if s, ok := raw["style"].(map[string]any); ok {
		p.Style = decodeStyle(s)
	}
	cmds := raw["commands"].([]any)
	p.Commands = make([]document.Command, len(cmds))
	for i, c := range cmds {
		obj := c.(map[string]any)
		coords := obj["coords"].([]any)
		cmd := document.Command{Cmd: document.Op(obj["cmd"].(string)), Coords: make([]float64, len(coords))}
		for j, v := range coords {
			cmd.Coords[j], _ = schema.Float(v)
		}
		p.Commands[i] = cmd
	}
	return p
}

func decodeStyle(raw map[string]any) document.Style {
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	num := func(key string) *float64 {
		if f, ok := schema.Float(raw[key]); ok {
			return lo.ToPtr(f)
		}
		return nil
	}
	return document.Style{
		Fill:           str("fill"),
		Stroke:         str("stroke"),
		StrokeWidth:    num("strokeWidth"),
		Opacity:        num("opacity"),
		FillOpacity:    num("fillOpacity"),
		StrokeOpacity:  num("strokeOpacity"),
		FillRule:       str("fillRule"),
		StrokeLinecap:  str("strokeLinecap"),
		StrokeLinejoin: str("strokeLinejoin"),
	}
}
