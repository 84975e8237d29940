// Package debug produces inspection aids for unified layered documents.
//
// [Generate] validates a document without failing on problems, then
// describes an overlay: one element per visualized region and one marker per
// layer showing where the layer lands after layout placement. [RenderOverlay]
// draws that overlay over the rendered document, and [StructureDOT] draws
// the document's layer and path tree as a Graphviz graph.
package debug

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/render"
	"github.com/matzehuels/svglayout/pkg/core/validate"
)

// Kind distinguishes overlay elements.
type Kind string

const (
	KindRegion Kind = "region"
	KindLayer  Kind = "layer"
)

// gridRegions are shown when a document references no region at all.
var gridRegions = []string{
	"top_left", "top_center", "top_right",
	"middle_left", "center", "middle_right",
	"bottom_left", "bottom_center", "bottom_right",
}

// Options selects what the overlay shows.
type Options struct {
	// ShowRegions adds one element per region.
	ShowRegions bool `json:"show_regions" toml:"show_regions"`
	// ShowLayers adds one marker per layer with coordinates.
	ShowLayers bool `json:"show_layers" toml:"show_layers"`
	// Regions lists the regions to show. When empty, the regions the
	// document references and its custom regions are shown, or the 3×3 grid
	// when there are none.
	Regions []string `json:"regions,omitempty" toml:"regions"`
	// Validation configures the validation pass.
	Validation validate.Options `json:"validation" toml:"validation"`
}

// DefaultOptions shows regions and layers with default validation.
func DefaultOptions() Options {
	return Options{ShowRegions: true, ShowLayers: true, Validation: validate.DefaultOptions()}
}

// OverlayElement is one rectangle of the overlay, in canvas pixels.
type OverlayElement struct {
	Kind   Kind        `json:"kind"`
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Bounds region.Rect `json:"bounds"`
	Color  string      `json:"color"`
}

// Statistics counts what the overlay covers.
type Statistics struct {
	RegionsShown   int `json:"regionsShown"`
	LayersAnalyzed int `json:"layersAnalyzed"`
	ErrorsFound    int `json:"errorsFound"`
	WarningsFound  int `json:"warningsFound"`
}

// Result is the outcome of [Generate].
type Result struct {
	OverlayElements []OverlayElement `json:"overlayElements"`
	Statistics      Statistics       `json:"statistics"`
	RenderTime      time.Duration    `json:"renderTime"`
	Validation      validate.Result  `json:"validation"`
	// Canvas is the canvas the overlay was laid out on.
	Canvas document.Canvas `json:"canvas"`
}

var palette = []string{"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4", "#42d4f4", "#f032e6", "#9a6324"}

const regionColor = "#888888"

// Generate validates input and describes the debug overlay for it. Problems
// in the document never make it fail; they are counted in the statistics and
// listed in the validation result. When the input does not even pass the
// schema, the overlay shows regions on the default canvas.
func Generate(input any, opts Options) Result {
	start := time.Now()
	res := Result{
		OverlayElements: []OverlayElement{},
		Validation:      validate.New(opts.Validation).ValidateDocument(input),
	}
	res.Statistics.ErrorsFound = len(res.Validation.Errors)
	res.Statistics.WarningsFound = len(res.Validation.Warnings)

	var doc document.Document
	if res.Validation.Data != nil {
		doc = *res.Validation.Data
		res.Canvas = doc.Canvas
	}
	if res.Canvas.Width <= 0 || res.Canvas.Height <= 0 {
		res.Canvas, _ = document.NewCanvas(aspect.Default)
	}

	if opts.ShowRegions {
		regions := regionManager(doc, res.Canvas)
		for _, name := range regionsToShow(doc, regions, opts.Regions) {
			r, err := regions.PixelBounds(name)
			if err != nil {
				continue
			}
			res.OverlayElements = append(res.OverlayElements, OverlayElement{
				Kind: KindRegion, ID: name, Label: name, Bounds: r, Color: regionColor,
			})
			res.Statistics.RegionsShown++
		}
	}

	if opts.ShowLayers && res.Validation.Data != nil {
		bounds, ok, err := render.LayerBounds(doc)
		if err == nil {
			for i, l := range doc.Layers {
				res.Statistics.LayersAnalyzed++
				if !ok[i] {
					continue
				}
				b := bounds[i]
				res.OverlayElements = append(res.OverlayElements, OverlayElement{
					Kind:   KindLayer,
					ID:     l.ID,
					Label:  fmt.Sprintf("%s (%d paths)", l.ID, len(l.Paths)),
					Bounds: region.Rect{X: b.MinX, Y: b.MinY, Width: b.Width, Height: b.Height},
					Color:  palette[i%len(palette)],
				})
			}
		}
	}

	res.RenderTime = time.Since(start)
	return res
}

// regionManager returns the document's region geometry, including its custom
// regions. Regions the document fails to declare are left out.
func regionManager(doc document.Document, canvas document.Canvas) *region.Manager {
	size := aspect.Size{Width: canvas.Width, Height: canvas.Height}
	m, err := region.NewCanvasManager(canvas.Ratio(), size)
	if err != nil {
		m, _ = region.NewManager(aspect.Default)
		return m
	}
	if doc.Layout != nil {
		for _, def := range doc.Layout.Regions {
			_ = m.AddCustomRegion(string(def.Name), def.Bounds)
		}
	}
	return m
}

func regionsToShow(doc document.Document, m *region.Manager, explicit []string) []string {
	if len(explicit) > 0 {
		return explicit
	}
	var names []string
	add := func(name string) {
		if name != "" && m.HasRegion(name) && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if doc.Layout != nil {
		add(string(doc.Layout.DefaultRegion))
	}
	for _, l := range doc.Layers {
		if l.Layout != nil {
			add(string(l.Layout.Region))
		}
		for _, p := range l.Paths {
			if p.Layout != nil {
				add(string(p.Layout.Region))
			}
		}
	}
	for _, name := range m.CustomRegions() {
		add(name)
	}
	if len(names) == 0 {
		return gridRegions
	}
	return names
}
