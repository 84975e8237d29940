package debug

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/svglayout/pkg/core/document"
)

const sample = `{
	"version": "unified-layered-1.0",
	"canvas": {"width": 512, "height": 512, "aspectRatio": "1:1"},
	"layout": {"regions": [{"name": "badge", "bounds": {"x": 0.8, "y": 0, "width": 0.2, "height": 0.2}}]},
	"layers": [
		{"id": "background", "label": "Background", "paths": [
			{"id": "bg", "style": {"fill": "#ffffff"}, "commands": [
				{"cmd": "M", "coords": [0, 0]}, {"cmd": "L", "coords": [512, 0]},
				{"cmd": "L", "coords": [512, 512]}, {"cmd": "Z", "coords": []}
			]}
		]},
		{"id": "icon", "layout": {"region": "top_left", "anchor": "top_left"}, "paths": [
			{"id": "dot", "style": {"fill": "#ff0000"}, "commands": [
				{"cmd": "M", "coords": [0, 0]}, {"cmd": "L", "coords": [10, 0]},
				{"cmd": "L", "coords": [10, 10]}, {"cmd": "Z", "coords": []}
			]}
		]},
		{"id": "empty", "paths": []}
	]
}`

func elements(r Result, k Kind) []OverlayElement {
	var out []OverlayElement
	for _, el := range r.OverlayElements {
		if el.Kind == k {
			out = append(out, el)
		}
	}
	return out
}

func TestGenerate(t *testing.T) {
	r := Generate(sample, DefaultOptions())

	if !r.Validation.Success {
		t.Fatalf("validation failed: %v", r.Validation.Errors)
	}
	want := Statistics{RegionsShown: 2, LayersAnalyzed: 3, ErrorsFound: 0, WarningsFound: r.Statistics.WarningsFound}
	if r.Statistics != want {
		t.Errorf("Statistics = %+v, want %+v", r.Statistics, want)
	}

	regions := elements(r, KindRegion)
	if len(regions) != 2 || regions[0].ID != "top_left" || regions[1].ID != "badge" {
		t.Fatalf("regions = %+v, want top_left and badge", regions)
	}
	if b := regions[1].Bounds; b.X < 409.5 || b.X > 409.7 || b.Width < 102.3 || b.Width > 102.5 {
		t.Errorf("badge bounds = %+v, want x≈409.6 width≈102.4", b)
	}

	layers := elements(r, KindLayer)
	if len(layers) != 2 {
		t.Fatalf("got %d layer markers, want 2 (the empty layer has none)", len(layers))
	}
	if layers[1].ID != "icon" || layers[1].Bounds.X != 0 || layers[1].Bounds.Width != 10 {
		t.Errorf("icon marker = %+v", layers[1])
	}
	if layers[0].Color == layers[1].Color {
		t.Error("layer markers share a color")
	}
	if r.RenderTime <= 0 {
		t.Error("RenderTime not recorded")
	}
}

func TestGenerateGridFallback(t *testing.T) {
	doc := strings.Replace(sample, `"layout": {"region": "top_left", "anchor": "top_left"}, `, "", 1)
	doc = strings.Replace(doc, `"layout": {"regions": [{"name": "badge", "bounds": {"x": 0.8, "y": 0, "width": 0.2, "height": 0.2}}]},`, "", 1)
	r := Generate(doc, DefaultOptions())
	if r.Statistics.RegionsShown != 9 {
		t.Errorf("RegionsShown = %d, want 9", r.Statistics.RegionsShown)
	}
}

func TestGenerateExplicitRegions(t *testing.T) {
	opts := DefaultOptions()
	opts.Regions = []string{"header", "footer", "nowhere"}
	opts.ShowLayers = false
	r := Generate(sample, opts)
	if r.Statistics.RegionsShown != 2 || len(r.OverlayElements) != 2 {
		t.Errorf("RegionsShown = %d, elements = %d, want 2 and 2", r.Statistics.RegionsShown, len(r.OverlayElements))
	}
	if r.Statistics.LayersAnalyzed != 0 {
		t.Errorf("LayersAnalyzed = %d with ShowLayers off", r.Statistics.LayersAnalyzed)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	for _, input := range []any{nil, "not json", map[string]any{"version": "x"}} {
		r := Generate(input, DefaultOptions())
		if r.Validation.Success || r.Statistics.ErrorsFound == 0 {
			t.Errorf("Generate(%v) reported no errors", input)
		}
		if r.Canvas.Width != 512 || r.Canvas.Height != 512 {
			t.Errorf("Generate(%v) canvas = %+v, want default", input, r.Canvas)
		}
		if r.Statistics.RegionsShown != 9 {
			t.Errorf("Generate(%v) RegionsShown = %d, want 9", input, r.Statistics.RegionsShown)
		}
	}
}

func TestGenerateCountsErrors(t *testing.T) {
	doc := strings.Replace(sample, `{"cmd": "M", "coords": [0, 0]}, {"cmd": "L", "coords": [10, 0]}`, `{"cmd": "L", "coords": [10, 0]}`, 1)
	r := Generate(doc, DefaultOptions())
	if r.Statistics.ErrorsFound != 1 {
		t.Errorf("ErrorsFound = %d, want 1: %v", r.Statistics.ErrorsFound, r.Validation.Errors)
	}
	if len(elements(r, KindLayer)) == 0 {
		t.Error("layer markers missing for a document with errors")
	}
}

func TestSummarize(t *testing.T) {
	r := Generate(sample, DefaultOptions())
	s := Summarize(r)
	if !s.Valid {
		t.Error("Valid = false")
	}
	for _, want := range []string{"Document is valid", "3 layers", "2 regions", "0 errors", "512×512"} {
		if !strings.Contains(s.Summary, want) {
			t.Errorf("Summary = %q, want it to contain %q", s.Summary, want)
		}
	}
	if s.LayerMarkers != 2 || len(s.Regions) != 2 {
		t.Errorf("LayerMarkers = %d, Regions = %v", s.LayerMarkers, s.Regions)
	}

	bad := Summarize(Generate(nil, DefaultOptions()))
	if bad.Valid || !strings.Contains(bad.Summary, "invalid") || !strings.Contains(bad.String(), "error: ") {
		t.Errorf("invalid summary = %q", bad.String())
	}
}

func TestRenderOverlay(t *testing.T) {
	r := Generate(sample, DefaultOptions())
	out, err := RenderOverlay(*r.Validation.Data, r)
	if err != nil {
		t.Fatalf("RenderOverlay() error: %v", err)
	}
	overlay := strings.Index(out, `id="debug-overlay"`)
	if overlay < 0 || overlay < strings.Index(out, `id="icon"`) {
		t.Fatal("overlay missing or drawn below the document")
	}
	for _, want := range []string{`class="debug-region"`, `class="debug-layer"`, "stroke-dasharray", ">badge</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("overlay does not contain %s", want)
		}
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("overlay output is not closed")
	}

	only := OverlaySVG(r)
	if !strings.Contains(only, `viewBox="0 0 512 512"`) || strings.Contains(only, `id="icon"`) {
		t.Error("OverlaySVG should draw only the overlay on the canvas")
	}
}

func TestStructureDOT(t *testing.T) {
	r := Generate(sample, DefaultOptions())
	dot := StructureDOT(*r.Validation.Data)
	for _, want := range []string{
		"digraph document {",
		`"doc" -> "layer/0";`,
		`"layer/1" -> "layer/1/path/0";`,
		`@ top_left`,
		"fillcolor=lightyellow",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("StructureDOT() missing %s:\n%s", want, dot)
		}
	}
}

func TestRenderStructureSVG(t *testing.T) {
	doc := document.Document{
		Version: document.Version,
		Canvas:  document.Canvas{Width: 512, Height: 512},
		Layers:  []document.Layer{{ID: "only", Paths: []document.Path{{ID: "p"}}}},
	}
	out, err := RenderStructureSVG(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderStructureSVG() error: %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Error("output is not SVG")
	}
}
