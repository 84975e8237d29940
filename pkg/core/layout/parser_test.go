package layout

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/region"
)

func contains(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestParseSpecificationValid(t *testing.T) {
	p := NewParser(nil, DefaultOptions())
	r := p.ParseSpecification(`{
		"region": "header",
		"anchor": "top_left",
		"offset": [0.1, -0.2],
		"size": {"aspect_constrained": {"width": 120, "aspect": 2}},
		"repeat": {"type": "grid", "count": [3, 2], "spacing": 0.3},
		"zIndex": 4
	}`, nil)

	if !r.Success {
		t.Fatalf("ParseSpecification failed: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
	spec := r.Data
	if spec.Region != "header" {
		t.Errorf("Region = %q, want header", spec.Region)
	}
	if spec.AnchorOr(region.Center) != region.TopLeft {
		t.Errorf("Anchor = %v, want top_left", spec.Anchor)
	}
	if spec.Offset != (Offset{0.1, -0.2}) {
		t.Errorf("Offset = %v, want [0.1 -0.2]", spec.Offset)
	}
	if spec.Size != (AspectConstrained{Width: 120, Aspect: 2}) {
		t.Errorf("Size = %#v", spec.Size)
	}
	if spec.Repeat != (Grid{Columns: 3, Rows: 2, Spacing: 0.3}) {
		t.Errorf("Repeat = %#v", spec.Repeat)
	}
	if spec.ZIndex != 4 {
		t.Errorf("ZIndex = %d, want 4", spec.ZIndex)
	}
}

func TestParseSpecificationRegionSuggestion(t *testing.T) {
	strict := NewParser(nil, Options{Strict: true})
	r := strict.ParseSpecification(map[string]any{"region": "centre"}, nil)
	if r.Success {
		t.Fatal("strict parse of unknown region should fail")
	}
	if !contains(r.Errors, "Did you mean: center") {
		t.Errorf("Errors = %v, want suggestion for center", r.Errors)
	}

	lenient := strict.WithOptions(DefaultOptions())
	r = lenient.ParseSpecification(map[string]any{"region": "centre"}, nil)
	if !r.Success {
		t.Fatalf("lenient parse failed: %v", r.Errors)
	}
	if r.Data.Region != "center" {
		t.Errorf("Region = %q, want center fallback", r.Data.Region)
	}
	if !contains(r.Warnings, `defaulting to "center"`) {
		t.Errorf("Warnings = %v, want fallback note", r.Warnings)
	}
	if !strict.Options().Strict {
		t.Error("WithOptions mutated the original parser")
	}
}

func TestParseSpecificationAnchor(t *testing.T) {
	p := NewParser(nil, Options{Strict: true})
	r := p.ParseSpecification(`{"anchor": "top_lft"}`, nil)
	if r.Success || !contains(r.Errors, "Did you mean: top_left") {
		t.Errorf("Errors = %v, want top_left suggestion", r.Errors)
	}
}

func TestParseSpecificationOffset(t *testing.T) {
	tests := []struct {
		name        string
		strict      bool
		offset      []any
		wantSuccess bool
		wantOffset  Offset
		wantMsg     string
	}{
		{"in range", false, []any{0.5, -0.5}, true, Offset{0.5, -0.5}, ""},
		{"large warns", false, []any{0.9, 0}, true, Offset{0.9, 0}, "Large offset"},
		{"lenient clamps", false, []any{1.5, -3.0}, true, Offset{1, -1}, "clamping to 1"},
		{"strict rejects", true, []any{1.5, 0}, false, Offset{}, "outside [-1, 1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(nil, Options{Strict: tt.strict})
			r := p.ParseSpecification(map[string]any{"offset": tt.offset}, nil)
			if r.Success != tt.wantSuccess {
				t.Fatalf("Success = %v, want %v (errors %v)", r.Success, tt.wantSuccess, r.Errors)
			}
			if r.Data.Offset != tt.wantOffset {
				t.Errorf("Offset = %v, want %v", r.Data.Offset, tt.wantOffset)
			}
			if tt.wantMsg != "" && !contains(append(r.Errors, r.Warnings...), tt.wantMsg) {
				t.Errorf("messages %v, want %q", append(r.Errors, r.Warnings...), tt.wantMsg)
			}
		})
	}
}

func TestParseSpecificationSize(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		wantErr string
		wantWrn string
	}{
		{"relative", `{"relative": 0.5}`, "", ""},
		{"relative large", `{"relative": 0.9}`, "", "may overlap"},
		{"relative zero", `{"relative": 0}`, "must be in (0, 1]", ""},
		{"exclusive", `{"relative": 0.5, "absolute": {"width": 1, "height": 1}}`, "mutually exclusive", ""},
		{"empty", `{}`, "exactly one of", ""},
		{"absolute negative", `{"absolute": {"width": -1, "height": 10}}`, "must be positive", ""},
		{"absolute exceeds", `{"absolute": {"width": 600, "height": 10}}`, "", "may exceed"},
		{"extreme aspect", `{"aspect_constrained": {"width": 50, "aspect": 20}}`, "", "extreme proportions"},
		{"infinite height", `{"aspect_constrained": {"width": 100, "aspect": 1e-320}}`, "non-finite height", ""},
		{"schema", `{"relative": "big"}`, "Schema validation", ""},
	}

	ctx := &Context{Canvas: aspect.MustDimensions(aspect.Square)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(nil, DefaultOptions())
			r := p.ParseSpecification(`{"size": `+tt.size+`}`, ctx)
			if tt.wantErr == "" {
				if !r.Success {
					t.Fatalf("Errors = %v, want success", r.Errors)
				}
			} else if r.Success || !contains(r.Errors, tt.wantErr) {
				t.Fatalf("Errors = %v, want %q", r.Errors, tt.wantErr)
			}
			if tt.wantWrn != "" && !contains(r.Warnings, tt.wantWrn) {
				t.Errorf("Warnings = %v, want %q", r.Warnings, tt.wantWrn)
			}
		})
	}
}

func TestParseSpecificationRepeat(t *testing.T) {
	tests := []struct {
		name    string
		repeat  string
		want    Repetition
		wantErr string
		wantWrn string
	}{
		{"grid scalar", `{"type": "grid", "count": 4}`, Grid{Columns: 4, Rows: 1}, "", ""},
		{"grid pair", `{"type": "grid", "count": [2, 3], "spacing": 0.5}`, Grid{2, 3, 0.5}, "", ""},
		{"grid large", `{"type": "grid", "count": [21, 1]}`, Grid{21, 1, 0}, "", "per axis"},
		{"grid tight", `{"type": "grid", "count": 2, "spacing": 0.01}`, Grid{2, 1, 0.01}, "", "may overlap"},
		{"grid spacing range", `{"type": "grid", "count": 2, "spacing": 1.5}`, nil, "(0, 1]", ""},
		{"radial", `{"type": "radial", "count": 6, "radius": 80}`, Radial{6, 80}, "", ""},
		{"radial many", `{"type": "radial", "count": 60}`, Radial{60, 0}, "", "render slowly"},
		{"radial wide", `{"type": "radial", "count": 6, "radius": 250}`, Radial{6, 250}, "", "outside the canvas"},
		{"radial pair", `{"type": "radial", "count": [2, 2]}`, nil, "single integer", ""},
		{"radial radius", `{"type": "radial", "count": 3, "radius": 0}`, nil, "must be positive", ""},
		{"zero count", `{"type": "grid", "count": 0}`, nil, "positive integer", ""},
		{"grid over limit", `{"type": "grid", "count": [1000, 2]}`, nil, "exceeds the limit of 1000", ""},
		{"grid axis over limit", `{"type": "grid", "count": [2000000000, 2000000000]}`, nil, "exceeds the limit", ""},
		{"radial over limit", `{"type": "radial", "count": 2000000000}`, nil, "exceeds the limit of 1000", ""},
		{"fractional count", `{"type": "grid", "count": 2.5}`, nil, "Schema validation", ""},
		{"unknown type", `{"type": "spiral", "count": 2}`, nil, "must be one of grid, radial", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewParser(nil, DefaultOptions()).ParseSpecification(`{"repeat": `+tt.repeat+`}`, nil)
			if tt.wantErr != "" {
				if r.Success || !contains(r.Errors, tt.wantErr) {
					t.Fatalf("Errors = %v, want %q", r.Errors, tt.wantErr)
				}
				return
			}
			if !r.Success {
				t.Fatalf("Errors = %v", r.Errors)
			}
			if r.Data.Repeat != tt.want {
				t.Errorf("Repeat = %#v, want %#v", r.Data.Repeat, tt.want)
			}
			if tt.wantWrn != "" && !contains(r.Warnings, tt.wantWrn) {
				t.Errorf("Warnings = %v, want %q", r.Warnings, tt.wantWrn)
			}
		})
	}
}

func TestCrossValidation(t *testing.T) {
	p := NewParser(nil, DefaultOptions())
	r := p.ParseSpecification(`{
		"size": {"relative": 0.1},
		"repeat": {"type": "grid", "count": [4, 3]}
	}`, nil)
	if !r.Success || !contains(r.Warnings, "12 repeated elements") {
		t.Errorf("Warnings = %v, want crowding warning", r.Warnings)
	}

	r = p.ParseSpecification(`{"offset": [0.6, 0], "repeat": {"type": "radial", "count": 5}}`, nil)
	if !r.Success || !contains(r.Warnings, "radial repetition") {
		t.Errorf("Warnings = %v, want radial drift warning", r.Warnings)
	}
}

func TestParseSpecificationMalformed(t *testing.T) {
	p := NewParser(nil, DefaultOptions())
	self := map[string]any{}
	self["region"] = self

	for name, input := range map[string]any{
		"nil":        nil,
		"number":     42,
		"array":      []any{1, 2},
		"bad json":   "{",
		"self ref":   self,
		"wrong kind": map[string]any{"offset": "left"},
	} {
		r := p.ParseSpecification(input, nil)
		if r.Success {
			t.Errorf("%s: parse succeeded", name)
			continue
		}
		if !strings.HasPrefix(r.Errors[0], "Schema validation") {
			t.Errorf("%s: Errors = %v, want schema error", name, r.Errors)
		}
	}
}

func TestCustomRegionReference(t *testing.T) {
	m, _ := region.NewManager(aspect.Square)
	if err := m.AddCustomRegion("sidebar", region.Rect{X: 0.8, Y: 0, Width: 0.2, Height: 1}); err != nil {
		t.Fatal(err)
	}

	allowed := NewParser(m, Options{Strict: true, AllowCustomRegions: true})
	if r := allowed.ParseSpecification(`{"region": "sidebar"}`, nil); !r.Success {
		t.Errorf("custom region rejected: %v", r.Errors)
	}

	denied := allowed.WithOptions(Options{Strict: true})
	r := denied.ParseSpecification(`{"region": "sidebar"}`, nil)
	if r.Success || !contains(r.Errors, "custom regions are not allowed") {
		t.Errorf("Errors = %v, want custom-region rejection", r.Errors)
	}
}

func TestParseConfig(t *testing.T) {
	p := NewParser(nil, Options{Strict: true, AllowCustomRegions: true})
	r := p.ParseConfig(`{
		"regions": [
			{"name": "logo", "bounds": {"x": 0.05, "y": 0.05, "width": 0.2, "height": 0.2}},
			{"name": "dot", "bounds": {"x": 0.5, "y": 0.5, "width": 0.01, "height": 0.01}}
		],
		"defaultRegion": "logo",
		"defaultAnchor": "bottom_right"
	}`, nil)
	if !r.Success {
		t.Fatalf("ParseConfig failed: %v", r.Errors)
	}
	if len(r.Data.Regions) != 2 || r.Data.DefaultRegion != "logo" {
		t.Errorf("Data = %+v", r.Data)
	}
	if *r.Data.DefaultAnchor != region.BottomRight {
		t.Errorf("DefaultAnchor = %v, want bottom_right", *r.Data.DefaultAnchor)
	}
	if !contains(r.Warnings, "very small") {
		t.Errorf("Warnings = %v, want small-region warning", r.Warnings)
	}
	if p.Regions().HasRegion("logo") {
		t.Error("ParseConfig must not register regions")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"standard name", `{"regions": [{"name": "header", "bounds": {"x": 0, "y": 0, "width": 1, "height": 0.1}}]}`, "conflicts with a standard region"},
		{"duplicate", `{"regions": [
			{"name": "a", "bounds": {"x": 0, "y": 0, "width": 0.1, "height": 0.1}},
			{"name": "a", "bounds": {"x": 0.5, "y": 0, "width": 0.1, "height": 0.1}}]}`, "duplicate region name"},
		{"overflow", `{"regions": [{"name": "wide", "bounds": {"x": 0.6, "y": 0, "width": 0.6, "height": 0.1}}]}`, "overflows the canvas"},
		{"empty name", `{"regions": [{"name": "", "bounds": {"x": 0, "y": 0, "width": 0.1, "height": 0.1}}]}`, "cannot be empty"},
		{"missing bounds", `{"regions": [{"name": "x"}]}`, "required field is missing"},
		{"unknown default", `{"defaultRegion": "heder"}`, "Did you mean: header"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewParser(nil, Options{Strict: true, AllowCustomRegions: true}).ParseConfig(tt.input, nil)
			if r.Success || !contains(r.Errors, tt.wantErr) {
				t.Errorf("Errors = %v, want %q", r.Errors, tt.wantErr)
			}
		})
	}
}

func TestConfigRegister(t *testing.T) {
	cfg := Config{Regions: []RegionDefinition{
		{Name: "badge", Bounds: region.Rect{X: 0, Y: 0, Width: 0.1, Height: 0.1}},
	}}
	m, _ := region.NewManager(aspect.Square)
	if err := cfg.Register(m); err != nil {
		t.Fatal(err)
	}
	if !m.HasRegion("badge") {
		t.Error("Register did not add badge")
	}
}

func TestSpecificationJSON(t *testing.T) {
	anchor := region.BottomCenter
	spec := Specification{
		Region: "footer",
		Anchor: &anchor,
		Offset: Offset{0, -0.1},
		Size:   Absolute{Width: 40, Height: 20},
		Repeat: Radial{Count: 5, Radius: 30},
		ZIndex: -1,
	}
	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatal(err)
	}
	var got Specification
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.Region != spec.Region || *got.Anchor != anchor || got.Offset != spec.Offset ||
		got.Size != spec.Size || got.Repeat != spec.Repeat || got.ZIndex != spec.ZIndex {
		t.Errorf("round trip = %+v, want %+v", got, spec)
	}

	if err := json.Unmarshal([]byte(`{"size": {}}`), &got); err == nil {
		t.Error("Unmarshal of empty size should fail")
	}
}

func TestSizeResolve(t *testing.T) {
	tests := []struct {
		size  Size
		w, h  float64
		label string
	}{
		{Absolute{30, 40}, 30, 40, "absolute"},
		{Relative(0.25), 72, 72, "relative"},
		{AspectConstrained{Width: 100, Aspect: 4}, 100, 25, "aspect"},
	}
	for _, tt := range tests {
		w, h := tt.size.Resolve(288)
		if w != tt.w || h != tt.h {
			t.Errorf("%s Resolve(288) = (%v, %v), want (%v, %v)", tt.label, w, h, tt.w, tt.h)
		}
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest("centre", region.StandardNames(), 3)
	if len(got) == 0 || got[0] != "center" {
		t.Errorf("Suggest(centre) = %v, want center first", got)
	}
	if got := Suggest("zzzzzz", region.StandardNames(), 3); len(got) != 0 {
		t.Errorf("Suggest(zzzzzz) = %v, want none", got)
	}
	got = Suggest("top", []string{"top_a", "top_b", "tops", "topz", "top1"}, 3)
	if len(got) != 3 {
		t.Errorf("Suggest limit: got %v", got)
	}
	if s := Similarity("Center", "center"); s != 1 {
		t.Errorf("Similarity is case sensitive: %v", s)
	}
}
