package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/errors"
)

const (
	logoDoc    = "testdata/logo.json"
	invalidDoc = "testdata/invalid.json"
)

func resetOut() { out = os.Stdout }

// runCLI executes the root command with args against a config file holding
// configContent and returns what the command printed.
func runCLI(t *testing.T, configContent string, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "svglayout.toml")
	if configContent == "" {
		configContent = "[cache]\nbackend = \"none\"\n"
	}
	if err := os.WriteFile(cfg, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	out = &buf
	defer resetOut()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", cfg}, args...))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return buf.String(), err
}

func TestValidateCommand(t *testing.T) {
	got, err := runCLI(t, "", "validate", logoDoc)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(got, "is valid") || !strings.Contains(got, "2 layers") {
		t.Errorf("output = %q", got)
	}

	got, err = runCLI(t, "", "validate", invalidDoc)
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("validate invalid = %v, want INVALID_DOCUMENT", err)
	}
	if !strings.Contains(got, "Layer 0: Path 0") {
		t.Errorf("output = %q, want located messages", got)
	}
}

func TestValidateCommandOutput(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "clean.yaml")
	if _, err := runCLI(t, "", "validate", logoDoc, "-o", dst); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: unified-layered-1.0") {
		t.Errorf("sanitized yaml = %s", data)
	}
}

func TestValidateCommandBatch(t *testing.T) {
	got, err := runCLI(t, "", "validate", "--json", logoDoc, invalidDoc)
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Fatalf("validate batch = %v, want INVALID_DOCUMENT", err)
	}
	var results map[string]struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(got), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, got)
	}
	if !results[logoDoc].Success || results[invalidDoc].Success {
		t.Errorf("results = %+v", results)
	}
}

func TestRenderCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "logo")
	got, err := runCLI(t, "", "render", logoDoc, "-f", "svg,png,json", "-o", base+".svg", "--background", "#fff")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".png", ".json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing %s: %v", ext, err)
		}
		if !strings.Contains(got, base+ext) {
			t.Errorf("output does not list %s", base+ext)
		}
	}
	svg, _ := os.ReadFile(base + ".svg")
	if !strings.Contains(string(svg), `id="badge"`) {
		t.Errorf("svg = %s", svg)
	}
}

func TestRenderCommandInvalid(t *testing.T) {
	got, err := runCLI(t, "", "render", invalidDoc, "-o", filepath.Join(t.TempDir(), "x.svg"))
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("render invalid = %v", err)
	}
	if !strings.Contains(got, iconError) {
		t.Errorf("output = %q, want errors listed", got)
	}
}

func TestConvertCommand(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "wide.json")
	if _, err := runCLI(t, "", "convert", logoDoc, "--aspect", "16:9", "--rescale", "-o", dst); err != nil {
		t.Fatalf("convert: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Canvas.Width != 512 || doc.Canvas.Height != 288 {
		t.Errorf("Canvas = %+v, want 512x288", doc.Canvas)
	}
	if got := doc.Layers[0].Paths[0].Commands[2].Coords[1]; got != 288 {
		t.Errorf("rescaled y = %v, want 288", got)
	}

	if _, err := runCLI(t, "", "convert", logoDoc, "--aspect", "5:4"); !errors.Is(err, errors.ErrCodeUnknownAspectRatio) {
		t.Errorf("convert 5:4 = %v, want UNKNOWN_ASPECT_RATIO", err)
	}
}

func TestBoundsCommand(t *testing.T) {
	got, err := runCLI(t, "", "bounds", "--json", logoDoc)
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Document struct {
			Width float64 `json:"width"`
		} `json:"document"`
		Layers map[string]json.RawMessage `json:"layers"`
	}
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatalf("bounds output: %v\n%s", err, got)
	}
	if res.Document.Width != 512 || len(res.Layers) != 2 {
		t.Errorf("bounds = %+v", res)
	}
}

func TestReportCommand(t *testing.T) {
	got, err := runCLI(t, "", "report", "--json", logoDoc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"complexity": "low"`) {
		t.Errorf("report = %s", got)
	}

	got, err = runCLI(t, "", "report", logoDoc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Complexity") || !strings.Contains(got, "No recommendations") {
		t.Errorf("report table = %s", got)
	}
}

func TestRegionsCommand(t *testing.T) {
	cfg := `
[cache]
backend = "none"

[[regions]]
name = "sidebar"
bounds = { x = 0.75, y = 0, width = 0.25, height = 1 }
`
	got, err := runCLI(t, cfg, "regions", "--aspect", "16:9", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var rows []regionRow
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatal(err)
	}
	last := rows[len(rows)-1]
	if last.Name != "sidebar" || !last.Custom || last.Pixels.X != 384 || last.Pixels.Height != 288 {
		t.Errorf("custom region row = %+v", last)
	}
	for _, r := range rows[:len(rows)-1] {
		if r.Custom {
			t.Errorf("standard region %s marked custom", r.Name)
		}
	}
}

func TestDebugCommand(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "overlay.svg")
	got, err := runCLI(t, "", "debug", logoDoc, "--overlay", overlay)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Document is valid") {
		t.Errorf("summary = %q", got)
	}
	svg, err := os.ReadFile(overlay)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), `id="debug-overlay"`) {
		t.Errorf("overlay = %s", svg)
	}

	got, err = runCLI(t, "", "debug", logoDoc, "--dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "digraph document {") {
		t.Errorf("dot = %q", got)
	}

	// Debugging an invalid document reports instead of failing.
	got, err = runCLI(t, "", "debug", invalidDoc)
	if err != nil {
		t.Errorf("debug invalid = %v, want nil", err)
	}
	if !strings.Contains(got, "Document is invalid") {
		t.Errorf("summary = %q", got)
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "logo.svg")
	if _, err := runCLI(t, "", "render", logoDoc, "-o", svg); err != nil {
		t.Fatal(err)
	}
	got, err := runCLI(t, "", "import", svg)
	if err != nil {
		t.Fatal(err)
	}
	var doc document.Document
	if err := json.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("import output: %v", err)
	}
	if len(doc.Layers) != 2 || doc.Layers[1].ID != "badge" {
		t.Errorf("imported layers = %+v", doc.Layers)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(dir) + "\"\n"

	got, err := runCLI(t, cfg, "cache", "path")
	if err != nil || strings.TrimSpace(got) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, %v", got, err)
	}

	if _, err := runCLI(t, cfg, "render", logoDoc, "-o", filepath.Join(t.TempDir(), "a.svg")); err != nil {
		t.Fatal(err)
	}
	got, err = runCLI(t, cfg, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Cleared 2 cached entries") {
		t.Errorf("cache clear = %q", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, format string
		formats               int
		want                  string
	}{
		{"doc.json", "", "svg", 1, "doc.svg"},
		{"doc.json", "", "png", 2, "doc.png"},
		{"doc.json", "out/logo.svg", "svg", 1, "out/logo.svg"},
		{"doc.json", "out/logo.svg", "png", 2, "out/logo.png"},
		{"doc.yaml", "out/logo", "json", 2, "out/logo.json"},
	}
	for _, tt := range tests {
		base := outputBase(tt.input, tt.output, tt.formats)
		if got := outputPath(base, tt.output, tt.format, tt.formats); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q", tt.input, tt.output, tt.format, tt.formats, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats("", []string{"png"}); len(got) != 1 || got[0] != "png" {
		t.Errorf("parseFormats(\"\") = %v, want fallback", got)
	}
	if got := parseFormats("svg, json", nil); len(got) != 2 || got[1] != "json" {
		t.Errorf("parseFormats = %v", got)
	}
}
