package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/svglayout/pkg/cache"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesValidator(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got := cfg.ValidationOptions(); got != validate.DefaultOptions() {
		t.Errorf("ValidationOptions() = %+v, want %+v", got, validate.DefaultOptions())
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[validation]
strict = true
round_precision = 3

[validation.bounds]
min = -64
max = 576

[render]
formats = ["svg", "png"]
aspect_ratio = "16:9"
png_scale = 2

[cache]
backend = "none"
ttl = "48h"

[[regions]]
name = "sidebar"
bounds = { x = 0.75, y = 0, width = 0.25, height = 1 }
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	v := cfg.ValidationOptions()
	if !v.Strict || !v.Sanitize || v.Bounds.Min != -64 || v.Bounds.Max != 576 || v.Bounds.Precision != 3 {
		t.Errorf("ValidationOptions() = %+v", v)
	}
	if cfg.Cache.TTL != 48*time.Hour {
		t.Errorf("Cache.TTL = %v, want 48h", cfg.Cache.TTL)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0].Name != "sidebar" || cfg.Regions[0].Bounds.Width != 0.25 {
		t.Errorf("Regions = %+v", cfg.Regions)
	}

	opts := cfg.PipelineOptions()
	if opts.AspectRatio != "16:9" || opts.PNGScale != 2 || len(opts.Formats) != 2 || len(opts.Regions) != 1 {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
	if opts.ArtifactTTL != 48*time.Hour {
		t.Errorf("ArtifactTTL = %v", opts.ArtifactTTL)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[validation\nstrict = true", errors.ErrCodeInvalidConfig},
		{"unknown key", "[render]\nformat = \"svg\"", errors.ErrCodeInvalidConfig},
		{"bad bounds", "[validation.bounds]\nmin = 10\nmax = 0", errors.ErrCodeInvalidConfig},
		{"bad format", "[render]\nformats = [\"gif\"]", errors.ErrCodeInvalidConfig},
		{"bad ratio", "[render]\naspect_ratio = \"5:4\"", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"bad region", "[[regions]]\nname = \"center\"\nbounds = { x = 0, y = 0, width = 1, height = 1 }", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("LoadFile() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}

	path := writeConfig(t, "[render]\noptimize = true\n")
	cfg, src, err := Load(path)
	if err != nil || src != path || !cfg.Render.Optimize {
		t.Errorf("Load(%s) = %+v, %q, %v", path, cfg.Render, src, err)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want NullCache", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("OpenCache(file) = %T", c)
	}
}
