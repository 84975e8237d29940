// Package config loads svglayout settings from a TOML file.
//
// A config file only needs the keys it changes; everything else keeps the
// value from [Default]:
//
//	[validation]
//	strict = true
//	round_precision = 3
//
//	[validation.bounds]
//	min = -64
//	max = 576
//
//	[render]
//	formats = ["svg", "png"]
//	aspect_ratio = "16:9"
//
//	[cache]
//	backend = "redis"
//	ttl = "48h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[[regions]]
//	name = "sidebar"
//	bounds = { x = 0.75, y = 0, width = 0.25, height = 1 }
//
// Command-line flags override file values.
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/svglayout/pkg/cache"
	"github.com/matzehuels/svglayout/pkg/core/aspect"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/region"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
	"github.com/matzehuels/svglayout/pkg/pipeline"
)

// FileName is the config file looked up in the working directory.
const FileName = "svglayout.toml"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the complete file configuration.
type Config struct {
	Validation Validation                `toml:"validation"`
	Render     Render                    `toml:"render"`
	Cache      Cache                     `toml:"cache"`
	Regions    []layout.RegionDefinition `toml:"regions"`
}

// Validation mirrors validate.Options.
type Validation struct {
	Strict             bool   `toml:"strict"`
	Sanitize           bool   `toml:"sanitize"`
	AllowCustomRegions bool   `toml:"allow_custom_regions"`
	RoundPrecision     int    `toml:"round_precision"`
	Bounds             Bounds `toml:"bounds"`
}

// Bounds is the allowed coordinate range.
type Bounds struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Render holds output settings.
type Render struct {
	Optimize    bool     `toml:"optimize"`
	Formats     []string `toml:"formats"`
	PNGScale    float64  `toml:"png_scale"`
	AspectRatio string   `toml:"aspect_ratio"`
	Background  string   `toml:"background"`
	Title       string   `toml:"title"`
}

// Cache selects and configures the artifact cache.
type Cache struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	TTL     time.Duration     `toml:"ttl"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	v := validate.DefaultOptions()
	return Config{
		Validation: Validation{
			Strict:             v.Strict,
			Sanitize:           v.Sanitize,
			AllowCustomRegions: v.AllowCustomRegions,
			RoundPrecision:     v.Bounds.Precision,
			Bounds:             Bounds{Min: v.Bounds.Min, Max: v.Bounds.Max},
		},
		Render: Render{
			Formats:  []string{pipeline.FormatSVG},
			PNGScale: pipeline.DefaultPNGScale,
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     cache.ArtifactTTL,
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Load reads path, or when path is empty the first config found in the
// working directory and the user config directory. Finding no file is not an
// error: Load then returns [Default] and an empty source.
func Load(path string) (Config, string, error) {
	if path != "" {
		cfg, err := LoadFile(path)
		return cfg, path, err
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadFile(candidate)
			return cfg, candidate, err
		}
	}
	return Default(), "", nil
}

func searchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "svglayout", "config.toml"))
	}
	return paths
}

// LoadFile decodes the file at path over [Default]. Unknown keys are an
// error so typos do not go unnoticed.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// Validate checks values that cannot be expressed by the TOML types.
func (c Config) Validate() error {
	b := c.Validation.Bounds
	if b.Min >= b.Max {
		return errors.New(errors.ErrCodeInvalidConfig, "validation.bounds: min %g must be below max %g", b.Min, b.Max)
	}
	if c.Validation.RoundPrecision < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "validation.round_precision must not be negative")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.AspectRatio != "" {
		if _, err := aspect.Parse(c.Render.AspectRatio); err != nil {
			return err
		}
	}
	if c.Render.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.png_scale must be positive")
	}
	if !slices.Contains([]string{BackendNone, BackendFile, BackendRedis}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	m, err := region.NewManager(aspect.Default)
	if err != nil {
		return err
	}
	return layout.Config{Regions: c.Regions}.Register(m)
}

// ValidationOptions converts the validation section.
func (c Config) ValidationOptions() validate.Options {
	v := c.Validation
	return validate.Options{
		Strict:             v.Strict,
		Sanitize:           v.Sanitize,
		AllowCustomRegions: v.AllowCustomRegions,
		Bounds: document.CoordinateBounds{
			Min:       v.Bounds.Min,
			Max:       v.Bounds.Max,
			Precision: v.RoundPrecision,
		},
	}
}

// PipelineOptions converts the file settings to pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	r := c.Render
	return pipeline.Options{
		Validation:  c.ValidationOptions(),
		Regions:     slices.Clone(c.Regions),
		AspectRatio: r.AspectRatio,
		Formats:     slices.Clone(r.Formats),
		Optimize:    r.Optimize,
		Background:  r.Background,
		Title:       r.Title,
		PNGScale:    r.PNGScale,
		ArtifactTTL: c.Cache.TTL,
	}
}

// OpenCache opens the configured backend. An empty file cache directory
// means [cache.DefaultDir].
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.Redis)
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}
