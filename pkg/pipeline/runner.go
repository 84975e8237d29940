package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/svglayout/pkg/cache"
	"github.com/matzehuels/svglayout/pkg/core/document"
	"github.com/matzehuels/svglayout/pkg/core/layout"
	"github.com/matzehuels/svglayout/pkg/core/schema"
	"github.com/matzehuels/svglayout/pkg/core/validate"
	"github.com/matzehuels/svglayout/pkg/errors"
	"github.com/matzehuels/svglayout/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state besides the cache and logger, so one
// Runner may serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the default keyer, a nil cache
// disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs validate → convert → render on input, which may be anything
// the validator accepts.
//
// When the document fails validation, Execute returns the partial result
// (carrying the validation messages) together with an INVALID_DOCUMENT
// error.
func (r *Runner) Execute(ctx context.Context, input any, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString(), Artifacts: map[string][]byte{}}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Validate
	start := time.Now()
	vr, hash, hit, err := r.ValidateWithCacheInfo(ctx, input, opts)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	result.DocHash = hash
	result.Validation = vr
	result.Stats.ValidateTime = time.Since(start)
	result.CacheInfo.ValidateHit = hit
	if !vr.Success || vr.Data == nil {
		logger.Warn("document invalid", "errors", len(vr.Errors), "warnings", len(vr.Warnings))
		return result, errors.New(errors.ErrCodeInvalidDocument, "document has %d errors, first: %s", len(vr.Errors), firstOr(vr.Errors, "no data"))
	}
	doc := *vr.Data
	stats := doc.Stats()
	result.Stats.Layers = stats.Layers
	result.Stats.Paths = stats.Paths

	logger.Info("validated document",
		"layers", stats.Layers,
		"paths", stats.Paths,
		"warnings", len(vr.Warnings),
		"cached", hit,
		"duration", result.Stats.ValidateTime)

	// Stage 2: Convert
	if opts.AspectRatio != "" {
		start = time.Now()
		doc, err = Convert(ctx, doc, opts)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		result.Stats.ConvertTime = time.Since(start)
		logger.Info("converted aspect ratio",
			"ratio", opts.AspectRatio,
			"canvas", fmt.Sprintf("%dx%d", doc.Canvas.Width, doc.Canvas.Height),
			"duration", result.Stats.ConvertTime)
	}
	result.Document = doc

	// Stage 3: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ValidateWithCacheInfo validates input with caching. It returns the result,
// the input's content hash and whether the result came from cache. Input
// that cannot be normalized is not an error: it yields a failed result like
// any other invalid document.
func (r *Runner) ValidateWithCacheInfo(ctx context.Context, input any, opts Options) (validate.Result, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return validate.Result{}, "", false, err
	}
	v := validate.New(opts.Validation)

	raw, err := schema.Normalize(input)
	if err != nil || raw == nil {
		return v.ValidateDocument(input), "", false, nil
	}
	raw = mergeRegions(raw, opts.Regions)
	canonical, err := json.Marshal(raw)
	if err != nil {
		return validate.Result{}, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash document")
	}
	hash := cache.Hash(canonical)
	key := r.Keyer.ValidationKey(hash, opts.ValidationKeyOpts())
	hooks := observability.Pipeline()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached validate.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "validation")
				return cached, hash, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "validation")
	}

	hooks.OnValidateStart(ctx, hash)
	start := time.Now()
	res := v.ValidateDocument(raw)
	hooks.OnValidateComplete(ctx, hash, len(res.Errors), len(res.Warnings), time.Since(start))

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.ValidationTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "validation", len(data))
		} else {
			opts.Logger.Debug("cache write failed", "key", key, "error", err)
		}
	}
	return res, hash, false, nil
}

// Validate is ValidateWithCacheInfo without the hash and cache information.
func (r *Runner) Validate(ctx context.Context, input any, opts Options) (validate.Result, error) {
	res, _, _, err := r.ValidateWithCacheInfo(ctx, input, opts)
	return res, err
}

// RenderWithCacheInfo renders doc in every requested format, reading each
// artifact from cache when possible. The returned flag is true when all
// artifacts came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc document.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize document for cache key")
	}
	hash := cache.Hash(docData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(doc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.artifactTTL()); err != nil {
			opts.Logger.Debug("cache write failed", "key", key, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (o Options) artifactTTL() time.Duration {
	if o.ArtifactTTL > 0 {
		return o.ArtifactTTL
	}
	return cache.ArtifactTTL
}

func firstOr(msgs []string, fallback string) string {
	if len(msgs) == 0 {
		return fallback
	}
	return msgs[0]
}

// mergeRegions adds defs to the document's layout.regions, skipping names
// the document already declares. raw is not modified.
func mergeRegions(raw any, defs []layout.RegionDefinition) any {
	obj, ok := raw.(map[string]any)
	if !ok || len(defs) == 0 {
		return raw
	}
	out := maps.Clone(obj)
	cfg := map[string]any{}
	if lc, ok := obj["layout"].(map[string]any); ok {
		cfg = maps.Clone(lc)
	} else if obj["layout"] != nil {
		return raw
	}
	regions, _ := cfg["regions"].([]any)
	regions = slices.Clone(regions)
	declared := map[string]bool{}
	for _, r := range regions {
		if m, ok := r.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				declared[name] = true
			}
		}
	}
	for _, d := range defs {
		if declared[string(d.Name)] {
			continue
		}
		regions = append(regions, map[string]any{
			"name": string(d.Name),
			"bounds": map[string]any{
				"x":      d.Bounds.X,
				"y":      d.Bounds.Y,
				"width":  d.Bounds.Width,
				"height": d.Bounds.Height,
			},
		})
	}
	cfg["regions"] = regions
	out["layout"] = cfg
	return out
}
