package pipeline

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/cache"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/design"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/errors"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/export"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete derive → pack → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, d *design.Design, opts Options) (*Result, error) {
	opts.ApplySettings(d.Settings)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hash, err := designHash(d)
	if err != nil {
		return nil, err
	}

	result := &Result{
		DesignHash: hash,
		Artifacts:  make(map[string][]byte),
	}
	result.Stats.LineCount = len(d.Lines)

	// Stage 1: Derive
	deriveStart := time.Now()
	strips, deriveHit, err := r.deriveCached(ctx, d, hash, opts)
	if err != nil {
		return nil, err
	}
	result.Strips = strips
	result.Stats.DeriveTime = time.Since(deriveStart)
	result.Stats.StripCount = len(strips)
	result.CacheInfo.DeriveHit = deriveHit

	r.Logger.Info("derived strips",
		"lines", result.Stats.LineCount,
		"strips", result.Stats.StripCount,
		"cached", deriveHit,
		"duration", result.Stats.DeriveTime)

	// Stage 2: Export (packing included)
	exportStart := time.Now()
	artifacts, exportHit, err := r.exportCached(ctx, d, hash, strips, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("exported groups",
		"groups", len(artifacts),
		"pass", opts.Pass,
		"cached", exportHit,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Derive resolves intersections and computes strips with caching.
func (r *Runner) Derive(ctx context.Context, d *design.Design, opts Options) ([]design.Strip, error) {
	opts.ApplySettings(d.Settings)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hash, err := designHash(d)
	if err != nil {
		return nil, err
	}
	strips, _, err := r.deriveCached(ctx, d, hash, opts)
	return strips, err
}

// deriveCached runs the derive stage, consulting the cache first.
// Options must already be validated.
func (r *Runner) deriveCached(ctx context.Context, d *design.Design, hash string, opts Options) ([]design.Strip, bool, error) {
	observability.Pipeline().OnDeriveStart(ctx, hash, len(d.Lines))
	start := time.Now()

	key := r.Keyer.StripKey(hash, opts.StripKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var strips []design.Strip
			if err := json.Unmarshal(data, &strips); err == nil {
				observability.Cache().OnCacheHit(ctx, "strips")
				observability.Pipeline().OnDeriveComplete(ctx, hash, len(strips), time.Since(start), nil)
				return strips, true, nil
			}
			// Corrupt entry: recompute and overwrite below.
		}
		observability.Cache().OnCacheMiss(ctx, "strips")
	}

	ins := design.ResolveIntersections(d.Lines, d.OverrideMap())
	strips := design.ComputeStrips(d.Lines, ins, opts.StripParams())

	if data, err := json.Marshal(strips); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.StripTTL)
		observability.Cache().OnCacheSet(ctx, "strips", len(data))
	}

	observability.Pipeline().OnDeriveComplete(ctx, hash, len(strips), time.Since(start), nil)
	return strips, false, nil
}

// exportCached renders SVG cut-paths for the selected groups, consulting the
// cache per group. Options must already be validated. The returned hit flag
// is true only when every artifact came from cache.
func (r *Runner) exportCached(ctx context.Context, d *design.Design, hash string, strips []design.Strip, opts Options) (map[string][]byte, bool, error) {
	groups, err := selectGroups(d, opts.Groups)
	if err != nil {
		return nil, false, err
	}

	byID := design.StripsByID(strips)
	artifacts := make(map[string][]byte)
	allHit := len(groups) > 0

	for _, g := range groups {
		observability.Pipeline().OnExportStart(ctx, g.ID, opts.Pass)
		start := time.Now()

		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(g.ID))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[g.ID] = data
				observability.Cache().OnCacheHit(ctx, "artifact")
				observability.Pipeline().OnExportComplete(ctx, g.ID, len(data), time.Since(start), nil)
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		svg, ok := export.SVG(g, byID, opts.ExportOptions()...)
		if !ok {
			observability.Pipeline().OnExportComplete(ctx, g.ID, 0, time.Since(start), nil)
			continue
		}
		artifacts[g.ID] = svg
		_ = r.Cache.Set(ctx, key, svg, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(svg))

		observability.Pipeline().OnExportComplete(ctx, g.ID, len(svg), time.Since(start), nil)
	}

	return artifacts, allHit, nil
}

// selectGroups resolves the requested group ids or names, or returns every
// group in stable name order when none are requested.
func selectGroups(d *design.Design, requested []string) ([]design.Group, error) {
	if len(requested) > 0 {
		out := make([]design.Group, 0, len(requested))
		for _, idOrName := range requested {
			g, ok := d.Group(idOrName)
			if !ok {
				return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q not found", idOrName)
			}
			out = append(out, g)
		}
		return out, nil
	}

	out := make([]design.Group, 0, len(d.Groups))
	for _, g := range d.Groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// designHash computes the content hash used for all cache keys.
func designHash(d *design.Design) (string, error) {
	data, err := design.Marshal(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash design")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
