package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polypack/pkg/cache"
	"github.com/matzehuels/polypack/pkg/catalogue"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/observability"
	"github.com/matzehuels/polypack/pkg/sampler"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Catalogue returns the catalogue for opts, from the cache when possible.
// Cache failures are logged and treated as misses.
func (r *Runner) Catalogue(ctx context.Context, opts Options) (*catalogue.Catalogue, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}
	info := CacheInfo{Key: r.Keyer.CatalogueKey(opts.CatalogueKeyOpts())}
	hooks := observability.Pipeline()

	if !opts.Refresh {
		if cat := r.cachedCatalogue(ctx, info.Key, opts); cat != nil {
			info.CatalogueHit = true
			return cat, info, nil
		}
	}

	start := time.Now()
	hooks.OnCatalogueStart(ctx, opts.MaxK)
	bopts := opts.BuildOptions()
	bopts.Progress = func(size, count int) {
		opts.Logger.Debug("enumerated size class", "size", size, "shapes", count)
		hooks.OnClassComplete(ctx, size, count)
	}
	cat, err := catalogue.Build(ctx, opts.MaxK, bopts)
	if err != nil {
		hooks.OnCatalogueComplete(ctx, opts.MaxK, 0, time.Since(start), err)
		return nil, info, err
	}
	hooks.OnCatalogueComplete(ctx, opts.MaxK, cat.Total(), time.Since(start), nil)
	opts.Logger.Info("built catalogue",
		"max_k", cat.MaxK,
		"shapes", cat.Total(),
		"include_holes", cat.IncludeHoles,
		"duration", time.Since(start))

	if data, err := catalogue.Marshal(cat); err == nil {
		if err := r.Cache.Set(ctx, info.Key, data, cache.TTLCatalogue); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "catalogue", len(data))
		}
	}
	return cat, info, nil
}

// cachedCatalogue returns the cached catalogue under key, or nil when it is
// missing, invalid or built for other options.
func (r *Runner) cachedCatalogue(ctx context.Context, key string, opts Options) *catalogue.Catalogue {
	logger := opts.Logger
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "err", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "catalogue")
		return nil
	}
	cat, err := catalogue.Unmarshal(data)
	if err == nil && (cat.MaxK != opts.MaxK || cat.IncludeHoles != opts.IncludeHoles) {
		err = perrors.New(perrors.ErrCodeInvalidCatalogue,
			"cached catalogue has max_k=%d include_holes=%t", cat.MaxK, cat.IncludeHoles)
	}
	if err != nil {
		logger.Debug("discarding invalid cached catalogue", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "catalogue")
		return nil
	}
	observability.Cache().OnCacheHit(ctx, "catalogue")
	logger.Debug("catalogue from cache", "max_k", cat.MaxK, "shapes", cat.Total())
	return cat
}

// Case samples the single case seeded with seed. Results are cached by
// [cache.Keyer.CaseKey]; the bool reports a cache hit.
func (r *Runner) Case(ctx context.Context, opts Options, seed uint64, sopts sampler.Options) (sampler.Case, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sampler.Case{}, false, err
	}
	if err := sopts.Validate(); err != nil {
		return sampler.Case{}, false, err
	}

	key := r.Keyer.CaseKey(cache.CaseKeyOpts{
		Catalogue: opts.CatalogueKeyOpts(),
		Seed:      seed,
		MinPick:   sopts.MinPick,
		MaxPick:   sopts.MaxPick,
		MinExp:    sopts.MinExp,
		MaxExp:    sopts.MaxExp,
		Orient:    sopts.Orient,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var c sampler.Case
		if err := json.Unmarshal(data, &c); err == nil {
			observability.Cache().OnCacheHit(ctx, "case")
			return c, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "case")

	cat, _, err := r.Catalogue(ctx, opts)
	if err != nil {
		return sampler.Case{}, false, err
	}
	c, err := sampler.SampleCase(sampler.NewRand(seed), cat, sopts)
	if err != nil {
		return sampler.Case{}, false, err
	}
	if data, err := json.Marshal(c); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLCase); err == nil {
			observability.Cache().OnCacheSet(ctx, "case", len(data))
		}
	}
	return c, false, nil
}

// Generate builds or loads the catalogue, samples opts.Count cases and writes
// them with a manifest into opts.OutDir.
func (r *Runner) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	r.applyLogger(&opts.Options)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	res := &GenerateResult{}

	start := time.Now()
	cat, info, err := r.Catalogue(ctx, opts.Options)
	if err != nil {
		return nil, err
	}
	res.Catalogue = cat
	res.CacheInfo = info
	res.Stats.CatalogueTime = time.Since(start)
	logger.Info("catalogue ready",
		"shapes", cat.Total(),
		"cached", info.CatalogueHit,
		"duration", res.Stats.CatalogueTime)

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeIO, err, "create %s", opts.OutDir)
	}

	hooks := observability.Pipeline()
	start = time.Now()
	hooks.OnGenerateStart(ctx, opts.Count)
	res.Manifest = pkgio.NewManifest(opts.Seed, opts.MaxK, opts.IncludeHoles, opts.Sampler)
	res.Manifest.Version = opts.Version

	err = r.writeCases(ctx, cat, opts, res)
	res.Stats.GenerateTime = time.Since(start)
	hooks.OnGenerateComplete(ctx, opts.Count, res.Stats.GenerateTime, err)
	if err != nil {
		return nil, err
	}

	if res.ManifestPath, err = pkgio.WriteManifest(opts.OutDir, res.Manifest); err != nil {
		return nil, err
	}
	logger.Info("wrote cases",
		"count", opts.Count,
		"dir", opts.OutDir,
		"shapes", res.Stats.Shapes,
		"cells", res.Stats.Cells,
		"duration", res.Stats.GenerateTime)
	return res, nil
}

func (r *Runner) writeCases(ctx context.Context, cat *catalogue.Catalogue, opts GenerateOptions, res *GenerateResult) error {
	hooks := observability.Pipeline()
	for i := 1; i <= opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return perrors.Wrap(perrors.ErrCodeCancelled, err, "generate cancelled")
		}
		c, err := sampler.SampleCase(sampler.NewRand(opts.Seed+uint64(i)), cat, opts.Sampler)
		if err != nil {
			return err
		}
		c.Index = i

		inPath, ansPath, err := pkgio.ExportCase(opts.OutDir, c)
		if err != nil {
			return err
		}
		res.Manifest.Add(c, inPath, ansPath)
		res.Stats.Shapes += len(c.Shapes)
		res.Stats.Cells += c.Cells
		hooks.OnCaseWritten(ctx, i, len(c.Shapes), c.Cells)

		opts.Logger.Debug("wrote case",
			"file", inPath,
			"k_pick", c.KPick,
			"k_use", c.KUse,
			"n", len(c.Shapes),
			"pool", c.PoolSize,
			"target", c.Target,
			"cells", c.Cells)
	}
	return nil
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
