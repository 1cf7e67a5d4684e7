package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/buildinfo"
	"github.com/matzehuels/polypack/pkg/cache"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "polypack"

	// browseMaxK is the --max-k default of the interactive commands.
	browseMaxK = 10

	// defaultRedisPrefix namespaces polypack keys in a shared Redis.
	defaultRedisPrefix = "polypack:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cacheKind  string
	redisURL   string
	cfg        *Config
	hooks      *logHooks
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    &Config{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Polypack enumerates polyominoes and generates packing test cases",
		Long: `Polypack enumerates free polyominoes up to a size bound, drops those that
enclose holes, and draws randomized test inputs for polyomino packing problems
from the resulting catalogue.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			if c.cfg.Cache.Backend != "" && !cmd.Flags().Changed("cache") {
				c.cacheKind = c.cfg.Cache.Backend
			}
			if c.cfg.Cache.RedisURL != "" && !cmd.Flags().Changed("redis-url") {
				c.redisURL = c.cfg.Cache.RedisURL
			}
			c.hooks = installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/polypack/config.toml)")
	root.PersistentFlags().StringVar(&c.cacheKind, "cache", cacheFile, "cache backend: file, redis, none")
	root.PersistentFlags().StringVar(&c.redisURL, "redis-url", os.Getenv("REDIS_URL"), "redis URL for --cache redis")

	// Register all subcommands
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cacheKind {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		if c.redisURL == "" {
			return nil, perrors.New(perrors.ErrCodeInvalidArgument, "--cache redis needs --redis-url or REDIS_URL")
		}
		prefix := c.cfg.Cache.Prefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.redisURL, Prefix: prefix})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "prefix", prefix)
		return rc, nil
	case cacheFile, "":
		dir := c.cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidArgument,
			"invalid cache backend %q (must be one of: file, redis, none)", c.cacheKind)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/polypack/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// catalogueFlags binds the catalogue options shared by several commands.
type catalogueFlags struct {
	opts    pipeline.Options
	noCache bool
}

// register adds the flags with maxK as the --max-k default.
func (f *catalogueFlags) register(cmd *cobra.Command, maxK int) {
	cmd.Flags().IntVarP(&f.opts.MaxK, "max-k", "k", maxK, "largest polyomino size")
	cmd.Flags().BoolVar(&f.opts.IncludeHoles, "include-holes", false, "keep polyominoes that enclose holes")
	cmd.Flags().IntVar(&f.opts.Workers, "workers", 0, "enumeration workers (default: GOMAXPROCS)")
	cmd.Flags().IntVar(&f.opts.MaxShapes, "max-shapes", pipeline.DefaultMaxShapes, "abort when a size class exceeds this many shapes")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "rebuild even if the catalogue is cached")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// resolve applies config file values for flags that were not given.
func (f *catalogueFlags) resolve(cmd *cobra.Command, cfg CatalogueConfig, logger *log.Logger) pipeline.Options {
	fromConfig(cmd, "max-k", &f.opts.MaxK, cfg.MaxK)
	fromConfig(cmd, "include-holes", &f.opts.IncludeHoles, cfg.IncludeHoles)
	fromConfig(cmd, "workers", &f.opts.Workers, cfg.Workers)
	fromConfig(cmd, "max-shapes", &f.opts.MaxShapes, cfg.MaxShapes)
	opts := f.opts
	opts.Logger = logger
	return opts
}
