package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	perrors "github.com/matzehuels/polypack/pkg/errors"
)

// Cache backends accepted by --cache and [cache] backend.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Config is the optional TOML configuration file. Zero values mean "not
// set": the command flag default applies.
//
//	[catalogue]
//	max_k = 12
//	include_holes = false
//
//	[generate]
//	count = 20
//	seed = 1000
//	out = "testdata"
//	min_exp = 2.0
//	max_exp = 5.0
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	max_k = 12
type Config struct {
	Catalogue CatalogueConfig `toml:"catalogue"`
	Generate  GenerateConfig  `toml:"generate"`
	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
}

type CatalogueConfig struct {
	MaxK         int  `toml:"max_k"`
	IncludeHoles bool `toml:"include_holes"`
	Workers      int  `toml:"workers"`
	MaxShapes    int  `toml:"max_shapes"`
}

type GenerateConfig struct {
	Count   int     `toml:"count"`
	Seed    uint64  `toml:"seed"`
	Out     string  `toml:"out"`
	MinPick int     `toml:"min_pick"`
	MaxPick int     `toml:"max_pick"`
	MinExp  float64 `toml:"min_exp"`
	MaxExp  float64 `toml:"max_exp"`
	Orient  bool    `toml:"orient"`
}

type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	MaxK int    `toml:"max_k"`
}

// loadConfig reads path. An empty path falls back to the default location,
// which may be missing; an explicit path must exist.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "", cacheFile, cacheRedis, cacheNone:
	default:
		return perrors.New(perrors.ErrCodeInvalidConfig,
			"cache backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cacheRedis && c.Cache.RedisURL == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
	}
	return nil
}

// configPath returns the XDG config file location (~/.config/polypack/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// fromConfig copies a set config value into dst unless the flag was given.
func fromConfig[T comparable](cmd *cobra.Command, flag string, dst *T, v T) {
	var zero T
	if v != zero && !cmd.Flags().Changed(flag) {
		*dst = v
	}
}
