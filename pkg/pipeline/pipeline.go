// Package pipeline runs the polypack stages behind one API for the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Catalogue: enumerate free polyominoes and drop those with holes
//  2. Sample: draw randomized cases from the catalogue
//  3. Write: emit .in/.ans files and a manifest
//
// Catalogues are cached by their key (maximum size and hole policy), so only
// the first run for a given size pays for enumeration.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	cat, info, err := runner.Catalogue(ctx, pipeline.Options{MaxK: 10})
//
//	res, err := runner.Generate(ctx, pipeline.GenerateOptions{
//	    Options: pipeline.Options{MaxK: 12},
//	    Count:   20,
//	    Seed:    1000,
//	    OutDir:  "testdata",
//	})
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polypack/pkg/cache"
	"github.com/matzehuels/polypack/pkg/catalogue"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/sampler"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxK is the largest polyomino size enumerated by default.
	DefaultMaxK = 15

	// DefaultMaxShapes caps any single size class. Size 15 has 3,426,576
	// free polyominoes, so the default admits it and stops at 16.
	DefaultMaxShapes = 4_000_000

	// DefaultCount is the number of cases written by Generate.
	DefaultCount = 20

	// DefaultSeed is the base seed of a generate run.
	DefaultSeed = uint64(1000)

	// DefaultOutDir is where Generate writes cases.
	DefaultOutDir = "testdata"
)

// Format constants for catalogue export.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats is the set of supported catalogue export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures catalogue construction.
type Options struct {
	MaxK         int  `json:"max_k,omitempty"`
	IncludeHoles bool `json:"include_holes,omitempty"`
	Workers      int  `json:"workers,omitempty"`
	MaxShapes    int  `json:"max_shapes,omitempty"`
	Refresh      bool `json:"refresh,omitempty"` // ignore cached catalogues

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// GenerateOptions configures a generate run.
type GenerateOptions struct {
	Options

	Count   int             `json:"count,omitempty"`
	Seed    uint64          `json:"seed"`
	OutDir  string          `json:"out_dir,omitempty"`
	Sampler sampler.Options `json:"sampler"`

	// Version is recorded in the manifest.
	Version string `json:"-"`
}

// GenerateResult describes a finished generate run.
type GenerateResult struct {
	Catalogue    *catalogue.Catalogue
	Manifest     *pkgio.Manifest
	ManifestPath string
	Stats        Stats
	CacheInfo    CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CatalogueTime time.Duration
	GenerateTime  time.Duration
	Shapes        int // shapes written over all cases
	Cells         int // cells written over all cases
}

// CacheInfo reports whether the catalogue came from the cache.
type CacheInfo struct {
	CatalogueHit bool
	Key          string
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a catalogue export format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return perrors.New(perrors.ErrCodeInvalidArgument, "invalid format: %q (must be one of: json, yaml)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxK == 0 {
		o.MaxK = DefaultMaxK
	}
	if err := perrors.ValidateMaxK(o.MaxK, 0); err != nil {
		return err
	}
	if o.Workers < 0 {
		return perrors.New(perrors.ErrCodeInvalidArgument, "workers must be >= 0, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxShapes < 0 {
		return perrors.New(perrors.ErrCodeInvalidArgument, "max_shapes must be >= 0, got %d", o.MaxShapes)
	}
	if o.MaxShapes == 0 {
		o.MaxShapes = DefaultMaxShapes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CatalogueKeyOpts returns the cache key options of the catalogue.
func (o *Options) CatalogueKeyOpts() cache.CatalogueKeyOpts {
	return cache.CatalogueKeyOpts{MaxK: o.MaxK, IncludeHoles: o.IncludeHoles}
}

// BuildOptions converts to catalogue build options.
func (o *Options) BuildOptions() catalogue.Options {
	return catalogue.Options{
		IncludeHoles: o.IncludeHoles,
		Workers:      o.Workers,
		MaxShapes:    o.MaxShapes,
	}
}

// ValidateAndSetDefaults checks fields and fills in defaults for a generate
// run. A zero Sampler means [sampler.DefaultOptions].
func (o *GenerateOptions) ValidateAndSetDefaults() error {
	if err := o.Options.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if err := perrors.ValidatePositive("count", o.Count); err != nil {
		return err
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if err := perrors.ValidateOutputDir(o.OutDir); err != nil {
		return err
	}
	if o.Sampler == (sampler.Options{}) {
		o.Sampler = sampler.DefaultOptions()
	}
	if err := o.Sampler.Validate(); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	return nil
}
