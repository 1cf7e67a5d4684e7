// Package sampler draws randomized packing test cases from a catalogue.
//
// A case is built in three steps: pick a maximum shape size k uniformly from
// [Options.MinPick, Options.MaxPick] (clamped to the catalogue's MaxK), pick a
// cell budget 10^p with p uniform in [Options.MinExp, Options.MaxExp], then
// draw shapes of size <= k uniformly with replacement until the drawn cells
// reach the budget.
//
// Every case has its own generator: case i of a run seeded s uses
// [NewRand](s+i), so cases are reproducible one by one.
package sampler

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/polypack/pkg/catalogue"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

const (
	DefaultMinPick = 6
	DefaultMaxPick = 15
	DefaultMinExp  = 2.0
	DefaultMaxExp  = 5.0

	// maxExpLimit keeps cell budgets within what a test file can hold.
	maxExpLimit = 7.0
)

// Options controls the distribution of sampled cases.
type Options struct {
	MinPick int     `json:"min_pick"` // smallest maximum shape size
	MaxPick int     `json:"max_pick"` // largest maximum shape size
	MinExp  float64 `json:"min_exp"`  // cell budget lower exponent (base 10)
	MaxExp  float64 `json:"max_exp"`  // cell budget upper exponent (base 10)
	Orient  bool    `json:"orient"`   // replace each drawn shape by a random rotation or reflection
}

// DefaultOptions returns the distribution used by the generate command.
func DefaultOptions() Options {
	return Options{
		MinPick: DefaultMinPick,
		MaxPick: DefaultMaxPick,
		MinExp:  DefaultMinExp,
		MaxExp:  DefaultMaxExp,
	}
}

// Validate reports the first out-of-range field.
func (o Options) Validate() error {
	if err := perrors.ValidatePositive("min_pick", o.MinPick); err != nil {
		return err
	}
	if err := perrors.ValidateRange("pick", float64(o.MinPick), float64(o.MaxPick)); err != nil {
		return err
	}
	if o.MinExp < 0 {
		return perrors.New(perrors.ErrCodeInvalidArgument, "min_exp must be >= 0, got %g", o.MinExp)
	}
	if err := perrors.ValidateRange("exp", o.MinExp, o.MaxExp); err != nil {
		return err
	}
	if o.MaxExp > maxExpLimit {
		return perrors.New(perrors.ErrCodeInvalidArgument, "max_exp must be <= %g, got %g", maxExpLimit, o.MaxExp)
	}
	return nil
}

// Case is one sampled test input.
type Case struct {
	Index    int               `json:"index"`
	KPick    int               `json:"k_pick"`
	KUse     int               `json:"k_use"`
	PoolSize int               `json:"pool"`
	Target   int               `json:"target"`
	Cells    int               `json:"cells"`
	Shapes   []polyomino.Shape `json:"shapes"`
}

// NewRand returns the generator for one case.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// CellTarget draws a cell budget max(1, round(10^p)), p ~ U(MinExp, MaxExp).
func CellTarget(rng *rand.Rand, opts Options) int {
	p := opts.MinExp + rng.Float64()*(opts.MaxExp-opts.MinExp)
	return max(1, int(math.Round(math.Pow(10, p))))
}

// SampleCase draws one case from cat. Options are not validated here; see
// [Options.Validate].
func SampleCase(rng *rand.Rand, cat *catalogue.Catalogue, opts Options) (Case, error) {
	kPick := opts.MinPick + rng.IntN(opts.MaxPick-opts.MinPick+1)
	kUse := min(kPick, cat.MaxK)

	pool := cat.Pool(kUse)
	if len(pool) == 0 {
		return Case{}, perrors.New(perrors.ErrCodeEmptyPool,
			"no shapes of size <= %d in the catalogue", kUse)
	}

	c := Case{
		KPick:    kPick,
		KUse:     kUse,
		PoolSize: len(pool),
		Target:   CellTarget(rng, opts),
	}
	transforms := polyomino.Transforms()
	for c.Cells < c.Target {
		s := pool[rng.IntN(len(pool))]
		if opts.Orient {
			s = s.Transform(transforms[rng.IntN(len(transforms))])
		}
		c.Shapes = append(c.Shapes, s)
		c.Cells += len(s)
	}
	return c, nil
}

// Sample draws cases 1..count of a run seeded with seed.
func Sample(cat *catalogue.Catalogue, seed uint64, count int, opts Options) ([]Case, error) {
	if err := perrors.ValidatePositive("count", count); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cases := make([]Case, 0, count)
	for i := 1; i <= count; i++ {
		c, err := SampleCase(NewRand(seed+uint64(i)), cat, opts)
		if err != nil {
			return nil, err
		}
		c.Index = i
		cases = append(cases, c)
	}
	return cases, nil
}
