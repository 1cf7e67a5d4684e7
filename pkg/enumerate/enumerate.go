package enumerate

import (
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

const (
	// flushEvery bounds a worker's local batch before it is merged into the
	// shared set.
	flushEvery = 1 << 14

	// checkEvery is how many parents a worker grows between context checks.
	checkEvery = 256
)

// Class holds the distinct canonical shapes with exactly Size cells, sorted
// by [polyomino.Compare].
type Class struct {
	Size   int               `json:"size"`
	Shapes []polyomino.Shape `json:"shapes"`
}

// Options configures [Enumerate].
type Options struct {
	// Workers is the number of goroutines growing each class.
	// Zero or negative uses runtime.GOMAXPROCS(0).
	Workers int

	// MaxShapes caps the number of shapes in any class. Zero disables the cap.
	MaxShapes int

	// Progress, if set, is called after each class is complete.
	Progress func(size, count int)
}

// WithDefaults returns a copy with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.MaxShapes < 0 {
		o.MaxShapes = 0
	}
	return o
}

// Enumerate returns the free polyominoes of sizes 1..maxK, one [Class] per
// size in ascending order.
//
// Errors carry a [perrors.Code]: INVALID_ARGUMENT for maxK < 1,
// RESOURCE_EXHAUSTED when a class would exceed Options.MaxShapes and
// CANCELLED when ctx is done. No partial result is returned on error.
func Enumerate(ctx context.Context, maxK int, opts Options) ([]Class, error) {
	if err := perrors.ValidateMaxK(maxK, 0); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	classes := make([]Class, 0, maxK)
	prev := []polyomino.Shape{{{X: 0, Y: 0}}}
	classes = append(classes, Class{Size: 1, Shapes: prev})
	if opts.Progress != nil {
		opts.Progress(1, 1)
	}

	for k := 2; k <= maxK; k++ {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}
		next, err := grow(ctx, prev, k, opts)
		if err != nil {
			return nil, err
		}
		classes = append(classes, Class{Size: k, Shapes: next})
		if opts.Progress != nil {
			opts.Progress(k, len(next))
		}
		prev = next
	}
	return classes, nil
}

// Grow builds the class of size len(parent)+1 from a complete class of
// canonical parents. It is the single step of [Enumerate].
func Grow(ctx context.Context, parents []polyomino.Shape, opts Options) ([]polyomino.Shape, error) {
	if len(parents) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidArgument, "no parent shapes to grow")
	}
	return grow(ctx, parents, len(parents[0])+1, opts.WithDefaults())
}

func grow(ctx context.Context, parents []polyomino.Shape, size int, opts Options) ([]polyomino.Shape, error) {
	set := newShapeSet(size, opts.MaxShapes)
	workers := min(opts.Workers, len(parents))

	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() error {
			return growShard(gctx, parents, w, workers, set)
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, cancelled(ctxErr)
		}
		return nil, err
	}
	return set.sorted(), nil
}

// growShard handles parents w, w+stride, w+2*stride, ...
func growShard(ctx context.Context, parents []polyomino.Shape, w, stride int, set *shapeSet) error {
	var z polyomino.Canonicalizer
	local := make(map[string]polyomino.Shape)
	scratch := make([]polyomino.Cell, 0, len(parents[0])+1)

	for i, n := w, 0; i < len(parents); i, n = i+stride, n+1 {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		parent := parents[i]
		for _, c := range polyomino.BorderNeighbors(parent) {
			scratch = append(append(scratch[:0], parent...), c)
			canon := z.Canonical(scratch)
			key := canon.Key()
			if _, ok := local[key]; ok {
				continue
			}
			local[key] = canon.Clone()
		}
		if len(local) >= flushEvery {
			if err := set.merge(local); err != nil {
				return err
			}
			clear(local)
		}
	}
	return set.merge(local)
}

func sortShapes(shapes []polyomino.Shape) {
	slices.SortFunc(shapes, polyomino.Compare)
}

func cancelled(err error) error {
	return perrors.Wrap(perrors.ErrCodeCancelled, err, "enumeration cancelled")
}
