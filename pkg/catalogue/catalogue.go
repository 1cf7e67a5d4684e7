// Package catalogue builds and holds the classified set of free polyominoes
// used for sampling.
//
// A [Catalogue] maps every size 1..MaxK to the ordered list of canonical
// shapes of that size. By default shapes that enclose a hole are removed;
// [Options.IncludeHoles] keeps them. Catalogues are immutable once built:
// accessors return the stored slices and callers must not modify them.
package catalogue

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/polypack/pkg/enumerate"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

// SizeClass is the list of catalogued shapes with exactly Size cells.
type SizeClass struct {
	Size   int               `json:"size" yaml:"size"`
	Shapes []polyomino.Shape `json:"shapes" yaml:"shapes"`
}

// Catalogue is the result of [Build].
type Catalogue struct {
	MaxK         int         `json:"max_k" yaml:"max_k"`
	IncludeHoles bool        `json:"include_holes" yaml:"include_holes"`
	Classes      []SizeClass `json:"classes" yaml:"classes"`       // index k-1 holds size k
	Enumerated   []int       `json:"enumerated" yaml:"enumerated"` // free polyominoes per size before filtering
}

// Options configures [Build].
type Options struct {
	// IncludeHoles keeps polyominoes that enclose a hole.
	IncludeHoles bool

	// Workers, MaxShapes and Progress are passed to [enumerate.Enumerate].
	// Workers also sizes the hole filter.
	Workers   int
	MaxShapes int
	Progress  func(size, count int)
}

// Build enumerates the free polyominoes up to maxK cells and, unless
// opts.IncludeHoles is set, drops those with holes. The order inside every
// class is the enumeration order, so Build is deterministic.
func Build(ctx context.Context, maxK int, opts Options) (*Catalogue, error) {
	eopts := enumerate.Options{
		Workers:   opts.Workers,
		MaxShapes: opts.MaxShapes,
		Progress:  opts.Progress,
	}.WithDefaults()

	raw, err := enumerate.Enumerate(ctx, maxK, eopts)
	if err != nil {
		return nil, err
	}

	cat := &Catalogue{
		MaxK:         maxK,
		IncludeHoles: opts.IncludeHoles,
		Classes:      make([]SizeClass, len(raw)),
		Enumerated:   make([]int, len(raw)),
	}
	for i, c := range raw {
		cat.Enumerated[i] = len(c.Shapes)
		shapes := c.Shapes
		if !opts.IncludeHoles {
			if shapes, err = FilterHoleFree(ctx, shapes, eopts.Workers); err != nil {
				return nil, err
			}
		}
		cat.Classes[i] = SizeClass{Size: c.Size, Shapes: shapes}
	}
	return cat, nil
}

// FilterHoleFree returns the hole-free shapes in their original order.
// The hole test runs on up to workers goroutines over contiguous chunks.
func FilterHoleFree(ctx context.Context, shapes []polyomino.Shape, workers int) ([]polyomino.Shape, error) {
	workers = max(1, min(workers, len(shapes)))
	keep := make([]bool, len(shapes))
	chunk := (len(shapes) + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(shapes); lo += chunk {
		hi := min(lo+chunk, len(shapes))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				keep[i] = polyomino.IsHoleFree(shapes[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeCancelled, err, "hole filter cancelled")
	}

	out := make([]polyomino.Shape, 0, len(shapes))
	for i, s := range shapes {
		if keep[i] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Size returns the shapes with k cells, or nil when k is outside 1..MaxK.
func (c *Catalogue) Size(k int) []polyomino.Shape {
	if k < 1 || k > len(c.Classes) {
		return nil
	}
	return c.Classes[k-1].Shapes
}

// BySize returns the size to shapes mapping for every size 1..MaxK.
func (c *Catalogue) BySize() map[int][]polyomino.Shape {
	out := make(map[int][]polyomino.Shape, len(c.Classes))
	for _, class := range c.Classes {
		out[class.Size] = class.Shapes
	}
	return out
}

// Counts returns the number of catalogued shapes per size, index k-1.
func (c *Catalogue) Counts() []int {
	out := make([]int, len(c.Classes))
	for i, class := range c.Classes {
		out[i] = len(class.Shapes)
	}
	return out
}

// Total returns the number of catalogued shapes over all sizes.
func (c *Catalogue) Total() int {
	n := 0
	for _, class := range c.Classes {
		n += len(class.Shapes)
	}
	return n
}

// Pool concatenates the classes 1..maxSize in class order. maxSize is
// clamped to MaxK.
func (c *Catalogue) Pool(maxSize int) []polyomino.Shape {
	maxSize = min(maxSize, len(c.Classes))
	if maxSize < 1 {
		return nil
	}
	n := 0
	for _, class := range c.Classes[:maxSize] {
		n += len(class.Shapes)
	}
	out := make([]polyomino.Shape, 0, n)
	for _, class := range c.Classes[:maxSize] {
		out = append(out, class.Shapes...)
	}
	return out
}

// Equal reports whether two catalogues hold the same classes.
func (c *Catalogue) Equal(o *Catalogue) bool {
	if c.MaxK != o.MaxK || c.IncludeHoles != o.IncludeHoles ||
		!slices.Equal(c.Enumerated, o.Enumerated) || len(c.Classes) != len(o.Classes) {
		return false
	}
	for i := range c.Classes {
		if !slices.EqualFunc(c.Classes[i].Shapes, o.Classes[i].Shapes, polyomino.Shape.Equal) {
			return false
		}
	}
	return true
}
