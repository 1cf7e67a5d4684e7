package polyomino

// Canonicalize returns the representative of cells under translation and the
// eight symmetries of the square: the lexicographically smallest normalized
// image. Duplicate input cells are ignored. Empty input fails with
// [ErrEmptyShape].
func Canonicalize(cells []Cell) (Shape, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyShape
	}
	var c Canonicalizer
	return c.Canonical(cells).Clone(), nil
}

// IsCanonical reports whether s is already its own canonical form.
func IsCanonical(s Shape) bool {
	if len(s) == 0 {
		return false
	}
	var c Canonicalizer
	return c.Canonical(s).Equal(s)
}

// Canonicalizer computes canonical forms while reusing its scratch buffers
// across calls. The zero value is ready to use. It is not safe for concurrent
// use; give each goroutine its own.
type Canonicalizer struct {
	buf  []Cell
	best []Cell
}

// Canonical returns the canonical form of a non-empty cell set. The result
// aliases the Canonicalizer's storage and is only valid until the next call;
// Clone it to keep it.
func (z *Canonicalizer) Canonical(cells []Cell) Shape {
	n := len(cells)
	if cap(z.buf) < n {
		z.buf = make([]Cell, n)
		z.best = make([]Cell, 0, n)
	}
	z.best = z.best[:0]

	for _, t := range Transforms() {
		buf := z.buf[:n]
		for i, c := range cells {
			buf[i] = t.Apply(c)
		}
		cand := normalizeInPlace(buf)
		if len(z.best) == 0 || Compare(cand, z.best) < 0 {
			z.best = append(z.best[:0], cand...)
		}
	}
	return Shape(z.best)
}
