package polyomino

import (
	"encoding/binary"
	"slices"
)

// Shape is an ordered sequence of distinct cells. Shapes produced by this
// package are normalized: translated to min x = min y = 0 and sorted by
// [CompareCells].
type Shape []Cell

// Normalize translates cells so that the minimum x and y are 0, sorts them
// and drops duplicates. The input slice is not modified.
func Normalize(cells []Cell) (Shape, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyShape
	}
	return normalizeInPlace(slices.Clone(cells)), nil
}

// normalizeInPlace is Normalize without the copy or the empty check.
func normalizeInPlace(cells []Cell) Shape {
	minX, minY := cells[0].X, cells[0].Y
	for _, c := range cells[1:] {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
	}
	for i := range cells {
		cells[i].X -= minX
		cells[i].Y -= minY
	}
	slices.SortFunc(cells, CompareCells)
	return Shape(slices.Compact(cells))
}

// Compare orders shapes lexicographically cell by cell; when one shape is a
// prefix of the other the shorter one sorts first.
func Compare(a, b Shape) int {
	for i := range min(len(a), len(b)) {
		if c := CompareCells(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Key encodes the cell sequence into a string suitable as a map key.
// Equal sequences produce equal keys and distinct sequences distinct keys.
func (s Shape) Key() string {
	buf := make([]byte, 0, len(s)*2)
	for _, c := range s {
		buf = binary.AppendVarint(buf, int64(c.X))
		buf = binary.AppendVarint(buf, int64(c.Y))
	}
	return string(buf)
}

// Len returns the number of cells.
func (s Shape) Len() int { return len(s) }

// Equal reports whether two shapes hold the same cell sequence.
func (s Shape) Equal(o Shape) bool { return slices.Equal(s, o) }

// Clone returns a copy that does not share storage with s.
func (s Shape) Clone() Shape { return slices.Clone(s) }

// Contains reports whether c is one of the shape's cells.
func (s Shape) Contains(c Cell) bool { return slices.Contains(s, c) }

// Bounds returns the minimum and maximum corner of the bounding box.
// The zero cells are returned for an empty shape.
func (s Shape) Bounds() (lo, hi Cell) {
	if len(s) == 0 {
		return Cell{}, Cell{}
	}
	lo, hi = s[0], s[0]
	for _, c := range s[1:] {
		lo.X, lo.Y = min(lo.X, c.X), min(lo.Y, c.Y)
		hi.X, hi.Y = max(hi.X, c.X), max(hi.Y, c.Y)
	}
	return lo, hi
}

// Width returns the extent of the bounding box along x.
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	lo, hi := s.Bounds()
	return hi.X - lo.X + 1
}

// Height returns the extent of the bounding box along y.
func (s Shape) Height() int {
	if len(s) == 0 {
		return 0
	}
	lo, hi := s.Bounds()
	return hi.Y - lo.Y + 1
}

// IsConnected reports whether every cell can be reached from every other
// through edge-adjacent cells of the shape. The empty shape is not connected.
func IsConnected(s Shape) bool {
	if len(s) == 0 {
		return false
	}
	member := make(map[Cell]bool, len(s))
	for _, c := range s {
		member[c] = false
	}
	queue := []Cell{s[0]}
	member[s[0]] = true
	for qi := 0; qi < len(queue); qi++ {
		for _, n := range queue[qi].Neighbors() {
			if seen, ok := member[n]; ok && !seen {
				member[n] = true
				queue = append(queue, n)
			}
		}
	}
	return len(queue) == len(member)
}

// BorderNeighbors returns the lattice cells outside s that share an edge with
// at least one cell of s, sorted by [CompareCells] without duplicates.
func BorderNeighbors(s Shape) []Cell {
	member := make(map[Cell]struct{}, len(s))
	for _, c := range s {
		member[c] = struct{}{}
	}
	out := make([]Cell, 0, 2*len(s)+2)
	for _, c := range s {
		for _, n := range c.Neighbors() {
			if _, ok := member[n]; !ok {
				out = append(out, n)
			}
		}
	}
	slices.SortFunc(out, CompareCells)
	return slices.Compact(out)
}
