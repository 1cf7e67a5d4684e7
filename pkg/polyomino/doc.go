// Package polyomino provides the lattice geometry behind polypack: cells,
// shapes, the eight symmetries of the square, canonical forms and hole
// detection.
//
// # Overview
//
// A [Shape] is a finite set of unit cells on the square lattice. Shapes are
// stored as ordered sequences of [Cell] values; once normalized the sequence is
// translated so that the minimum x and minimum y are both 0 and sorted
// ascending by (x, y). That sorted sequence is the shape's identity: two
// normalized shapes are equal exactly when their sequences are equal, and
// [Shape.Key] turns the sequence into a compact map key.
//
// # Symmetry
//
// [Transforms] lists the dihedral group D4: four rotations, each with and
// without a mirror. [Canonicalize] applies all eight to a cell set, normalizes
// every image and keeps the lexicographically smallest, so congruent shapes
// (translation, rotation, reflection) always share one canonical form and
// non-congruent shapes never do:
//
//	l, _ := polyomino.Parse("#.\n#.\n##")
//	j, _ := polyomino.Parse(".#\n.#\n##")
//	a, _ := polyomino.Canonicalize(l)
//	b, _ := polyomino.Canonicalize(j)
//	fmt.Println(a.Equal(b)) // true
//
// # Holes
//
// [IsHoleFree] flood-fills the complement of a shape inside its bounding box
// padded by one cell. Empty cells that the fill cannot reach from the padded
// border are enclosed voids; [EnclosedCells] returns them.
//
// # Text form
//
// [Shape.String] draws a shape with '#' for cells and '.' for gaps, one line
// per y value starting at the minimum y. [Parse] reads the same format back.
//
// # Concurrency
//
// All functions are pure. Shapes are plain slices and are safe for concurrent
// reads; a [Canonicalizer] carries scratch buffers and must not be shared
// between goroutines.
package polyomino
