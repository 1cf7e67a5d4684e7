package polyomino

import "fmt"

// Transform is one element of the symmetry group of the square: an optional
// mirror across the y axis followed by Turns quarter turns clockwise.
type Transform struct {
	Reflect bool
	Turns   int
}

// Transforms returns the eight symmetries in the order the canonical search
// visits them: unreflected 0°, 90°, 180°, 270°, then reflected.
func Transforms() [8]Transform {
	var out [8]Transform
	for i := range out {
		out[i] = Transform{Reflect: i >= 4, Turns: i % 4}
	}
	return out
}

// Apply maps a single cell.
func (t Transform) Apply(c Cell) Cell {
	if t.Reflect {
		c = Reflect(c)
	}
	for range t.Turns & 3 {
		c = Rotate90CW(c)
	}
	return c
}

// String names the transform, e.g. "r90" or "m180" for mirrored ones.
func (t Transform) String() string {
	prefix := "r"
	if t.Reflect {
		prefix = "m"
	}
	return fmt.Sprintf("%s%d", prefix, 90*(t.Turns&3))
}

// Transform returns the normalized image of s under t.
// The empty shape maps to itself.
func (s Shape) Transform(t Transform) Shape {
	if len(s) == 0 {
		return nil
	}
	out := make([]Cell, len(s))
	for i, c := range s {
		out[i] = t.Apply(c)
	}
	return normalizeInPlace(out)
}
