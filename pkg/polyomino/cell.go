package polyomino

import (
	"encoding/json"
	"fmt"
)

// Cell is a unit square on the lattice, addressed by integer coordinates.
type Cell struct {
	X int
	Y int
}

// neighbors4 are the unit steps to the four edge-adjacent cells.
var neighbors4 = [4]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Add returns the cell translated by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// Neighbors returns the four edge-adjacent cells in a fixed order.
func (c Cell) Neighbors() [4]Cell {
	var out [4]Cell
	for i, d := range neighbors4 {
		out[i] = c.Add(d)
	}
	return out
}

// String formats the cell as "(x,y)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// CompareCells orders cells by x, then by y.
func CompareCells(a, b Cell) int {
	switch {
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}

// Rotate90CW rotates a cell a quarter turn clockwise about the origin:
// (x, y) -> (y, -x). Four applications return the original cell.
func Rotate90CW(c Cell) Cell {
	return Cell{X: c.Y, Y: -c.X}
}

// Reflect mirrors a cell across the y axis: (x, y) -> (-x, y).
func Reflect(c Cell) Cell {
	return Cell{X: -c.X, Y: c.Y}
}

// MarshalJSON encodes the cell as a two-element array [x, y].
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.X, c.Y})
}

// UnmarshalJSON decodes a two-element array [x, y].
func (c *Cell) UnmarshalJSON(data []byte) error {
	var xy []int
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("cell must have 2 coordinates, got %d", len(xy))
	}
	c.X, c.Y = xy[0], xy[1]
	return nil
}
