package polyomino

// IsHoleFree reports whether s encloses no empty cell. See [EnclosedCells].
func IsHoleFree(s Shape) bool {
	return len(EnclosedCells(s)) == 0
}

// EnclosedCells returns the empty cells inside the bounding box of s that are
// cut off from the outside, sorted by [CompareCells].
//
// The bounding box is padded by one cell on every side and a breadth-first
// fill over empty cells (4-connectivity) is seeded from the whole padded
// ring. Whatever empty cell of the original box the fill never reaches is part
// of a hole. A box of width or height 1 has no interior and returns nil.
//
// Time:   O(W·H) for a W×H bounding box.
// Memory: O(W·H).
func EnclosedCells(s Shape) []Cell {
	if len(s) == 0 {
		return nil
	}
	lo, hi := s.Bounds()
	w, h := hi.X-lo.X+1, hi.Y-lo.Y+1
	if w == 1 || h == 1 {
		return nil
	}

	// Padded grid coordinates: shape cell (x, y) sits at (x-lo.X+1, y-lo.Y+1).
	pw, ph := w+2, h+2
	index := func(px, py int) int { return py*pw + px }
	filled := make([]bool, pw*ph)
	for _, c := range s {
		filled[index(c.X-lo.X+1, c.Y-lo.Y+1)] = true
	}

	reached := make([]bool, pw*ph)
	queue := make([]int, 0, 2*(pw+ph))
	seed := func(px, py int) {
		i := index(px, py)
		if !filled[i] && !reached[i] {
			reached[i] = true
			queue = append(queue, i)
		}
	}
	for px := 0; px < pw; px++ {
		seed(px, 0)
		seed(px, ph-1)
	}
	for py := 1; py < ph-1; py++ {
		seed(0, py)
		seed(pw-1, py)
	}

	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		ux, uy := u%pw, u/pw
		for _, d := range neighbors4 {
			vx, vy := ux+d.X, uy+d.Y
			if vx < 0 || vx >= pw || vy < 0 || vy >= ph {
				continue
			}
			seed(vx, vy)
		}
	}

	var holes []Cell
	for px := 1; px <= w; px++ {
		for py := 1; py <= h; py++ {
			i := index(px, py)
			if !filled[i] && !reached[i] {
				holes = append(holes, Cell{X: px - 1 + lo.X, Y: py - 1 + lo.Y})
			}
		}
	}
	return holes
}
