package polyomino

import (
	"strings"

	perrors "github.com/matzehuels/polypack/pkg/errors"
)

const (
	glyphFilled = '#'
	glyphEmpty  = '.'
)

// String draws the shape inside its bounding box, one line per y value from
// the minimum y upward, '#' for cells and '.' for gaps. Lines are joined by
// '\n' without a trailing newline.
func (s Shape) String() string {
	if len(s) == 0 {
		return ""
	}
	lo, hi := s.Bounds()
	w, h := hi.X-lo.X+1, hi.Y-lo.Y+1
	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(string(glyphEmpty), w))
	}
	for _, c := range s {
		grid[c.Y-lo.Y][c.X-lo.X] = glyphFilled
	}
	lines := make([]string, h)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// Parse reads the format written by [Shape.String]. '#' and 'X' mark cells;
// '.' and spaces are gaps. Leading and trailing blank lines are ignored.
// The result is normalized but not checked for connectivity.
func Parse(text string) (Shape, error) {
	var cells []Cell
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	for y, line := range lines {
		for x, r := range strings.TrimRight(line, "\r") {
			switch r {
			case glyphFilled, 'X':
				cells = append(cells, Cell{X: x, Y: y})
			case glyphEmpty, ' ':
			default:
				return nil, perrors.New(perrors.ErrCodeInvalidArgument, "unexpected %q at line %d column %d", r, y+1, x+1)
			}
		}
	}
	return Normalize(cells)
}

// MustParse is like [Parse] but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(text string) Shape {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}
