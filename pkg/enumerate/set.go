package enumerate

import (
	"sync"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

// shapeSet is the deduplication set for the class under construction.
type shapeSet struct {
	size  int
	limit int // 0 disables the check

	mu     sync.Mutex
	shapes map[string]polyomino.Shape
}

func newShapeSet(size, limit int) *shapeSet {
	return &shapeSet{
		size:   size,
		limit:  limit,
		shapes: make(map[string]polyomino.Shape),
	}
}

// merge adds a worker's local batch. Shapes must not be mutated afterwards.
func (s *shapeSet) merge(batch map[string]polyomino.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, shape := range batch {
		if _, ok := s.shapes[key]; ok {
			continue
		}
		s.shapes[key] = shape
		if s.limit > 0 && len(s.shapes) > s.limit {
			return exhausted(s.size, s.limit)
		}
	}
	return nil
}

// sorted returns the members ordered by polyomino.Compare.
func (s *shapeSet) sorted() []polyomino.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]polyomino.Shape, 0, len(s.shapes))
	for _, shape := range s.shapes {
		out = append(out, shape)
	}
	sortShapes(out)
	return out
}

func exhausted(size, limit int) error {
	return perrors.New(perrors.ErrCodeResourceExhausted,
		"class of size %d exceeds the limit of %d shapes", size, limit)
}
