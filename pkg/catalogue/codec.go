package catalogue

import (
	"encoding/json"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

// Marshal encodes a catalogue as JSON. Cells are written as [x, y] pairs.
func Marshal(c *Catalogue) ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal decodes and validates a catalogue written by [Marshal].
func Unmarshal(data []byte) (*Catalogue, error) {
	var c Catalogue
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidCatalogue, err, "decode catalogue")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural invariants of a catalogue: one class per
// size 1..MaxK in order, every shape connected and canonical with exactly its
// class size, classes strictly sorted, and a pre-filter count that is never
// smaller than the class. Unless IncludeHoles is set, shapes must be
// hole-free.
func (c *Catalogue) Validate() error {
	if c.MaxK < 1 {
		return invalid("max_k must be >= 1, got %d", c.MaxK)
	}
	if len(c.Classes) != c.MaxK {
		return invalid("expected %d classes, got %d", c.MaxK, len(c.Classes))
	}
	if len(c.Enumerated) != c.MaxK {
		return invalid("expected %d enumerated counts, got %d", c.MaxK, len(c.Enumerated))
	}
	for i, class := range c.Classes {
		if class.Size != i+1 {
			return invalid("class %d has size %d", i, class.Size)
		}
		if c.Enumerated[i] < len(class.Shapes) {
			return invalid("size %d lists %d shapes but only %d were enumerated",
				class.Size, len(class.Shapes), c.Enumerated[i])
		}
		for j, s := range class.Shapes {
			if len(s) != class.Size {
				return invalid("size %d shape %d has %d cells", class.Size, j, len(s))
			}
			if !polyomino.IsConnected(s) {
				return invalid("size %d shape %d is not connected", class.Size, j)
			}
			if !c.IncludeHoles && !polyomino.IsHoleFree(s) {
				return invalid("size %d shape %d has a hole", class.Size, j)
			}
			if !polyomino.IsCanonical(s) {
				return invalid("size %d shape %d is not canonical", class.Size, j)
			}
			if j > 0 && polyomino.Compare(class.Shapes[j-1], s) >= 0 {
				return invalid("size %d is not strictly sorted at shape %d", class.Size, j)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidCatalogue, format, args...)
}
