package polyomino

import (
	perrors "github.com/matzehuels/polypack/pkg/errors"
)

// ErrEmptyShape is returned by [Normalize], [Canonicalize] and [Parse] when the
// input contains no cells. Normalization of an empty set is undefined.
var ErrEmptyShape = perrors.New(perrors.ErrCodeInvalidArgument, "shape must contain at least one cell")
