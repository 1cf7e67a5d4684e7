package errors

import (
	"strings"
	"unicode"
)

// ValidateMaxK checks the requested maximum polyomino size.
// A limit of 0 disables the upper bound; the HTTP API passes its own cap so
// that a single request cannot start an exponential enumeration.
func ValidateMaxK(k, limit int) error {
	if k < 1 {
		return New(ErrCodeInvalidArgument, "max_k must be >= 1, got %d", k)
	}
	if limit > 0 && k > limit {
		return New(ErrCodeInvalidArgument, "max_k must be <= %d, got %d", limit, k)
	}
	return nil
}

// ValidatePositive checks that a named integer parameter is at least 1.
func ValidatePositive(name string, v int) error {
	if v < 1 {
		return New(ErrCodeInvalidArgument, "%s must be >= 1, got %d", name, v)
	}
	return nil
}

// ValidateRange checks that lo <= hi for a named pair of bounds.
func ValidateRange(name string, lo, hi float64) error {
	if hi < lo {
		return New(ErrCodeInvalidArgument, "%s range is empty: %g > %g", name, lo, hi)
	}
	return nil
}

// ValidateOutputDir validates a directory that test cases will be written to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidArgument, "output directory cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidArgument, "output directory too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "output directory contains invalid characters")
		}
	}
	return nil
}
