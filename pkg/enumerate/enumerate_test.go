package enumerate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

// freeCounts is OEIS A000105 for n = 1..10.
var freeCounts = []int{1, 1, 2, 5, 12, 35, 108, 369, 1285, 4655}

func counts(classes []Class) []int {
	out := make([]int, len(classes))
	for i, c := range classes {
		out[i] = len(c.Shapes)
	}
	return out
}

func TestEnumerateCounts(t *testing.T) {
	maxK := 10
	if testing.Short() {
		maxK = 8
	}
	classes, err := Enumerate(context.Background(), maxK, Options{})
	require.NoError(t, err)
	require.Len(t, classes, maxK)
	assert.Equal(t, freeCounts[:maxK], counts(classes))
	for i, c := range classes {
		assert.Equal(t, i+1, c.Size)
	}
}

func TestEnumerateSmallClasses(t *testing.T) {
	classes, err := Enumerate(context.Background(), 3, Options{Workers: 1})
	require.NoError(t, err)

	assert.Equal(t, []polyomino.Shape{{{X: 0, Y: 0}}}, classes[0].Shapes)
	assert.Equal(t, []polyomino.Shape{{{X: 0, Y: 0}, {X: 0, Y: 1}}}, classes[1].Shapes)
	assert.Equal(t, []polyomino.Shape{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}},
	}, classes[2].Shapes)
}

func TestEnumerateShapesAreCanonicalSortedAndValid(t *testing.T) {
	classes, err := Enumerate(context.Background(), 7, Options{})
	require.NoError(t, err)

	for _, c := range classes {
		seen := make(map[string]bool, len(c.Shapes))
		for i, s := range c.Shapes {
			assert.Len(t, s, c.Size)
			assert.True(t, polyomino.IsCanonical(s), "size %d shape %d not canonical", c.Size, i)
			assert.True(t, polyomino.IsConnected(s), "size %d shape %d not connected", c.Size, i)
			assert.False(t, seen[s.Key()], "size %d shape %d duplicated", c.Size, i)
			seen[s.Key()] = true
			if i > 0 {
				assert.Negative(t, polyomino.Compare(c.Shapes[i-1], s))
			}
		}
	}
}

func TestEnumerateIsIndependentOfWorkerCount(t *testing.T) {
	ctx := context.Background()
	want, err := Enumerate(ctx, 8, Options{Workers: 1})
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 64} {
		got, err := Enumerate(ctx, 8, Options{Workers: workers})
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", workers)
	}
}

func TestEnumerateProgress(t *testing.T) {
	var sizes, got []int
	_, err := Enumerate(context.Background(), 6, Options{
		Progress: func(size, count int) {
			sizes = append(sizes, size)
			got = append(got, count)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, sizes)
	assert.Equal(t, freeCounts[:6], got)
}

func TestEnumerateErrors(t *testing.T) {
	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		maxK int
		opts Options
		code perrors.Code
	}{
		{"zero max k", context.Background(), 0, Options{}, perrors.ErrCodeInvalidArgument},
		{"negative max k", context.Background(), -3, Options{}, perrors.ErrCodeInvalidArgument},
		{"class over limit", context.Background(), 6, Options{MaxShapes: 20}, perrors.ErrCodeResourceExhausted},
		{"class over limit with one worker", context.Background(), 6, Options{MaxShapes: 20, Workers: 1}, perrors.ErrCodeResourceExhausted},
		{"cancelled", cancelledCtx, 8, Options{}, perrors.ErrCodeCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := Enumerate(tt.ctx, tt.maxK, tt.opts)
			require.Error(t, err)
			assert.Nil(t, classes)
			assert.Equal(t, tt.code, perrors.GetCode(err))
		})
	}
}

func TestEnumerateCancelledWrapsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Enumerate(ctx, 4, Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestEnumerateLimitAtExactCount(t *testing.T) {
	classes, err := Enumerate(context.Background(), 6, Options{MaxShapes: 35})
	require.NoError(t, err)
	assert.Len(t, classes[5].Shapes, 35)
}

func TestGrow(t *testing.T) {
	tetrominoes, err := Grow(context.Background(), []polyomino.Shape{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}},
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}},
	}, Options{})
	require.NoError(t, err)
	assert.Len(t, tetrominoes, 5)

	_, err = Grow(context.Background(), nil, Options{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidArgument))
}

func BenchmarkEnumerate(b *testing.B) {
	for b.Loop() {
		if _, err := Enumerate(context.Background(), 9, Options{}); err != nil {
			b.Fatal(err)
		}
	}
}
