package catalogue

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/polypack/pkg/errors"
	"github.com/matzehuels/polypack/pkg/polyomino"
)

var (
	freeCounts     = []int{1, 1, 2, 5, 12, 35, 108, 369}
	holeFreeCounts = []int{1, 1, 2, 5, 12, 35, 107, 363}
)

func build(t *testing.T, maxK int, opts Options) *Catalogue {
	t.Helper()
	cat, err := Build(context.Background(), maxK, opts)
	require.NoError(t, err)
	return cat
}

func TestBuildHoleFreeCounts(t *testing.T) {
	cat := build(t, 8, Options{})
	assert.Equal(t, 8, cat.MaxK)
	assert.False(t, cat.IncludeHoles)
	assert.Equal(t, holeFreeCounts, cat.Counts())
	assert.Equal(t, freeCounts, cat.Enumerated)
	assert.Equal(t, 526, cat.Total())
}

func TestBuildIncludeHoles(t *testing.T) {
	cat := build(t, 8, Options{IncludeHoles: true})
	assert.True(t, cat.IncludeHoles)
	assert.Equal(t, freeCounts, cat.Counts())
}

func TestBuildRemovesOnlyHoledShapes(t *testing.T) {
	cat := build(t, 7, Options{})
	for _, s := range cat.Size(7) {
		assert.True(t, polyomino.IsHoleFree(s))
	}

	// The only holed heptomino is the 3x3 ring missing a corner.
	all := build(t, 7, Options{IncludeHoles: true})
	var holed []polyomino.Shape
	for _, s := range all.Size(7) {
		if !polyomino.IsHoleFree(s) {
			holed = append(holed, s)
		}
	}
	want, err := polyomino.Canonicalize(polyomino.MustParse("###\n#.#\n##."))
	require.NoError(t, err)
	assert.Equal(t, []polyomino.Shape{want}, holed)
}

func TestBuildIsDeterministic(t *testing.T) {
	maxK := 10
	if testing.Short() {
		maxK = 8
	}
	a := build(t, maxK, Options{Workers: 1})
	b := build(t, maxK, Options{Workers: 1})
	c := build(t, maxK, Options{Workers: 7})
	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(c))
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(context.Background(), 0, Options{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidArgument))

	_, err = Build(context.Background(), 7, Options{MaxShapes: 50})
	assert.True(t, perrors.Is(err, perrors.ErrCodeResourceExhausted))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, 6, Options{})
	assert.True(t, perrors.Is(err, perrors.ErrCodeCancelled))
}

func TestAccessors(t *testing.T) {
	cat := build(t, 4, Options{})

	assert.Nil(t, cat.Size(0))
	assert.Nil(t, cat.Size(5))
	assert.Len(t, cat.Size(4), 5)

	bySize := cat.BySize()
	assert.Len(t, bySize, 4)
	for k := 1; k <= 4; k++ {
		assert.Equal(t, cat.Size(k), bySize[k])
	}

	pool := cat.Pool(3)
	assert.Len(t, pool, 4)
	assert.Equal(t, polyomino.Shape{{X: 0, Y: 0}}, pool[0])
	assert.Equal(t, polyomino.Shape{{X: 0, Y: 0}, {X: 0, Y: 1}}, pool[1])
	assert.Len(t, cat.Pool(99), 9)
	assert.Nil(t, cat.Pool(0))
}

func TestFilterHoleFreePreservesOrder(t *testing.T) {
	in := []polyomino.Shape{
		polyomino.MustParse("#####"),
		polyomino.MustParse("###\n#.#\n###"),
		polyomino.MustParse("###\n#..\n###"),
		polyomino.MustParse("####\n#..#\n####"),
		polyomino.MustParse("#.#\n###"),
	}
	for _, workers := range []int{1, 2, 5, 16} {
		got, err := FilterHoleFree(context.Background(), in, workers)
		require.NoError(t, err)
		assert.Equal(t, []polyomino.Shape{in[0], in[2], in[4]}, got, "workers=%d", workers)
	}

	got, err := FilterHoleFree(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCodecRoundTrip(t *testing.T) {
	cat := build(t, 6, Options{})
	data, err := Marshal(cat)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, cat.Equal(back))
}

// ringCatalogue is a size 8 catalogue whose only shape is the ring around a
// single enclosed cell.
func ringCatalogue(includeHoles bool) string {
	return fmt.Sprintf(`{"max_k":8,"include_holes":%t,"classes":[`+
		`{"size":1,"shapes":[]},{"size":2,"shapes":[]},{"size":3,"shapes":[]},{"size":4,"shapes":[]},`+
		`{"size":5,"shapes":[]},{"size":6,"shapes":[]},{"size":7,"shapes":[]},`+
		`{"size":8,"shapes":[[[0,0],[0,1],[0,2],[1,0],[1,2],[2,0],[2,1],[2,2]]]}],`+
		`"enumerated":[1,1,2,5,12,35,108,369]}`, includeHoles)
}

func TestUnmarshalAcceptsHolesWhenIncluded(t *testing.T) {
	c, err := Unmarshal([]byte(ringCatalogue(true)))
	require.NoError(t, err)
	assert.Len(t, c.Size(8), 1)
}

func TestUnmarshalValidates(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"zero max k", `{"max_k":0,"classes":[],"enumerated":[]}`},
		{"missing class", `{"max_k":2,"classes":[{"size":1,"shapes":[[[0,0]]]}],"enumerated":[1,1]}`},
		{"wrong size", `{"max_k":1,"classes":[{"size":2,"shapes":[]}],"enumerated":[1]}`},
		{"wrong cell count", `{"max_k":2,"classes":[{"size":1,"shapes":[[[0,0]]]},{"size":2,"shapes":[[[0,0]]]}],"enumerated":[1,1]}`},
		{"not canonical", `{"max_k":2,"classes":[{"size":1,"shapes":[[[0,0]]]},{"size":2,"shapes":[[[0,0],[1,0]]]}],"enumerated":[1,1]}`},
		{"duplicate", `{"max_k":2,"classes":[{"size":1,"shapes":[[[0,0]]]},{"size":2,"shapes":[[[0,0],[0,1]],[[0,0],[0,1]]]}],"enumerated":[1,2]}`},
		{"count below class", `{"max_k":1,"classes":[{"size":1,"shapes":[[[0,0]]]}],"enumerated":[0]}`},
		{"disconnected", `{"max_k":2,"classes":[{"size":1,"shapes":[[[0,0]]]},{"size":2,"shapes":[[[0,0],[0,2]]]}],"enumerated":[1,1]}`},
		{"hole in filtered catalogue", ringCatalogue(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			require.Error(t, err)
			assert.Equal(t, perrors.ErrCodeInvalidCatalogue, perrors.GetCode(err))
		})
	}
}
