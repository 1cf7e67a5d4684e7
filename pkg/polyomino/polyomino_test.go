package polyomino

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/matzehuels/polypack/pkg/errors"
)

// pentominoes holds one drawing of each of the twelve free pentominoes.
var pentominoes = map[string]string{
	"F": ".##\n##.\n.#.",
	"I": "#####",
	"L": "#.\n#.\n#.\n##",
	"N": ".#\n.#\n##\n#.",
	"P": "##\n##\n#.",
	"T": "###\n.#.\n.#.",
	"U": "#.#\n###",
	"V": "#..\n#..\n###",
	"W": "#..\n##.\n.##",
	"X": ".#.\n###\n.#.",
	"Y": ".#\n##\n.#\n.#",
	"Z": "##.\n.#.\n.##",
}

func TestRotate90CWFourTimesIsIdentity(t *testing.T) {
	for _, c := range []Cell{{0, 0}, {3, -7}, {-2, 5}, {1 << 20, -(1 << 20)}} {
		got := c
		for range 4 {
			got = Rotate90CW(got)
		}
		assert.Equal(t, c, got)
	}
	assert.Equal(t, Cell{X: 2, Y: -1}, Rotate90CW(Cell{X: 1, Y: 2}))
}

func TestReflectIsInvolution(t *testing.T) {
	c := Cell{X: 4, Y: -9}
	assert.Equal(t, Cell{X: -4, Y: -9}, Reflect(c))
	assert.Equal(t, c, Reflect(Reflect(c)))
}

func TestNormalize(t *testing.T) {
	got, err := Normalize([]Cell{{5, 7}, {4, 7}, {5, 8}, {4, 7}})
	require.NoError(t, err)
	assert.Equal(t, Shape{{0, 0}, {1, 0}, {1, 1}}, got)

	// Translation does not change the normalized form.
	shifted, err := Normalize([]Cell{{-10, 3}, {-11, 3}, {-10, 4}})
	require.NoError(t, err)
	assert.True(t, got.Equal(shifted))
}

func TestNormalizeDoesNotModifyInput(t *testing.T) {
	in := []Cell{{3, 3}, {2, 3}}
	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []Cell{{3, 3}, {2, 3}}, in)
}

func TestEmptyInputIsInvalidArgument(t *testing.T) {
	_, err := Normalize(nil)
	require.ErrorIs(t, err, ErrEmptyShape)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidArgument))

	_, err = Canonicalize([]Cell{})
	require.ErrorIs(t, err, ErrEmptyShape)

	_, err = Parse("...\n...")
	require.ErrorIs(t, err, ErrEmptyShape)
}

func TestCompare(t *testing.T) {
	a := Shape{{0, 0}, {0, 1}}
	b := Shape{{0, 0}, {1, 0}}
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(b, a))
	assert.Equal(t, 0, Compare(a, a.Clone()))
	assert.Equal(t, -1, Compare(a[:1], a))
}

func TestKeyDistinguishesShapes(t *testing.T) {
	seen := map[string]string{}
	for name, text := range pentominoes {
		s, err := Canonicalize(MustParse(text))
		require.NoError(t, err)
		if other, dup := seen[s.Key()]; dup {
			t.Fatalf("%s and %s share a key", name, other)
		}
		seen[s.Key()] = name
	}
	assert.Equal(t, Shape{{0, 0}, {0, 1}}.Key(), Shape{{0, 0}, {0, 1}}.Key())
	assert.NotEqual(t, Shape{{0, 0}, {0, 1}}.Key(), Shape{{0, 0}, {1, 0}}.Key())
}

func TestCanonicalizeSmallShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Shape
	}{
		{"monomino", "#", Shape{{0, 0}}},
		{"horizontal domino", "##", Shape{{0, 0}, {0, 1}}},
		{"vertical domino", "#\n#", Shape{{0, 0}, {0, 1}}},
		{"straight tromino", "###", Shape{{0, 0}, {0, 1}, {0, 2}}},
		{"L tromino", ".#\n##", Shape{{0, 0}, {0, 1}, {1, 0}}},
		{"square tetromino", "##\n##", Shape{{0, 0}, {0, 1}, {1, 0}, {1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(MustParse(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsCanonical(got))
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	for name, text := range pentominoes {
		once, err := Canonicalize(MustParse(text))
		require.NoError(t, err, name)
		twice, err := Canonicalize(once)
		require.NoError(t, err, name)
		assert.Equal(t, once, twice, name)
	}
}

func TestCanonicalizeIsSymmetryInvariant(t *testing.T) {
	for name, text := range pentominoes {
		s := MustParse(text)
		want, err := Canonicalize(s)
		require.NoError(t, err)
		for _, tr := range Transforms() {
			// Apply the transform without normalizing and shift far away so
			// translation is exercised as well.
			moved := make([]Cell, len(s))
			for i, c := range s {
				moved[i] = tr.Apply(c).Add(Cell{X: 100, Y: -37})
			}
			got, err := Canonicalize(moved)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%s under %s", name, tr)
		}
	}
}

func TestCanonicalizeDistinguishesNonCongruentShapes(t *testing.T) {
	forms := map[string]bool{}
	for _, text := range pentominoes {
		s, err := Canonicalize(MustParse(text))
		require.NoError(t, err)
		forms[s.Key()] = true
	}
	assert.Len(t, forms, 12)

	// Chiral pair: S and Z tetrominoes are congruent under reflection only.
	s, _ := Canonicalize(MustParse(".##\n##."))
	z, _ := Canonicalize(MustParse("##.\n.##"))
	assert.Equal(t, s, z)

	// Same cell count, different shape.
	tee, _ := Canonicalize(MustParse("###\n.#."))
	ell, _ := Canonicalize(MustParse("###\n#.."))
	assert.NotEqual(t, tee, ell)
}

func TestCanonicalizerReuse(t *testing.T) {
	var z Canonicalizer
	a := z.Canonical(MustParse("###\n.#.")).Clone()
	b := z.Canonical(MustParse("#")).Clone()
	c := z.Canonical(MustParse(".#.\n###"))
	assert.Equal(t, Shape{{0, 0}}, b)
	assert.Equal(t, a, c)
}

func TestTransforms(t *testing.T) {
	all := Transforms()
	seen := map[string]bool{}
	for _, tr := range all {
		seen[tr.String()] = true
	}
	assert.Len(t, seen, 8)
	assert.Equal(t, Transform{}, all[0])

	// The F pentomino has no symmetry, so its eight images are distinct.
	f := MustParse(pentominoes["F"])
	images := map[string]bool{}
	for _, tr := range all {
		images[f.Transform(tr).Key()] = true
	}
	assert.Len(t, images, 8)

	// The X pentomino is fully symmetric.
	x := MustParse(pentominoes["X"])
	for _, tr := range all {
		assert.Equal(t, x, x.Transform(tr))
	}
}

func TestBorderNeighbors(t *testing.T) {
	got := BorderNeighbors(Shape{{0, 0}})
	assert.Equal(t, []Cell{{-1, 0}, {0, -1}, {0, 1}, {1, 0}}, got)

	domino := BorderNeighbors(Shape{{0, 0}, {0, 1}})
	assert.Len(t, domino, 6)
	for _, c := range domino {
		assert.False(t, Shape{{0, 0}, {0, 1}}.Contains(c))
	}

	// Interior gaps count as border cells.
	ring := MustParse("###\n#.#\n###")
	assert.Contains(t, BorderNeighbors(ring), Cell{X: 1, Y: 1})
}

func TestIsConnected(t *testing.T) {
	assert.True(t, IsConnected(MustParse("##\n.#")))
	assert.False(t, IsConnected(MustParse("#.\n.#")))
	assert.False(t, IsConnected(nil))
}

func TestHoleDetection(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		holeFree bool
		enclosed []Cell
	}{
		{"single cell", "#", true, nil},
		{"row of five", "#####", true, nil},
		{"column of five", "#\n#\n#\n#\n#", true, nil},
		{"ring of eight", "###\n#.#\n###", false, []Cell{{1, 1}}},
		{"heptomino with hole", "###\n#.#\n##.", false, []Cell{{1, 1}}},
		{"thick O", "#####\n#####\n##.##\n#####\n#####", false, []Cell{{2, 2}}},
		{"C shape", "###\n#..\n###", true, nil},
		{"open ring", "###\n#.#\n#.#", true, nil},
		{"two cell hole", "####\n#..#\n####", false, []Cell{{1, 1}, {2, 1}}},
		{"diagonal gaps do not leak", "##.\n#.#\n.##", false, []Cell{{1, 1}}},
		{"concave U", "#.#\n###", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := MustParse(tt.in)
			assert.Equal(t, tt.holeFree, IsHoleFree(s))
			assert.Equal(t, tt.enclosed, EnclosedCells(s))
		})
	}
}

func TestHoleDetectionIgnoresTranslation(t *testing.T) {
	ring := Shape{}
	for _, c := range MustParse("###\n#.#\n###") {
		ring = append(ring, c.Add(Cell{X: -50, Y: 20}))
	}
	assert.Equal(t, []Cell{{-49, 21}}, EnclosedCells(ring))
}

func TestStringAndParse(t *testing.T) {
	s := MustParse("##.\n.##")
	assert.Equal(t, "##.\n.##", s.String())
	assert.Equal(t, 3, s.Width())
	assert.Equal(t, 2, s.Height())

	back, err := Parse(s.String())
	require.NoError(t, err)
	assert.Equal(t, s, back)

	alt, err := Parse("\nX X\nXXX\n")
	require.NoError(t, err)
	assert.Equal(t, MustParse(pentominoes["U"]), alt)

	_, err = Parse("#?#")
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeInvalidArgument))
}

func TestShapeJSON(t *testing.T) {
	s := Shape{{0, 0}, {0, 1}, {1, 0}}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[[0,0],[0,1],[1,0]]`, string(data))

	var back Shape
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)

	var bad Shape
	assert.Error(t, json.Unmarshal([]byte(`[[0,0,1]]`), &bad))
}
