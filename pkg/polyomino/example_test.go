package polyomino_test

import (
	"fmt"

	"github.com/matzehuels/polypack/pkg/polyomino"
)

func ExampleCanonicalize() {
	// An L tetromino and its mirror image share one canonical form.
	l := polyomino.MustParse("#.\n#.\n##")
	j := polyomino.MustParse(".#\n.#\n##")

	a, _ := polyomino.Canonicalize(l)
	b, _ := polyomino.Canonicalize(j)
	fmt.Println(a.Equal(b))
	fmt.Println(a)
	// Output:
	// true
	// ##
	// #.
	// #.
}

func ExampleIsHoleFree() {
	ring := polyomino.MustParse("###\n#.#\n###")
	cup := polyomino.MustParse("#.#\n###")

	fmt.Println(polyomino.IsHoleFree(ring), polyomino.EnclosedCells(ring))
	fmt.Println(polyomino.IsHoleFree(cup))
	// Output:
	// false [(1,1)]
	// true
}

func ExampleBorderNeighbors() {
	fmt.Println(polyomino.BorderNeighbors(polyomino.Shape{{X: 0, Y: 0}}))
	// Output:
	// [(-1,0) (0,-1) (0,1) (1,0)]
}
