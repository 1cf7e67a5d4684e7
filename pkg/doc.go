// Package pkg provides the core libraries for polypack.
//
// # Overview
//
// Polypack enumerates free polyominoes, keeps the hole-free ones, and draws
// randomized packing test cases from them. The pkg directory is organized
// into three areas:
//
//  1. Domain logic: [polyomino], [enumerate], [catalogue], [sampler]
//  2. Infrastructure: [cache], [store], [io], [observability], [errors]
//  3. Orchestration and transport: [pipeline], [api]
//
// # Architecture
//
// The typical data flow:
//
//	[enumerate] grow size k-1 into size k, canonicalize under D4
//	         ↓
//	[catalogue] drop shapes with holes, group by size
//	         ↓
//	[sampler] pick a size bound and a cell budget, draw shapes
//	         ↓
//	[io] write N.in / N.ans and manifest.json
//
// [pipeline] runs these stages with caching for the CLI and the HTTP [api].
//
// # Quick Start
//
//	cat, err := catalogue.Build(ctx, 8, catalogue.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cat.Counts()) // [1 1 2 5 12 35 107 363]
//
//	c, err := sampler.SampleCase(sampler.NewRand(1001), cat, sampler.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	return io.WriteCase(os.Stdout, c)
//
// [polyomino]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/polyomino
// [enumerate]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/enumerate
// [catalogue]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/catalogue
// [sampler]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/sampler
// [cache]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/store
// [io]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/matzehuels/polypack/pkg/api
package pkg
