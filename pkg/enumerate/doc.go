// Package enumerate lists every free polyomino up to a given cell count.
//
// # Algorithm
//
// Enumeration is growth based. The single class of size 1 is the monomino.
// Every shape of size k is produced by taking a canonical shape of size k-1
// and adding one of its border cells (see [polyomino.BorderNeighbors]). The
// grown cell set is canonicalized and deduplicated by [polyomino.Shape.Key],
// so each free polyomino appears exactly once no matter how many parents
// produce it.
//
// # Concurrency
//
// Growth of one class is split across [Options.Workers] goroutines. The
// previous class is read only while the next one is built; the only shared
// mutable state is the deduplication set of the class under construction.
// Finished classes are sorted with [polyomino.Compare], so the result does not
// depend on the worker count or on scheduling.
//
// # Limits
//
// Class sizes grow roughly by a factor of four per cell. [Options.MaxShapes]
// caps the size of any single class; exceeding it aborts with an error coded
// RESOURCE_EXHAUSTED instead of returning a truncated class.
package enumerate
