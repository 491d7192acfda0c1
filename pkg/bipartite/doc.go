// Package bipartite provides random bipartite graphs and a maximum matching
// solver based on Kuhn's augmenting-path algorithm.
//
// # Overview
//
// A [Graph] has two disjoint sides of nodes, left and right, addressed by
// index. Every edge joins a left node to a right node and is recorded on
// both endpoints. Neighbor lists are kept sorted ascending and free of
// duplicates, so that traversal in stored order is deterministic.
//
// # Random Graphs
//
// [Random] draws exactly m distinct edges uniformly without replacement.
// Edges are addressed by flattening the L×R adjacency matrix in row-major
// order: a code c in [0, L·R) stands for the edge (c / R, c % R), and
// [SampleEdges] returns m distinct codes. Requesting more edges than L·R
// fails with an INVALID_SAMPLE_SIZE error.
//
//	rng := bipartite.NewRand(131254153212)
//	g, err := bipartite.Random(rng, 1000, 1000, 50000)
//
// Hand-built graphs use [New] and [Graph.AddEdge], or [FromEdges].
//
// # Matching
//
// [MaxMatching] runs one augmentation attempt per left node, in index order.
// The result is a [Matching] indexed by right node, holding the matched left
// node or [Unmatched]. After all attempts the matching is maximum.
//
//	m := bipartite.MaxMatching(g, bipartite.Options{})
//	fmt.Println(m.Size())
//
// With [Options.Randomized] the neighbors of a left node are reshuffled every
// time the search enters it. The shuffled orders belong to the [Matcher] and
// persist across [Matcher.Run] calls on the same matcher; the graph itself is
// never modified.
//
// # Concurrency
//
// A [Graph] is safe for concurrent reads once built. A [Matcher] carries
// per-run state and must not be shared between goroutines.
package bipartite
