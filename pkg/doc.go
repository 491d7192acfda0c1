// Package pkg provides the core libraries for matchbench, a benchmark of
// maximum bipartite matching on random graphs.
//
// # Overview
//
// Matchbench draws bipartite graphs with a fixed number of distinct edges,
// matches them with Kuhn's augmenting path algorithm and measures how long
// the matcher takes as the edge density grows. The pkg directory is
// organized into three areas:
//
//  1. Domain: [bipartite] (sampling, graphs, matching) and [bench] (sweeps)
//  2. Output: [render/nodelink] (Graphviz diagrams) and [render] (conversion)
//  3. Infrastructure: [pipeline], [cache], [store], [server], [config],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
//	seed ──► [bipartite.SampleEdges] ──► [bipartite.Random]
//	                                          │
//	                                          ▼
//	                                  [bipartite.Matcher]
//	                                   │              │
//	                                   ▼              ▼
//	                           [bench.Runner]   [pipeline.Runner] ──► [cache]
//	                            │        │            │
//	                            ▼        ▼            ▼
//	                        CSV rows  [store]   [render/nodelink]
//
// The CLI (internal/cli) and the HTTP API ([server]) share [pipeline] and
// [bench], so a given seed yields the same graph and matching everywhere.
//
// # Quick Start
//
//	rng := bipartite.NewRand(42)
//	g, _ := bipartite.Random(rng, 1000, 1000, 5000)
//	m := bipartite.MaxMatching(g, bipartite.Options{})
//	fmt.Println(m.Size())
//
// Time a sweep:
//
//	run, err := bench.NewRunner(logger).Run(ctx, bench.DefaultSweep(), nil)
//
// # Testing
//
//	go test ./pkg/...         # All tests
//	go test -run Example      # Examples only
//
// [bipartite]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bipartite
// [bench]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bench
// [render]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/buildinfo
//
// [bipartite.SampleEdges]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bipartite#SampleEdges
// [bipartite.Random]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bipartite#Random
// [bipartite.Matcher]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bipartite#Matcher
// [bench.Runner]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/bench#Runner
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/matchbench/pkg/pipeline#Runner
package pkg
