// Package bench measures how long maximum matching takes as edge density
// grows.
//
// A [Sweep] names a graph shape (Left × Right), a range of edge counts and a
// number of trials per count. [Runner.Run] draws one random graph per trial
// from a single seeded source, times one matcher run on it, and reports a
// [Record] for every trial. Graph construction is not timed.
//
// With the default sweep the output reproduces the classic benchmark:
//
//	n,m,time
//	100000000,500000,41234567
//	...
//
// where n = Left*Right, m is the edge count and time is in nanoseconds.
//
// Records can be written as CSV with [CSVWriter] and condensed per edge
// count with [Summarize].
package bench
