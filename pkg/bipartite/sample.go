package bipartite

import (
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// NewRand returns a PCG-backed random source for the given seed.
// The same seed always yields the same sequence.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Decode maps an edge code from the row-major L×R index space to its
// endpoints: left = code / right, right = code % right.
func Decode(code, right int) Edge {
	return Edge{Left: code / right, Right: code % right}
}

// Encode is the inverse of [Decode].
func Encode(e Edge, right int) int {
	return e.Left*right + e.Right
}

// SampleEdges draws m pairwise-distinct edge codes uniformly without
// replacement from [0, left*right). The order of the returned codes is not
// significant.
//
// It fails with an INVALID_SAMPLE_SIZE error when m is negative or larger
// than left*right.
func SampleEdges(rng *rand.Rand, left, right, m int) ([]int, error) {
	if err := errs.ValidateEdgeCount(left, right, m); err != nil {
		return nil, err
	}
	return sampleIndices(rng, left*right, m), nil
}

// sampleIndices returns m distinct integers from [0, n).
//
// Sparse requests use Floyd's algorithm. Requests for more than half of the
// index space sample the n-m codes to leave out and return the rest.
func sampleIndices(rng *rand.Rand, n, m int) []int {
	if m == 0 {
		return []int{}
	}
	if m <= n/2 {
		return drain(rng, floyd(rng, n, m), m)
	}

	kept := floyd(rng, n, n-m)
	kept.Flip(0, uint64(n))
	return drain(rng, kept, m)
}

// drain copies the codes out of bm in random order.
func drain(rng *rand.Rand, bm *roaring64.Bitmap, m int) []int {
	out := make([]int, 0, m)
	for it := bm.Iterator(); it.HasNext(); {
		out = append(out, int(it.Next()))
	}
	rng.Shuffle(len(out), func(a, b int) { out[a], out[b] = out[b], out[a] })
	return out
}

// floyd selects k distinct values from [0, n) (Floyd's combination sampling).
func floyd(rng *rand.Rand, n, k int) *roaring64.Bitmap {
	chosen := roaring64.New()
	for j := n - k; j < n; j++ {
		t := uint64(rng.IntN(j + 1))
		if !chosen.CheckedAdd(t) {
			chosen.Add(uint64(j))
		}
	}
	return chosen
}
