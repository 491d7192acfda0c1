package bipartite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/matchbench/pkg/errors"
)

func TestSampleEdges_DistinctAndInRange(t *testing.T) {
	tests := []struct {
		name        string
		left, right int
		m           int
	}{
		{"empty", 5, 5, 0},
		{"sparse", 100, 100, 50},
		{"half", 10, 10, 50},
		{"dense", 10, 10, 90},
		{"complete", 7, 3, 21},
		{"single pair", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := SampleEdges(NewRand(1), tt.left, tt.right, tt.m)
			require.NoError(t, err)
			require.Len(t, codes, tt.m)

			seen := make(map[int]bool, len(codes))
			for _, c := range codes {
				require.GreaterOrEqual(t, c, 0)
				require.Less(t, c, tt.left*tt.right)
				require.False(t, seen[c], "code %d drawn twice", c)
				seen[c] = true
			}
		})
	}
}

func TestSampleEdges_InvalidSize(t *testing.T) {
	_, err := SampleEdges(NewRand(1), 3, 3, 10)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidSampleSize))

	_, err = SampleEdges(NewRand(1), 0, 3, 1)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidSampleSize))

	_, err = SampleEdges(NewRand(1), 3, 3, -1)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidSampleSize))
}

func TestSampleEdges_Deterministic(t *testing.T) {
	a, err := SampleEdges(NewRand(42), 50, 40, 300)
	require.NoError(t, err)
	b, err := SampleEdges(NewRand(42), 50, 40, 300)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := SampleEdges(NewRand(43), 50, 40, 300)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSampleEdges_Uniform(t *testing.T) {
	const (
		n      = 6
		m      = 2
		rounds = 30000
	)
	rng := NewRand(7)
	counts := make([]int, n)
	for range rounds {
		codes, err := SampleEdges(rng, 2, 3, m)
		require.NoError(t, err)
		for _, c := range codes {
			counts[c]++
		}
	}

	want := rounds * m / n
	for c, got := range counts {
		assert.InDelta(t, want, got, float64(want)/20, "code %d drawn %d times, want about %d", c, got, want)
	}
}

func TestDecodeEncode(t *testing.T) {
	tests := []struct {
		code, right int
		want        Edge
	}{
		{0, 4, Edge{0, 0}},
		{3, 4, Edge{0, 3}},
		{4, 4, Edge{1, 0}},
		{11, 4, Edge{2, 3}},
		{5, 1, Edge{5, 0}},
	}

	for _, tt := range tests {
		got := Decode(tt.code, tt.right)
		assert.Equal(t, tt.want, got, "Decode(%d, %d)", tt.code, tt.right)
		assert.Equal(t, tt.code, Encode(got, tt.right))
	}
}
