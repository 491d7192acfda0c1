package bipartite

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MatchSuite exercises the matcher in both traversal modes.
type MatchSuite struct {
	suite.Suite
	randomized bool
}

func TestMatchFixedOrder(t *testing.T) { suite.Run(t, &MatchSuite{}) }

func TestMatchRandomizedOrder(t *testing.T) { suite.Run(t, &MatchSuite{randomized: true}) }

func (s *MatchSuite) match(g *Graph) Matching {
	m := MaxMatching(g, Options{Randomized: s.randomized, Rand: NewRand(11)})
	require.NoError(s.T(), m.Validate(g))
	return m
}

func (s *MatchSuite) build(left, right int, edges ...Edge) *Graph {
	g, err := FromEdges(left, right, edges)
	require.NoError(s.T(), err)
	return g
}

// TestCompleteThreeByThree verifies that K(3,3) matches every node.
func (s *MatchSuite) TestCompleteThreeByThree() {
	g, err := Random(NewRand(1), 3, 3, 9)
	require.NoError(s.T(), err)
	s.Equal(3, s.match(g).Size())
}

// TestTwoByTwo accepts any maximum matching of {(0,0),(0,1),(1,0)}.
func (s *MatchSuite) TestTwoByTwo() {
	g := s.build(2, 2, Edge{0, 0}, Edge{0, 1}, Edge{1, 0})
	m := s.match(g)
	s.Equal(2, m.Size())
	left, ok := m.LeftOf(0)
	s.True(ok)
	s.Equal(1, left, "left 1 can only use right 0")
}

// TestSingleRightNode verifies that only one of three competitors wins.
func (s *MatchSuite) TestSingleRightNode() {
	g := s.build(3, 1, Edge{0, 0}, Edge{1, 0}, Edge{2, 0})
	m := s.match(g)
	s.Equal(1, m.Size())
	_, ok := m.LeftOf(0)
	s.True(ok)
}

// TestIsolatedLeftNode verifies that an isolated node stays unmatched while
// the rest are covered.
func (s *MatchSuite) TestIsolatedLeftNode() {
	g := s.build(3, 3, Edge{0, 0}, Edge{0, 1}, Edge{2, 0})
	m := s.match(g)
	s.Equal(2, m.Size())
	byLeft := m.ByLeft(3)
	s.Equal(Unmatched, byLeft[1])
	s.NotEqual(Unmatched, byLeft[0])
	s.NotEqual(Unmatched, byLeft[2])
}

// TestNoEdges verifies that m = 0 leaves everything unmatched.
func (s *MatchSuite) TestNoEdges() {
	for _, size := range [][2]int{{0, 0}, {0, 5}, {5, 0}, {4, 7}} {
		g, err := Random(NewRand(5), size[0], size[1], 0)
		require.NoError(s.T(), err)
		m := s.match(g)
		s.Len(m, size[1])
		s.Zero(m.Size())
		for _, v := range m {
			s.Equal(Unmatched, v)
		}
	}
}

// TestCompleteGraphs verifies that K(L,R) matches min(L,R) nodes.
func (s *MatchSuite) TestCompleteGraphs() {
	for _, size := range [][2]int{{1, 1}, {3, 5}, {5, 3}, {8, 8}, {2, 9}} {
		l, r := size[0], size[1]
		g, err := Random(NewRand(8), l, r, l*r)
		require.NoError(s.T(), err)
		s.Equal(min(l, r), s.match(g).Size(), "K(%d,%d)", l, r)
	}
}

// TestAgainstBruteForce compares matching sizes with exhaustive search on
// small random graphs.
func (s *MatchSuite) TestAgainstBruteForce() {
	rng := NewRand(2024)
	for trial := range 300 {
		l := 1 + rng.IntN(6)
		r := 1 + rng.IntN(6)
		m := rng.IntN(l*r + 1)
		g, err := Random(rng, l, r, m)
		require.NoError(s.T(), err)

		got := s.match(g).Size()
		s.Equal(bruteForceSize(g), got, "trial %d: %d×%d with %d edges", trial, l, r, m)
	}
}

// TestAgainstHopcroftKarp compares matching sizes with an independent
// layered-BFS matcher on graphs too large for exhaustive search.
func (s *MatchSuite) TestAgainstHopcroftKarp() {
	rng := NewRand(77)
	for trial := range 200 {
		l := 1 + rng.IntN(60)
		r := 1 + rng.IntN(60)
		m := rng.IntN(l*r/4 + 1)
		if trial%10 == 0 {
			m = rng.IntN(l*r + 1)
		}
		g, err := Random(rng, l, r, m)
		require.NoError(s.T(), err)

		got := s.match(g).Size()
		s.Equal(hopcroftKarpSize(g), got, "trial %d: %d×%d with %d edges", trial, l, r, m)
	}
}

// TestLongAugmentingChains drives the search to depth L.
func (s *MatchSuite) TestLongAugmentingChains() {
	const n = 3000
	g, err := New(n, n)
	require.NoError(s.T(), err)
	require.NoError(s.T(), g.AddEdge(0, 0))
	for i := 1; i < n; i++ {
		require.NoError(s.T(), g.AddEdge(i, i-1))
		require.NoError(s.T(), g.AddEdge(i, i))
	}

	matcher := NewMatcher(g, Options{Randomized: s.randomized, Rand: NewRand(4)})
	m := matcher.Run()
	require.NoError(s.T(), m.Validate(g))
	s.Equal(n, m.Size())
	s.Equal(n, matcher.Stats().Augmentations)
	if !s.randomized {
		s.Equal(n, matcher.Stats().MaxDepth)
	}
}

// TestGraphUnchanged verifies that matching never reorders stored neighbors.
func (s *MatchSuite) TestGraphUnchanged() {
	g, err := Random(NewRand(6), 40, 40, 400)
	require.NoError(s.T(), err)
	before := g.Edges()

	s.match(g)
	s.match(g)

	s.Equal(before, g.Edges())
	s.NoError(g.Validate())
}

func TestMaxMatching_Deterministic(t *testing.T) {
	g, err := Random(NewRand(131254153212), 300, 300, 1500)
	require.NoError(t, err)

	a := MaxMatching(g, Options{})
	b := MaxMatching(g, Options{})
	assert.Equal(t, a, b)

	h, err := Random(NewRand(131254153212), 300, 300, 1500)
	require.NoError(t, err)
	assert.Equal(t, a, MaxMatching(h, Options{}))
}

func TestMaxMatching_RandomizedReproducible(t *testing.T) {
	g, err := Random(NewRand(17), 200, 200, 1200)
	require.NoError(t, err)

	a := MaxMatching(g, Options{Randomized: true, Rand: NewRand(5)})
	b := MaxMatching(g, Options{Randomized: true, Rand: NewRand(5)})
	assert.Equal(t, a, b)
	assert.Equal(t, MaxMatching(g, Options{}).Size(), a.Size())
}

func TestMatcher_FixedOrderFirstFit(t *testing.T) {
	// Left 0 takes its smallest neighbor; left 1 then displaces it.
	g, err := FromEdges(2, 2, []Edge{{0, 0}, {0, 1}, {1, 0}})
	require.NoError(t, err)

	m := MaxMatching(g, Options{})
	assert.Equal(t, Matching{1, 0}, m)
}

func TestMatcher_OrdersPersistAcrossRuns(t *testing.T) {
	g, err := Random(NewRand(21), 30, 30, 200)
	require.NoError(t, err)

	matcher := NewMatcher(g, Options{Randomized: true})
	first := matcher.Run()
	require.NoError(t, first.Validate(g))

	kept := make([][]int, len(matcher.order))
	for v, order := range matcher.order {
		kept[v] = append([]int(nil), order...)
	}
	for v := range kept {
		if kept[v] != nil {
			assert.ElementsMatch(t, g.Left(v).Neighbors(), kept[v])
		}
	}

	second := matcher.Run()
	require.NoError(t, second.Validate(g))
	assert.Equal(t, first.Size(), second.Size())
}

func TestMatcher_RandomizedReorders(t *testing.T) {
	g, err := Random(NewRand(8), 12, 12, 100)
	require.NoError(t, err)

	matcher := NewMatcher(g, Options{Randomized: true, Rand: NewRand(3)})
	require.NoError(t, matcher.Run().Validate(g))

	reordered := 0
	for v, order := range matcher.order {
		if order == nil {
			continue
		}
		assert.ElementsMatch(t, g.Left(v).Neighbors(), order)
		if !slices.Equal(order, g.Left(v).Neighbors()) {
			reordered++
		}
	}
	assert.Positive(t, reordered, "no left node left in a shuffled order")

	fixed := NewMatcher(g, Options{})
	fixed.Run()
	assert.Nil(t, fixed.order)
}

// TestMatcher_ReshufflesOnEveryVisit enters the same left node in separate
// attempts and checks that its order is drawn again each time.
func TestMatcher_ReshufflesOnEveryVisit(t *testing.T) {
	g, err := Random(NewRand(1), 1, 10, 10)
	require.NoError(t, err)
	matcher := NewMatcher(g, Options{Randomized: true, Rand: NewRand(9)})

	var visits [][]int
	for range 4 {
		matcher.nextEpoch()
		require.True(t, matcher.enter(0))
		visits = append(visits, slices.Clone(matcher.order[0]))

		// A second entry within the same attempt is refused and leaves the
		// order alone.
		require.False(t, matcher.enter(0))
		assert.Equal(t, visits[len(visits)-1], matcher.order[0])
		matcher.stack = matcher.stack[:0]
	}

	distinct := 0
	for i := 1; i < len(visits); i++ {
		assert.ElementsMatch(t, g.Left(0).Neighbors(), visits[i])
		if !slices.Equal(visits[i], visits[i-1]) {
			distinct++
		}
	}
	assert.Positive(t, distinct, "order never changed between attempts: %v", visits)
	assert.Equal(t, 4, matcher.Stats().Visits)
}

// TestMatcher_ReentryReshuffles builds a graph where the second attempt
// must pass through left node 0 again, and checks that the order it used
// in the first attempt was redrawn.
func TestMatcher_ReentryReshuffles(t *testing.T) {
	const fan = 10
	g, err := New(2, fan)
	require.NoError(t, err)
	for j := range fan {
		require.NoError(t, g.AddEdge(0, j))
	}

	matcher := NewMatcher(g, Options{Randomized: true, Rand: NewRand(5)})
	match := NewMatching(fan)
	matcher.nextEpoch()
	require.True(t, matcher.augment(0, match))
	first := slices.Clone(matcher.order[0])
	taken := first[0]
	require.Equal(t, 0, match[taken])

	// Left 1 only reaches the right node left 0 took, so its search
	// re-enters left 0.
	require.NoError(t, g.AddEdge(1, taken))
	matcher.nextEpoch()
	require.True(t, matcher.augment(1, match))

	assert.Equal(t, 3, matcher.Stats().Visits)
	assert.Equal(t, 1, match[taken])
	assert.NotEqual(t, first, matcher.order[0], "left 0 kept its order across attempts")
	require.NoError(t, match.Validate(g))
}

func TestMatcher_StatsReset(t *testing.T) {
	g, err := FromEdges(2, 2, []Edge{{0, 0}, {1, 1}})
	require.NoError(t, err)

	matcher := NewMatcher(g, Options{})
	matcher.Run()
	first := matcher.Stats()
	matcher.Run()
	assert.Equal(t, first, matcher.Stats())
	assert.Equal(t, Stats{Augmentations: 2, Visits: 2, Scans: 2, MaxDepth: 1}, first)
}

func TestMatcher_EpochWrap(t *testing.T) {
	g, err := FromEdges(2, 1, []Edge{{0, 0}, {1, 0}})
	require.NoError(t, err)

	matcher := NewMatcher(g, Options{})
	matcher.epoch = ^uint32(0) - 1
	m := matcher.Run()
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, uint32(1), matcher.epoch)
}

func TestMatching_Helpers(t *testing.T) {
	m := Matching{2, Unmatched, 0}
	assert.Equal(t, 2, m.Size())

	v, ok := m.LeftOf(0)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	_, ok = m.LeftOf(1)
	assert.False(t, ok)
	_, ok = m.LeftOf(9)
	assert.False(t, ok)

	assert.Equal(t, []Edge{{Left: 2, Right: 0}, {Left: 0, Right: 2}}, m.Pairs())
	assert.Equal(t, []int{2, Unmatched, 0}, m.ByLeft(3))
	assert.Len(t, NewMatching(4), 4)
}

func TestMatching_Validate(t *testing.T) {
	g, err := FromEdges(2, 2, []Edge{{0, 0}, {1, 0}, {1, 1}})
	require.NoError(t, err)

	assert.NoError(t, Matching{0, 1}.Validate(g))
	assert.NoError(t, Matching{Unmatched, Unmatched}.Validate(g))
	assert.Error(t, Matching{0}.Validate(g), "wrong length")
	assert.Error(t, Matching{0, 0}.Validate(g), "left 0 has no edge to right 1")
	assert.Error(t, Matching{1, 1}.Validate(g), "left 1 used twice")
	assert.Error(t, Matching{5, Unmatched}.Validate(g), "unknown left node")
}

// bruteForceSize returns the maximum matching size by exhaustive search.
func bruteForceSize(g *Graph) int {
	used := make([]bool, g.RightSize())
	var best func(v int) int
	best = func(v int) int {
		if v == g.LeftSize() {
			return 0
		}
		result := best(v + 1)
		for _, j := range g.Left(v).Neighbors() {
			if used[j] {
				continue
			}
			used[j] = true
			result = max(result, 1+best(v+1))
			used[j] = false
		}
		return result
	}
	return best(0)
}

// hopcroftKarpSize returns the maximum matching size computed with
// Hopcroft-Karp phases: a BFS layers the free left nodes, then DFS finds
// vertex-disjoint shortest augmenting paths.
func hopcroftKarpSize(g *Graph) int {
	const inf = math.MaxInt
	matchL := make([]int, g.LeftSize())
	matchR := make([]int, g.RightSize())
	for i := range matchL {
		matchL[i] = -1
	}
	for j := range matchR {
		matchR[j] = -1
	}
	dist := make([]int, g.LeftSize())

	layer := func() bool {
		queue := make([]int, 0, len(matchL))
		for v := range matchL {
			if matchL[v] == -1 {
				dist[v] = 0
				queue = append(queue, v)
			} else {
				dist[v] = inf
			}
		}
		found := false
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, j := range g.Left(v).Neighbors() {
				u := matchR[j]
				switch {
				case u == -1:
					found = true
				case dist[u] == inf:
					dist[u] = dist[v] + 1
					queue = append(queue, u)
				}
			}
		}
		return found
	}

	var augment func(v int) bool
	augment = func(v int) bool {
		for _, j := range g.Left(v).Neighbors() {
			u := matchR[j]
			if u == -1 || (dist[u] == dist[v]+1 && augment(u)) {
				matchL[v] = j
				matchR[j] = v
				return true
			}
		}
		dist[v] = inf
		return false
	}

	size := 0
	for layer() {
		for v := range matchL {
			if matchL[v] == -1 && augment(v) {
				size++
			}
		}
	}
	return size
}
