package bipartite

import (
	"math/rand/v2"
	"slices"

	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// Unmatched marks a right node without a partner in a [Matching].
const Unmatched = -1

// DefaultSeed seeds the random source of a randomized [Matcher] when
// [Options.Rand] is nil.
const DefaultSeed = uint64(131254153212)

// Matching maps every right node index to its matched left node index, or
// to [Unmatched].
type Matching []int

// NewMatching returns a matching over right nodes with every entry unmatched.
func NewMatching(right int) Matching {
	m := make(Matching, right)
	for j := range m {
		m[j] = Unmatched
	}
	return m
}

// Size returns the number of matched pairs.
func (m Matching) Size() int {
	n := 0
	for _, v := range m {
		if v != Unmatched {
			n++
		}
	}
	return n
}

// LeftOf returns the left node matched to right node j.
func (m Matching) LeftOf(j int) (int, bool) {
	if j < 0 || j >= len(m) || m[j] == Unmatched {
		return Unmatched, false
	}
	return m[j], true
}

// Pairs returns the matched edges ordered by right node index.
func (m Matching) Pairs() []Edge {
	out := make([]Edge, 0, m.Size())
	for j, v := range m {
		if v != Unmatched {
			out = append(out, Edge{Left: v, Right: j})
		}
	}
	return out
}

// ByLeft returns the inverse view: for each of the left nodes, the matched
// right node index or [Unmatched].
func (m Matching) ByLeft(left int) []int {
	out := make([]int, left)
	for i := range out {
		out[i] = Unmatched
	}
	for j, v := range m {
		if v >= 0 && v < left {
			out[v] = j
		}
	}
	return out
}

// Validate checks that m is a matching of g: one entry per right node,
// every matched pair is an edge of g, and no left node is used twice.
func (m Matching) Validate(g *Graph) error {
	if len(m) != g.RightSize() {
		return errs.New(errs.ErrCodeInvalidInput, "matching has %d entries, graph has %d right nodes", len(m), g.RightSize())
	}
	owner := make(map[int]int, len(m))
	for j, v := range m {
		if v == Unmatched {
			continue
		}
		if v < 0 || v >= g.LeftSize() {
			return errs.New(errs.ErrCodeIndexOutOfRange, "right node %d matched to unknown left node %d", j, v)
		}
		if !g.HasEdge(v, j) {
			return errs.New(errs.ErrCodeInvalidInput, "right node %d matched to left node %d without an edge", j, v)
		}
		if prev, ok := owner[v]; ok {
			return errs.New(errs.ErrCodeInvalidInput, "left node %d matched to both right nodes %d and %d", v, prev, j)
		}
		owner[v] = j
	}
	return nil
}

// Options configures a [Matcher].
type Options struct {
	// Randomized reshuffles a left node's neighbor order every time the
	// search enters it.
	Randomized bool

	// Rand drives the reshuffling. Only used when Randomized is set; a nil
	// Rand is replaced by NewRand(DefaultSeed).
	Rand *rand.Rand
}

// Stats describes the work done by the last [Matcher.Run].
type Stats struct {
	Augmentations int `json:"augmentations"` // Successful augmenting paths (equals the matching size)
	Visits        int `json:"visits"`        // Left nodes entered by the search
	Scans         int `json:"scans"`         // Neighbor entries examined
	MaxDepth      int `json:"max_depth"`     // Longest alternating path explored, in left nodes
}

// frame is one left node on the search stack and the position of the
// neighbor it is currently trying.
type frame struct {
	v    int
	next int
}

// Matcher computes maximum matchings of one graph with Kuhn's algorithm.
//
// The depth-first search over alternating paths runs on an explicit stack,
// so long augmenting chains do not grow the goroutine stack.
type Matcher struct {
	g    *Graph
	opts Options

	order [][]int  // randomized traversal order per left node, filled lazily
	seen  []uint32 // epoch stamp per left node; seen[v] == epoch means visited
	epoch uint32

	stack []frame
	stats Stats
}

// NewMatcher prepares a matcher for g. The graph is only read.
func NewMatcher(g *Graph, opts Options) *Matcher {
	if opts.Randomized && opts.Rand == nil {
		opts.Rand = NewRand(DefaultSeed)
	}
	m := &Matcher{
		g:    g,
		opts: opts,
		seen: make([]uint32, g.LeftSize()),
	}
	if opts.Randomized {
		m.order = make([][]int, g.LeftSize())
	}
	return m
}

// MaxMatching computes a maximum matching of g.
func MaxMatching(g *Graph, opts Options) Matching {
	return NewMatcher(g, opts).Run()
}

// Run computes a maximum matching.
//
// Left nodes are tried once each in index order. Before each attempt all
// visit marks are cleared; a node that fails its attempt stays unmatched
// unless a later augmenting path passes through it.
//
// In randomized mode the shuffled neighbor orders are kept by the matcher,
// so a second Run continues from the orders the first one left behind.
func (m *Matcher) Run() Matching {
	match := NewMatching(m.g.RightSize())
	m.stats = Stats{}
	for v := range m.g.left {
		m.nextEpoch()
		if m.augment(v, match) {
			m.stats.Augmentations++
		}
	}
	return match
}

// Stats returns counters for the last Run.
func (m *Matcher) Stats() Stats { return m.stats }

func (m *Matcher) nextEpoch() {
	m.epoch++
	if m.epoch == 0 {
		clear(m.seen)
		m.epoch = 1
	}
}

// augment searches for an augmenting path from root and applies it.
//
// Each stack frame tries its neighbors in order. A free right node ends the
// search successfully; a matched one pushes its partner unless that partner
// was already visited in this attempt. An exhausted frame is popped and its
// parent moves on to its next neighbor.
func (m *Matcher) augment(root int, match Matching) bool {
	if !m.enter(root) {
		return false
	}
	for len(m.stack) > 0 {
		top := &m.stack[len(m.stack)-1]
		adj := m.neighbors(top.v)
		if top.next == len(adj) {
			m.stack = m.stack[:len(m.stack)-1]
			if n := len(m.stack); n > 0 {
				m.stack[n-1].next++
			}
			continue
		}

		m.stats.Scans++
		owner := match[adj[top.next]]
		if owner == Unmatched {
			m.apply(match)
			return true
		}
		if !m.enter(owner) {
			top.next++
		}
	}
	return false
}

// enter marks v visited and pushes it, reshuffling its order in randomized
// mode. It reports false if v was already visited in this attempt.
func (m *Matcher) enter(v int) bool {
	if m.seen[v] == m.epoch {
		return false
	}
	m.seen[v] = m.epoch
	m.stats.Visits++

	if m.opts.Randomized {
		if m.order[v] == nil {
			m.order[v] = slices.Clone(m.g.left[v].neighbors)
		}
		order := m.order[v]
		m.opts.Rand.Shuffle(len(order), func(a, b int) { order[a], order[b] = order[b], order[a] })
	}

	m.stack = append(m.stack, frame{v: v})
	if len(m.stack) > m.stats.MaxDepth {
		m.stats.MaxDepth = len(m.stack)
	}
	return true
}

// apply flips the alternating path held on the stack: every frame's current
// right neighbor is matched to the frame's left node.
func (m *Matcher) apply(match Matching) {
	for _, f := range m.stack {
		match[m.neighbors(f.v)[f.next]] = f.v
	}
	m.stack = m.stack[:0]
}

func (m *Matcher) neighbors(v int) []int {
	if m.opts.Randomized {
		return m.order[v]
	}
	return m.g.left[v].neighbors
}
