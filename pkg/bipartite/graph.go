package bipartite

import (
	"maps"
	"math/rand/v2"
	"slices"

	errs "github.com/matzehuels/matchbench/pkg/errors"
)

// Metadata stores arbitrary key-value pairs attached to a node.
// The matcher never reads it.
type Metadata map[string]any

// Side identifies one of the two node collections of a [Graph].
type Side int

const (
	// SideLeft holds the nodes that start augmenting paths.
	SideLeft Side = iota
	// SideRight holds the nodes the matching is indexed by.
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Edge joins left node Left to right node Right.
type Edge struct {
	Left  int `json:"left" bson:"left"`
	Right int `json:"right" bson:"right"`
}

// Node is a vertex on one side of a [Graph].
type Node struct {
	Meta Metadata // Opaque payload, never nil after construction

	neighbors []int // Indices on the opposite side, sorted ascending
}

// Neighbors returns the node's neighbor indices on the opposite side in
// ascending order. The returned slice is owned by the graph and must not be
// modified.
func (n *Node) Neighbors() []int { return n.neighbors }

// Degree returns the number of edges incident to the node.
func (n *Node) Degree() int { return len(n.neighbors) }

// Graph is a bipartite graph with left and right nodes addressed by index.
//
// The zero value is an empty graph with no nodes. Use [New], [FromEdges] or
// [Random] to create one. A Graph is not safe for concurrent modification.
type Graph struct {
	left  []Node
	right []Node
	edges int
}

// New creates a graph with the given side sizes and no edges.
func New(left, right int) (*Graph, error) {
	if err := errs.ValidateSides(left, right); err != nil {
		return nil, err
	}
	return newGraph(left, right), nil
}

func newGraph(left, right int) *Graph {
	g := &Graph{
		left:  make([]Node, left),
		right: make([]Node, right),
	}
	for i := range g.left {
		g.left[i].Meta = Metadata{}
	}
	for j := range g.right {
		g.right[j].Meta = Metadata{}
	}
	return g
}

// FromEdges builds a graph from an explicit edge list.
// It fails on out-of-range endpoints and on repeated edges.
func FromEdges(left, right int, edges []Edge) (*Graph, error) {
	g, err := New(left, right)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := g.AddEdge(e.Left, e.Right); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Random builds a graph with left and right nodes and exactly m distinct
// edges drawn uniformly without replacement by [SampleEdges].
//
// The sampled codes are decoded row-major, recorded on both endpoints, and
// every neighbor list is sorted afterwards, so traversal order depends only
// on the drawn edge set.
func Random(rng *rand.Rand, left, right, m int) (*Graph, error) {
	codes, err := SampleEdges(rng, left, right, m)
	if err != nil {
		return nil, err
	}

	g := newGraph(left, right)
	for _, code := range codes {
		e := Decode(code, right)
		if e.Left < 0 || e.Left >= left || e.Right < 0 || e.Right >= right {
			return nil, errs.New(errs.ErrCodeIndexOutOfRange,
				"edge code %d decodes to (%d,%d) outside %d×%d", code, e.Left, e.Right, left, right)
		}
		g.left[e.Left].neighbors = append(g.left[e.Left].neighbors, e.Right)
		g.right[e.Right].neighbors = append(g.right[e.Right].neighbors, e.Left)
	}
	g.edges = len(codes)

	for i := range g.left {
		slices.Sort(g.left[i].neighbors)
	}
	for j := range g.right {
		slices.Sort(g.right[j].neighbors)
	}
	return g, nil
}

// AddEdge records the edge (i, j) on both endpoints, keeping both neighbor
// lists sorted. It returns an INDEX_OUT_OF_RANGE error for unknown nodes and
// a DUPLICATE_EDGE error if the edge already exists.
func (g *Graph) AddEdge(i, j int) error {
	if i < 0 || i >= len(g.left) {
		return errs.New(errs.ErrCodeIndexOutOfRange, "left index %d out of range [0,%d)", i, len(g.left))
	}
	if j < 0 || j >= len(g.right) {
		return errs.New(errs.ErrCodeIndexOutOfRange, "right index %d out of range [0,%d)", j, len(g.right))
	}

	pos, found := slices.BinarySearch(g.left[i].neighbors, j)
	if found {
		return errs.New(errs.ErrCodeDuplicateEdge, "edge (%d,%d) already exists", i, j)
	}
	g.left[i].neighbors = slices.Insert(g.left[i].neighbors, pos, j)

	pos, _ = slices.BinarySearch(g.right[j].neighbors, i)
	g.right[j].neighbors = slices.Insert(g.right[j].neighbors, pos, i)

	g.edges++
	return nil
}

// LeftSize returns the number of left nodes.
func (g *Graph) LeftSize() int { return len(g.left) }

// RightSize returns the number of right nodes.
func (g *Graph) RightSize() int { return len(g.right) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edges }

// PairCount returns LeftSize()*RightSize(), the number of possible edges.
func (g *Graph) PairCount() int { return len(g.left) * len(g.right) }

// Left returns left node i. It panics if i is out of range.
func (g *Graph) Left(i int) *Node { return &g.left[i] }

// Right returns right node j. It panics if j is out of range.
func (g *Graph) Right(j int) *Node { return &g.right[j] }

// Node returns node idx on the given side.
func (g *Graph) Node(side Side, idx int) (*Node, bool) {
	nodes := g.left
	if side == SideRight {
		nodes = g.right
	}
	if idx < 0 || idx >= len(nodes) {
		return nil, false
	}
	return &nodes[idx], true
}

// HasEdge reports whether the edge (i, j) exists.
func (g *Graph) HasEdge(i, j int) bool {
	if i < 0 || i >= len(g.left) {
		return false
	}
	_, found := slices.BinarySearch(g.left[i].neighbors, j)
	return found
}

// Edges returns all edges in row-major order (by left, then right index).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for i := range g.left {
		for _, j := range g.left[i].neighbors {
			out = append(out, Edge{Left: i, Right: j})
		}
	}
	return out
}

// Isolated returns the indices of nodes on side that have no edges.
func (g *Graph) Isolated(side Side) []int {
	nodes := g.left
	if side == SideRight {
		nodes = g.right
	}
	var out []int
	for idx := range nodes {
		if len(nodes[idx].neighbors) == 0 {
			out = append(out, idx)
		}
	}
	return out
}

// Clone returns a deep copy of the graph, including node metadata maps
// (values are copied shallowly).
func (g *Graph) Clone() *Graph {
	c := &Graph{
		left:  make([]Node, len(g.left)),
		right: make([]Node, len(g.right)),
		edges: g.edges,
	}
	for i, n := range g.left {
		c.left[i] = Node{Meta: maps.Clone(n.Meta), neighbors: slices.Clone(n.neighbors)}
	}
	for j, n := range g.right {
		c.right[j] = Node{Meta: maps.Clone(n.Meta), neighbors: slices.Clone(n.neighbors)}
	}
	return c
}

// Validate checks the structural invariants of the graph: every neighbor
// list is strictly ascending and within range, every edge is recorded on
// both endpoints, and both sides agree with the edge count.
func (g *Graph) Validate() error {
	leftTotal, err := checkSide(g.left, len(g.right), SideLeft)
	if err != nil {
		return err
	}
	rightTotal, err := checkSide(g.right, len(g.left), SideRight)
	if err != nil {
		return err
	}
	if leftTotal != g.edges || rightTotal != g.edges {
		return errs.New(errs.ErrCodeInternal,
			"edge count mismatch: %d recorded, %d on left, %d on right", g.edges, leftTotal, rightTotal)
	}

	for i := range g.left {
		for _, j := range g.left[i].neighbors {
			if _, found := slices.BinarySearch(g.right[j].neighbors, i); !found {
				return errs.New(errs.ErrCodeInternal, "edge (%d,%d) missing on right node %d", i, j, j)
			}
		}
	}
	return nil
}

func checkSide(nodes []Node, opposite int, side Side) (int, error) {
	total := 0
	for idx := range nodes {
		adj := nodes[idx].neighbors
		for k, v := range adj {
			if v < 0 || v >= opposite {
				return 0, errs.New(errs.ErrCodeIndexOutOfRange,
					"%s node %d has neighbor %d out of range [0,%d)", side, idx, v, opposite)
			}
			if k > 0 && adj[k-1] >= v {
				return 0, errs.New(errs.ErrCodeInternal,
					"%s node %d neighbors not strictly ascending at position %d", side, idx, k)
			}
		}
		total += len(adj)
	}
	return total, nil
}
