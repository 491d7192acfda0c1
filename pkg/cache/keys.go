package cache

// Keyer builds cache keys for the values the tool caches.
type Keyer interface {
	// MatchKey identifies a maximum matching of a generated graph.
	MatchKey(opts MatchKeyOpts) string

	// DOTKey identifies a rendered diagram of a generated graph.
	DOTKey(match MatchKeyOpts, opts DOTKeyOpts) string
}

// MatchKeyOpts are the generation parameters that determine a graph and
// its matching.
type MatchKeyOpts struct {
	Left       int    `json:"left"`
	Right      int    `json:"right"`
	Edges      int    `json:"edges"`
	Seed       uint64 `json:"seed"`
	Randomized bool   `json:"randomized"`
}

// DOTKeyOpts are the rendering parameters of a diagram.
type DOTKeyOpts struct {
	Format      string `json:"format"`
	Color       string `json:"color,omitempty"`
	MatchedOnly bool   `json:"matched_only,omitempty"`
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MatchKey implements [Keyer].
func (DefaultKeyer) MatchKey(opts MatchKeyOpts) string {
	return hashKey("match", opts)
}

// DOTKey implements [Keyer].
func (DefaultKeyer) DOTKey(match MatchKeyOpts, opts DOTKeyOpts) string {
	return hashKey("dot", match, opts)
}
