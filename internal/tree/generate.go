package tree

import "fmt"

// DefaultMaxAttempts bounds the rejection loop for a single node before the
// generator falls back to scanning for eligible parents.
const DefaultMaxAttempts = 1024

// Rand is the random source used by the generator.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n). n is always > 0.
	IntN(n int) int
}

// Strategy selects how a parent with spare capacity is chosen.
type Strategy int

const (
	// StrategyRejection draws candidates from all existing nodes and
	// redraws while the candidate is saturated.
	StrategyRejection Strategy = iota

	// StrategyEligible draws directly from the set of nodes that still have
	// spare capacity.
	StrategyEligible
)

// String returns the flag spelling of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyRejection:
		return "rejection"
	case StrategyEligible:
		return "eligible"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses the flag spelling of a strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "rejection":
		return StrategyRejection, nil
	case "eligible":
		return StrategyEligible, nil
	default:
		return 0, newParameterError("strategy", "unknown strategy %q (want rejection|eligible)", s)
	}
}

// Metrics counts random draws made during the last Generate call.
type Metrics struct {
	// Draws is the number of calls made to the random source.
	Draws int `json:"draws"`

	// Rejections is the number of candidates discarded for being saturated.
	Rejections int `json:"rejections"`

	// Fallbacks is the number of nodes whose parent was chosen by scanning
	// after the attempt cap was reached.
	Fallbacks int `json:"fallbacks"`
}

// Option configures a Generator.
type Option func(*Generator)

// WithStrategy sets the parent selection strategy.
func WithStrategy(s Strategy) Option {
	return func(g *Generator) {
		g.strategy = s
	}
}

// WithMaxAttempts sets the per-node cap on rejection draws.
// Values below 1 keep the default.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n >= 1 {
			g.maxAttempts = n
		}
	}
}

// Generator builds random trees from an injected random source.
//
// Every strategy picks the parent of node i uniformly among the nodes
// 0..i-1 whose child count is below the fan-out cap, so the distribution of
// generated trees does not depend on the strategy. The strategies differ in
// how many draws they consume.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	rng         Rand
	strategy    Strategy
	maxAttempts int
	metrics     Metrics
}

// NewGenerator creates a generator drawing from rng.
func NewGenerator(rng Rand, opts ...Option) *Generator {
	g := &Generator{
		rng:         rng,
		strategy:    StrategyRejection,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Metrics returns the draw counters of the last Generate call.
func (g *Generator) Metrics() Metrics {
	return g.metrics
}

// Generate returns maxNodes nodes in id order forming a tree rooted at
// node 0 in which no node has more than maxChildren children.
//
// It fails with an ErrCodeInvalidParameter error, before drawing anything,
// if maxNodes < 1, or if maxChildren < 1 while maxNodes > 1.
func Generate(rng Rand, maxNodes, maxChildren int) ([]Node, error) {
	return NewGenerator(rng).Generate(maxNodes, maxChildren)
}

// Generate returns maxNodes nodes in id order. See the package-level Generate.
func (g *Generator) Generate(maxNodes, maxChildren int) ([]Node, error) {
	g.metrics = Metrics{}

	if err := CheckParameters(maxNodes, maxChildren); err != nil {
		return nil, err
	}
	if g.rng == nil {
		return nil, newParameterError("rng", "random source is nil")
	}
	if g.strategy != StrategyRejection && g.strategy != StrategyEligible {
		return nil, newParameterError("strategy", "unknown strategy %v", g.strategy)
	}

	nodes := make([]Node, 0, preallocSize(maxNodes))
	nodes = append(nodes, NewNode(0, nil))

	var open *openSet
	if g.strategy == StrategyEligible {
		open = newOpenSet(preallocSize(maxNodes))
		open.add(0)
	}

	for i := 1; i < maxNodes; i++ {
		var (
			p   int
			err error
		)
		if open != nil {
			p, err = g.pickOpen(open)
		} else {
			p, err = g.pickRejection(nodes, maxChildren)
		}
		if err != nil {
			return nil, err
		}

		parentID := NodeID(p)
		nodes = append(nodes, NewNode(i, &parentID))
		nodes[p].Children = append(nodes[p].Children, NodeID(i))

		if open != nil {
			if len(nodes[p].Children) >= maxChildren {
				open.remove(p)
			}
			open.add(i)
		}
	}

	return nodes, nil
}

// CheckParameters validates generation parameters.
func CheckParameters(maxNodes, maxChildren int) error {
	if maxNodes < 1 {
		return newParameterError("max_nodes", "must be at least 1, got %d", maxNodes)
	}
	if maxNodes > 1 && maxChildren < 1 {
		return newParameterError("max_children", "must be at least 1 when max_nodes > 1, got %d", maxChildren)
	}
	return nil
}

// maxPrealloc bounds up-front allocation; larger trees grow by append.
const maxPrealloc = 1 << 16

func preallocSize(maxNodes int) int {
	return min(maxNodes, maxPrealloc)
}

// pickRejection draws candidates among nodes[0:len(nodes)] until one has
// spare capacity, giving up after maxAttempts draws.
func (g *Generator) pickRejection(nodes []Node, maxChildren int) (int, error) {
	n := len(nodes)
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		c := g.draw(n)
		if len(nodes[c].Children) < maxChildren {
			return c, nil
		}
		g.metrics.Rejections++
	}

	g.metrics.Fallbacks++
	eligible := make([]int, 0, n)
	for i := range nodes {
		if len(nodes[i].Children) < maxChildren {
			eligible = append(eligible, i)
		}
	}
	// Nodes 0..n-1 offer n*maxChildren slots and only n-1 are used.
	if len(eligible) == 0 {
		return 0, &Error{
			Code:    ErrCodeNoEligibleParent,
			Message: fmt.Sprintf("no node among %d has fewer than %d children", n, maxChildren),
		}
	}
	return eligible[g.draw(len(eligible))], nil
}

func (g *Generator) pickOpen(open *openSet) (int, error) {
	if open.len() == 0 {
		return 0, &Error{
			Code:    ErrCodeNoEligibleParent,
			Message: "eligible parent set is empty",
		}
	}
	return open.at(g.draw(open.len())), nil
}

func (g *Generator) draw(n int) int {
	g.metrics.Draws++
	return g.rng.IntN(n)
}

// openSet is an unordered set of node indices with O(1) add, remove and
// indexed access.
type openSet struct {
	ids []int
	pos []int // pos[id] is the index of id in ids, or -1
}

func newOpenSet(capacity int) *openSet {
	pos := make([]int, capacity)
	for i := range pos {
		pos[i] = -1
	}
	return &openSet{ids: make([]int, 0, capacity), pos: pos}
}

func (s *openSet) len() int { return len(s.ids) }

func (s *openSet) at(i int) int { return s.ids[i] }

func (s *openSet) add(id int) {
	for len(s.pos) <= id {
		s.pos = append(s.pos, -1)
	}
	if s.pos[id] >= 0 {
		return
	}
	s.pos[id] = len(s.ids)
	s.ids = append(s.ids, id)
}

func (s *openSet) remove(id int) {
	if id >= len(s.pos) {
		return
	}
	i := s.pos[id]
	if i < 0 {
		return
	}
	last := s.ids[len(s.ids)-1]
	s.ids[i] = last
	s.pos[last] = i
	s.ids = s.ids[:len(s.ids)-1]
	s.pos[id] = -1
}
