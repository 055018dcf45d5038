package tree

import "fmt"

// Tree is a validated node list with derived structure.
//
// Because a valid list stores node i at index i and every parent precedes
// its children, depths are computed in one forward pass and subtree sizes
// in one backward pass.
type Tree struct {
	nodes    []Node
	parent   []int // -1 for the root
	children [][]int
	depth    []int
	size     []int
	levels   [][]int
}

// Build validates nodes and links them into a Tree.
// Returns an ErrCodeInvalidTree error describing the first problem found
// if the list is not a valid tree. The fan-out cap is not checked.
func Build(nodes []Node) (*Tree, error) {
	if errs := Validate(nodes, 0); len(errs) > 0 {
		msg := errs[0].Error()
		if len(errs) > 1 {
			msg = fmt.Sprintf("%s (and %d more)", msg, len(errs)-1)
		}
		return nil, &Error{Code: ErrCodeInvalidTree, Message: msg}
	}

	n := len(nodes)
	t := &Tree{
		nodes:    nodes,
		parent:   make([]int, n),
		children: make([][]int, n),
		depth:    make([]int, n),
		size:     make([]int, n),
	}

	t.parent[0] = -1
	for i := 1; i < n; i++ {
		p, _ := parseID(*nodes[i].Parent)
		t.parent[i] = p
		t.depth[i] = t.depth[p] + 1
	}
	for i, node := range nodes {
		t.children[i] = make([]int, len(node.Children))
		for j, c := range node.Children {
			t.children[i][j], _ = parseID(c)
		}
	}

	for i := n - 1; i >= 0; i-- {
		t.size[i]++
		if p := t.parent[i]; p >= 0 {
			t.size[p] += t.size[i]
		}
	}

	for i := 0; i < n; i++ {
		d := t.depth[i]
		for len(t.levels) <= d {
			t.levels = append(t.levels, nil)
		}
		t.levels[d] = append(t.levels[d], i)
	}

	return t, nil
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns the underlying node list. Callers must not modify it.
func (t *Tree) Nodes() []Node { return t.nodes }

// Depth returns the distance from the root to node i.
func (t *Tree) Depth(i int) int { return t.depth[i] }

// SubtreeSize returns the number of nodes in the subtree rooted at node i,
// including i.
func (t *Tree) SubtreeSize(i int) int { return t.size[i] }

// Children returns the child indices of node i in attachment order.
func (t *Tree) Children(i int) []int { return t.children[i] }

// Parent returns the parent index of node i, or -1 for the root.
func (t *Tree) Parent(i int) int { return t.parent[i] }

// Height returns the depth of the deepest node.
func (t *Tree) Height() int { return len(t.levels) - 1 }

// Level returns the node indices at depth d in ascending id order.
func (t *Tree) Level(d int) []int {
	if d < 0 || d >= len(t.levels) {
		return nil
	}
	return t.levels[d]
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Nodes     int `json:"nodes"`
	Height    int `json:"height"`
	Leaves    int `json:"leaves"`
	MaxFanOut int `json:"max_fan_out"`

	// FanOut[k] is the number of nodes with exactly k children.
	FanOut []int `json:"fan_out"`

	// LevelWidths[d] is the number of nodes at depth d.
	LevelWidths []int `json:"level_widths"`
}

// Stats computes shape statistics.
func (t *Tree) Stats() Stats {
	s := Stats{
		Nodes:       t.Len(),
		Height:      t.Height(),
		LevelWidths: make([]int, len(t.levels)),
	}
	for d, level := range t.levels {
		s.LevelWidths[d] = len(level)
	}
	for _, c := range t.children {
		k := len(c)
		if k == 0 {
			s.Leaves++
		}
		if k > s.MaxFanOut {
			s.MaxFanOut = k
		}
	}
	s.FanOut = make([]int, s.MaxFanOut+1)
	for _, c := range t.children {
		s.FanOut[len(c)]++
	}
	return s
}
