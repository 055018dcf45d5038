package tree

import "fmt"

// Validation error codes (E100-E109)
const (
	ErrEmptyTree      = "E100" // no nodes
	ErrBadID          = "E101" // id malformed, duplicated or out of order
	ErrBadRoot        = "E102" // zero or several roots, or root is not node 0
	ErrParentOrder    = "E103" // parent missing or not older than the node
	ErrFanOutExceeded = "E104" // more children than the fan-out cap
	ErrInconsistent   = "E105" // children and parent fields disagree
	ErrNotConnected   = "E106" // some node is unreachable from the root
)

// ValidationError describes one structural problem in a node list.
type ValidationError struct {
	Code    string `json:"code"`
	NodeID  string `json:"node_id,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("[%s] node %s: %s", e.Code, e.NodeID, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks that nodes form a tree as produced by Generate:
// ids 0..n-1 in order, a single root 0, parents older than their
// children, children lists that agree with parent fields, at most
// maxChildren children per node and every node reachable from the root.
// maxChildren <= 0 disables the fan-out check.
//
// Returns all errors found (does not fail-fast).
func Validate(nodes []Node, maxChildren int) []ValidationError {
	if len(nodes) == 0 {
		return []ValidationError{{Code: ErrEmptyTree, Message: "tree has no nodes"}}
	}

	var errs []ValidationError
	add := func(code, id, format string, args ...any) {
		errs = append(errs, ValidationError{Code: code, NodeID: id, Message: fmt.Sprintf(format, args...)})
	}

	// E101: ids are 0..n-1 at their own index.
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		v, ok := parseID(n.ID)
		switch {
		case !ok:
			add(ErrBadID, n.ID, "id is not a non-negative decimal integer")
		case v != i:
			add(ErrBadID, n.ID, "id at position %d should be %d", i, i)
		}
		if prev, dup := index[n.ID]; dup {
			add(ErrBadID, n.ID, "id duplicated at positions %d and %d", prev, i)
			continue
		}
		index[n.ID] = i
	}

	// E102: exactly one root, and it is node 0.
	var roots []string
	for _, n := range nodes {
		if n.IsRoot() {
			roots = append(roots, n.ID)
		}
	}
	switch {
	case len(roots) == 0:
		add(ErrBadRoot, "", "no root node")
	case len(roots) > 1:
		add(ErrBadRoot, "", "%d root nodes: %v", len(roots), roots)
	case roots[0] != "0":
		add(ErrBadRoot, roots[0], "root must be node 0")
	}

	// E103: parents exist and precede their children.
	for i, n := range nodes {
		if n.IsRoot() {
			continue
		}
		p, ok := index[*n.Parent]
		if !ok {
			add(ErrParentOrder, n.ID, "parent %q does not exist", *n.Parent)
			continue
		}
		if p >= i {
			add(ErrParentOrder, n.ID, "parent %s does not precede the node", *n.Parent)
		}
	}

	// E104: fan-out cap.
	if maxChildren > 0 {
		for _, n := range nodes {
			if len(n.Children) > maxChildren {
				add(ErrFanOutExceeded, n.ID, "%d children exceeds limit %d", len(n.Children), maxChildren)
			}
		}
	}

	// E105: children lists agree with parent fields, and every non-root
	// node is listed by exactly one node.
	listed := make(map[string]int, len(nodes))
	for _, n := range nodes {
		for _, c := range n.Children {
			listed[c]++
			ci, ok := index[c]
			if !ok {
				add(ErrInconsistent, n.ID, "child %q does not exist", c)
				continue
			}
			if child := nodes[ci]; child.ParentID() != n.ID {
				add(ErrInconsistent, n.ID, "child %s names %q as its parent", c, child.ParentID())
			}
		}
	}
	for _, n := range nodes {
		count := listed[n.ID]
		switch {
		case n.IsRoot() && count > 0:
			add(ErrInconsistent, n.ID, "root is listed as a child")
		case !n.IsRoot() && count != 1:
			add(ErrInconsistent, n.ID, "listed as a child %d times, want 1", count)
		}
	}

	// E106: everything reachable from the root through children edges,
	// each node reached once.
	if root, ok := index["0"]; ok {
		seen := make([]bool, len(nodes))
		seen[root] = true
		reached := 1
		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, c := range nodes[cur].Children {
				ci, ok := index[c]
				if !ok || seen[ci] {
					continue
				}
				seen[ci] = true
				reached++
				queue = append(queue, ci)
			}
		}
		if reached != len(nodes) {
			for i, n := range nodes {
				if !seen[i] {
					add(ErrNotConnected, n.ID, "not reachable from the root")
				}
			}
		}
	} else {
		add(ErrNotConnected, "", "node 0 is missing; nothing is reachable")
	}

	return errs
}
