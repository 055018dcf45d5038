package tree

import "strconv"

// Node is one record of the flat node list.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Children []string `json:"children" yaml:"children"`
	Parent   *string  `json:"parent" yaml:"parent"`
}

// NodeID returns the string id of the node at index i.
func NodeID(i int) string {
	return strconv.Itoa(i)
}

// NewNode creates a node with no children. A nil parent marks the root.
func NewNode(index int, parent *string) Node {
	return Node{
		ID:       NodeID(index),
		Children: []string{},
		Parent:   parent,
	}
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.Parent == nil
}

// ParentID returns the parent id, or "" for the root.
func (n Node) ParentID() string {
	if n.Parent == nil {
		return ""
	}
	return *n.Parent
}

// parseID parses a canonical decimal node id ("0", "17"; not "017", "-1", "+3").
func parseID(s string) (int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
