package tree

// fromParents builds a node list from parent indices (-1 for the root),
// appending children in id order.
func fromParents(parents ...int) []Node {
	nodes := make([]Node, len(parents))
	for i, p := range parents {
		if p < 0 {
			nodes[i] = NewNode(i, nil)
			continue
		}
		id := NodeID(p)
		nodes[i] = NewNode(i, &id)
	}
	for i, p := range parents {
		if p >= 0 {
			nodes[p].Children = append(nodes[p].Children, NodeID(i))
		}
	}
	return nodes
}

// sampleNodes is the tree
//
//	0
//	├── 1
//	│   ├── 4
//	│   │   └── 7
//	│   └── 5
//	├── 2
//	└── 3
//	    └── 6
func sampleNodes() []Node {
	return fromParents(-1, 0, 0, 0, 1, 1, 3, 4)
}

func strPtr(s string) *string { return &s }
