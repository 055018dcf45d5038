// Package tree generates random rooted trees with a bounded fan-out and
// analyzes trees stored as flat node lists.
//
// A tree is represented as a slice of Node records in ascending id order.
// Node i always sits at index i, node 0 is the root, and every other node
// refers to a parent with a smaller id. Generate builds such a slice by
// attaching each new node to a uniformly chosen existing node that still
// has spare capacity; Validate checks the structural properties of an
// arbitrary slice; Build turns a valid slice into a Tree with depth and
// subtree information.
//
// This package has no dependencies on other internal packages and does not
// log. Randomness is always supplied by the caller through the Rand
// interface.
package tree
