package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/treegen/internal/tree"
)

// createTestStore creates a new store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestNodes builds a node list from parent indices (-1 for the root).
func createTestNodes(parents ...int) []tree.Node {
	nodes := make([]tree.Node, len(parents))
	for i, p := range parents {
		if p < 0 {
			nodes[i] = tree.NewNode(i, nil)
			continue
		}
		id := tree.NodeID(p)
		nodes[i] = tree.NewNode(i, &id)
		nodes[p].Children = append(nodes[p].Children, tree.NodeID(i))
	}
	return nodes
}

// createTestRun creates a run record matching nodes.
func createTestRun(id string, nodes []tree.Node) Run {
	return Run{
		ID:          id,
		MaxNodes:    len(nodes),
		MaxChildren: 8,
		Seed:        42,
		Strategy:    "rejection",
		MaxAttempts: 1024,
		Fingerprint: "fp-" + id,
	}
}
