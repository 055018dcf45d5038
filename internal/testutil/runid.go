package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs hands out predictable run ids: "run-0001", "run-0002", ...
//
// This enables deterministic store contents and golden comparison of CLI
// output that mentions run ids.
//
// Thread-safety: safe for concurrent use.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDs creates a generator. An empty prefix defaults to "run".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// NewRunID returns the next id.
//
// Implements store.RunIDGenerator interface.
func (g *SequentialRunIDs) NewRunID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
