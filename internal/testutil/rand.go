package testutil

import (
	"fmt"
	"sync"
)

// ScriptedRand is a random source that replays a fixed script of values.
//
// It satisfies tree.Rand. Each IntN call consumes the next scripted value,
// which must lie in [0, n); a value out of range or an exhausted script
// panics, so a test fails loudly when the code under test draws more or
// differently than expected.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ScriptedRand struct {
	mu     sync.Mutex
	script []int
	next   int
	bounds []int
}

// NewScriptedRand creates a source that returns values in order.
func NewScriptedRand(values ...int) *ScriptedRand {
	return &ScriptedRand{script: append([]int(nil), values...)}
}

// IntN returns the next scripted value.
func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= len(r.script) {
		panic(fmt.Sprintf("ScriptedRand: script exhausted after %d draws (IntN(%d))", r.next, n))
	}
	v := r.script[r.next]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("ScriptedRand: draw %d is %d, outside [0, %d)", r.next, v, n))
	}
	r.next++
	r.bounds = append(r.bounds, n)
	return v
}

// Draws returns the number of values consumed so far.
func (r *ScriptedRand) Draws() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Bounds returns the n argument of every IntN call so far.
func (r *ScriptedRand) Bounds() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.bounds...)
}

// Remaining returns the number of unused scripted values.
func (r *ScriptedRand) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.script) - r.next
}
