package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidTrees(t *testing.T) {
	assert.Empty(t, Validate(sampleNodes(), 3))
	assert.Empty(t, Validate(sampleNodes(), 0), "fan-out check disabled")
	assert.Empty(t, Validate(fromParents(-1), 1))
	assert.Empty(t, Validate(fromParents(-1, 0, 1, 2, 3), 1))
}

func TestValidate_Empty(t *testing.T) {
	errs := Validate(nil, 3)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyTree, errs[0].Code)
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name        string
		nodes       func() []Node
		maxChildren int
		code        string
		nodeID      string
	}{
		{
			name: "malformed id",
			nodes: func() []Node {
				n := sampleNodes()
				n[2].ID = "02"
				return n
			},
			code:   ErrBadID,
			nodeID: "02",
		},
		{
			name: "ids out of order",
			nodes: func() []Node {
				n := fromParents(-1, 0, 0)
				n[1], n[2] = n[2], n[1]
				return n
			},
			code:   ErrBadID,
			nodeID: "2",
		},
		{
			name: "duplicate id",
			nodes: func() []Node {
				n := fromParents(-1, 0)
				return append(n, Node{ID: "1", Children: []string{}, Parent: strPtr("0")})
			},
			code:   ErrBadID,
			nodeID: "1",
		},
		{
			name: "second root",
			nodes: func() []Node {
				n := sampleNodes()
				n[2].Parent = nil
				n[0].Children = []string{"1", "3"}
				return n
			},
			code: ErrBadRoot,
		},
		{
			name: "no root",
			nodes: func() []Node {
				n := fromParents(-1, 0)
				n[0].Parent = strPtr("1")
				return n
			},
			code: ErrBadRoot,
		},
		{
			name: "root is not node 0",
			nodes: func() []Node {
				n := fromParents(-1, 0)
				n[0].Parent = strPtr("1")
				n[1].Parent = nil
				return n
			},
			code:   ErrBadRoot,
			nodeID: "1",
		},
		{
			name: "parent after child",
			nodes: func() []Node {
				return []Node{
					{ID: "0", Children: []string{"2"}},
					{ID: "1", Children: []string{}, Parent: strPtr("2")},
					{ID: "2", Children: []string{"1"}, Parent: strPtr("0")},
				}
			},
			code:   ErrParentOrder,
			nodeID: "1",
		},
		{
			name: "missing parent",
			nodes: func() []Node {
				n := fromParents(-1, 0)
				n[1].Parent = strPtr("7")
				return n
			},
			code:   ErrParentOrder,
			nodeID: "1",
		},
		{
			name:        "fan-out exceeded",
			nodes:       sampleNodes,
			maxChildren: 2,
			code:        ErrFanOutExceeded,
			nodeID:      "0",
		},
		{
			name: "child names another parent",
			nodes: func() []Node {
				n := sampleNodes()
				n[2].Children = []string{"6"}
				return n
			},
			code:   ErrInconsistent,
			nodeID: "2",
		},
		{
			name: "child listed twice",
			nodes: func() []Node {
				n := sampleNodes()
				n[1].Children = []string{"4", "5", "5"}
				return n
			},
			code:   ErrInconsistent,
			nodeID: "5",
		},
		{
			name: "unknown child",
			nodes: func() []Node {
				n := sampleNodes()
				n[5].Children = []string{"99"}
				return n
			},
			code:   ErrInconsistent,
			nodeID: "5",
		},
		{
			name: "orphan",
			nodes: func() []Node {
				n := sampleNodes()
				n[4].Children = []string{}
				return n
			},
			code:   ErrNotConnected,
			nodeID: "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.nodes(), tt.maxChildren)
			require.NotEmpty(t, errs)
			assert.True(t, hasValidationError(errs, tt.code, tt.nodeID), "want %s on node %q, got %v", tt.code, tt.nodeID, errs)
		})
	}
}

func TestValidate_CycleTerminates(t *testing.T) {
	nodes := []Node{
		{ID: "0", Children: []string{}},
		{ID: "1", Children: []string{"2"}, Parent: strPtr("2")},
		{ID: "2", Children: []string{"1"}, Parent: strPtr("1")},
	}

	errs := Validate(nodes, 0)
	assert.True(t, hasValidationError(errs, ErrParentOrder, "1"))
	assert.True(t, hasValidationError(errs, ErrNotConnected, "1"))
	assert.True(t, hasValidationError(errs, ErrNotConnected, "2"))
}

func TestValidationErrorString(t *testing.T) {
	assert.Equal(t, "[E104] node 3: too many", ValidationError{Code: ErrFanOutExceeded, NodeID: "3", Message: "too many"}.Error())
	assert.Equal(t, "[E100] tree has no nodes", ValidationError{Code: ErrEmptyTree, Message: "tree has no nodes"}.Error())
}

func hasValidationError(errs []ValidationError, code, nodeID string) bool {
	for _, e := range errs {
		if e.Code == code && e.NodeID == nodeID {
			return true
		}
	}
	return false
}
