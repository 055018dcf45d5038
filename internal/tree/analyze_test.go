package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Structure(t *testing.T) {
	tr, err := Build(sampleNodes())
	require.NoError(t, err)

	assert.Equal(t, 8, tr.Len())
	assert.Equal(t, 3, tr.Height())
	assert.Equal(t, -1, tr.Parent(0))
	assert.Equal(t, 4, tr.Parent(7))
	assert.Equal(t, []int{1, 2, 3}, tr.Children(0))

	depths := make([]int, tr.Len())
	sizes := make([]int, tr.Len())
	for i := range depths {
		depths[i] = tr.Depth(i)
		sizes[i] = tr.SubtreeSize(i)
	}
	assert.Equal(t, []int{0, 1, 1, 1, 2, 2, 2, 3}, depths)
	assert.Equal(t, []int{8, 4, 1, 2, 2, 1, 1, 1}, sizes)

	assert.Equal(t, []int{0}, tr.Level(0))
	assert.Equal(t, []int{1, 2, 3}, tr.Level(1))
	assert.Equal(t, []int{4, 5, 6}, tr.Level(2))
	assert.Equal(t, []int{7}, tr.Level(3))
	assert.Nil(t, tr.Level(4))
	assert.Nil(t, tr.Level(-1))
}

func TestBuild_SingleNode(t *testing.T) {
	tr, err := Build(fromParents(-1))
	require.NoError(t, err)

	assert.Equal(t, 0, tr.Height())
	assert.Equal(t, Stats{
		Nodes:       1,
		Height:      0,
		Leaves:      1,
		MaxFanOut:   0,
		FanOut:      []int{1},
		LevelWidths: []int{1},
	}, tr.Stats())
}

func TestBuild_RejectsInvalid(t *testing.T) {
	nodes := sampleNodes()
	nodes[4].Children = []string{}

	tr, err := Build(nodes)
	require.Error(t, err)
	assert.Nil(t, tr)
	assert.True(t, IsInvalidTree(err))
	assert.Contains(t, err.Error(), "E105")
	assert.Contains(t, err.Error(), "more)")
}

func TestBuild_IgnoresFanOut(t *testing.T) {
	// Build has no cap to check against; any valid shape is accepted.
	_, err := Build(fromParents(-1, 0, 0, 0, 0, 0))
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	tr, err := Build(sampleNodes())
	require.NoError(t, err)

	assert.Equal(t, Stats{
		Nodes:       8,
		Height:      3,
		Leaves:      4,
		MaxFanOut:   3,
		FanOut:      []int{4, 2, 1, 1},
		LevelWidths: []int{1, 3, 3, 1},
	}, tr.Stats())
}
