package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treegen/internal/tree"
)

func TestWriteRun_ReadNodes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Children deliberately not in id order for node 0.
	nodes := createTestNodes(-1, 0, 0, 1, 2)
	nodes[0].Children = []string{"2", "1"}
	run := createTestRun("run-1", nodes)

	require.NoError(t, s.WriteRun(ctx, run, nodes))

	got, err := s.ReadNodes(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
}

func TestWriteRun_GeneratedTree(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	nodes, err := tree.Generate(rand.New(rand.NewPCG(3, 4)), 300, 3)
	require.NoError(t, err)
	run := createTestRun("gen", nodes)
	run.MaxChildren = 3

	require.NoError(t, s.WriteRun(ctx, run, nodes))

	got, err := s.ReadNodes(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, nodes, got)
	assert.Empty(t, tree.Validate(got, 3))
}

func TestWriteRun_SingleNode(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	nodes := createTestNodes(-1)
	require.NoError(t, s.WriteRun(ctx, createTestRun("one", nodes), nodes))

	got, err := s.ReadNodes(ctx, "one")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsRoot())
	assert.Equal(t, []string{}, got[0].Children)
}

func TestWriteRun_Rejects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	nodes := createTestNodes(-1, 0, 1)

	t.Run("empty id", func(t *testing.T) {
		err := s.WriteRun(ctx, createTestRun("", nodes), nodes)
		assert.ErrorContains(t, err, "empty run id")
	})

	t.Run("count mismatch", func(t *testing.T) {
		run := createTestRun("mismatch", nodes)
		run.MaxNodes = 5
		assert.ErrorContains(t, s.WriteRun(ctx, run, nodes), "run declares 5")
	})

	t.Run("invalid tree", func(t *testing.T) {
		bad := createTestNodes(-1, 0, 1)
		bad[1].Children = nil
		err := s.WriteRun(ctx, createTestRun("bad", bad), bad)
		require.Error(t, err)
		assert.True(t, tree.IsInvalidTree(err))
	})

	t.Run("duplicate id", func(t *testing.T) {
		require.NoError(t, s.WriteRun(ctx, createTestRun("dup", nodes), nodes))
		assert.Error(t, s.WriteRun(ctx, createTestRun("dup", nodes), nodes))
	})

	// Failed writes leave nothing behind.
	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "dup", runs[0].ID)
}

func TestGetRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	nodes := createTestNodes(-1, 0)
	run := createTestRun("r", nodes)
	run.Seed = math.MaxUint64
	run.MaxAttempts = 1
	require.NoError(t, s.WriteRun(ctx, run, nodes))

	got, err := s.GetRun(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, run, got)

	_, err = s.GetRun(ctx, "nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestReadNodes_UnknownRun(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadNodes(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListRuns(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)

	nodes := createTestNodes(-1, 0)
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, s.WriteRun(ctx, createTestRun(id, nodes), nodes))
	}

	runs, err = s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.NewRunID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, UUIDv7Generator{}.NewRunID())
}
