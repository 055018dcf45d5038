package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treegen/internal/store"
	"github.com/roach88/treegen/internal/testutil"
)

func TestRuns_ListsGeneratedRuns(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")

	opts := &GenerateOptions{
		RootOptions: &RootOptions{Format: "text"},
		RunIDs:      testutil.NewSequentialRunIDs("run"),
	}
	for _, seed := range []string{"1", "2"} {
		_, _, err := execute(newGenerateCommand(opts),
			"-n", "20", "-k", "2", "--seed", seed, "-o", filepath.Join(dir, "tree-"+seed+".json"), "--db", dbPath)
		require.NoError(t, err)
	}

	stdout, _, err := execute(NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run-0001")
	assert.Contains(t, stdout, "run-0002")
	assert.Contains(t, stdout, "STRATEGY")

	stdout, _, err = execute(NewRunsCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var result RunsResult
	decodeResponse(t, stdout, &result)
	require.Len(t, result.Runs, 2)
	assert.Equal(t, "run-0001", result.Runs[0].ID)
	assert.Equal(t, uint64(1), result.Runs[0].Seed)
	assert.Equal(t, "run-0002", result.Runs[1].ID)
	assert.Equal(t, 20, result.Runs[1].MaxNodes)
	assert.NotEqual(t, result.Runs[0].Fingerprint, result.Runs[1].Fingerprint)
}

func TestRuns_EmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	stdout, _, err := execute(NewRunsCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "No runs archived.\n", stdout)

	stdout, _, err = execute(NewRunsCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"runs":[]`)
}

func TestRuns_Errors(t *testing.T) {
	_, _, err := execute(NewRunsCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	stdout, _, err := execute(NewRunsCommand(&RootOptions{Format: "json"}), "--db", filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestShortFingerprint(t *testing.T) {
	assert.Equal(t, "abc", shortFingerprint("abc"))
	assert.Equal(t, "0123456789ab", shortFingerprint("0123456789abcdef"))
}
