package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treegen/internal/codec"
	"github.com/roach88/treegen/internal/tree"
)

// testNodes builds a node list from parent indices (-1 for the root).
func testNodes(parents ...int) []tree.Node {
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

// sampleTree is an 8-node tree of height 3:
//
//	0
//	├── 1
//	│   ├── 4
//	│   │   └── 7
//	│   └── 5
//	├── 2
//	└── 3
//	    └── 6
func sampleTree() []tree.Node {
	return testNodes(-1, 0, 0, 0, 1, 1, 3, 4)
}

// writeTreeFile writes nodes to dir/name using the encoding implied by name.
func writeTreeFile(t *testing.T, dir, name string, nodes []tree.Node) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, codec.WriteFile(path, codec.EncodingFromPath(path), nodes))
	return path
}

// writeRawFile writes content verbatim to dir/name.
func writeRawFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args, returning stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if args == nil {
		args = []string{} // nil makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// jsonResponse mirrors CLIResponse with the payload left undecoded.
type jsonResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *CLIError       `json:"error"`
	RunID  string          `json:"run_id"`
}

// decodeResponse parses a JSON CLI response and, when data is non-nil,
// its payload.
func decodeResponse(t *testing.T, out string, data any) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
