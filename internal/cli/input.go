package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/codec"
	"github.com/roach88/treegen/internal/store"
	"github.com/roach88/treegen/internal/tree"
)

// InputOptions selects where a command reads its tree from: a file
// argument, or a run archived in a database.
type InputOptions struct {
	Database string
	RunID    string
}

// LoadError describes why input could not be loaded.
// Code is one of the ErrCode constants.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func addInputFlags(cmd *cobra.Command, opts *InputOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "read the tree from this run database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to read (requires --db)")
}

// loadedInput is a node list plus where it came from.
type loadedInput struct {
	Source string
	Nodes  []tree.Node
	Raw    []byte // nil when read from a database
}

// loadInput resolves args and opts to a node list. Exactly one of a file
// argument or --db/--run must be given.
func loadInput(ctx context.Context, args []string, opts *InputOptions) (*loadedInput, error) {
	fromDB := opts.Database != "" || opts.RunID != ""
	switch {
	case fromDB && len(args) > 0:
		return nil, &LoadError{Code: ErrCodeUsage, Message: "give either a file or --db/--run, not both"}
	case fromDB && (opts.Database == "" || opts.RunID == ""):
		return nil, &LoadError{Code: ErrCodeUsage, Message: "--db and --run must be used together"}
	case fromDB:
		return loadFromStore(ctx, opts.Database, opts.RunID)
	case len(args) != 1:
		return nil, &LoadError{Code: ErrCodeUsage, Message: "expected exactly one input file"}
	}

	path := args[0]
	nodes, raw, err := codec.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Err: err}
		}
		return &loadedInput{Source: path, Raw: raw}, &LoadError{Code: ErrCodeDecodeFailed, Message: "failed to decode input", Err: err}
	}
	return &loadedInput{Source: path, Nodes: nodes, Raw: raw}, nil
}

func loadFromStore(ctx context.Context, dbPath, runID string) (*loadedInput, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", dbPath), Err: err}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeStore, Message: "failed to open database", Err: err}
	}
	defer st.Close()

	nodes, err := st.ReadNodes(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("run not found: %s", runID), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeStore, Message: "failed to read run", Err: err}
	}
	return &loadedInput{Source: dbPath + "#" + runID, Nodes: nodes}, nil
}

// failLoad reports a load error through the formatter.
func failLoad(formatter *OutputFormatter, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		return formatter.Fail(ExitCommandError, le.Code, le.Message, le.Err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to load input", err)
}
