package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/codec"
	"github.com/roach88/treegen/internal/store"
	"github.com/roach88/treegen/internal/tree"
)

// Generation defaults.
const (
	DefaultNodes       = 1000
	DefaultMaxChildren = 8
	DefaultOutput      = "tree.json"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Nodes       int
	MaxChildren int
	Seed        uint64
	Strategy    string
	MaxAttempts int
	Output      string
	Encoding    string
	Database    string
	ConfigPath  string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator

	// SeedSource picks a seed when none was given (for testing).
	// If nil, defaults to rand.Uint64.
	SeedSource func() uint64
}

// GenerateResult is the JSON payload of a successful generate.
type GenerateResult struct {
	Output      string       `json:"output"`
	Nodes       int          `json:"nodes"`
	MaxChildren int          `json:"max_children"`
	Seed        uint64       `json:"seed"`
	Strategy    string       `json:"strategy"`
	MaxAttempts int          `json:"max_attempts"`
	Encoding    string       `json:"encoding"`
	Fingerprint string       `json:"fingerprint"`
	Height      int          `json:"height"`
	Leaves      int          `json:"leaves"`
	Metrics     tree.Metrics `json:"metrics"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	return newGenerateCommand(&GenerateOptions{RootOptions: rootOpts})
}

// newGenerateCommand binds the generate flags to opts, keeping any test
// hooks already set on it.
func newGenerateCommand(opts *GenerateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random tree",
		Long: `Generate a random tree and write it as a flat node list.

Node 0 is the root. Each further node attaches to a parent chosen uniformly
among the existing nodes that have fewer than --max-children children.
The same --seed, parameters, --strategy and --max-attempts always produce
the same tree.

Example:
  treegen generate
  treegen generate -n 50 -k 2 --seed 7 -o small.yaml
  treegen generate --config gen.yaml --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Nodes, "nodes", "n", DefaultNodes, "number of nodes to generate")
	cmd.Flags().IntVarP(&opts.MaxChildren, "max-children", "k", DefaultMaxChildren, "maximum children per node")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (random when unset)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", tree.StrategyRejection.String(), "parent selection strategy (rejection|eligible)")
	cmd.Flags().IntVar(&opts.MaxAttempts, "max-attempts", tree.DefaultMaxAttempts, "rejection draws per node before scanning")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", DefaultOutput, "output file (- for stdout)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "output encoding (json|yaml, default from extension)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "also archive the run in this SQLite database")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (flags override it)")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	seedSet := cmd.Flags().Changed("seed")
	if opts.ConfigPath != "" {
		cfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid config file", err)
		}
		if cfg.apply(opts, cmd.Flags()) {
			seedSet = true
		}
		formatter.VerboseLog("Loaded config from %s", opts.ConfigPath)
	}

	toStdout := opts.Output == "-"
	if toStdout && opts.Format == "json" {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--format json cannot be combined with --output -", nil)
	}

	strategy, err := tree.ParseStrategy(opts.Strategy)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidParameter, "invalid strategy", err)
	}
	enc := codec.EncodingFromPath(opts.Output)
	if opts.Encoding != "" {
		if enc, err = codec.ParseEncoding(opts.Encoding); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidParameter, "invalid encoding", err)
		}
	}
	if opts.MaxAttempts < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidParameter, "invalid generation parameters",
			fmt.Errorf("max_attempts: must be at least 1, got %d", opts.MaxAttempts))
	}
	if err := tree.CheckParameters(opts.Nodes, opts.MaxChildren); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidParameter, "invalid generation parameters", err)
	}

	if !seedSet {
		source := opts.SeedSource
		if source == nil {
			source = rand.Uint64
		}
		opts.Seed = source()
	}

	slog.Info("generating tree",
		"nodes", opts.Nodes,
		"max_children", opts.MaxChildren,
		"seed", opts.Seed,
		"strategy", strategy,
		"max_attempts", opts.MaxAttempts)

	gen := tree.NewGenerator(
		rand.New(rand.NewPCG(0, opts.Seed)),
		tree.WithStrategy(strategy),
		tree.WithMaxAttempts(opts.MaxAttempts),
	)
	nodes, err := gen.Generate(opts.Nodes, opts.MaxChildren)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidParameter, "generation failed", err)
	}
	metrics := gen.Metrics()
	slog.Debug("generator metrics",
		"draws", metrics.Draws,
		"rejections", metrics.Rejections,
		"fallbacks", metrics.Fallbacks)

	t, err := tree.Build(nodes)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidTree, "generated tree is invalid", err)
	}
	fingerprint, err := codec.Fingerprint(nodes)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to fingerprint tree", err)
	}

	if toStdout {
		if err := codec.Encode(cmd.OutOrStdout(), enc, nodes); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write tree", err)
		}
	} else {
		if err := codec.WriteFile(opts.Output, enc, nodes); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write tree", err)
		}
		slog.Info("tree written", "path", opts.Output, "encoding", enc)
	}

	var runID string
	if opts.Database != "" {
		runID, err = archiveRun(commandContext(cmd), opts, strategy, fingerprint, nodes)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to archive run", err)
		}
		slog.Info("run archived", "db", opts.Database, "run_id", runID)
	}

	stats := t.Stats()
	result := GenerateResult{
		Output:      opts.Output,
		Nodes:       stats.Nodes,
		MaxChildren: opts.MaxChildren,
		Seed:        opts.Seed,
		Strategy:    strategy.String(),
		MaxAttempts: opts.MaxAttempts,
		Encoding:    string(enc),
		Fingerprint: fingerprint,
		Height:      stats.Height,
		Leaves:      stats.Leaves,
		Metrics:     metrics,
	}

	if opts.Format == "json" {
		return formatter.SuccessWithRun(result, runID)
	}
	if toStdout {
		// The tree itself is the output.
		return nil
	}
	return formatter.SuccessWithRun(formatGenerateSummary(result, runID), runID)
}

func archiveRun(ctx context.Context, opts *GenerateOptions, strategy tree.Strategy, fingerprint string, nodes []tree.Node) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ids := opts.RunIDs
	if ids == nil {
		ids = store.UUIDv7Generator{}
	}
	run := store.Run{
		ID:          ids.NewRunID(),
		MaxNodes:    opts.Nodes,
		MaxChildren: opts.MaxChildren,
		Seed:        opts.Seed,
		Strategy:    strategy.String(),
		MaxAttempts: opts.MaxAttempts,
		Fingerprint: fingerprint,
	}
	if err := st.WriteRun(ctx, run, nodes); err != nil {
		return "", err
	}
	return run.ID, nil
}

func formatGenerateSummary(r GenerateResult, runID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ Tree has been saved to %s\n", r.Output)
	fmt.Fprintf(&b, "  nodes:        %d\n", r.Nodes)
	fmt.Fprintf(&b, "  max children: %d\n", r.MaxChildren)
	fmt.Fprintf(&b, "  seed:         %d\n", r.Seed)
	fmt.Fprintf(&b, "  strategy:     %s\n", r.Strategy)
	fmt.Fprintf(&b, "  max attempts: %d\n", r.MaxAttempts)
	fmt.Fprintf(&b, "  height:       %d\n", r.Height)
	fmt.Fprintf(&b, "  leaves:       %d\n", r.Leaves)
	fmt.Fprintf(&b, "  fingerprint:  %s", r.Fingerprint)
	if runID != "" {
		fmt.Fprintf(&b, "\n  run:          %s", runID)
	}
	return b.String()
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
