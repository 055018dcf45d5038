package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunsResult is the JSON payload of the runs command.
type RunsResult struct {
	Runs []store.Run `json:"runs"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs",
		Long: `List the runs archived in a database by "generate --db".

Each run records the generation parameters (including the strategy and the
rejection attempt cap), the seed and a fingerprint of the generated tree,
so any run can be reproduced with generate or read back with
"show --db <db> --run <id>".`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	// Opening would create an empty database; a typo should fail instead.
	if _, err := os.Stat(opts.Database); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to stat database", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	runs, err := st.ListRuns(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}
	formatter.VerboseLog("Found %d run(s) in %s", len(runs), opts.Database)

	if formatter.Format == "json" {
		return formatter.Success(RunsResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs archived.")
		return nil
	}

	tbl := tablewriter.NewWriter(formatter.Writer)
	tbl.SetHeader([]string{"Run", "Nodes", "Max Children", "Seed", "Strategy", "Max Attempts", "Fingerprint"})
	for _, run := range runs {
		tbl.Append([]string{
			run.ID,
			strconv.Itoa(run.MaxNodes),
			strconv.Itoa(run.MaxChildren),
			strconv.FormatUint(run.Seed, 10),
			run.Strategy,
			strconv.Itoa(run.MaxAttempts),
			shortFingerprint(run.Fingerprint),
		})
	}
	tbl.Render()
	return nil
}

// shortFingerprint abbreviates a hex fingerprint for tables.
func shortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}
