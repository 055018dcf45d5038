package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/tree"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	InputOptions
	Plot       bool
	PlotHeight int
}

// StatsResult is the JSON payload of the stats command.
type StatsResult struct {
	Source string `json:"source"`
	tree.Stats
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats [file]",
		Short: "Summarize the shape of a tree",
		Long: `Summarize the shape of a tree: size, height, leaves, the fan-out
histogram and the number of nodes at each depth.

Example:
  treegen stats tree.json
  treegen stats --db runs.db --run <id> --plot`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, args, cmd)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().BoolVar(&opts.Plot, "plot", false, "plot level widths")
	cmd.Flags().IntVar(&opts.PlotHeight, "plot-height", 10, "plot height in rows")

	return cmd
}

func runStats(opts *StatsOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.PlotHeight < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "--plot-height must be at least 1", nil)
	}

	in, err := loadInput(commandContext(cmd), args, &opts.InputOptions)
	if err != nil {
		return failLoad(formatter, err)
	}
	t, err := tree.Build(in.Nodes)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidTree, "input is not a valid tree", err)
	}
	stats := t.Stats()

	if formatter.Format == "json" {
		return formatter.Success(StatsResult{Source: in.Source, Stats: stats})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s\n\n", in.Source)
	writeSummaryTable(w, stats)
	fmt.Fprintln(w)
	writeFanOutTable(w, stats)
	fmt.Fprintln(w)
	writeLevelTable(w, stats)

	if opts.Plot {
		fmt.Fprintln(w)
		fmt.Fprintln(w, plotLevelWidths(stats, opts.PlotHeight))
	}
	return nil
}

func writeSummaryTable(w io.Writer, s tree.Stats) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Metric", "Value"})
	tbl.Append([]string{"nodes", strconv.Itoa(s.Nodes)})
	tbl.Append([]string{"height", strconv.Itoa(s.Height)})
	tbl.Append([]string{"leaves", strconv.Itoa(s.Leaves)})
	tbl.Append([]string{"max fan-out", strconv.Itoa(s.MaxFanOut)})
	tbl.Render()
}

func writeFanOutTable(w io.Writer, s tree.Stats) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Children", "Nodes", "Share"})
	for k, count := range s.FanOut {
		tbl.Append([]string{
			strconv.Itoa(k),
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", 100*float64(count)/float64(s.Nodes)),
		})
	}
	tbl.Render()
}

func writeLevelTable(w io.Writer, s tree.Stats) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Depth", "Nodes"})
	for d, width := range s.LevelWidths {
		tbl.Append([]string{strconv.Itoa(d), strconv.Itoa(width)})
	}
	tbl.Render()
}

// plotLevelWidths charts the number of nodes at each depth.
func plotLevelWidths(s tree.Stats, height int) string {
	if len(s.LevelWidths) < 2 {
		return "(single level, nothing to plot)"
	}
	series := make([]float64, len(s.LevelWidths))
	for d, width := range s.LevelWidths {
		series[d] = float64(width)
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Caption("nodes per depth"))
}
