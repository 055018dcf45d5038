package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/tree"
)

// DefaultShowDepth keeps the drawing of deep trees bounded; each level
// adds four columns of indentation to every line below it.
const DefaultShowDepth = 64

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	InputOptions
	Depth int
}

// ShowResult is the JSON payload of the show command.
type ShowResult struct {
	Source    string `json:"source"`
	Rendering string `json:"rendering"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Draw a tree",
		Long: `Draw a tree with one node per line.

Subtrees below --depth are collapsed to a "(+N)" marker counting the hidden
nodes. --depth 0 draws the whole tree.

Example:
  treegen show tree.json --depth 3`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args, cmd)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", DefaultShowDepth, "collapse subtrees below this depth (0 shows everything)")

	return cmd
}

func runShow(opts *ShowOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	in, err := loadInput(commandContext(cmd), args, &opts.InputOptions)
	if err != nil {
		return failLoad(formatter, err)
	}
	t, err := tree.Build(in.Nodes)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidTree, "input is not a valid tree", err)
	}

	if formatter.Format == "json" {
		var buf bytes.Buffer
		if err := tree.Render(&buf, t, opts.Depth); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to render tree", err)
		}
		return formatter.Success(ShowResult{Source: in.Source, Rendering: buf.String()})
	}

	if err := tree.Render(formatter.Writer, t, opts.Depth); err != nil {
		return WrapExitError(ExitCommandError, "failed to render tree", err)
	}
	return nil
}
