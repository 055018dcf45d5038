package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/treegen/internal/codec"
	"github.com/roach88/treegen/internal/tree"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Source string                 `json:"source"`
	Nodes  int                    `json:"nodes"`
	Errors []tree.ValidationError `json:"errors,omitempty"`
	Schema []string               `json:"schema_errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	InputOptions
	MaxChildren int
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a node list forms a valid tree",
		Long: `Check that a node list forms a valid tree.

Files are first checked against the node list schema, then for the tree
properties: sequential ids, a single root at node 0, parents preceding
children, consistent children and parent links, and connectivity. With
--max-children the fan-out bound is checked too.

Exits 1 if any check fails.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	addInputFlags(cmd, &opts.InputOptions)
	cmd.Flags().IntVarP(&opts.MaxChildren, "max-children", "k", 0, "fan-out bound to check (0 skips the check)")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	in, err := loadInput(commandContext(cmd), args, &opts.InputOptions)

	// A file that does not decode is reported through the schema, which
	// names every offending field instead of the first decode error.
	if in != nil && in.Raw != nil {
		formatter.VerboseLog("Checking %s against the node list schema", in.Source)
		schemaErr := codec.CheckSchema(in.Raw, codec.EncodingFromPath(in.Source))
		var se *codec.SchemaError
		if errors.As(schemaErr, &se) {
			violations := se.Violations
			if len(violations) == 0 {
				violations = []string{se.Error()}
			}
			return outputValidationFailure(formatter, ValidationResult{
				Source: in.Source,
				Schema: violations,
			})
		}
		if schemaErr != nil && err == nil {
			return formatter.Fail(ExitCommandError, ErrCodeDecodeFailed, "failed to decode input", schemaErr)
		}
	}
	if err != nil {
		return failLoad(formatter, err)
	}

	formatter.VerboseLog("Checking tree properties of %d node(s)", len(in.Nodes))
	errs := tree.Validate(in.Nodes, opts.MaxChildren)
	result := ValidationResult{
		Valid:  len(errs) == 0,
		Source: in.Source,
		Nodes:  len(in.Nodes),
		Errors: errs,
	}
	if !result.Valid {
		return outputValidationFailure(formatter, result)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is a valid tree (%d nodes)\n", in.Source, result.Nodes)
	return nil
}

// outputValidationFailure reports schema or property violations.
func outputValidationFailure(formatter *OutputFormatter, result ValidationResult) error {
	count := len(result.Errors) + len(result.Schema)

	if formatter.Format == "json" {
		first := &CLIError{Code: codec.ErrCodeSchema}
		if len(result.Schema) > 0 {
			first.Message = result.Schema[0]
		} else {
			first.Code = result.Errors[0].Code
			first.Message = result.Errors[0].Message
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{Status: "error", Data: result, Error: first}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", count))
	}

	fmt.Fprintf(formatter.Writer, "✗ %s is not a valid tree\n", result.Source)
	fmt.Fprintln(formatter.Writer)
	for _, v := range result.Schema {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", codec.ErrCodeSchema, v)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", count))
}
