package commands

import (
	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format: text, markdown, json
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report marker calls that cannot be rewritten",
		Long: `Transform the given files without writing them and report every
marker call that could not be rewritten.

The command exits with a non-zero status when problems are found,
which makes it suitable for CI.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the whole project
  nameof check

  # Check one directory and emit JSON
  nameof check ./rules --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer
	eng := cmdCtx.Engine

	files, err := eng.Discover(args...)
	if err != nil {
		return err
	}

	res, err := eng.Run(cmd.Context(), files, engine.RunOptions{})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(toTransformOutput(res)); err != nil {
			return err
		}
		return runError(res)
	}

	if !res.HasErrors() && len(res.Diagnostics()) == 0 {
		r.Success("No problems found (" + summaryLine(res) + ")")
		return nil
	}

	renderDiagnostics(r, res)
	return runError(res)
}
