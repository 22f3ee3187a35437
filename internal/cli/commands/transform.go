package commands

import (
	"fmt"

	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/spf13/cobra"
)

// TransformOptions holds options for the transform command.
type TransformOptions struct {
	Write  bool   // Rewrite files in place
	List   bool   // List files whose output differs
	Diff   bool   // Print unified diffs
	Format string // Output format: text, markdown, json
}

// NewTransformCommand creates the transform command.
func NewTransformCommand() *cobra.Command {
	opts := &TransformOptions{}
	cmd := &cobra.Command{
		Use:   "transform [paths...]",
		Short: "Replace nameof marker calls with literals",
		Long: `Rewrite every nameof marker call in the given files or directories.

Without flags the transformed source is printed to stdout. Directories are
walked recursively; the host for each file is chosen by its extension.
Marker calls that cannot be rewritten are reported and make the command
exit with a non-zero status.`,
		Example: `  # Print the transformed file
  nameof transform rules.star

  # Rewrite the whole project in place
  nameof transform --write

  # Show what would change
  nameof transform --diff ./pkg

  # List files that would change
  nameof transform -l`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write results back to the source files")
	cmd.Flags().BoolVarP(&opts.List, "list", "l", false, "List files whose output differs from the source")
	cmd.Flags().BoolVarP(&opts.Diff, "diff", "d", false, "Print unified diffs instead of the output")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

func runTransform(cmd *cobra.Command, args []string, opts *TransformOptions) error {
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
	if len(files) == 0 {
		r.Warning("no files to transform")
		return nil
	}

	res, err := eng.Run(cmd.Context(), files, engine.RunOptions{Write: opts.Write})
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(toTransformOutput(res)); err != nil {
			return err
		}
		return runError(res)
	}

	switch {
	case opts.List:
		for _, f := range res.Files {
			if f.Changed {
				r.Println(f.Path)
			}
		}
	case opts.Diff:
		for _, f := range res.Files {
			if f.Changed {
				r.Printf("%s", f.Diff())
			}
		}
	case opts.Write:
		for _, f := range res.Files {
			if f.Written {
				r.Muted(fmt.Sprintf("rewrote %s (%s)", f.Path, plural(f.Replaced, "call", "calls")))
			}
		}
		r.Success(summaryLine(res))
	default:
		printOutputs(r, res, len(files) == 1)
	}

	reportProblems(r, res)
	return runError(res)
}

// printOutputs prints transformed sources. A single file is printed as is;
// several files are printed under a header each.
func printOutputs(r *output.Renderer, res *engine.RunResult, single bool) {
	if single {
		for _, f := range res.Files {
			_, _ = r.Writer().Write(f.Output)
		}
		return
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	for _, f := range res.Files {
		if markdown {
			r.Println(output.FormatHeader(2, f.Path))
			r.Println("")
			r.Println(output.FormatCode(f.Host, string(f.Output)))
			r.Println("")
			continue
		}
		r.Println(r.Styles().Header.Render("==> " + f.Path + " <=="))
		_, _ = r.Writer().Write(f.Output)
		r.Println("")
	}
}
