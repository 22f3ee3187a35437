package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/pkg/host"
	"github.com/spf13/cobra"
)

// DefaultHost is the host used by eval and repl when --host is not given.
const DefaultHost = "go"

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	Host   string // Host name
	Format string // Output format: text, markdown, json
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Transform a single expression",
		Long: `Transform the marker calls of a single expression and print the result.

The expression is parsed by the selected host. The marker is recognized by
its configured name without any import.`,
		Example: `  # Go
  nameof eval 'nameof.Full(cfg.Server.Port)'

  # Starlark
  nameof eval --host starlark 'nameof.split(ctx.attr.srcs)'

  # CEL
  nameof eval --host cel 'nameof.interpolate(rows[i].name)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Host, "host", "H", DefaultHost, "Host that parses the expression")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	_ = cmd.RegisterFlagCompletionFunc("host", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return host.List(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runEval(cmd *cobra.Command, expr string, opts *EvalOptions) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	cmdCtx.WithFormat(cmd, opts.Format)
	r := cmdCtx.Renderer

	h, err := cmdCtx.NewHost(opts.Host)
	if err != nil {
		return err
	}

	res, err := h.TransformExpr(expr)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(output.EvalOutput{
			Host:        h.Name(),
			Input:       expr,
			Output:      string(res.Output),
			Replaced:    res.Replaced,
			Diagnostics: res.Diagnostics,
		}); err != nil {
			return err
		}
	default:
		r.Println(string(res.Output))
		for _, d := range res.Diagnostics {
			r.Error(d.String())
		}
	}

	if res.HasErrors() {
		return fmt.Errorf("%s could not be rewritten", plural(len(res.Diagnostics), "marker call", "marker calls"))
	}
	return nil
}
