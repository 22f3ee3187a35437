package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new nameof project",
		Long: `Initialize a nameof project with a default configuration.

This creates:
  - nameof.yaml configuration file
  - .gitignore entry for the REPL history

Use --example to also create Starlark and CEL sources with marker calls
that 'nameof transform' can rewrite.`,
		Example: `  # Initialize in current directory
  nameof init

  # Initialize with an example project
  nameof init my-project --example

  # Force overwrite existing config
  nameof init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Create example sources with marker calls")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, "nameof.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("nameof.yaml already exists. Use --force to overwrite")
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	// List created files
	files, _ := listTemplateFiles(template)
	for _, f := range files {
		r.Println(r.Styles().Success.Render("  ✓ ") + f)
	}

	r.Println("")
	r.Success("nameof project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Add marker calls such as nameof.full(a.b.c) to your sources")
	r.Println("  2. Run 'nameof check' to find calls that cannot be rewritten")
	r.Println("  3. Run 'nameof transform --write' to rewrite them")

	return nil
}
