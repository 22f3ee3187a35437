package commands

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/nameof/internal/cli/config"
	"github.com/leapstack-labs/nameof/internal/cli/output"
	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/leapstack-labs/nameof/pkg/host"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cmdCtx := NewCommandContextWithoutEngine(cmd)

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng

	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that work on a single expression.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// WithFormat overrides the renderer when a command-level format flag is set.
func (c *CommandContext) WithFormat(cmd *cobra.Command, format string) {
	if format != "" {
		c.Renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(format))
	}
}

// NewHost creates one configured host instance by name.
func (c *CommandContext) NewHost(name string) (host.Host, error) {
	name = strings.ToLower(name)
	return host.New(name, c.Cfg.Hosts[name].ToOptions(c.Logger))
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	jobs, err := strconv.Atoi(os.Getenv("NAMEOF_JOBS"))
	if err != nil || jobs <= 0 {
		jobs = config.DefaultJobs
	}
	cwd, _ := os.Getwd()

	return &config.Config{
		ProjectRoot:  cwd,
		Jobs:         jobs,
		Verbose:      os.Getenv("NAMEOF_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("NAMEOF_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	project := cfg.Project()
	return engine.New(engine.Config{
		Root:    cfg.ProjectRoot,
		Include: project.Include,
		Exclude: project.Exclude,
		Jobs:    project.Jobs,
		Hosts:   project.HostOptions(logger),
		Logger:  logger,
	})
}
