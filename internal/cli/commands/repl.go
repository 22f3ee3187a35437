package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/nameof/pkg/host"
	"github.com/spf13/cobra"
)

// historyDir is the project-local directory holding the REPL history.
const historyDir = ".nameof"

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	var hostName string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively transform expressions",
		Long: `Start an interactive loop that transforms each entered expression.

Dot-commands:
  .host <name>  switch host
  .hosts        list hosts
  .help         show help
  .quit         exit`,
		Example: `  nameof repl --host starlark`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, hostName)
		},
	}

	cmd.Flags().StringVarP(&hostName, "host", "H", DefaultHost, "Initial host")

	return cmd
}

// replSession holds the state of an interactive session.
type replSession struct {
	cmdCtx *CommandContext
	host   host.Host
	out    io.Writer
	errOut io.Writer
}

func (s *replSession) prompt() string {
	return fmt.Sprintf("nameof(%s)> ", s.host.Name())
}

// handleLine evaluates one line. It returns true when the session should end.
func (s *replSession) handleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	res, err := s.host.TransformExpr(line)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return false
	}
	_, _ = fmt.Fprintln(s.out, string(res.Output))
	for _, d := range res.Diagnostics {
		_, _ = fmt.Fprintf(s.errOut, "%s: %s [%s]\n", d.Severity, d.Message, d.Code)
	}
	return false
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(s.out)
	case ".hosts":
		for _, name := range host.List() {
			marker := " "
			if name == s.host.Name() {
				marker = "*"
			}
			_, _ = fmt.Fprintf(s.out, "%s %s\n", marker, name)
		}
	case ".host":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .host <name>")
			return false
		}
		h, err := s.cmdCtx.NewHost(parts[1])
		if err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
			return false
		}
		s.host = h
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Enter an expression to transform its marker calls.")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "  .host <name>  switch host")
	_, _ = fmt.Fprintln(w, "  .hosts        list hosts")
	_, _ = fmt.Fprintln(w, "  .help         show this help")
	_, _ = fmt.Fprintln(w, "  .quit         exit")
}

func newREPLCompleter() *readline.PrefixCompleter {
	hosts := make([]readline.PrefixCompleterInterface, 0, len(host.List()))
	for _, name := range host.List() {
		hosts = append(hosts, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".host", hosts...),
		readline.PcItem(".hosts"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func runRepl(cmd *cobra.Command, hostName string) error {
	cmdCtx := NewCommandContextWithoutEngine(cmd)
	h, err := cmdCtx.NewHost(hostName)
	if err != nil {
		return err
	}

	session := &replSession{
		cmdCtx: cmdCtx,
		host:   h,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}

	// Setup history file (project-local)
	var historyFile string
	dir := filepath.Join(cmdCtx.Cfg.ProjectRoot, historyDir)
	if err := os.MkdirAll(dir, 0750); err == nil {
		historyFile = filepath.Join(dir, "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          session.prompt(),
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(session.out, "nameof REPL")
	_, _ = fmt.Fprintln(session.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(session.out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.handleLine(line) {
			break
		}
		rl.SetPrompt(session.prompt())
	}

	return nil
}
