package commands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/nameof/internal/engine"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Rewrite marker calls whenever files change",
		Long: `Transform the given files or directories once, then watch them and
rewrite every changed file in place until interrupted.`,
		Example: `  # Watch the whole project
  nameof watch

  # Watch one directory
  nameof watch ./rules`,
		RunE: runWatch,
	}
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	eng := cmdCtx.Engine
	ctx := cmd.Context()

	// Initial pass
	files, err := eng.Discover(args...)
	if err != nil {
		return err
	}
	res, err := eng.Run(ctx, files, engine.RunOptions{Write: true})
	if err != nil {
		return err
	}
	reportProblems(r, res)
	r.Success(summaryLine(res))

	w, err := eng.NewWatcher(args...)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	paths := args
	if len(paths) == 0 {
		paths = []string{eng.Root()}
	}
	r.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", strings.Join(paths, ", ")))

	// Callbacks run on timer goroutines
	var mu sync.Mutex
	onResult := func(fr *engine.FileResult) {
		mu.Lock()
		defer mu.Unlock()
		if fr.Written {
			r.Success(fmt.Sprintf("%s: rewrote %s", fr.Path, plural(fr.Replaced, "call", "calls")))
		}
		for _, d := range fr.Diagnostics {
			r.Error(d.String())
		}
	}
	onError := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		r.Error(err.Error())
	}

	return w.Run(ctx, onResult, onError)
}
