package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/nameof/pkg/core"
)

// RunOptions configures a run.
type RunOptions struct {
	// Write rewrites changed files in place.
	Write bool
}

// FileResult is the outcome of transforming one file.
type FileResult struct {
	Path        string
	Host        string
	Replaced    int
	Changed     bool
	Written     bool
	Original    []byte
	Output      []byte
	Diagnostics []core.Diagnostic
}

// HasErrors reports whether any diagnostic has error severity.
func (r *FileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == core.SeverityError {
			return true
		}
	}
	return false
}

// FileError is returned for a file that could not be read, parsed or written.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// RunResult collects the outcome of a run.
type RunResult struct {
	Files  []FileResult
	Errors []*FileError
}

// Replaced returns the number of rewritten marker calls across all files.
func (r *RunResult) Replaced() int {
	n := 0
	for _, f := range r.Files {
		n += f.Replaced
	}
	return n
}

// Changed returns the number of files whose output differs from the input.
func (r *RunResult) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// Diagnostics returns every diagnostic of the run, sorted by position.
func (r *RunResult) Diagnostics() []core.Diagnostic {
	var diags []core.Diagnostic
	for _, f := range r.Files {
		diags = append(diags, f.Diagnostics...)
	}
	core.SortDiagnostics(diags)
	return diags
}

// HasErrors reports whether any file failed or produced an error diagnostic.
func (r *RunResult) HasErrors() bool {
	if len(r.Errors) > 0 {
		return true
	}
	for i := range r.Files {
		if r.Files[i].HasErrors() {
			return true
		}
	}
	return false
}

// Run transforms files in parallel. Files that fail are reported in
// RunResult.Errors and do not stop the others; the returned error is only
// set when ctx is canceled.
func (e *Engine) Run(ctx context.Context, files []string, opts RunOptions) (*RunResult, error) {
	results := make([]*FileResult, len(files))
	errs := make([]*FileError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.jobs)

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res, err := e.TransformFile(path, opts)
			if err != nil {
				errs[i] = &FileError{Path: e.Rel(path), Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &RunResult{}
	for i := range files {
		if results[i] != nil {
			out.Files = append(out.Files, *results[i])
		}
		if errs[i] != nil {
			out.Errors = append(out.Errors, errs[i])
		}
	}
	sort.Slice(out.Files, func(i, j int) bool { return out.Files[i].Path < out.Files[j].Path })
	sort.Slice(out.Errors, func(i, j int) bool { return out.Errors[i].Path < out.Errors[j].Path })

	e.logger.Debug("run complete",
		"files", len(out.Files),
		"changed", out.Changed(),
		"replaced", out.Replaced(),
		"errors", len(out.Errors))

	return out, nil
}

// TransformFile transforms a single file with the host handling its extension.
func (e *Engine) TransformFile(path string, opts RunOptions) (*FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fr, err := e.TransformSource(path, src)
	if err != nil {
		return nil, err
	}

	if opts.Write && fr.Changed {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		if err := os.WriteFile(path, fr.Output, info.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
		fr.Written = true
		e.logger.Debug("wrote file", "path", fr.Path, "replaced", fr.Replaced)
	}

	return fr, nil
}

// TransformSource transforms src as the content of path without touching the file system.
func (e *Engine) TransformSource(path string, src []byte) (*FileResult, error) {
	h, ok := e.HostFor(path)
	if !ok {
		return nil, fmt.Errorf("no enabled host handles %s", path)
	}

	rel := e.Rel(path)
	res, err := h.TransformFile(rel, src)
	if err != nil {
		return nil, err
	}

	return &FileResult{
		Path:        rel,
		Host:        h.Name(),
		Replaced:    res.Replaced,
		Changed:     res.Changed() && !bytes.Equal(src, res.Output),
		Original:    src,
		Output:      res.Output,
		Diagnostics: res.Diagnostics,
	}, nil
}
