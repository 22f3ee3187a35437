// Package starlark rewrites nameof marker calls in Starlark files.
//
//	nameof(ctx.attr.deps)              # "deps"
//	nameof.full(ctx.attr.deps)         # "ctx.attr.deps"
//	nameof.split(ctx.attr.deps, 1)     # ["attr", "deps"]
//	nameof.interpolate(rows[i].name)   # "rows[{}].name".format(i)
//	nameof.full(lambda r: r.attr.srcs) # "attr.srcs"
//
// Replacements are spliced into the original text, so formatting and
// comments outside marker calls are preserved byte for byte.
package starlark

import (
	"fmt"
	"log/slog"
	"sort"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/nameof/pkg/core"
	"github.com/leapstack-labs/nameof/pkg/host"
)

// Name is the registry name of the Starlark host.
const Name = "starlark"

func init() {
	host.Register(Name, func(opts host.Options) host.Host {
		return New(opts)
	})
}

// Host is the Starlark implementation of host.Host.
type Host struct {
	extensions []string
	markers    []string
	logger     *slog.Logger
}

// New creates a Starlark host.
func New(opts host.Options) *Host {
	h := &Host{
		extensions: opts.Extensions,
		markers:    opts.Markers,
		logger:     opts.Logger,
	}
	if len(h.extensions) == 0 {
		h.extensions = []string{".star", ".bzl", ".sky"}
	}
	if len(h.markers) == 0 {
		h.markers = []string{"nameof"}
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Name implements host.Host.
func (h *Host) Name() string { return Name }

// Extensions implements host.Host.
func (h *Host) Extensions() []string { return h.extensions }

// TransformFile implements host.Host.
func (h *Host) TransformFile(filename string, src []byte) (*host.Result, error) {
	f, err := syntax.Parse(filename, src, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	res := h.rewrite(f, NewContext(filename, src))
	h.logger.Debug("transformed starlark file",
		slog.String("file", filename),
		slog.Int("replaced", res.Replaced),
		slog.Int("diagnostics", len(res.Diagnostics)))
	return res, nil
}

// TransformExpr implements host.Host.
func (h *Host) TransformExpr(src string) (*host.Result, error) {
	expr, err := syntax.ParseExpr("expr", src, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}
	return h.rewrite(expr, NewContext("expr", []byte(src))), nil
}

// edit replaces Source[start:end] with text.
type edit struct {
	start, end int
	text       string
}

func (h *Host) rewrite(root syntax.Node, ctx *Context) *host.Result {
	collector := core.NewCollector[syntax.Expr, *Context](func(ctx *Context, node syntax.Expr) (core.Span, string) {
		return ctx.Span(node)
	})
	adapter := NewAdapter(ctx, collector)
	tr := core.NewTransformer[syntax.Expr](adapter, core.NewNameResolver(h.markers...), core.WithLogger(h.logger))

	var edits []edit
	syntax.Walk(root, func(n syntax.Node) bool {
		call, ok := n.(*syntax.CallExpr)
		if !ok {
			return true
		}
		handled := tr.Visit(call, func(out syntax.Expr) {
			start, end, ok := ctx.extent(call)
			if !ok {
				core.NewError[syntax.Expr](core.AdapterMismatch, adapter, call, "call has no source position").Report()
				return
			}
			edits = append(edits, edit{start: start, end: end, text: adapter.Render(out)})
		})
		return !handled
	})

	return &host.Result{
		Output:      applyEdits(ctx.Source, edits),
		Replaced:    len(edits),
		Diagnostics: collector.Diagnostics(),
	}
}

// applyEdits splices non-overlapping edits into src.
func applyEdits(src []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return src
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	out := make([]byte, 0, len(src))
	last := 0
	for _, e := range edits {
		out = append(out, src[last:e.start]...)
		out = append(out, e.text...)
		last = e.end
	}
	return append(out, src[last:]...)
}
