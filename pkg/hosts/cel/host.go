// Package cel rewrites nameof marker calls in CEL expressions.
//
//	nameof(request.auth.claims)                 // "claims"
//	nameof.full(request.auth.claims)            // "request.auth.claims"
//	nameof.split(request.auth.claims, 1)        // ["auth", "claims"]
//	nameof.interpolate(resource.items[i].name)  // "resource.items[" + string(i) + "].name"
//
// Each .cel file holds one expression. The rewritten expression is printed
// with the CEL unparser.
package cel

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common"
	"github.com/google/cel-go/common/ast"

	"github.com/leapstack-labs/nameof/pkg/core"
	"github.com/leapstack-labs/nameof/pkg/host"
)

// Name is the registry name of the CEL host.
const Name = "cel"

func init() {
	host.Register(Name, func(opts host.Options) host.Host {
		return New(opts)
	})
}

// Host is the CEL implementation of host.Host.
type Host struct {
	extensions []string
	markers    []string
	logger     *slog.Logger
	env        *cel.Env
	envErr     error
}

// New creates a CEL host.
func New(opts host.Options) *Host {
	h := &Host{
		extensions: opts.Extensions,
		markers:    opts.Markers,
		logger:     opts.Logger,
	}
	if len(h.extensions) == 0 {
		h.extensions = []string{".cel"}
	}
	if len(h.markers) == 0 {
		h.markers = []string{"nameof"}
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	// Macros would expand has() and friends before the transformer sees them.
	h.env, h.envErr = cel.NewEnv(cel.ClearMacros())
	return h
}

// Name implements host.Host.
func (h *Host) Name() string { return Name }

// Extensions implements host.Host.
func (h *Host) Extensions() []string { return h.extensions }

// TransformFile implements host.Host.
func (h *Host) TransformFile(filename string, src []byte) (*host.Result, error) {
	res, err := h.transform(filename, string(src))
	if err != nil {
		return nil, err
	}
	h.logger.Debug("transformed cel file",
		slog.String("file", filename),
		slog.Int("replaced", res.Replaced),
		slog.Int("diagnostics", len(res.Diagnostics)))
	if res.Replaced == 0 {
		res.Output = src
	} else {
		res.Output = append(res.Output, '\n')
	}
	return res, nil
}

// TransformExpr implements host.Host.
func (h *Host) TransformExpr(src string) (*host.Result, error) {
	res, err := h.transform("expr", src)
	if err != nil {
		return nil, err
	}
	if res.Replaced == 0 {
		res.Output = []byte(src)
	}
	return res, nil
}

func (h *Host) transform(filename, src string) (*host.Result, error) {
	if h.envErr != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", h.envErr)
	}
	parsed, iss := h.env.ParseSource(common.NewStringSource(src, filename))
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, iss.Err())
	}

	native := parsed.NativeRep()
	ctx := NewContext(filename, native)
	collector := core.NewCollector[ast.Expr, *Context](func(ctx *Context, node ast.Expr) (core.Span, string) {
		return ctx.Span(node)
	})
	adapter := NewAdapter(ctx, collector)
	tr := core.NewTransformer[ast.Expr](adapter, core.NewNameResolver(h.markers...), core.WithLogger(h.logger))

	replaced := 0
	walk(native.Expr(), func(e ast.Expr) bool {
		return tr.Visit(e, func(out ast.Expr) {
			e.SetKindCase(out)
			replaced++
		})
	})

	res := &host.Result{Replaced: replaced, Diagnostics: collector.Diagnostics()}
	if replaced > 0 {
		out, err := cel.ExprToString(native.Expr(), native.SourceInfo())
		if err != nil {
			return nil, fmt.Errorf("failed to print %s: %w", filename, err)
		}
		res.Output = []byte(out)
	}
	return res, nil
}

// walk visits every call in pre-order. A true result from visit stops
// descent into that call.
func walk(e ast.Expr, visit func(ast.Expr) bool) {
	if e == nil {
		return
	}
	switch e.Kind() {
	case ast.CallKind:
		if visit(e) {
			return
		}
		call := e.AsCall()
		if call.IsMemberFunction() {
			walk(call.Target(), visit)
		}
		for _, arg := range call.Args() {
			walk(arg, visit)
		}
	case ast.SelectKind:
		walk(e.AsSelect().Operand(), visit)
	case ast.ListKind:
		for _, elem := range e.AsList().Elements() {
			walk(elem, visit)
		}
	case ast.MapKind:
		for _, entry := range e.AsMap().Entries() {
			walk(entry.AsMapEntry().Key(), visit)
			walk(entry.AsMapEntry().Value(), visit)
		}
	case ast.StructKind:
		for _, field := range e.AsStruct().Fields() {
			walk(field.AsStructField().Value(), visit)
		}
	case ast.ComprehensionKind:
		comp := e.AsComprehension()
		walk(comp.IterRange(), visit)
		walk(comp.AccuInit(), visit)
		walk(comp.LoopCondition(), visit)
		walk(comp.LoopStep(), visit)
		walk(comp.Result(), visit)
	}
}
