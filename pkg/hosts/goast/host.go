// Package goast rewrites nameof marker calls in Go source files.
//
// Marker calls are calls into the package imported from ImportPath:
//
//	import "github.com/leapstack-labs/nameof/pkg/nameof"
//
//	nameof.Full(cfg.Server.Port) // becomes "cfg.Server.Port"
//
// The marker import is removed once no call into it remains, and fmt is
// imported when an interpolated template needs it.
package goast

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log/slog"
	pathpkg "path"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/leapstack-labs/nameof/pkg/core"
	"github.com/leapstack-labs/nameof/pkg/host"
)

const (
	// Name is the registry name of the Go host.
	Name = "go"
	// DefaultImportPath is the import path of the marker package.
	DefaultImportPath = "github.com/leapstack-labs/nameof/pkg/nameof"
)

func init() {
	host.Register(Name, func(opts host.Options) host.Host {
		return New(opts)
	})
}

// Host is the Go implementation of host.Host.
type Host struct {
	importPath string
	extensions []string
	markers    []string
	logger     *slog.Logger
}

// New creates a Go host.
func New(opts host.Options) *Host {
	h := &Host{
		importPath: opts.ImportPath,
		extensions: opts.Extensions,
		markers:    opts.Markers,
		logger:     opts.Logger,
	}
	if h.importPath == "" {
		h.importPath = DefaultImportPath
	}
	if len(h.extensions) == 0 {
		h.extensions = []string{".go"}
	}
	if len(h.markers) == 0 {
		h.markers = []string{pathpkg.Base(h.importPath)}
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

// ImportPath returns the import path of the marker package.
func (h *Host) ImportPath() string { return h.importPath }

// TransformFile implements host.Host.
func (h *Host) TransformFile(filename string, src []byte) (*host.Result, error) {
	// Files that never mention the marker package cannot contain marker calls.
	if !bytes.Contains(src, []byte(strconv.Quote(h.importPath))) {
		return &host.Result{Output: src}, nil
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	resolver := markerResolver(file, h.importPath)
	if len(resolver) == 0 {
		return &host.Result{Output: src}, nil
	}

	ctx := NewContext(fset, filename, src)
	fmtImport := findImport(file, "fmt")
	ctx.fmtName = fmtImport.name
	collector := newCollector()
	adapter := NewAdapter(ctx, collector)

	_, replaced := h.rewrite(file, adapter, resolver)
	if replaced == 0 {
		return &host.Result{Output: src, Diagnostics: collector.Diagnostics()}, nil
	}

	if ctx.usesFmt {
		fmtImport.ensure(fset, file)
	}
	if !astutil.UsesImport(file, h.importPath) {
		removeImport(fset, file, h.importPath)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("failed to print %s: %w", filename, err)
	}

	h.logger.Debug("transformed go file",
		slog.String("file", filename),
		slog.Int("replaced", replaced),
		slog.Int("diagnostics", collector.Len()))

	return &host.Result{
		Output:      buf.Bytes(),
		Replaced:    replaced,
		Diagnostics: collector.Diagnostics(),
	}, nil
}

// TransformExpr implements host.Host. The configured marker names stand
// in for the package import.
func (h *Host) TransformExpr(src string) (*host.Result, error) {
	fset := token.NewFileSet()
	expr, err := parser.ParseExprFrom(fset, "expr", src, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expression: %w", err)
	}

	ctx := NewContext(fset, "expr", []byte(src))
	collector := newCollector()
	adapter := NewAdapter(ctx, collector)

	out, replaced := h.rewrite(expr, adapter, core.NewNameResolver(h.markers...))

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, out); err != nil {
		return nil, fmt.Errorf("failed to print expression: %w", err)
	}
	return &host.Result{
		Output:      buf.Bytes(),
		Replaced:    replaced,
		Diagnostics: collector.Diagnostics(),
	}, nil
}

// rewrite replaces every marker call below root and returns the new root.
func (h *Host) rewrite(root ast.Node, adapter *Adapter, resolver core.Resolver) (ast.Node, int) {
	tr := core.NewTransformer[ast.Expr](adapter, resolver, core.WithLogger(h.logger))
	replaced := 0

	out := astutil.Apply(root, func(c *astutil.Cursor) bool {
		call, ok := c.Node().(*ast.CallExpr)
		if !ok {
			return true
		}

		// A local binding named like the marker package hides it.
		if shadowed(call) {
			return true
		}

		// Statements need a call, not a value.
		switch c.Parent().(type) {
		case *ast.GoStmt, *ast.DeferStmt:
			if _, marker := tr.Detect(call); marker {
				core.NewError[ast.Expr](core.MisplacedMarker, adapter, call,
					"a marker call cannot be the operand of go or defer").Report()
				return false
			}
			return true
		case *ast.ExprStmt:
			if _, marker := tr.Detect(call); marker {
				core.NewError[ast.Expr](core.MisplacedMarker, adapter, call,
					"a marker call cannot be used as a statement").Report()
				return false
			}
			return true
		}

		handled := tr.Visit(call, func(n ast.Expr) {
			c.Replace(n)
			replaced++
		})
		return !handled
	}, nil)

	return out, replaced
}

func newCollector() *core.Collector[ast.Expr, *Context] {
	return core.NewCollector[ast.Expr, *Context](func(ctx *Context, node ast.Expr) (core.Span, string) {
		return ctx.Span(node)
	})
}

// markerResolver resolves the local names the marker package is imported as.
func markerResolver(file *ast.File, importPath string) core.NameResolver {
	var names []string
	for _, spec := range file.Imports {
		if importPathOf(spec) != importPath {
			continue
		}
		switch {
		case spec.Name == nil:
			names = append(names, pathpkg.Base(importPath))
		case spec.Name.Name == "_" || spec.Name.Name == ".":
			// Dot imports leave no qualifier to detect.
		default:
			names = append(names, spec.Name.Name)
		}
	}
	return core.NewNameResolver(names...)
}

// shadowed reports whether the qualifier of a call's callee is a local
// binding rather than an imported package. The parser resolves local
// declarations into Obj and leaves package names unresolved.
func shadowed(call *ast.CallExpr) bool {
	fun := ast.Unparen(call.Fun)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = ast.Unparen(f.X)
	case *ast.IndexListExpr:
		fun = ast.Unparen(f.X)
	}
	var id *ast.Ident
	switch f := fun.(type) {
	case *ast.SelectorExpr:
		id, _ = f.X.(*ast.Ident)
	case *ast.Ident:
		id = f
	}
	return id != nil && id.Obj != nil
}

// packageImport is how a file imports a package it may need to reference.
type packageImport struct {
	importPath string
	// name is the qualifier to use for the package.
	name string
	// usable is set when an import already provides name.
	usable bool
	// blank is a blank import of the package that can be given back its name.
	blank *ast.ImportSpec
}

// findImport returns how importPath is imported by file.
func findImport(file *ast.File, importPath string) *packageImport {
	imp := &packageImport{importPath: importPath, name: pathpkg.Base(importPath)}
	for _, spec := range file.Imports {
		if importPathOf(spec) != importPath {
			continue
		}
		switch {
		case spec.Name == nil:
			imp.name, imp.usable = pathpkg.Base(importPath), true
			return imp
		case spec.Name.Name == "_":
			imp.blank = spec
		case spec.Name.Name != ".":
			imp.name, imp.usable = spec.Name.Name, true
			return imp
		}
	}
	return imp
}

// ensure makes the package available under its default name, reusing a
// blank import when there is one.
func (imp *packageImport) ensure(fset *token.FileSet, file *ast.File) {
	switch {
	case imp.usable:
	case imp.blank != nil:
		imp.blank.Name = nil
	default:
		astutil.AddImport(fset, file, imp.importPath)
	}
}

func removeImport(fset *token.FileSet, file *ast.File, importPath string) {
	for _, spec := range file.Imports {
		if importPathOf(spec) != importPath {
			continue
		}
		if spec.Name == nil {
			astutil.DeleteImport(fset, file, importPath)
		} else {
			astutil.DeleteNamedImport(fset, file, spec.Name.Name, importPath)
		}
		return
	}
}

func importPathOf(spec *ast.ImportSpec) string {
	p, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return ""
	}
	return p
}
