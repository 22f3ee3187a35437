package goast

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/leapstack-labs/nameof/pkg/core"
)

// Context is the per-file state shared by the adapter and error handlers.
type Context struct {
	Fset     *token.FileSet
	Filename string
	Source   []byte

	// fmtName is the local name of the fmt package in the file.
	fmtName string
	// usesFmt is set once a template has been synthesized.
	usesFmt bool
}

// NewContext creates a context for one parsed unit.
func NewContext(fset *token.FileSet, filename string, src []byte) *Context {
	return &Context{Fset: fset, Filename: filename, Source: src, fmtName: "fmt"}
}

// Span returns the source range and text of a node.
func (c *Context) Span(node ast.Expr) (core.Span, string) {
	if node == nil || !node.Pos().IsValid() {
		return core.Span{}, ""
	}
	start := c.Fset.Position(node.Pos())
	end := c.Fset.Position(node.End())
	span := core.Span{
		Start: core.Position{Line: start.Line, Column: start.Column},
		End:   core.Position{Line: end.Line, Column: end.Column},
	}
	text, _ := c.text(node)
	return span, text
}

func (c *Context) text(node ast.Expr) (string, bool) {
	if c.Source == nil || !node.Pos().IsValid() || !node.End().IsValid() {
		return "", false
	}
	file := c.Fset.File(node.Pos())
	if file == nil || int(node.End()) > file.Base()+file.Size() {
		return "", false
	}
	start, end := file.Offset(node.Pos()), file.Offset(node.End())
	if start < 0 || end > len(c.Source) || start > end {
		return "", false
	}
	return string(c.Source[start:end]), true
}

// members is the Go spelling of the marker package's functions.
var members = map[string]core.MarkerKind{
	"Name":        core.MarkerPlain,
	"NameOf":      core.MarkerPlain,
	"Full":        core.MarkerFull,
	"FullOf":      core.MarkerFull,
	"Split":       core.MarkerSplit,
	"SplitOf":     core.MarkerSplit,
	"Interpolate": core.MarkerInterpolate,
}

// Adapter implements core.Adapter over go/ast expressions.
type Adapter struct {
	ctx     *Context
	handler core.ErrorHandler[ast.Expr, *Context]
}

// NewAdapter creates an adapter reporting failures to handler.
func NewAdapter(ctx *Context, handler core.ErrorHandler[ast.Expr, *Context]) *Adapter {
	return &Adapter{ctx: ctx, handler: handler}
}

// Classify implements core.Adapter.
func (a *Adapter) Classify(node ast.Expr) core.Shape[ast.Expr] {
	switch n := node.(type) {
	case *ast.Ident:
		return core.Shape[ast.Expr]{Kind: core.ShapeIdentifier, Name: n.Name}
	case *ast.SelectorExpr:
		return core.Shape[ast.Expr]{Kind: core.ShapePropertyAccess, Object: n.X, Name: n.Sel.Name}
	case *ast.IndexExpr:
		return core.Shape[ast.Expr]{Kind: core.ShapeIndexAccess, Object: n.X, Index: n.Index}
	case *ast.ParenExpr:
		return core.Shape[ast.Expr]{Kind: core.ShapeParenthesized, Object: n.X}
	case *ast.StarExpr:
		return core.Shape[ast.Expr]{Kind: core.ShapeParenthesized, Object: n.X}
	case *ast.BasicLit:
		return classifyLiteral(n, "")
	case *ast.UnaryExpr:
		if lit, ok := n.X.(*ast.BasicLit); ok && lit.Kind == token.INT {
			switch n.Op {
			case token.SUB:
				return classifyLiteral(lit, "-")
			case token.ADD:
				return classifyLiteral(lit, "")
			}
		}
	case *ast.CallExpr:
		return classifyCall(n)
	case *ast.FuncLit:
		return classifyFunc(n)
	case *spreadExpr:
		return core.Shape[ast.Expr]{Kind: core.ShapeSpread, Object: n.Expr}
	}
	return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
}

func classifyLiteral(lit *ast.BasicLit, sign string) core.Shape[ast.Expr] {
	switch lit.Kind {
	case token.STRING:
		if sign != "" {
			break
		}
		v, err := strconv.Unquote(lit.Value)
		if err != nil {
			break
		}
		return core.Shape[ast.Expr]{Kind: core.ShapeStringLiteral, Value: v}
	case token.INT:
		v := lit.Value
		if n, err := strconv.ParseInt(v, 0, 64); err == nil {
			v = strconv.FormatInt(n, 10)
		}
		return core.Shape[ast.Expr]{Kind: core.ShapeNumericLiteral, Value: sign + v}
	}
	return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
}

// classifyCall separates explicit type arguments from the callee:
// nameof.NameOf[T]() has callee nameof.NameOf and type argument T.
func classifyCall(call *ast.CallExpr) core.Shape[ast.Expr] {
	shape := core.Shape[ast.Expr]{Kind: core.ShapeCall, Callee: call.Fun, Arguments: call.Args}
	switch fun := call.Fun.(type) {
	case *ast.IndexExpr:
		shape.Callee = fun.X
		shape.TypeArguments = []ast.Expr{uninstantiated(fun.Index)}
	case *ast.IndexListExpr:
		shape.Callee = fun.X
		for _, idx := range fun.Indices {
			shape.TypeArguments = append(shape.TypeArguments, uninstantiated(idx))
		}
	}
	if call.Ellipsis.IsValid() && len(call.Args) > 0 {
		// The spread operand is not a path.
		last := len(call.Args) - 1
		args := make([]ast.Expr, len(call.Args))
		copy(args, call.Args)
		args[last] = &spreadExpr{Expr: call.Args[last]}
		shape.Arguments = args
	}
	return shape
}

// uninstantiated strips type arguments from a generic type: List[int] -> List.
func uninstantiated(typ ast.Expr) ast.Expr {
	switch t := typ.(type) {
	case *ast.IndexExpr:
		return t.X
	case *ast.IndexListExpr:
		return t.X
	}
	return typ
}

// classifyFunc accepts func(o T) R { return o.a.b }.
func classifyFunc(fn *ast.FuncLit) core.Shape[ast.Expr] {
	if fn.Body == nil || len(fn.Body.List) != 1 {
		return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
	}
	ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
	if !ok || len(ret.Results) != 1 {
		return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
	}
	var params []string
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			for _, name := range field.Names {
				params = append(params, name.Name)
			}
		}
	}
	return core.Shape[ast.Expr]{Kind: core.ShapeFunction, Parameters: params, Body: ret.Results[0]}
}

// spreadExpr marks the final argument of a call using `...`.
type spreadExpr struct {
	ast.Expr
}

// ExtractText implements core.Adapter.
func (a *Adapter) ExtractText(node ast.Expr) string {
	if s, ok := node.(*spreadExpr); ok {
		return a.ExtractText(s.Expr) + "..."
	}
	if node == nil {
		return ""
	}
	if text, ok := a.ctx.text(node); ok {
		return text
	}
	return types.ExprString(node)
}

// Members implements core.Adapter.
func (a *Adapter) Members() map[string]core.MarkerKind { return members }

// StringLiteral implements core.Adapter.
func (a *Adapter) StringLiteral(node ast.Expr, value string) (ast.Expr, error) {
	return &ast.BasicLit{ValuePos: node.Pos(), Kind: token.STRING, Value: strconv.Quote(value)}, nil
}

// ArrayLiteral implements core.Adapter.
func (a *Adapter) ArrayLiteral(node ast.Expr, values []string) (ast.Expr, error) {
	elts := make([]ast.Expr, len(values))
	for i, v := range values {
		elts[i] = &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(v)}
	}
	return &ast.CompositeLit{
		Type: &ast.ArrayType{Lbrack: node.Pos(), Elt: ast.NewIdent("string")},
		Elts: elts,
	}, nil
}

// Template implements core.Adapter. The template becomes a fmt.Sprintf
// call with a %v verb per dynamic part.
func (a *Adapter) Template(node ast.Expr, parts []core.TemplatePart[ast.Expr]) (ast.Expr, error) {
	var (
		format strings.Builder
		args   []ast.Expr
	)
	for _, part := range parts {
		if part.IsExpr {
			format.WriteString("%v")
			args = append(args, part.Expr)
			continue
		}
		format.WriteString(strings.ReplaceAll(part.Text, "%", "%%"))
	}

	a.ctx.usesFmt = true
	fun := &ast.SelectorExpr{
		X:   &ast.Ident{NamePos: node.Pos(), Name: a.ctx.fmtName},
		Sel: ast.NewIdent("Sprintf"),
	}
	lit := &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(format.String())}
	return &ast.CallExpr{Fun: fun, Args: append([]ast.Expr{lit}, args...)}, nil
}

// HandleError implements core.Adapter.
func (a *Adapter) HandleError(err error, node ast.Expr) {
	if s, ok := node.(*spreadExpr); ok {
		node = s.Expr
	}
	if a.handler != nil {
		a.handler.Report(a.ctx, a.ctx.Filename, node, err)
	}
}
