package cel

import (
	"fmt"
	"strconv"

	"github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/operators"
	"github.com/google/cel-go/common/overloads"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/parser"

	"github.com/leapstack-labs/nameof/pkg/core"
)

// Context is the per-expression state shared by the adapter and error handlers.
type Context struct {
	Filename string
	Info     *ast.SourceInfo

	// nextID is the next free expression id for synthesized nodes.
	nextID int64
}

// NewContext creates a context for one parsed expression.
func NewContext(filename string, parsed *ast.AST) *Context {
	return &Context{
		Filename: filename,
		Info:     parsed.SourceInfo(),
		nextID:   ast.MaxID(parsed),
	}
}

func (c *Context) id() int64 {
	id := c.nextID
	c.nextID++
	return id
}

// Span returns the start position and text of a node.
// CEL only records where an expression starts.
func (c *Context) Span(node ast.Expr) (core.Span, string) {
	if node == nil {
		return core.Span{}, ""
	}
	var span core.Span
	if loc := c.Info.GetStartLocation(node.ID()); loc.Line() > 0 {
		pos := core.Position{Line: loc.Line(), Column: loc.Column() + 1}
		span = core.Span{Start: pos, End: pos}
	}
	text, err := parser.Unparse(node, c.Info)
	if err != nil {
		text = ""
	}
	return span, text
}

// Adapter implements core.Adapter over CEL expressions.
type Adapter struct {
	ctx     *Context
	fac     ast.ExprFactory
	handler core.ErrorHandler[ast.Expr, *Context]
}

// NewAdapter creates an adapter reporting failures to handler.
func NewAdapter(ctx *Context, handler core.ErrorHandler[ast.Expr, *Context]) *Adapter {
	return &Adapter{ctx: ctx, fac: ast.NewExprFactory(), handler: handler}
}

// Classify implements core.Adapter.
//
// CEL calls carry their function name rather than a callee expression, so
// the callee is rebuilt as an identifier or a selection on the target.
// The rebuilt node has id 0 and never enters the tree.
func (a *Adapter) Classify(node ast.Expr) core.Shape[ast.Expr] {
	if node == nil {
		return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
	}
	switch node.Kind() {
	case ast.IdentKind:
		return core.Shape[ast.Expr]{Kind: core.ShapeIdentifier, Name: node.AsIdent()}
	case ast.SelectKind:
		sel := node.AsSelect()
		if sel.IsTestOnly() {
			break
		}
		return core.Shape[ast.Expr]{Kind: core.ShapePropertyAccess, Object: sel.Operand(), Name: sel.FieldName()}
	case ast.LiteralKind:
		return literalShape(node, "")
	case ast.CallKind:
		call := node.AsCall()
		args := call.Args()
		switch call.FunctionName() {
		case operators.Index:
			if !call.IsMemberFunction() && len(args) == 2 {
				return core.Shape[ast.Expr]{Kind: core.ShapeIndexAccess, Object: args[0], Index: args[1]}
			}
		case operators.Negate:
			if len(args) == 1 && args[0].Kind() == ast.LiteralKind {
				if shape := literalShape(args[0], "-"); shape.Kind == core.ShapeNumericLiteral {
					return shape
				}
			}
		}
		var callee ast.Expr
		if call.IsMemberFunction() {
			callee = a.fac.NewSelect(0, call.Target(), call.FunctionName())
		} else {
			callee = a.fac.NewIdent(0, call.FunctionName())
		}
		return core.Shape[ast.Expr]{Kind: core.ShapeCall, Callee: callee, Arguments: args}
	}
	return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
}

func literalShape(node ast.Expr, sign string) core.Shape[ast.Expr] {
	switch v := node.AsLiteral().(type) {
	case types.String:
		if sign == "" {
			return core.Shape[ast.Expr]{Kind: core.ShapeStringLiteral, Value: string(v)}
		}
	case types.Int:
		return core.Shape[ast.Expr]{Kind: core.ShapeNumericLiteral, Value: sign + strconv.FormatInt(int64(v), 10)}
	case types.Uint:
		return core.Shape[ast.Expr]{Kind: core.ShapeNumericLiteral, Value: sign + strconv.FormatUint(uint64(v), 10)}
	}
	return core.Shape[ast.Expr]{Kind: core.ShapeUnknown}
}

// ExtractText implements core.Adapter.
func (a *Adapter) ExtractText(node ast.Expr) string {
	if node == nil {
		return ""
	}
	text, err := parser.Unparse(node, a.ctx.Info)
	if err != nil {
		return fmt.Sprintf("<expr %d>", node.ID())
	}
	return text
}

// Members implements core.Adapter.
func (a *Adapter) Members() map[string]core.MarkerKind { return core.DefaultMembers() }

// StringLiteral implements core.Adapter.
func (a *Adapter) StringLiteral(_ ast.Expr, value string) (ast.Expr, error) {
	return a.fac.NewLiteral(a.ctx.id(), types.String(value)), nil
}

// ArrayLiteral implements core.Adapter.
func (a *Adapter) ArrayLiteral(_ ast.Expr, values []string) (ast.Expr, error) {
	elems := make([]ast.Expr, len(values))
	for i, v := range values {
		elems[i] = a.fac.NewLiteral(a.ctx.id(), types.String(v))
	}
	return a.fac.NewList(a.ctx.id(), elems, []int32{}), nil
}

// Template implements core.Adapter. The template becomes a string
// concatenation with string() conversions of the dynamic parts.
func (a *Adapter) Template(node ast.Expr, parts []core.TemplatePart[ast.Expr]) (ast.Expr, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty template for expression %d", node.ID())
	}
	var out ast.Expr
	for _, part := range parts {
		var e ast.Expr
		if part.IsExpr {
			e = a.fac.NewCall(a.ctx.id(), overloads.TypeConvertString, part.Expr)
		} else {
			e = a.fac.NewLiteral(a.ctx.id(), types.String(part.Text))
		}
		if out == nil {
			out = e
			continue
		}
		out = a.fac.NewCall(a.ctx.id(), operators.Add, out, e)
	}
	return out, nil
}

// HandleError implements core.Adapter.
func (a *Adapter) HandleError(err error, node ast.Expr) {
	if a.handler != nil {
		a.handler.Report(a.ctx, a.ctx.Filename, node, err)
	}
}
