package starlark

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.starlark.net/syntax"

	"github.com/leapstack-labs/nameof/pkg/core"
)

// Context is the per-file state shared by the adapter and error handlers.
type Context struct {
	Filename string
	Source   []byte

	lineStarts []int
}

// NewContext creates a context for one parsed unit.
func NewContext(filename string, src []byte) *Context {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Context{Filename: filename, Source: src, lineStarts: starts}
}

// offset converts a 1-based line and rune column into a byte offset.
func (c *Context) offset(pos syntax.Position) int {
	if pos.Line < 1 || int(pos.Line) > len(c.lineStarts) || pos.Col < 1 {
		return -1
	}
	off := c.lineStarts[pos.Line-1]
	for col := int32(1); col < pos.Col && off < len(c.Source); col++ {
		_, size := utf8.DecodeRune(c.Source[off:])
		off += size
	}
	return off
}

// extent returns the byte range of a node.
func (c *Context) extent(n syntax.Node) (int, int, bool) {
	start, end := n.Span()
	s, e := c.offset(start), c.offset(end)
	// IndexExpr spans stop before the closing bracket.
	if idx, ok := n.(*syntax.IndexExpr); ok {
		if rb := c.offset(idx.Rbrack); rb >= 0 {
			e = rb + 1
		}
	}
	if s < 0 || e < s || e > len(c.Source) {
		return 0, 0, false
	}
	return s, e, true
}

// Span returns the source range and text of a node.
func (c *Context) Span(node syntax.Expr) (core.Span, string) {
	if node == nil {
		return core.Span{}, ""
	}
	start, end := node.Span()
	span := core.Span{
		Start: core.Position{Line: int(start.Line), Column: int(start.Col)},
		End:   core.Position{Line: int(end.Line), Column: int(end.Col)},
	}
	if idx, ok := node.(*syntax.IndexExpr); ok {
		span.End = core.Position{Line: int(idx.Rbrack.Line), Column: int(idx.Rbrack.Col) + 1}
	}
	text := ""
	if s, e, ok := c.extent(node); ok {
		text = string(c.Source[s:e])
	}
	return span, text
}

// Adapter implements core.Adapter over Starlark expressions.
type Adapter struct {
	ctx     *Context
	handler core.ErrorHandler[syntax.Expr, *Context]
}

// NewAdapter creates an adapter reporting failures to handler.
func NewAdapter(ctx *Context, handler core.ErrorHandler[syntax.Expr, *Context]) *Adapter {
	return &Adapter{ctx: ctx, handler: handler}
}

// Classify implements core.Adapter.
func (a *Adapter) Classify(node syntax.Expr) core.Shape[syntax.Expr] {
	switch n := node.(type) {
	case *syntax.Ident:
		return core.Shape[syntax.Expr]{Kind: core.ShapeIdentifier, Name: n.Name}
	case *syntax.DotExpr:
		return core.Shape[syntax.Expr]{Kind: core.ShapePropertyAccess, Object: n.X, Name: n.Name.Name}
	case *syntax.IndexExpr:
		return core.Shape[syntax.Expr]{Kind: core.ShapeIndexAccess, Object: n.X, Index: n.Y}
	case *syntax.ParenExpr:
		return core.Shape[syntax.Expr]{Kind: core.ShapeParenthesized, Object: n.X}
	case *syntax.Literal:
		return literalShape(n, "")
	case *syntax.UnaryExpr:
		switch n.Op {
		case syntax.MINUS, syntax.PLUS:
			if lit, ok := n.X.(*syntax.Literal); ok && lit.Token == syntax.INT {
				sign := ""
				if n.Op == syntax.MINUS {
					sign = "-"
				}
				return literalShape(lit, sign)
			}
		case syntax.STAR, syntax.STARSTAR:
			return core.Shape[syntax.Expr]{Kind: core.ShapeSpread, Object: n.X}
		}
	case *syntax.CallExpr:
		return core.Shape[syntax.Expr]{Kind: core.ShapeCall, Callee: n.Fn, Arguments: n.Args}
	case *syntax.LambdaExpr:
		params := make([]string, 0, len(n.Params))
		for _, p := range n.Params {
			id, ok := p.(*syntax.Ident)
			if !ok {
				return core.Shape[syntax.Expr]{Kind: core.ShapeUnknown}
			}
			params = append(params, id.Name)
		}
		return core.Shape[syntax.Expr]{Kind: core.ShapeFunction, Parameters: params, Body: n.Body}
	}
	return core.Shape[syntax.Expr]{Kind: core.ShapeUnknown}
}

func literalShape(lit *syntax.Literal, sign string) core.Shape[syntax.Expr] {
	switch lit.Token {
	case syntax.STRING:
		if s, ok := lit.Value.(string); ok && sign == "" {
			return core.Shape[syntax.Expr]{Kind: core.ShapeStringLiteral, Value: s}
		}
	case syntax.INT:
		// int64 or *big.Int
		return core.Shape[syntax.Expr]{Kind: core.ShapeNumericLiteral, Value: sign + fmt.Sprint(lit.Value)}
	}
	return core.Shape[syntax.Expr]{Kind: core.ShapeUnknown}
}

// ExtractText implements core.Adapter.
func (a *Adapter) ExtractText(node syntax.Expr) string {
	if node == nil {
		return ""
	}
	if s, e, ok := a.ctx.extent(node); ok {
		return string(a.ctx.Source[s:e])
	}
	return a.Render(node)
}

// Members implements core.Adapter.
func (a *Adapter) Members() map[string]core.MarkerKind { return core.DefaultMembers() }

// StringLiteral implements core.Adapter.
func (a *Adapter) StringLiteral(node syntax.Expr, value string) (syntax.Expr, error) {
	return newString(value), nil
}

// ArrayLiteral implements core.Adapter.
func (a *Adapter) ArrayLiteral(node syntax.Expr, values []string) (syntax.Expr, error) {
	list := make([]syntax.Expr, len(values))
	for i, v := range values {
		list[i] = newString(v)
	}
	return &syntax.ListExpr{List: list}, nil
}

// Template implements core.Adapter. The template becomes a str.format
// call with a `{}` field per dynamic part.
func (a *Adapter) Template(node syntax.Expr, parts []core.TemplatePart[syntax.Expr]) (syntax.Expr, error) {
	var (
		format strings.Builder
		args   []syntax.Expr
	)
	for _, part := range parts {
		if part.IsExpr {
			format.WriteString("{}")
			args = append(args, part.Expr)
			continue
		}
		format.WriteString(braceEscaper.Replace(part.Text))
	}
	return &syntax.CallExpr{
		Fn:   &syntax.DotExpr{X: newString(format.String()), Name: &syntax.Ident{Name: "format"}},
		Args: args,
	}, nil
}

var braceEscaper = strings.NewReplacer("{", "{{", "}", "}}")

// HandleError implements core.Adapter.
func (a *Adapter) HandleError(err error, node syntax.Expr) {
	if a.handler != nil {
		a.handler.Report(a.ctx, a.ctx.Filename, node, err)
	}
}

// Render prints a synthesized replacement. Original subexpressions keep
// their source text.
func (a *Adapter) Render(node syntax.Expr) string {
	switch n := node.(type) {
	case *syntax.Literal:
		return n.Raw
	case *syntax.Ident:
		return n.Name
	case *syntax.ListExpr:
		elems := make([]string, len(n.List))
		for i, e := range n.List {
			elems[i] = a.Render(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *syntax.DotExpr:
		return a.Render(n.X) + "." + n.Name.Name
	case *syntax.CallExpr:
		args := make([]string, len(n.Args))
		for i, e := range n.Args {
			args[i] = a.ExtractText(e)
		}
		return a.Render(n.Fn) + "(" + strings.Join(args, ", ") + ")"
	}
	if s, e, ok := a.ctx.extent(node); ok {
		return string(a.ctx.Source[s:e])
	}
	return fmt.Sprintf("<%T>", node)
}

func newString(value string) *syntax.Literal {
	return &syntax.Literal{Token: syntax.STRING, Raw: syntax.Quote(value, false), Value: value}
}
