package core

import (
	"errors"
	"strings"
)

// tnode is a minimal syntax tree used to drive the transformer in tests.
type tnode struct {
	shape  ShapeKind
	name   string
	value  string
	object *tnode
	index  *tnode
	callee *tnode
	args   []*tnode
	targs  []*tnode
	params []string
	body   *tnode

	// set on synthesized nodes
	synthesized bool
	values      []string
	parts       []TemplatePart[*tnode]
}

func id(name string) *tnode { return &tnode{shape: ShapeIdentifier, name: name} }
func prop(x *tnode, n string) *tnode { return &tnode{shape: ShapePropertyAccess, object: x, name: n} }
func idx(x, i *tnode) *tnode { return &tnode{shape: ShapeIndexAccess, object: x, index: i} }
func str(v string) *tnode { return &tnode{shape: ShapeStringLiteral, value: v} }
func num(v string) *tnode { return &tnode{shape: ShapeNumericLiteral, value: v} }
func paren(x *tnode) *tnode { return &tnode{shape: ShapeParenthesized, object: x} }
func spread(x *tnode) *tnode { return &tnode{shape: ShapeSpread, object: x} }
func call(c *tnode, a ...*tnode) *tnode { return &tnode{shape: ShapeCall, callee: c, args: a} }

func typed(c *tnode, targs []*tnode, a ...*tnode) *tnode {
	return &tnode{shape: ShapeCall, callee: c, targs: targs, args: a}
}

func fn(params []string, body *tnode) *tnode {
	return &tnode{shape: ShapeFunction, params: params, body: body}
}

// chain parses a dotted path such as "a.b.c" into an access chain.
func chain(p string) *tnode {
	segs := strings.Split(p, ".")
	n := id(segs[0])
	for _, s := range segs[1:] {
		n = prop(n, s)
	}
	return n
}

// marker returns the callee nameof.<member>, or nameof for an empty member.
func marker(member string) *tnode {
	if member == "" {
		return id("nameof")
	}
	return prop(id("nameof"), member)
}

func (n *tnode) String() string {
	switch {
	case n == nil:
		return "<nil>"
	case n.synthesized && n.values != nil:
		return "[" + strings.Join(n.values, ", ") + "]"
	case n.synthesized && n.parts != nil:
		var sb strings.Builder
		for _, p := range n.parts {
			if p.IsExpr {
				sb.WriteString("${" + p.Expr.String() + "}")
			} else {
				sb.WriteString(p.Text)
			}
		}
		return "`" + sb.String() + "`"
	}
	switch n.shape {
	case ShapeIdentifier:
		return n.name
	case ShapePropertyAccess:
		return n.object.String() + "." + n.name
	case ShapeIndexAccess:
		return n.object.String() + "[" + n.index.String() + "]"
	case ShapeStringLiteral:
		return `"` + n.value + `"`
	case ShapeNumericLiteral:
		return n.value
	case ShapeParenthesized:
		return "(" + n.object.String() + ")"
	case ShapeSpread:
		return "..." + n.object.String()
	case ShapeFunction:
		return "(" + strings.Join(n.params, ", ") + ") => " + n.body.String()
	case ShapeCall:
		var sb strings.Builder
		sb.WriteString(n.callee.String())
		if len(n.targs) > 0 {
			targs := make([]string, len(n.targs))
			for i, a := range n.targs {
				targs[i] = a.String()
			}
			sb.WriteString("<" + strings.Join(targs, ", ") + ">")
		}
		args := make([]string, len(n.args))
		for i, a := range n.args {
			args[i] = a.String()
		}
		sb.WriteString("(" + strings.Join(args, ", ") + ")")
		return sb.String()
	default:
		return "?"
	}
}

type reported struct {
	err  error
	node *tnode
}

// testAdapter implements Adapter over tnode.
type testAdapter struct {
	reports  []reported
	extracts int
	failWith error
}

func (a *testAdapter) Classify(n *tnode) Shape[*tnode] {
	if n == nil || n.synthesized {
		return Shape[*tnode]{Kind: ShapeUnknown}
	}
	return Shape[*tnode]{
		Kind:          n.shape,
		Name:          n.name,
		Value:         n.value,
		Object:        n.object,
		Index:         n.index,
		Callee:        n.callee,
		Arguments:     n.args,
		TypeArguments: n.targs,
		Parameters:    n.params,
		Body:          n.body,
	}
}

func (a *testAdapter) ExtractText(n *tnode) string {
	a.extracts++
	return n.String()
}

func (a *testAdapter) Members() map[string]MarkerKind { return DefaultMembers() }

func (a *testAdapter) StringLiteral(_ *tnode, value string) (*tnode, error) {
	if a.failWith != nil {
		return nil, a.failWith
	}
	return &tnode{shape: ShapeStringLiteral, value: value, synthesized: true}, nil
}

func (a *testAdapter) ArrayLiteral(_ *tnode, values []string) (*tnode, error) {
	if a.failWith != nil {
		return nil, a.failWith
	}
	return &tnode{synthesized: true, values: values}, nil
}

func (a *testAdapter) Template(_ *tnode, parts []TemplatePart[*tnode]) (*tnode, error) {
	if a.failWith != nil {
		return nil, a.failWith
	}
	return &tnode{synthesized: true, parts: parts}, nil
}

func (a *testAdapter) HandleError(err error, n *tnode) {
	a.reports = append(a.reports, reported{err: err, node: n})
}

var errSynthesis = errors.New("cannot synthesize")

// run visits a single call and returns its replacement, if any.
func run(a *testAdapter, c *tnode) (*tnode, bool) {
	t := NewTransformer[*tnode](a, NewNameResolver("nameof"))
	var out *tnode
	handled := t.Visit(c, func(n *tnode) { out = n })
	return out, handled
}
