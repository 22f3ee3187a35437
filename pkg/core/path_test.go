package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(n *tnode) ParsedNode[*tnode] {
	return Parse[*tnode](&testAdapter{}, NewNameResolver("nameof"), n)
}

func TestParse_Variants(t *testing.T) {
	tests := []struct {
		name string
		node *tnode
		want NodeKind
	}{
		{"identifier", id("a"), IdentifierNodeKind},
		{"property", chain("a.b"), PropertyAccessNodeKind},
		{"index", idx(id("a"), num("0")), IndexAccessNodeKind},
		{"string", str("k"), StringLiteralNodeKind},
		{"number", num("1"), NumericLiteralNodeKind},
		{"call", call(id("f")), CallNodeKind},
		{"marker call", call(marker("full"), id("a")), CallNodeKind},
		{"interpolation", call(marker("interpolate"), id("a")), InterpolationNodeKind},
		{"function", fn([]string{"o"}, chain("o.a")), FunctionNodeKind},
		{"spread", spread(id("a")), UnsupportedNodeKind},
		{"parenthesized", paren(paren(id("a"))), IdentifierNodeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(tt.node).Kind())
		})
	}
}

func TestParse_MarkerCall(t *testing.T) {
	n, ok := parse(call(marker("split"), id("a"))).(*CallNode[*tnode])
	require.True(t, ok)
	assert.True(t, n.IsMarker)
	assert.Equal(t, MarkerSplit, n.Marker)

	n, ok = parse(call(id("f"), id("a"))).(*CallNode[*tnode])
	require.True(t, ok)
	assert.False(t, n.IsMarker)
}

func TestPathOf(t *testing.T) {
	x := id("x")
	root := id("a")
	node := parse(prop(idx(prop(root, "b"), x), "d"))

	parts := PathOf(node)
	require.Len(t, parts, 4)

	assert.Equal(t, IdentifierPart, parts[0].Kind)
	assert.Equal(t, "a", parts[0].Value)
	assert.Equal(t, PropertyAccessPart, parts[1].Kind)
	assert.Equal(t, "b", parts[1].Value)
	assert.Equal(t, IndexAccessPart, parts[2].Kind)
	assert.True(t, parts[2].Dynamic)
	assert.Same(t, x, parts[2].Source)
	assert.Equal(t, "d", parts[3].Value)

	r, ok := RootOf(node).(*IdentifierNode[*tnode])
	require.True(t, ok)
	assert.Same(t, root, r.Source())
}

func TestPathOf_InterpolatedIndex(t *testing.T) {
	x := id("x")
	parts := PathOf(parse(idx(id("a"), call(marker("interpolate"), x))))
	require.Len(t, parts, 2)

	assert.True(t, parts[1].Dynamic)
	assert.True(t, parts[1].Interpolated)
	assert.Same(t, x, parts[1].Source, "the live expression is the marker's argument")

	parts = PathOf(parse(idx(id("a"), x)))
	require.Len(t, parts, 2)
	assert.False(t, parts[1].Interpolated)
}

func TestPathOf_AppendsToInner(t *testing.T) {
	node, ok := parse(chain("a.b.c")).(*PropertyAccessNode[*tnode])
	require.True(t, ok)

	self, ok := PathPartOf[*tnode](node)
	require.True(t, ok)

	want := append(PathOf(node.Expression), self)
	assert.Equal(t, want, PathOf[*tnode](node))
}

func TestRootOf_Stable(t *testing.T) {
	host := chain("a.b.c")
	first := RootOf(parse(host))
	second := RootOf(parse(host))

	assert.Same(t, first.Source(), second.Source())
	assert.Same(t, RootOf(first), first, "the root of a root is itself")
}

func TestPathPartOf_Literals(t *testing.T) {
	part, ok := PathPartOf(parse(idx(id("a"), str("key"))))
	require.True(t, ok)
	assert.True(t, part.Quoted)
	assert.Equal(t, "key", part.Value)
	assert.Equal(t, `["key"]`, part.Text(false))

	part, ok = PathPartOf(parse(idx(id("a"), num("2"))))
	require.True(t, ok)
	assert.False(t, part.Quoted)
	assert.Equal(t, "[2]", part.Text(false))

	_, ok = PathPartOf(parse(str("a")))
	assert.False(t, ok)
	assert.Empty(t, PathOf(parse(call(id("f")))))
}

func TestApplyDepth(t *testing.T) {
	full := PathOf(parse(chain("a.b.c")))

	tests := []struct {
		depth int
		want  []string
		ok    bool
	}{
		{0, []string{"a", "b", "c"}, true},
		{1, []string{"b", "c"}, true},
		{2, []string{"c"}, true},
		{3, nil, false},
		{-1, []string{"c"}, true},
		{-3, []string{"a", "b", "c"}, true},
		{-4, nil, false},
	}

	for _, tt := range tests {
		got, ok := applyDepth(full, tt.depth)
		assert.Equal(t, tt.ok, ok, "depth %d", tt.depth)
		if ok {
			assert.Equal(t, tt.want, RenderSplit(got), "depth %d", tt.depth)
		}
	}
}

func TestRenderFull_StartsWithProperty(t *testing.T) {
	trimmed, ok := applyDepth(PathOf(parse(prop(idx(id("a"), num("0")), "b"))), 1)
	require.True(t, ok)
	assert.Equal(t, "[0].b", RenderFull(trimmed))

	trimmed, ok = applyDepth(PathOf(parse(chain("a.b.c"))), 1)
	require.True(t, ok)
	assert.Equal(t, "b.c", RenderFull(trimmed))
}
