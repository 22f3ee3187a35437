package starlark

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/nameof/pkg/host"
)

func TestTransformExpr_Forms(t *testing.T) {
	h := New(host.Options{})

	tests := []struct {
		src  string
		want string
	}{
		{"nameof(a.b.c)", `"c"`},
		{"nameof.full(a.b.c)", `"a.b.c"`},
		{"nameof.full(a.b.c, 1)", `"b.c"`},
		{"nameof.full(a.b.c, -1)", `"c"`},
		{"nameof.split(a.b.c)", `["a", "b", "c"]`},
		{"nameof.split(a.b.c, 2)", `["c"]`},
		{`nameof.full(a[0]["key"].c)`, `"a[0][\"key\"].c"`},
		{"nameof.full((a.b))", `"a.b"`},
		{"nameof.interpolate(rows[i].name)", `"rows[{}].name".format(i)`},
		{"nameof.interpolate(rows[i + 1])", `"rows[{}]".format(i + 1)`},
		{`nameof.interpolate(m["{x}"][k])`, `"m[\"{{x}}\"][{}]".format(k)`},
		{"nameof.interpolate(a.b)", `"a.b"`},
		{"nameof.full(rows[nameof.interpolate(i)].name)", `"rows[{}].name".format(i)`},
		{"nameof.full(a.rows[nameof.interpolate(i)], 1)", `"rows[{}]".format(i)`},
		{"nameof.full(lambda r: r.attr.srcs)", `"attr.srcs"`},
		{"len(nameof(a.b)) + 1", `len("b") + 1`},
		{"[nameof(a.x), nameof(a.y)]", `["x", "y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res, err := h.TransformExpr(tt.src)
			require.NoError(t, err)
			assert.Empty(t, res.Diagnostics)
			assert.Equal(t, tt.want, string(res.Output))
		})
	}
}

func TestTransformFile_PreservesLayout(t *testing.T) {
	src := `# rules.bzl
def _impl(ctx):
    # keep this comment
    deps = getattr(ctx.attr, nameof(ctx.attr.deps))
    label = "héllo" + nameof.full(ctx.attr.name)
    return [deps, label]
`
	want := `# rules.bzl
def _impl(ctx):
    # keep this comment
    deps = getattr(ctx.attr, "deps")
    label = "héllo" + "ctx.attr.name"
    return [deps, label]
`

	res, err := New(host.Options{}).TransformFile("rules.bzl", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replaced)
	assert.Equal(t, want, string(res.Output))

	// The output is still valid Starlark.
	_, err = syntax.Parse("out.bzl", res.Output, 0)
	require.NoError(t, err)
}

func TestTransformFile_Errors(t *testing.T) {
	src := "x = nameof(rows[i])\ny = nameof.full(f().b)\nz = nameof.split(a.b)\nw = nameof.full(a[nameof(b)])\n"

	res, err := New(host.Options{}).TransformFile("bad.star", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Replaced, "a bad site must not stop later sites")
	require.Len(t, res.Diagnostics, 3)

	assert.Equal(t, "dynamic-segment", res.Diagnostics[0].Code)
	assert.Equal(t, 1, res.Diagnostics[0].Span.Start.Line)
	assert.Equal(t, 17, res.Diagnostics[0].Span.Start.Column)
	assert.Equal(t, "i", res.Diagnostics[0].Source)

	assert.Equal(t, "unrecognized-shape", res.Diagnostics[1].Code)
	assert.Equal(t, "f()", res.Diagnostics[1].Source)

	assert.Equal(t, "misplaced-marker", res.Diagnostics[2].Code)
	assert.Equal(t, "nameof(b)", res.Diagnostics[2].Source)

	assert.Contains(t, string(res.Output), `z = ["a", "b"]`)
	assert.Contains(t, string(res.Output), "x = nameof(rows[i])")
}

func TestTransformExpr_NestedInterpolateOutsideFull(t *testing.T) {
	res, err := New(host.Options{}).TransformExpr("nameof.split(rows[nameof.interpolate(i)])")
	require.NoError(t, err)

	assert.Equal(t, 0, res.Replaced)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "misplaced-marker", res.Diagnostics[0].Code)
	assert.Equal(t, "nameof.interpolate(i)", res.Diagnostics[0].Source)
}

func TestTransformFile_CustomMarker(t *testing.T) {
	h := New(host.Options{Markers: []string{"nf"}})

	res, err := h.TransformFile("x.star", []byte("a = nf.full(x.y)\nb = nameof(x.y)\n"))
	require.NoError(t, err)
	assert.Equal(t, "a = \"x.y\"\nb = nameof(x.y)\n", string(res.Output))
}

func TestTransformFile_ParseError(t *testing.T) {
	_, err := New(host.Options{}).TransformFile("broken.star", []byte("def (:\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.star")
}

func TestTransformFile_Idempotent(t *testing.T) {
	h := New(host.Options{})
	first, err := h.TransformFile("x.star", []byte("a = nameof.split(x.y)\n"))
	require.NoError(t, err)
	require.Equal(t, 1, first.Replaced)

	second, err := h.TransformFile("x.star", first.Output)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Replaced)
	assert.Equal(t, string(first.Output), string(second.Output))
}

func TestContext_IndexExtent(t *testing.T) {
	src := []byte("x = a.b[0]\n")
	f, err := syntax.Parse("x.star", src, 0)
	require.NoError(t, err)

	assign := f.Stmts[0].(*syntax.AssignStmt)
	ctx := NewContext("x.star", src)
	a := NewAdapter(ctx, nil)
	assert.Equal(t, "a.b[0]", a.ExtractText(assign.RHS))
}

func TestNew_DiscardsLogsByDefault(t *testing.T) {
	assert.Equal(t, slog.DiscardHandler, New(host.Options{}).logger.Handler())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, New(host.Options{Logger: logger}).logger)
}
