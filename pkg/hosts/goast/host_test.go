package goast

import (
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nameof/pkg/core"
	"github.com/leapstack-labs/nameof/pkg/host"
)

const header = `package demo

import (
	"github.com/leapstack-labs/nameof/pkg/nameof"
)

`

func transform(t *testing.T, body string) *host.Result {
	t.Helper()
	h := New(host.Options{})
	res, err := h.TransformFile("demo.go", []byte(header+body))
	require.NoError(t, err)

	// Whatever happens, the output must still be valid Go.
	_, err = parser.ParseFile(token.NewFileSet(), "out.go", res.Output, 0)
	require.NoError(t, err, "output should parse:\n%s", res.Output)
	return res
}

func TestTransformFile_Forms(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"name", "nameof.Name(cfg.Server.Port)", `"Port"`},
		{"full", "nameof.Full(cfg.Server.Port)", `"cfg.Server.Port"`},
		{"full depth", "nameof.Full(cfg.Server.Port, 1)", `"Server.Port"`},
		{"full negative depth", "nameof.Full(cfg.Server.Port, -2)", `"Server.Port"`},
		{"split", "nameof.Split(cfg.Server.Port)", `[]string{"cfg", "Server", "Port"}`},
		{"index", `nameof.Full(rows[0].Tags["env"])`, `"rows[0].Tags[\"env\"]"`},
		{"hex index", "nameof.Full(rows[0x10])", `"rows[16]"`},
		{"pointer", "nameof.Full((*cfg).Server)", `"cfg.Server"`},
		{"typed", "nameof.NameOf[store.Order]()", `"Order"`},
		{"typed full", "nameof.FullOf[store.Order]()", `"store.Order"`},
		{"typed pointer", "nameof.NameOf[*Order]()", `"Order"`},
		{"typed generic", "nameof.NameOf[List[int]]()", `"List"`},
		{"typed depth", "nameof.SplitOf[store.Order](1)", `[]string{"Order"}`},
		{"function", "nameof.Full(func(o Order) any { return o.Customer.Email })", `"Customer.Email"`},
		{"explicit instantiation", "nameof.Name[int](cfg.Port)", `"Port"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := transform(t, "var x = "+tt.expr+"\n")
			assert.Equal(t, 1, res.Replaced)
			assert.Empty(t, res.Diagnostics)
			assert.Contains(t, string(res.Output), "var x = "+tt.want)
			assert.NotContains(t, string(res.Output), "pkg/nameof", "unused marker import should be removed")
		})
	}
}

func TestTransformFile_Interpolate(t *testing.T) {
	res := transform(t, "func f(rows []Row, i int) string {\n\treturn nameof.Interpolate(rows[i].Name)\n}\n")

	require.Equal(t, 1, res.Replaced)
	out := string(res.Output)
	assert.Contains(t, out, `return fmt.Sprintf("rows[%v].Name", i)`)
	assert.Contains(t, out, `"fmt"`)
	assert.NotContains(t, out, "pkg/nameof")
}

func TestTransformFile_InterpolateEscapesPercent(t *testing.T) {
	res := transform(t, "var x = nameof.Interpolate(m[\"100%\"][k])\n")

	require.Equal(t, 1, res.Replaced)
	assert.Contains(t, string(res.Output), `fmt.Sprintf("m[\"100%%\"][%v]", k)`)
}

func TestTransformFile_ExistingFmtAlias(t *testing.T) {
	src := `package demo

import (
	f "fmt"

	"github.com/leapstack-labs/nameof/pkg/nameof"
)

var _ = f.Sprint
var x = nameof.Interpolate(rows[i])
`
	res, err := New(host.Options{}).TransformFile("demo.go", []byte(src))
	require.NoError(t, err)

	out := string(res.Output)
	assert.Contains(t, out, `var x = f.Sprintf("rows[%v]", i)`)
	assert.NotContains(t, out, "\t\"fmt\"", "fmt must not be imported twice")
}

func TestTransformFile_NamedImport(t *testing.T) {
	src := `package demo

import nf "github.com/leapstack-labs/nameof/pkg/nameof"

var x = nf.Name(a.b)
var y = nameof.Name(a.b)
`
	res, err := New(host.Options{}).TransformFile("demo.go", []byte(src))
	require.NoError(t, err)

	out := string(res.Output)
	assert.Equal(t, 1, res.Replaced)
	assert.Contains(t, out, `var x = "b"`)
	assert.Contains(t, out, "var y = nameof.Name(a.b)", "only the imported name is a marker")
}

func TestTransformFile_Errors(t *testing.T) {
	res := transform(t, "func f(rows []Row, i int) {\n\t_ = nameof.Name(rows[i])\n\t_ = nameof.Full(rows.Count)\n}\n")

	assert.Equal(t, 1, res.Replaced, "a bad site must not stop later sites")
	require.Len(t, res.Diagnostics, 1)

	d := res.Diagnostics[0]
	assert.Equal(t, "dynamic-segment", d.Code)
	assert.Equal(t, "demo.go", d.File)
	assert.Equal(t, 8, d.Span.Start.Line)
	assert.Equal(t, "i", d.Source)
	assert.Equal(t, core.SeverityError, d.Severity)

	out := string(res.Output)
	assert.Contains(t, out, "nameof.Name(rows[i])", "failed site is left untouched")
	assert.Contains(t, out, `_ = "rows.Count"`)
	assert.Contains(t, out, "pkg/nameof", "import is still used by the failed site")
}

func TestTransformFile_GoStatement(t *testing.T) {
	res := transform(t, "func f() {\n\tgo nameof.Name(a.b)\n}\n")

	assert.Equal(t, 0, res.Replaced)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "misplaced-marker", res.Diagnostics[0].Code)
}

func TestTransformFile_ExpressionStatement(t *testing.T) {
	res := transform(t, "func f() {\n\tnameof.Name(a.b)\n}\n")

	assert.Equal(t, 0, res.Replaced)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "misplaced-marker", res.Diagnostics[0].Code)
	assert.Contains(t, string(res.Output), "\tnameof.Name(a.b)\n", "a statement is left untouched")
}

func TestTransformFile_ShadowedMarker(t *testing.T) {
	tests := []struct {
		name string
		body string
		kept string
	}{
		{
			name: "parameter",
			body: "func g(nameof T) {\n\t_ = nameof.Full(x.y)\n}\n",
			kept: "_ = nameof.Full(x.y)",
		},
		{
			name: "local variable",
			body: "func g() {\n\tnameof := lookup{}\n\t_ = nameof.Name(x.y)\n}\n",
			kept: "_ = nameof.Name(x.y)",
		},
		{
			name: "closure parameter",
			body: "var g = func(nameof T) string { return nameof.Full(x.y) }\n",
			kept: "return nameof.Full(x.y)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := transform(t, tt.body+"var z = nameof.Full(x.y)\n")

			assert.Equal(t, 1, res.Replaced)
			assert.Empty(t, res.Diagnostics)
			out := string(res.Output)
			assert.Contains(t, out, tt.kept, "calls on a local binding are not marker calls")
			assert.Contains(t, out, `var z = "x.y"`)
		})
	}
}

func TestTransformFile_NestedInterpolate(t *testing.T) {
	res := transform(t, "var x = nameof.Full(rows[nameof.Interpolate(i)].Name)\n")

	require.Equal(t, 1, res.Replaced)
	assert.Empty(t, res.Diagnostics)
	out := string(res.Output)
	assert.Contains(t, out, `var x = fmt.Sprintf("rows[%v].Name", i)`)
	assert.NotContains(t, out, "pkg/nameof")

	res = transform(t, "var x = nameof.Name(rows[nameof.Interpolate(i)])\n")
	assert.Equal(t, 0, res.Replaced)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "misplaced-marker", res.Diagnostics[0].Code)
}

func TestTransformFile_BlankFmtImport(t *testing.T) {
	src := `package demo

import (
	_ "fmt"

	"github.com/leapstack-labs/nameof/pkg/nameof"
)

var x = nameof.Interpolate(rows[i])
`
	res, err := New(host.Options{}).TransformFile("demo.go", []byte(src))
	require.NoError(t, err)

	out := string(res.Output)
	assert.Contains(t, out, `var x = fmt.Sprintf("rows[%v]", i)`)
	assert.Equal(t, 1, strings.Count(out, `"fmt"`), "the blank import is reused:\n%s", out)
	assert.NotContains(t, out, `_ "fmt"`)
}

func TestTransformFile_Untouched(t *testing.T) {
	h := New(host.Options{})

	src := []byte("package demo\n\nfunc f() {}\n")
	res, err := h.TransformFile("plain.go", src)
	require.NoError(t, err)
	assert.Equal(t, src, res.Output)
	assert.False(t, res.Changed())

	// Files without the marker import are not parsed at all.
	broken := []byte("package demo\n\nfunc {")
	res, err = h.TransformFile("broken.go", broken)
	require.NoError(t, err)
	assert.Equal(t, broken, res.Output)
}

func TestTransformFile_ParseError(t *testing.T) {
	_, err := New(host.Options{}).TransformFile("broken.go", []byte(header+"func {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.go")
}

func TestTransformFile_Idempotent(t *testing.T) {
	first := transform(t, "var x = nameof.Split(a.b)\n")
	require.Equal(t, 1, first.Replaced)

	second, err := New(host.Options{}).TransformFile("demo.go", first.Output)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Replaced)
	assert.Equal(t, first.Output, second.Output)
}

func TestTransformExpr(t *testing.T) {
	h := New(host.Options{})

	tests := []struct {
		src  string
		want string
	}{
		{"nameof.Full(a.b.c, 1)", `"b.c"`},
		{"nameof.Split(a[1])", `[]string{"a", "1"}`},
		{"nameof.Interpolate(a[i].c)", `fmt.Sprintf("a[%v].c", i)`},
		{"len(nameof.Name(a.b))", `len("b")`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res, err := h.TransformExpr(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(res.Output))
		})
	}
}

func TestRegistered(t *testing.T) {
	h, err := host.New(Name, host.Options{Extensions: []string{".gox"}})
	require.NoError(t, err)
	assert.Equal(t, []string{".gox"}, h.Extensions())
}

func TestNew_DiscardsLogsByDefault(t *testing.T) {
	assert.Equal(t, slog.DiscardHandler, New(host.Options{}).logger.Handler())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, New(host.Options{Logger: logger}).logger)
}
