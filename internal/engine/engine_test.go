package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nameof/internal/testutil"
	"github.com/leapstack-labs/nameof/pkg/host"
	_ "github.com/leapstack-labs/nameof/pkg/hosts/goast"
	_ "github.com/leapstack-labs/nameof/pkg/hosts/starlark"
)

const goSource = `package demo

import "github.com/leapstack-labs/nameof/pkg/nameof"

type User struct{ Name string }

var u User

var field = nameof.Name(u.Name)
`

// writeTree creates files under root from a path->content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
}

func newTestEngine(t *testing.T, root string, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := Config{
		Root: root,
		Hosts: map[string]host.Options{
			"go":       {},
			"starlark": {},
		},
		Jobs:   2,
		Logger: testutil.NewTestLogger(t),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := New(cfg)
	require.NoError(t, err)
	return eng
}

func TestNew(t *testing.T) {
	t.Run("no hosts", func(t *testing.T) {
		_, err := New(Config{Root: t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no hosts enabled")
	})

	t.Run("unknown host", func(t *testing.T) {
		_, err := New(Config{Root: t.TempDir(), Hosts: map[string]host.Options{"cobol": {}}})
		require.Error(t, err)
		var unknown *host.UnknownHostError
		require.True(t, errors.As(err, &unknown), "error should be an UnknownHostError")
		assert.Equal(t, "cobol", unknown.Name)
	})

	t.Run("hosts sorted by name", func(t *testing.T) {
		eng := newTestEngine(t, t.TempDir(), nil)
		var names []string
		for _, h := range eng.Hosts() {
			names = append(names, h.Name())
		}
		assert.Equal(t, []string{"go", "starlark"}, names)

		h, ok := eng.Host("starlark")
		require.True(t, ok)
		assert.Equal(t, "starlark", h.Name())

		_, ok = eng.Host("cel")
		assert.False(t, ok, "cel is not configured")
	})

	t.Run("default jobs", func(t *testing.T) {
		eng := newTestEngine(t, t.TempDir(), func(c *Config) { c.Jobs = 0 })
		assert.Equal(t, DefaultJobs, eng.jobs)
	})
}

func TestRel(t *testing.T) {
	root := t.TempDir()
	eng := newTestEngine(t, root, nil)

	assert.Equal(t, filepath.Join("sub", "a.star"), eng.Rel(filepath.Join(root, "sub", "a.star")))
	outside := filepath.Join(filepath.Dir(root), "elsewhere.star")
	assert.Equal(t, outside, eng.Rel(outside), "paths outside the root stay unchanged")
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.star":         "",
		"b.go":           "package b\n",
		"c.txt":          "",
		".hidden/d.star": "",
		"vendor/e.star":  "",
		"gen/f.star":     "",
		"sub/g.bzl":      "",
		"sub/h_test.go":  "package sub\n",
	})

	rel := func(eng *Engine, files []string) []string {
		out := make([]string, len(files))
		for i, f := range files {
			out[i] = filepath.ToSlash(eng.Rel(f))
		}
		return out
	}

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{
			name:    "exclude",
			exclude: []string{"vendor", "gen/*"},
			want:    []string{"a.star", "b.go", "sub/g.bzl", "sub/h_test.go"},
		},
		{
			name:    "exclude by base name",
			exclude: []string{"vendor", "gen", "*_test.go"},
			want:    []string{"a.star", "b.go", "sub/g.bzl"},
		},
		{
			name:    "include",
			include: []string{"sub/*"},
			exclude: []string{"vendor"},
			want:    []string{"sub/g.bzl", "sub/h_test.go"},
		},
		{
			name: "no patterns",
			want: []string{"a.star", "b.go", "gen/f.star", "sub/g.bzl", "sub/h_test.go", "vendor/e.star"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newTestEngine(t, root, func(c *Config) {
				c.Include = tt.include
				c.Exclude = tt.exclude
			})
			files, err := eng.Discover()
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(eng, files))
		})
	}

	t.Run("explicit file bypasses exclude", func(t *testing.T) {
		eng := newTestEngine(t, root, func(c *Config) { c.Exclude = []string{"vendor"} })
		files, err := eng.Discover(filepath.Join(root, "vendor", "e.star"), filepath.Join(root, "vendor", "e.star"))
		require.NoError(t, err)
		assert.Equal(t, []string{"vendor/e.star"}, rel(eng, files), "duplicates are dropped")
	})

	t.Run("explicit file without host", func(t *testing.T) {
		eng := newTestEngine(t, root, nil)
		_, err := eng.Discover(filepath.Join(root, "c.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no enabled host handles")
	})

	t.Run("missing path", func(t *testing.T) {
		eng := newTestEngine(t, root, nil)
		_, err := eng.Discover(filepath.Join(root, "missing"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.star":     "x = nameof.full(a.b.c)\n",
		"same.star":   "x = 1\n",
		"bad.star":    "y = nameof(rows[i])\n",
		"broken.star": "x = (\n",
		"demo.go":     goSource,
	})

	eng := newTestEngine(t, root, nil)
	files, err := eng.Discover()
	require.NoError(t, err)
	require.Len(t, files, 5)

	res, err := eng.Run(context.Background(), files, RunOptions{})
	require.NoError(t, err)

	require.Len(t, res.Errors, 1, "the unparsable file should fail")
	assert.Equal(t, "broken.star", res.Errors[0].Path)

	require.Len(t, res.Files, 4)
	byPath := make(map[string]FileResult)
	for _, f := range res.Files {
		byPath[f.Path] = f
	}
	assert.Equal(t, []string{"bad.star", "demo.go", "ok.star", "same.star"},
		[]string{res.Files[0].Path, res.Files[1].Path, res.Files[2].Path, res.Files[3].Path},
		"results should be sorted by path")

	ok := byPath["ok.star"]
	assert.True(t, ok.Changed)
	assert.Equal(t, 1, ok.Replaced)
	assert.Equal(t, "starlark", ok.Host)
	assert.Equal(t, "x = \"a.b.c\"\n", string(ok.Output))
	assert.False(t, ok.Written, "files are not written without Write")

	demo := byPath["demo.go"]
	assert.True(t, demo.Changed)
	assert.Equal(t, "go", demo.Host)
	assert.Contains(t, string(demo.Output), `var field = "Name"`)
	assert.NotContains(t, string(demo.Output), "nameof", "the unused marker import should be removed")

	assert.False(t, byPath["same.star"].Changed)

	bad := byPath["bad.star"]
	assert.False(t, bad.Changed)
	require.Len(t, bad.Diagnostics, 1)
	assert.Equal(t, "bad.star", bad.Diagnostics[0].File)
	assert.Equal(t, "dynamic-segment", bad.Diagnostics[0].Code)

	assert.Equal(t, 2, res.Changed())
	assert.Equal(t, 2, res.Replaced())
	assert.Len(t, res.Diagnostics(), 1)
	assert.True(t, res.HasErrors())

	// Nothing was written
	content, err := os.ReadFile(filepath.Join(root, "ok.star"))
	require.NoError(t, err)
	assert.Equal(t, "x = nameof.full(a.b.c)\n", string(content))
}

func TestRun_Write(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"ok.star": "x = nameof.split(a.b)\n",
	})
	eng := newTestEngine(t, root, nil)
	files, err := eng.Discover()
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), files, RunOptions{Write: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.True(t, res.Files[0].Written)
	assert.False(t, res.HasErrors())

	content, err := os.ReadFile(filepath.Join(root, "ok.star"))
	require.NoError(t, err)
	assert.Equal(t, "x = [\"a\", \"b\"]\n", string(content))

	// A second run finds nothing left to do
	res, err = eng.Run(context.Background(), files, RunOptions{Write: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.False(t, res.Files[0].Changed)
	assert.False(t, res.Files[0].Written)
}

func TestRun_Canceled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.star": "x = nameof(a.b)\n"})
	eng := newTestEngine(t, root, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.Run(ctx, []string{filepath.Join(root, "ok.star")}, RunOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileResult_Diff(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ok.star": "a = 1\nx = nameof(a.b)\n"})
	eng := newTestEngine(t, root, nil)

	res, err := eng.TransformFile(filepath.Join(root, "ok.star"), RunOptions{})
	require.NoError(t, err)

	diff := res.Diff()
	assert.Contains(t, diff, "--- a/ok.star")
	assert.Contains(t, diff, "+++ b/ok.star")
	assert.Contains(t, diff, "-x = nameof(a.b)")
	assert.Contains(t, diff, "+x = \"b\"")

	unchanged := FileResult{Path: "same.star"}
	assert.Empty(t, unchanged.Diff())
}
