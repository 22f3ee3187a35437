package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty piped", "", false, ModeMarkdown},
		{"unknown on tty", "fancy", true, ModeText},
		{"explicit text piped", ModeText, false, ModeText},
		{"explicit json on tty", ModeJSON, true, ModeJSON},
		{"explicit markdown on tty", ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY(), "a buffer is never a terminal")
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestRenderer_MarkdownHasNoANSI(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeMarkdown)

	r.Header(1, "Results")
	r.Success("done")
	r.Error("failed")
	r.Println(r.Styles().Path.Render("a/b.go"))

	assert.False(t, ansiPattern.MatchString(out.String()), "stdout should be plain: %q", out.String())
	assert.False(t, ansiPattern.MatchString(errOut.String()), "stderr should be plain: %q", errOut.String())
	assert.Contains(t, out.String(), "# Results")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "failed")
}

func TestRenderer_JSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(HostsOutput{Hosts: []HostInfo{{Name: "go", Extensions: []string{".go"}, Enabled: true}}}))

	var decoded HostsOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Hosts, 1)
	assert.Equal(t, "go", decoded.Hosts[0].Name)
}

func TestRenderer_Table(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
		r.Table([]string{"Host", "Extensions"}, [][]string{{"go", ".go"}})

		assert.Contains(t, strings.ToLower(out.String()), "| host | extensions |")
		assert.Contains(t, out.String(), "| go | .go |")
	})

	t.Run("text", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, true, ModeText)
		r.Table([]string{"Host"}, [][]string{{"starlark"}})

		assert.Contains(t, out.String(), "starlark")
		assert.Contains(t, out.String(), "┌", "text tables use box drawing")
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Files", FormatHeader(2, "Files"))
	assert.Equal(t, "# Files", FormatHeader(0, "Files"))
	assert.Equal(t, "- **Replaced**: 3", FormatKeyValue("Replaced", "3"))
	assert.Equal(t, "```go\nx := 1\n```", FormatCode("go", "x := 1\n"))
}
