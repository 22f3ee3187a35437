package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nameof/pkg/host"
	_ "github.com/leapstack-labs/nameof/pkg/hosts/cel"
	_ "github.com/leapstack-labs/nameof/pkg/hosts/goast"
	_ "github.com/leapstack-labs/nameof/pkg/hosts/starlark"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		assert.Empty(t, FindConfigFile(t.TempDir()))
	})

	t.Run("yml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ConfigFileNameAlt, "jobs: 1\n")
		assert.Equal(t, filepath.Join(dir, ConfigFileNameAlt), FindConfigFile(dir))
	})

	t.Run("yaml wins", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ConfigFileNameAlt, "jobs: 1\n")
		writeConfig(t, dir, ConfigFileName, "jobs: 2\n")
		assert.Equal(t, filepath.Join(dir, ConfigFileName), FindConfigFile(dir))
	})
}

func TestLoadFromDir(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		cfg, err := LoadFromDir(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ConfigFileName, "include:\n  - \"*.star\"\n")

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, []string{"*.star"}, cfg.Include)
		assert.Equal(t, DefaultExclude, cfg.Exclude)
		assert.Equal(t, DefaultJobs, cfg.Jobs)
		assert.NotNil(t, cfg.Hosts)
	})

	t.Run("hosts", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ConfigFileName, `jobs: 8
hosts:
  go:
    import_path: example.com/names
  starlark:
    extensions: [BZL, " star"]
    markers: [nf]
  cel:
    enabled: false
`)

		cfg, err := LoadFromDir(dir)
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, 8, cfg.Jobs)
		assert.Equal(t, []string{"go", "starlark"}, cfg.EnabledHosts())

		opts := cfg.Hosts["starlark"].ToOptions(nil)
		assert.Equal(t, []string{".bzl", ".star"}, opts.Extensions)
		assert.Equal(t, []string{"nf"}, opts.Markers)
		assert.Equal(t, "example.com/names", cfg.Hosts["go"].ToOptions(nil).ImportPath)

		hostOpts := cfg.HostOptions(nil)
		assert.Len(t, hostOpts, 2, "disabled hosts get no options")
		assert.Equal(t, []string{"nf"}, hostOpts["starlark"].Markers)
	})

	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, ConfigFileName, "jobs: [\n")

		_, err := LoadFromDir(dir)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProjectConfig
		wantErr string
	}{
		{name: "empty", cfg: ProjectConfig{}},
		{name: "known host", cfg: ProjectConfig{Hosts: map[string]*HostConfig{"cel": nil}}},
		{name: "negative jobs", cfg: ProjectConfig{Jobs: -1}, wantErr: "jobs must not be negative"},
		{name: "unknown host", cfg: ProjectConfig{Hosts: map[string]*HostConfig{"cobol": {}}}, wantErr: `unknown host "cobol"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var unknown *host.UnknownHostError
			if tt.name == "unknown host" {
				require.ErrorAs(t, err, &unknown)
				assert.Equal(t, "cobol", unknown.Name)
			}
		})
	}
}

func TestHostConfig_IsEnabled(t *testing.T) {
	off := false
	on := true

	assert.True(t, (*HostConfig)(nil).IsEnabled())
	assert.True(t, (&HostConfig{}).IsEnabled())
	assert.True(t, (&HostConfig{Enabled: &on}).IsEnabled())
	assert.False(t, (&HostConfig{Enabled: &off}).IsEnabled())
	assert.Equal(t, host.Options{}, (*HostConfig)(nil).ToOptions(nil))
}
