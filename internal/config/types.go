// Package config provides shared configuration types for nameof.
// This package is decoupled from CLI concerns and can be used by the engine
// and other tools that need to load project configuration.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/nameof/pkg/host"
)

// HostConfig holds the configuration of one host.
type HostConfig struct {
	// Enabled turns the host off when explicitly false.
	Enabled *bool `koanf:"enabled"`

	// Extensions overrides the file extensions the host handles.
	Extensions []string `koanf:"extensions"`

	// Markers overrides the identifiers treated as the marker.
	Markers []string `koanf:"markers"`

	// ImportPath is the marker package path (Go host only).
	ImportPath string `koanf:"import_path"`
}

// IsEnabled reports whether the host is enabled. Hosts are enabled by default.
func (h *HostConfig) IsEnabled() bool {
	return h == nil || h.Enabled == nil || *h.Enabled
}

// ToOptions converts HostConfig to host.Options.
func (h *HostConfig) ToOptions(logger *slog.Logger) host.Options {
	opts := host.Options{Logger: logger}
	if h == nil {
		return opts
	}
	opts.Extensions = normalizeExtensions(h.Extensions)
	opts.Markers = h.Markers
	opts.ImportPath = h.ImportPath
	return opts
}

// ProjectConfig holds the project configuration shared by the CLI and the engine.
type ProjectConfig struct {
	// Include lists glob patterns of files to transform; empty means all.
	Include []string `koanf:"include"`

	// Exclude lists glob patterns of files and directories to skip.
	Exclude []string `koanf:"exclude"`

	// Jobs is the number of files transformed in parallel.
	Jobs int `koanf:"jobs"`

	// Hosts maps host names to their configuration.
	Hosts map[string]*HostConfig `koanf:"hosts"`
}

// Validate checks that every configured host exists and the job count is sane.
func (c *ProjectConfig) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	for name := range c.Hosts {
		if !host.IsRegistered(strings.ToLower(name)) {
			return &host.UnknownHostError{
				Name:      name,
				Available: host.List(),
			}
		}
	}
	return nil
}

// EnabledHosts returns the names of enabled hosts (sorted).
// Every registered host is enabled unless switched off in the config.
func (c *ProjectConfig) EnabledHosts() []string {
	var names []string
	for _, name := range host.List() {
		if c.Hosts[name].IsEnabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// HostOptions returns the options of every enabled host, keyed by name.
func (c *ProjectConfig) HostOptions(logger *slog.Logger) map[string]host.Options {
	opts := make(map[string]host.Options)
	for _, name := range c.EnabledHosts() {
		opts[name] = c.Hosts[name].ToOptions(logger)
	}
	return opts
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
