// Package config provides configuration management for the nameof CLI.
//
// This package extends the shared project configuration from internal/config
// with CLI-specific fields. The shared types are re-exported here via type
// aliases for convenience.
package config

import (
	sharedcfg "github.com/leapstack-labs/nameof/internal/config"
)

// HostConfig is an alias for the shared host configuration.
// This allows CLI code to use config.HostConfig without importing internal/config.
type HostConfig = sharedcfg.HostConfig

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot  string                 `koanf:"-"`
	Include      []string               `koanf:"include"`
	Exclude      []string               `koanf:"exclude"`
	Jobs         int                    `koanf:"jobs"`
	Verbose      bool                   `koanf:"verbose"`
	OutputFormat string                 `koanf:"output"`
	Hosts        map[string]*HostConfig `koanf:"hosts"`
}

// Project returns the shared project configuration carried by c.
func (c *Config) Project() *ProjectConfig {
	p := &ProjectConfig{
		Include: c.Include,
		Exclude: c.Exclude,
		Jobs:    c.Jobs,
		Hosts:   c.Hosts,
	}
	p.ApplyDefaults()
	return p
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultJobs   = sharedcfg.DefaultJobs
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "text", "markdown", "json"}
