package config

// Default configuration values.
const (
	DefaultJobs = 4
)

// DefaultExclude lists directories that never hold sources to transform.
var DefaultExclude = []string{".git", "vendor", "node_modules", "testdata"}

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if c.Jobs == 0 {
		c.Jobs = DefaultJobs
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), DefaultExclude...)
	}
	if c.Hosts == nil {
		c.Hosts = make(map[string]*HostConfig)
	}
}

// ApplyDefaults applies default values to the config.
func (c *ProjectConfig) ApplyDefaults() {
	ApplyDefaults(c)
}
