// Package engine runs nameof hosts over a project tree.
// It handles file discovery, parallel transformation and watch mode.
package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/nameof/pkg/host"
)

// Engine transforms the marker calls of a project's source files.
type Engine struct {
	// Structured logger
	logger *slog.Logger

	root    string
	include []string
	exclude []string
	jobs    int
	hosts   []host.Host
}

// Config holds engine configuration.
type Config struct {
	// Root is the project root; relative paths and patterns are resolved against it.
	Root string
	// Include lists patterns a file must match to be transformed (empty means all)
	Include []string
	// Exclude lists patterns of files and directories to skip
	Exclude []string
	// Jobs is the number of files transformed in parallel (0 uses the default)
	Jobs int
	// Hosts maps enabled host names to their options
	Hosts map[string]host.Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// DefaultJobs is used when Config.Jobs is zero.
const DefaultJobs = 4

// New creates an engine with one instance of every configured host.
func New(cfg Config) (*Engine, error) {
	// Initialize logger (use discard handler if nil)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("no hosts enabled\nHint: Check the hosts section of nameof.yaml")
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	names := make([]string, 0, len(cfg.Hosts))
	for name := range cfg.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)

	hosts := make([]host.Host, 0, len(names))
	for _, name := range names {
		opts := cfg.Hosts[name]
		if opts.Logger == nil {
			opts.Logger = logger
		}
		h, err := host.New(strings.ToLower(name), opts)
		if err != nil {
			return nil, err
		}
		hosts = append(hosts, h)
	}

	logger.Debug("initializing engine", "root", root, "hosts", names, "jobs", jobs)

	return &Engine{
		logger:  logger,
		root:    root,
		include: cfg.Include,
		exclude: cfg.Exclude,
		jobs:    jobs,
		hosts:   hosts,
	}, nil
}

// Root returns the absolute project root.
func (e *Engine) Root() string {
	return e.root
}

// Hosts returns the engine's host instances, sorted by name.
func (e *Engine) Hosts() []host.Host {
	return e.hosts
}

// Host returns the host instance with the given name.
func (e *Engine) Host(name string) (host.Host, bool) {
	for _, h := range e.hosts {
		if h.Name() == name {
			return h, true
		}
	}
	return nil, false
}

// HostFor returns the host handling path's extension.
func (e *Engine) HostFor(path string) (host.Host, bool) {
	return host.ForFile(e.hosts, path)
}

// Rel returns path relative to the project root when it lies inside it.
func (e *Engine) Rel(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(e.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
