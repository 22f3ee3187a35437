package host

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Factory creates a host instance.
type Factory func(opts Options) Host

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a host factory to the registry.
// Called by host implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a host factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a host instance by name.
func New(name string, opts Options) (Host, error) {
	if name == "" {
		return nil, fmt.Errorf("host name not specified")
	}

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownHostError{
			Name:      name,
			Available: List(),
		}
	}
	return factory(opts), nil
}

// List returns all registered host names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a host is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// ForFile returns the first host handling the extension of filename.
func ForFile(hosts []Host, filename string) (Host, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return nil, false
	}
	for _, h := range hosts {
		for _, e := range h.Extensions() {
			if strings.EqualFold(e, ext) {
				return h, true
			}
		}
	}
	return nil, false
}

// UnknownHostError is returned when an unknown host is requested.
type UnknownHostError struct {
	Name      string
	Available []string
}

func (e *UnknownHostError) Error() string {
	return fmt.Sprintf("unknown host %q\nAvailable hosts: %v\nHint: Check the hosts section of nameof.yaml", e.Name, e.Available)
}
