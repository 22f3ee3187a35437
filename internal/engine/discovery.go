package engine

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"
)

// Discover returns the files under paths that an enabled host handles,
// sorted and without duplicates. Directories are walked recursively,
// skipping hidden and excluded directories; files named explicitly bypass
// the include and exclude patterns. With no paths the project root is walked.
func (e *Engine) Discover(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{e.root}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if _, ok := e.HostFor(p); !ok {
				return nil, fmt.Errorf("no enabled host handles %s", p)
			}
			add(p)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && e.skipDir(path, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if e.wants(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	e.logger.Debug("discovered files", "count", len(files))
	return files, nil
}

func (e *Engine) skipDir(path, name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return e.matchAny(e.exclude, path)
}

// wants reports whether a walked file should be transformed.
func (e *Engine) wants(path string) bool {
	if _, ok := e.HostFor(path); !ok {
		return false
	}
	if e.matchAny(e.exclude, path) {
		return false
	}
	return len(e.include) == 0 || e.matchAny(e.include, path)
}

// matchAny matches patterns against the root-relative slash path and the base name.
func (e *Engine) matchAny(patterns []string, path string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel := filepath.ToSlash(e.Rel(path))
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if wildcard.Match(pattern, rel) || wildcard.Match(pattern, base) {
			return true
		}
	}
	return false
}
