package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/nameof"

// packageImports returns the imports of the non-test files in dir, keyed by file name.
func packageImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	imports := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}
		for _, imp := range f.Imports {
			imports[entry.Name()] = append(imports[entry.Name()], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

// TestCoreImportsOnly verifies pkg/core only imports the standard library,
// so every host can depend on it without pulling in another parser.
func TestCoreImportsOnly(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, importPath := range imports {
			if strings.Contains(importPath, ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestHostLayering verifies hosts depend on core and the host contract only,
// never on the CLI or on each other.
func TestHostLayering(t *testing.T) {
	hostsDir := filepath.Join("..", "hosts")
	entries, err := os.ReadDir(hostsDir)
	if err != nil {
		t.Fatalf("Failed to read hosts directory: %v", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for file, imports := range packageImports(t, filepath.Join(hostsDir, entry.Name())) {
			for _, importPath := range imports {
				if strings.Contains(importPath, "/internal/") {
					t.Errorf("hosts/%s/%s imports internal package: %s", entry.Name(), file, importPath)
				}
				if strings.HasPrefix(importPath, modulePath+"/pkg/hosts/") {
					t.Errorf("hosts/%s/%s imports another host: %s", entry.Name(), file, importPath)
				}
			}
		}
	}
}
