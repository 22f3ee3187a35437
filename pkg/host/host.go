// Package host defines the file-level interface each nameof host exposes
// and the registry hosts add themselves to.
package host

import (
	"log/slog"

	"github.com/leapstack-labs/nameof/pkg/core"
)

// Host transforms the marker calls of one source language.
type Host interface {
	// Name returns the registry name of the host.
	Name() string
	// Extensions returns the file extensions the host handles, with leading dot.
	Extensions() []string
	// TransformFile rewrites every marker call in a source file.
	// A returned error means the file could not be parsed or printed;
	// per-call failures are reported as diagnostics in the result.
	TransformFile(filename string, src []byte) (*Result, error)
	// TransformExpr rewrites the marker calls of a single expression.
	TransformExpr(src string) (*Result, error)
}

// Options configures a host instance.
type Options struct {
	// Extensions overrides the host's default extensions.
	Extensions []string
	// Markers overrides the identifiers treated as the marker.
	Markers []string
	// ImportPath is the package path of the marker for hosts with imports.
	ImportPath string
	// Logger receives debug output; nil uses a discard logger.
	Logger *slog.Logger
}

// Result is the outcome of transforming one unit.
type Result struct {
	// Output is the transformed source. It equals the input when nothing
	// was replaced.
	Output []byte
	// Replaced counts rewritten marker calls.
	Replaced int
	// Diagnostics lists the marker calls that could not be rewritten.
	Diagnostics []core.Diagnostic
}

// Changed reports whether any marker call was rewritten.
func (r *Result) Changed() bool {
	return r != nil && r.Replaced > 0
}

// HasErrors reports whether any diagnostic has error severity.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, d := range r.Diagnostics {
		if d.Severity == core.SeverityError {
			return true
		}
	}
	return false
}
