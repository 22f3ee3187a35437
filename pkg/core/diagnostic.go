package core

import (
	"fmt"
	"sort"
	"sync"
)

// Position is a 1-based line and column in a source file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position is set.
func (p Position) IsValid() bool { return p.Line > 0 }

// Span is the source range of a node.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is a reported transformation failure in a file.
type Diagnostic struct {
	File     string   `json:"file"`
	Span     Span     `json:"span"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	// Source is the text of the offending node.
	Source string `json:"source,omitempty"`
}

// String formats the diagnostic as file:line:col: severity: message [code].
func (d Diagnostic) String() string {
	code := d.Code
	if code == "" {
		code = "nameof"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		d.File, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message, code)
}

// ErrorHandler receives transformation failures from a host.
// C is the host's per-unit context.
type ErrorHandler[T, C any] interface {
	Report(ctx C, file string, node T, err error)
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc[T, C any] func(ctx C, file string, node T, err error)

// Report implements ErrorHandler.
func (f ErrorHandlerFunc[T, C]) Report(ctx C, file string, node T, err error) {
	f(ctx, file, node, err)
}

// Locator finds the source span and text of a host node.
type Locator[T, C any] func(ctx C, node T) (Span, string)

// Collector is an ErrorHandler that records every failure as a Diagnostic.
// It is safe for concurrent use.
type Collector[T, C any] struct {
	locate Locator[T, C]

	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewCollector creates a collector that positions diagnostics with locate.
func NewCollector[T, C any](locate Locator[T, C]) *Collector[T, C] {
	return &Collector[T, C]{locate: locate}
}

// Report implements ErrorHandler.
func (c *Collector[T, C]) Report(ctx C, file string, node T, err error) {
	d := Diagnostic{
		File:     file,
		Severity: SeverityError,
		Code:     KindOf(err).String(),
		Message:  err.Error(),
	}
	if c.locate != nil {
		d.Span, d.Source = c.locate(ctx, node)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the collected diagnostics ordered by position.
func (c *Collector[T, C]) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	SortDiagnostics(out)
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector[T, C]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics)
}

// SortDiagnostics orders diagnostics by file, line and column.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		return a.Span.Start.Column < b.Span.Start.Column
	})
}
