// Package core defines the host-agnostic nameof transformation.
//
// This package contains:
//   - The Adapter contract a host implements over its own syntax tree
//   - The parsed node model (ParsedNode and its variants) and path extraction
//   - The Transformer that detects marker calls and rewrites them
//   - Errors, error handlers and diagnostics
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// Hosts depend on core, never the reverse.
package core
