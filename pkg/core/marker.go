package core

import (
	"sort"
	"strings"
)

// MarkerKind selects how a marker call is rendered.
type MarkerKind int

// Marker kinds.
const (
	// MarkerPlain renders the last path segment: nameof(a.b.c) -> "c".
	MarkerPlain MarkerKind = iota
	// MarkerFull renders the whole path: full(a.b.c) -> "a.b.c".
	MarkerFull
	// MarkerSplit renders the segments as an array: split(a.b.c) -> ["a", "b", "c"].
	MarkerSplit
	// MarkerInterpolate renders a template that keeps dynamic indices.
	MarkerInterpolate
)

// String returns the string representation of the marker kind.
func (k MarkerKind) String() string {
	switch k {
	case MarkerPlain:
		return "plain"
	case MarkerFull:
		return "full"
	case MarkerSplit:
		return "split"
	case MarkerInterpolate:
		return "interpolate"
	default:
		return "unknown"
	}
}

// DefaultMembers is the member spelling shared by the dynamic hosts.
func DefaultMembers() map[string]MarkerKind {
	return map[string]MarkerKind{
		"full":        MarkerFull,
		"split":       MarkerSplit,
		"interpolate": MarkerInterpolate,
	}
}

// =============================================================================
// Resolver
// =============================================================================

// Resolver decides whether an identifier names the marker.
type Resolver interface {
	IsMarker(name string) bool
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) bool

// IsMarker implements Resolver.
func (f ResolverFunc) IsMarker(name string) bool { return f(name) }

// NameResolver resolves a fixed set of marker names.
type NameResolver map[string]struct{}

// NewNameResolver returns a resolver matching exactly the given names.
func NewNameResolver(names ...string) NameResolver {
	r := make(NameResolver, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			r[name] = struct{}{}
		}
	}
	return r
}

// IsMarker implements Resolver.
func (r NameResolver) IsMarker(name string) bool {
	_, ok := r[name]
	return ok
}

// Names returns the resolved names (sorted).
func (r NameResolver) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Marker detection
// =============================================================================

// Marker is a detected marker call.
type Marker[T any] struct {
	Kind          MarkerKind
	Call          T
	Callee        T
	Arguments     []T
	TypeArguments []T
}

// Typed reports whether the marker names a type rather than a value:
// the callee carries type arguments and no value argument is present
// beyond an optional depth.
func (m *Marker[T]) Typed(a Adapter[T]) bool {
	if len(m.TypeArguments) == 0 {
		return false
	}
	switch len(m.Arguments) {
	case 0:
		return true
	case 1:
		if m.Kind != MarkerFull && m.Kind != MarkerSplit {
			return false
		}
		return a.Classify(m.Arguments[0]).Kind == ShapeNumericLiteral
	default:
		return false
	}
}

// markerKind classifies a callee as one of the marker spellings.
func markerKind[T any](a Adapter[T], r Resolver, callee T) (MarkerKind, bool) {
	if r == nil {
		return 0, false
	}
	shape := a.Classify(callee)
	for shape.Kind == ShapeParenthesized {
		shape = a.Classify(shape.Object)
	}
	switch shape.Kind {
	case ShapeIdentifier:
		if r.IsMarker(shape.Name) {
			return MarkerPlain, true
		}
	case ShapePropertyAccess:
		object := a.Classify(shape.Object)
		if object.Kind != ShapeIdentifier || !r.IsMarker(object.Name) {
			return 0, false
		}
		kind, ok := a.Members()[shape.Name]
		return kind, ok
	}
	return 0, false
}
