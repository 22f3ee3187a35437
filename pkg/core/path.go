package core

import "strconv"

// PathKind identifies the kind of a path segment.
type PathKind int

// Path segment kinds.
const (
	IdentifierPart PathKind = iota
	PropertyAccessPart
	IndexAccessPart
)

// String returns the string representation of the path kind.
func (k PathKind) String() string {
	switch k {
	case IdentifierPart:
		return "identifier"
	case PropertyAccessPart:
		return "property access"
	case IndexAccessPart:
		return "index access"
	default:
		return "unknown"
	}
}

// PathPart is one segment of an access path.
//
// Static segments carry their rendered Value. A dynamic segment keeps its
// host expression in Source and has no Value.
type PathPart[T any] struct {
	Kind    PathKind
	Source  T
	Value   string
	Dynamic bool
	// Quoted marks an index keyed by a string rather than a number.
	Quoted bool
	// Interpolated marks a dynamic index wrapped in a nested interpolate marker.
	Interpolated bool
}

// Text renders the part as it appears after its predecessor in a full path.
func (p PathPart[T]) Text(first bool) string {
	switch p.Kind {
	case PropertyAccessPart:
		if first {
			return p.Value
		}
		return "." + p.Value
	case IndexAccessPart:
		if p.Quoted {
			return "[" + strconv.Quote(p.Value) + "]"
		}
		return "[" + p.Value + "]"
	default:
		return p.Value
	}
}

// PathPartOf returns the segment a node contributes to its path.
// Only identifiers and accesses contribute a segment.
func PathPartOf[T any](n ParsedNode[T]) (PathPart[T], bool) {
	switch n := n.(type) {
	case *IdentifierNode[T]:
		return PathPart[T]{Kind: IdentifierPart, Source: n.Source(), Value: n.Name}, true
	case *PropertyAccessNode[T]:
		return PathPart[T]{Kind: PropertyAccessPart, Source: n.Source(), Value: n.PropertyName}, true
	case *IndexAccessNode[T]:
		switch idx := n.Index.(type) {
		case *StringLiteralNode[T]:
			return PathPart[T]{Kind: IndexAccessPart, Source: n.Source(), Value: idx.Value, Quoted: true}, true
		case *NumericLiteralNode[T]:
			return PathPart[T]{Kind: IndexAccessPart, Source: n.Source(), Value: idx.Value}, true
		case *InterpolationNode[T]:
			return PathPart[T]{Kind: IndexAccessPart, Source: idx.Expression, Dynamic: true, Interpolated: true}, true
		default:
			return PathPart[T]{Kind: IndexAccessPart, Source: n.Index.Source(), Dynamic: true}, true
		}
	}
	return PathPart[T]{}, false
}

// PathOf returns the ordered segments of a node from root to leaf.
// Nodes that are not part of an access chain have an empty path.
func PathOf[T any](n ParsedNode[T]) []PathPart[T] {
	var path []PathPart[T]
	for n != nil {
		part, ok := PathPartOf(n)
		if !ok {
			break
		}
		path = append(path, part)
		switch v := n.(type) {
		case *PropertyAccessNode[T]:
			n = v.Expression
		case *IndexAccessNode[T]:
			n = v.Expression
		default:
			n = nil
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// RootOf returns the innermost node of an access chain.
func RootOf[T any](n ParsedNode[T]) ParsedNode[T] {
	for {
		switch v := n.(type) {
		case *PropertyAccessNode[T]:
			n = v.Expression
		case *IndexAccessNode[T]:
			n = v.Expression
		default:
			return n
		}
	}
}
