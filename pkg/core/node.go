package core

// =============================================================================
// Parsed nodes
// =============================================================================

// NodeKind identifies the variant of a ParsedNode.
type NodeKind int

// Node kinds.
const (
	UnsupportedNodeKind NodeKind = iota
	IdentifierNodeKind
	PropertyAccessNodeKind
	IndexAccessNodeKind
	StringLiteralNodeKind
	NumericLiteralNodeKind
	CallNodeKind
	FunctionNodeKind
	InterpolationNodeKind
)

// String returns the string representation of the node kind.
func (k NodeKind) String() string {
	switch k {
	case IdentifierNodeKind:
		return "identifier"
	case PropertyAccessNodeKind:
		return "property access"
	case IndexAccessNodeKind:
		return "index access"
	case StringLiteralNodeKind:
		return "string literal"
	case NumericLiteralNodeKind:
		return "numeric literal"
	case CallNodeKind:
		return "call"
	case FunctionNodeKind:
		return "function"
	case InterpolationNodeKind:
		return "interpolation"
	default:
		return "unsupported"
	}
}

// ParsedNode is the host-neutral view of a host node.
// The set of variants is closed; switch on the concrete type.
type ParsedNode[T any] interface {
	// Kind returns the variant of the node.
	Kind() NodeKind
	// Source returns the host node this view was built from.
	Source() T

	parsedNode() // Marker method to seal the variant set
}

type nodeBase[T any] struct {
	source T
}

func (n *nodeBase[T]) Source() T { return n.source }
func (n *nodeBase[T]) parsedNode() {}

// IdentifierNode is a bare name. It is always the root of a path.
type IdentifierNode[T any] struct {
	nodeBase[T]
	Name string
}

// Kind implements ParsedNode.
func (*IdentifierNode[T]) Kind() NodeKind { return IdentifierNodeKind }

// PropertyAccessNode is `Expression.PropertyName`.
type PropertyAccessNode[T any] struct {
	nodeBase[T]
	Expression   ParsedNode[T]
	PropertyName string
}

// Kind implements ParsedNode.
func (*PropertyAccessNode[T]) Kind() NodeKind { return PropertyAccessNodeKind }

// IndexAccessNode is `Expression[Index]`.
type IndexAccessNode[T any] struct {
	nodeBase[T]
	Expression ParsedNode[T]
	Index      ParsedNode[T]
}

// Kind implements ParsedNode.
func (*IndexAccessNode[T]) Kind() NodeKind { return IndexAccessNodeKind }

// StringLiteralNode is a string constant with its decoded value.
type StringLiteralNode[T any] struct {
	nodeBase[T]
	Value string
}

// Kind implements ParsedNode.
func (*StringLiteralNode[T]) Kind() NodeKind { return StringLiteralNodeKind }

// NumericLiteralNode is an integer constant in its source spelling.
type NumericLiteralNode[T any] struct {
	nodeBase[T]
	Value string
}

// Kind implements ParsedNode.
func (*NumericLiteralNode[T]) Kind() NodeKind { return NumericLiteralNodeKind }

// CallNode is a call found inside a marker argument. IsMarker reports
// whether the call is itself a marker call of kind Marker.
type CallNode[T any] struct {
	nodeBase[T]
	IsMarker      bool
	Marker        MarkerKind
	Expression    T
	Arguments     []T
	TypeArguments []T
}

// Kind implements ParsedNode.
func (*CallNode[T]) Kind() NodeKind { return CallNodeKind }

// FunctionNode is a single-expression function literal such as `o => o.a.b`.
type FunctionNode[T any] struct {
	nodeBase[T]
	Parameters []string
	Body       ParsedNode[T]
}

// Kind implements ParsedNode.
func (*FunctionNode[T]) Kind() NodeKind { return FunctionNodeKind }

// InterpolationNode is a nested interpolate marker wrapping a dynamic expression.
type InterpolationNode[T any] struct {
	nodeBase[T]
	Expression T
}

// Kind implements ParsedNode.
func (*InterpolationNode[T]) Kind() NodeKind { return InterpolationNodeKind }

// UnsupportedNode is any node the transformer does not understand.
type UnsupportedNode[T any] struct {
	nodeBase[T]
	Shape ShapeKind
}

// Kind implements ParsedNode.
func (*UnsupportedNode[T]) Kind() NodeKind { return UnsupportedNodeKind }

// =============================================================================
// Wrapping
// =============================================================================

// Parse wraps a host node into its ParsedNode view.
//
// Transparent wrappers are skipped. A nested interpolate marker becomes an
// InterpolationNode; every other call becomes a CallNode. The resolver may
// be nil, in which case no call is treated as a marker.
func Parse[T any](a Adapter[T], r Resolver, node T) ParsedNode[T] {
	shape := a.Classify(node)
	switch shape.Kind {
	case ShapeParenthesized:
		return Parse(a, r, shape.Object)
	case ShapeIdentifier:
		return &IdentifierNode[T]{nodeBase: nodeBase[T]{node}, Name: shape.Name}
	case ShapePropertyAccess:
		return &PropertyAccessNode[T]{
			nodeBase:     nodeBase[T]{node},
			Expression:   Parse(a, r, shape.Object),
			PropertyName: shape.Name,
		}
	case ShapeIndexAccess:
		return &IndexAccessNode[T]{
			nodeBase:   nodeBase[T]{node},
			Expression: Parse(a, r, shape.Object),
			Index:      Parse(a, r, shape.Index),
		}
	case ShapeStringLiteral:
		return &StringLiteralNode[T]{nodeBase: nodeBase[T]{node}, Value: shape.Value}
	case ShapeNumericLiteral:
		return &NumericLiteralNode[T]{nodeBase: nodeBase[T]{node}, Value: shape.Value}
	case ShapeFunction:
		return &FunctionNode[T]{
			nodeBase:   nodeBase[T]{node},
			Parameters: shape.Parameters,
			Body:       Parse(a, r, shape.Body),
		}
	case ShapeCall:
		kind, ok := markerKind(a, r, shape.Callee)
		if ok && kind == MarkerInterpolate && len(shape.Arguments) == 1 {
			return &InterpolationNode[T]{nodeBase: nodeBase[T]{node}, Expression: shape.Arguments[0]}
		}
		return &CallNode[T]{
			nodeBase:      nodeBase[T]{node},
			IsMarker:      ok,
			Marker:        kind,
			Expression:    shape.Callee,
			Arguments:     shape.Arguments,
			TypeArguments: shape.TypeArguments,
		}
	}
	return &UnsupportedNode[T]{nodeBase: nodeBase[T]{node}, Shape: shape.Kind}
}
