package core

// =============================================================================
// Shapes
// =============================================================================

// ShapeKind is the structural category a host assigns to one of its nodes.
type ShapeKind int

// Shape kinds understood by the transformer.
const (
	// ShapeUnknown is anything the transformer cannot interpret.
	ShapeUnknown ShapeKind = iota
	// ShapeIdentifier is a bare name such as `user`.
	ShapeIdentifier
	// ShapePropertyAccess is a member access such as `user.name`.
	ShapePropertyAccess
	// ShapeIndexAccess is an element access such as `items[0]`.
	ShapeIndexAccess
	// ShapeStringLiteral is a string constant.
	ShapeStringLiteral
	// ShapeNumericLiteral is an integer constant, sign included.
	ShapeNumericLiteral
	// ShapeCall is a call expression.
	ShapeCall
	// ShapeFunction is a function literal whose body is a single expression.
	ShapeFunction
	// ShapeSpread is a spread or variadic argument such as `*args`.
	ShapeSpread
	// ShapeParenthesized is a transparent wrapper: parentheses or a dereference.
	ShapeParenthesized
)

// String returns the string representation of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeIdentifier:
		return "identifier"
	case ShapePropertyAccess:
		return "property access"
	case ShapeIndexAccess:
		return "index access"
	case ShapeStringLiteral:
		return "string literal"
	case ShapeNumericLiteral:
		return "numeric literal"
	case ShapeCall:
		return "call"
	case ShapeFunction:
		return "function"
	case ShapeSpread:
		return "spread"
	case ShapeParenthesized:
		return "parenthesized"
	default:
		return "unknown"
	}
}

// Shape is the host-neutral description of a single host node.
// Only the fields relevant to Kind are set; the rest hold zero values.
type Shape[T any] struct {
	Kind ShapeKind

	// Name is the identifier name or the accessed property name.
	Name string
	// Value is the decoded literal value.
	Value string

	// Object is the accessed expression for property and index access,
	// the wrapped expression for ShapeParenthesized and the operand of a spread.
	Object T
	// Index is the key expression of an index access.
	Index T

	// Callee, Arguments and TypeArguments describe a call.
	Callee        T
	Arguments     []T
	TypeArguments []T

	// Parameters and Body describe a function literal.
	Parameters []string
	Body       T
}

// TemplatePart is one piece of an interpolated template.
// A part is either literal text or a host expression kept dynamic.
type TemplatePart[T any] struct {
	Text   string
	Expr   T
	IsExpr bool
}

// =============================================================================
// Adapter
// =============================================================================

// Adapter is the contract a host implements over its syntax tree.
//
// The transformer never inspects host nodes directly; every structural
// question goes through Classify and every new node comes from one of
// the synthesis methods.
type Adapter[T any] interface {
	// Classify reports the structural shape of a host node.
	Classify(node T) Shape[T]

	// ExtractText returns the source text of a node, used in error messages.
	ExtractText(node T) string

	// Members maps the member spellings of the marker (`full`, `split`, ...)
	// to marker kinds. A bare marker call is always MarkerPlain.
	Members() map[string]MarkerKind

	// StringLiteral builds a string literal node replacing node.
	StringLiteral(node T, value string) (T, error)

	// ArrayLiteral builds an array of string literals replacing node.
	ArrayLiteral(node T, values []string) (T, error)

	// Template builds a string template replacing node. Parts alternate
	// between literal text and dynamic expressions.
	Template(node T, parts []TemplatePart[T]) (T, error)

	// HandleError reports a transformation failure located at node.
	HandleError(err error, node T)
}
