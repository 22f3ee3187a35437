package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
)

// Option configures a Transformer.
type Option func(*transformerOptions)

type transformerOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *transformerOptions) {
		o.logger = logger
	}
}

// Transformer rewrites marker calls through an Adapter.
// It holds no per-site state and can be reused for every call in a unit.
type Transformer[T any] struct {
	adapter  Adapter[T]
	resolver Resolver
	logger   *slog.Logger
}

// NewTransformer creates a transformer for one host unit.
func NewTransformer[T any](a Adapter[T], r Resolver, opts ...Option) *Transformer[T] {
	o := transformerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Transformer[T]{adapter: a, resolver: r, logger: o.logger}
}

// Adapter returns the adapter the transformer works through.
func (t *Transformer[T]) Adapter() Adapter[T] { return t.adapter }

// Detect reports whether call is a marker call and describes it.
func (t *Transformer[T]) Detect(call T) (*Marker[T], bool) {
	shape := t.adapter.Classify(call)
	if shape.Kind != ShapeCall {
		return nil, false
	}
	kind, ok := markerKind(t.adapter, t.resolver, shape.Callee)
	if !ok {
		return nil, false
	}
	return &Marker[T]{
		Kind:          kind,
		Call:          call,
		Callee:        shape.Callee,
		Arguments:     shape.Arguments,
		TypeArguments: shape.TypeArguments,
	}, true
}

// Visit handles one call-site candidate.
//
// It returns false when call is not a marker call. Otherwise it either hands
// the replacement to replace or reports the failure through the adapter, and
// returns true so the host does not descend into the marker's arguments.
func (t *Transformer[T]) Visit(call T, replace func(T)) bool {
	m, ok := t.Detect(call)
	if !ok {
		return false
	}
	out, err := t.Transform(m)
	if err != nil {
		t.fail(err, call)
		return true
	}
	t.logger.Debug("replaced marker call",
		"kind", m.Kind.String(),
		"source", t.adapter.ExtractText(call))
	replace(out)
	return true
}

// Transform renders a detected marker and synthesizes its replacement.
func (t *Transformer[T]) Transform(m *Marker[T]) (T, error) {
	var zero T
	r, err := t.Render(m)
	if err != nil {
		return zero, err
	}

	var out T
	switch r.Kind {
	case RenderString:
		out, err = t.adapter.StringLiteral(m.Call, r.Text)
	case RenderArray:
		out, err = t.adapter.ArrayLiteral(m.Call, r.Values)
	case RenderTemplate:
		out, err = t.adapter.Template(m.Call, r.Parts)
	}
	if err != nil {
		var e Error
		if errors.As(err, &e) {
			return zero, err
		}
		return zero, WrapError(AdapterMismatch, t.adapter, m.Call, err)
	}
	return out, nil
}

// Render computes the host-neutral result of a marker call.
func (t *Transformer[T]) Render(m *Marker[T]) (Rendered[T], error) {
	path, err := t.BuildPath(m)
	if err != nil {
		return Rendered[T]{}, err
	}

	if m.Kind != MarkerInterpolate {
		if part, ok := hasUnmarkedDynamic(path); ok {
			return Rendered[T]{}, NewError(DynamicSegment, t.adapter, part.Source, "")
		}
	}

	depth, err := t.depth(m)
	if err != nil {
		return Rendered[T]{}, err
	}
	trimmed, ok := applyDepth(path, depth)
	if !ok {
		return Rendered[T]{}, NewError(DepthOutOfRange, t.adapter, m.Call,
			fmt.Sprintf("depth %d with %d segments", depth, len(path)))
	}

	switch m.Kind {
	case MarkerFull, MarkerInterpolate:
		if _, dynamic := hasDynamic(trimmed); !dynamic {
			return Rendered[T]{Kind: RenderString, Text: RenderFull(trimmed)}, nil
		}
		return Rendered[T]{Kind: RenderTemplate, Parts: RenderTemplateParts(trimmed)}, nil
	case MarkerSplit:
		return Rendered[T]{Kind: RenderArray, Values: RenderSplit(trimmed)}, nil
	default:
		return Rendered[T]{Kind: RenderString, Text: RenderPlain(trimmed)}, nil
	}
}

// BuildPath returns the path named by a marker call's operand.
func (t *Transformer[T]) BuildPath(m *Marker[T]) ([]PathPart[T], error) {
	target, _, err := t.operands(m)
	if err != nil {
		return nil, err
	}

	// Only full paths may keep an index live through a nested interpolate.
	nested := m.Kind == MarkerFull

	node := Parse(t.adapter, t.resolver, target)
	if fn, ok := node.(*FunctionNode[T]); ok {
		return t.functionPath(fn, nested)
	}
	if err := t.checkChain(node, nested); err != nil {
		return nil, err
	}
	return PathOf(node), nil
}

// operands splits a marker call into its path operand and optional depth.
func (t *Transformer[T]) operands(m *Marker[T]) (target T, rest []T, err error) {
	if m.Typed(t.adapter) {
		if len(m.TypeArguments) != 1 {
			return target, nil, NewError(ArgumentCount, t.adapter, m.Call,
				fmt.Sprintf("expected 1 type argument, got %d", len(m.TypeArguments)))
		}
		target, rest = m.TypeArguments[0], m.Arguments
	} else {
		if len(m.Arguments) == 0 {
			return target, nil, NewError(ArgumentCount, t.adapter, m.Call, "expected an expression argument")
		}
		target, rest = m.Arguments[0], m.Arguments[1:]
	}

	allowed := 0
	if m.Kind == MarkerFull || m.Kind == MarkerSplit {
		allowed = 1
	}
	if len(rest) > allowed {
		return target, nil, NewError(ArgumentCount, t.adapter, m.Call,
			fmt.Sprintf("%s accepts %d extra argument(s), got %d", m.Kind, allowed, len(rest)))
	}
	return target, rest, nil
}

// depth returns the depth argument of a marker call, zero when absent.
func (t *Transformer[T]) depth(m *Marker[T]) (int, error) {
	_, rest, err := t.operands(m)
	if err != nil || len(rest) == 0 {
		return 0, err
	}
	lit, ok := Parse[T](t.adapter, nil, rest[0]).(*NumericLiteralNode[T])
	if !ok {
		return 0, NewError(DepthOutOfRange, t.adapter, rest[0], "depth must be an integer literal")
	}
	depth, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, NewError(DepthOutOfRange, t.adapter, rest[0], "depth must be an integer literal")
	}
	return depth, nil
}

// functionPath returns the body path of a function operand without its
// parameter root.
func (t *Transformer[T]) functionPath(fn *FunctionNode[T], nested bool) ([]PathPart[T], error) {
	if len(fn.Parameters) == 0 {
		return nil, NewError(UnrecognizedShape, t.adapter, fn.Source(), "function has no parameter")
	}
	if err := t.checkChain(fn.Body, nested); err != nil {
		return nil, err
	}
	root, ok := RootOf(fn.Body).(*IdentifierNode[T])
	if !ok || !slices.Contains(fn.Parameters, root.Name) {
		return nil, NewError(UnrecognizedShape, t.adapter, fn.Source(), "function must access a member of its parameter")
	}
	path := PathOf(fn.Body)
	if len(path) < 2 {
		return nil, NewError(UnrecognizedShape, t.adapter, fn.Source(), "function returns its parameter unchanged")
	}
	return path[1:], nil
}

// checkChain verifies that a node is an access chain rooted at an identifier.
// With nested set, an index may be a nested interpolate marker.
func (t *Transformer[T]) checkChain(n ParsedNode[T], nested bool) error {
	switch v := n.(type) {
	case *IdentifierNode[T]:
		return nil
	case *PropertyAccessNode[T]:
		return t.checkChain(v.Expression, nested)
	case *IndexAccessNode[T]:
		if err := t.checkChain(v.Expression, nested); err != nil {
			return err
		}
		switch idx := v.Index.(type) {
		case *InterpolationNode[T]:
			if !nested {
				return NewError(MisplacedMarker, t.adapter, idx.Source(), "")
			}
		case *CallNode[T]:
			if idx.IsMarker {
				return NewError(MisplacedMarker, t.adapter, idx.Source(), "")
			}
		}
		return nil
	case *CallNode[T]:
		if v.IsMarker {
			return NewError(MisplacedMarker, t.adapter, v.Source(), "")
		}
		return NewError(UnrecognizedShape, t.adapter, v.Source(), "calls cannot be part of a path")
	case *InterpolationNode[T]:
		return NewError(MisplacedMarker, t.adapter, v.Source(), "")
	default:
		return NewError(UnrecognizedShape, t.adapter, n.Source(), "")
	}
}

func (t *Transformer[T]) fail(err error, call T) {
	t.logger.Debug("marker call not replaced",
		"kind", KindOf(err).String(),
		"error", err)

	var e Error
	if errors.As(err, &e) {
		e.Report()
		return
	}
	t.adapter.HandleError(err, call)
}
