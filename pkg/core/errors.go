package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transformation failures.
type ErrorKind int

// Error kinds.
const (
	// UnrecognizedShape is an argument the transformer cannot turn into a path.
	UnrecognizedShape ErrorKind = iota + 1
	// DynamicSegment is an index whose value is only known at run time.
	DynamicSegment
	// MisplacedMarker is a marker call nested where only a path may appear.
	MisplacedMarker
	// AdapterMismatch is a host node that does not have the shape the
	// transformer was told to expect, or a node the host cannot synthesize.
	AdapterMismatch
	// ArgumentCount is a marker call with the wrong number of arguments.
	ArgumentCount
	// DepthOutOfRange is a depth argument that leaves no segments.
	DepthOutOfRange
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrUnrecognizedShape = errors.New("unrecognized shape")
	ErrDynamicSegment    = errors.New("dynamic segment")
	ErrMisplacedMarker   = errors.New("misplaced marker")
	ErrAdapterMismatch   = errors.New("adapter mismatch")
	ErrArgumentCount     = errors.New("wrong argument count")
	ErrDepthOutOfRange   = errors.New("depth out of range")
)

// String returns the diagnostic code of the kind.
func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedShape:
		return "unrecognized-shape"
	case DynamicSegment:
		return "dynamic-segment"
	case MisplacedMarker:
		return "misplaced-marker"
	case AdapterMismatch:
		return "adapter-mismatch"
	case ArgumentCount:
		return "argument-count"
	case DepthOutOfRange:
		return "depth-out-of-range"
	default:
		return "unknown"
	}
}

// Sentinel returns the sentinel error matching the kind.
func (k ErrorKind) Sentinel() error {
	switch k {
	case UnrecognizedShape:
		return ErrUnrecognizedShape
	case DynamicSegment:
		return ErrDynamicSegment
	case MisplacedMarker:
		return ErrMisplacedMarker
	case AdapterMismatch:
		return ErrAdapterMismatch
	case ArgumentCount:
		return ErrArgumentCount
	case DepthOutOfRange:
		return ErrDepthOutOfRange
	default:
		return nil
	}
}

// Error is a transformation failure bound to the node that caused it.
type Error interface {
	error
	// Kind returns the failure class.
	Kind() ErrorKind
	// Report hands the error to the adapter's HandleError.
	Report()
}

// KindOf returns the kind of err, or 0 if err is not a transformation error.
func KindOf(err error) ErrorKind {
	var e Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return 0
}

// AdapterError is an Error carrying the adapter and the offending node.
// The message is built on demand so the source text is only extracted
// when the error is actually displayed.
type AdapterError[T any] struct {
	kind    ErrorKind
	adapter Adapter[T]
	node    T
	detail  string
	cause   error
}

// NewError creates an AdapterError of the given kind located at node.
func NewError[T any](kind ErrorKind, a Adapter[T], node T, detail string) *AdapterError[T] {
	return &AdapterError[T]{kind: kind, adapter: a, node: node, detail: detail}
}

// WrapError creates an AdapterError that wraps an underlying cause,
// typically a synthesis failure reported by the host.
func WrapError[T any](kind ErrorKind, a Adapter[T], node T, cause error) *AdapterError[T] {
	return &AdapterError[T]{kind: kind, adapter: a, node: node, cause: cause}
}

// Kind implements Error.
func (e *AdapterError[T]) Kind() ErrorKind { return e.kind }

// Node returns the node the error is located at.
func (e *AdapterError[T]) Node() T { return e.node }

// SourceText returns the source text of the offending node.
func (e *AdapterError[T]) SourceText() string {
	return e.adapter.ExtractText(e.node)
}

// Report implements Error.
func (e *AdapterError[T]) Report() {
	e.adapter.HandleError(e, e.node)
}

func (e *AdapterError[T]) Error() string {
	msg := e.message()
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *AdapterError[T]) message() string {
	text := e.SourceText()
	switch e.kind {
	case UnrecognizedShape:
		return fmt.Sprintf("the expression `%s` is not supported by nameof", text)
	case DynamicSegment:
		return fmt.Sprintf("the index in `%s` is not a literal; use interpolate to keep it dynamic", text)
	case MisplacedMarker:
		return fmt.Sprintf("the marker call `%s` may only appear as the outermost call", text)
	case AdapterMismatch:
		return fmt.Sprintf("the node `%s` does not have the expected shape", text)
	case ArgumentCount:
		return fmt.Sprintf("the marker call `%s` has the wrong number of arguments", text)
	case DepthOutOfRange:
		return fmt.Sprintf("the depth of `%s` leaves no path segments", text)
	default:
		return fmt.Sprintf("nameof failed at `%s`", text)
	}
}

// Is matches the sentinel of the error's kind.
func (e *AdapterError[T]) Is(target error) bool {
	s := e.kind.Sentinel()
	return s != nil && target == s
}

// Unwrap returns the underlying cause.
func (e *AdapterError[T]) Unwrap() error {
	return e.cause
}
