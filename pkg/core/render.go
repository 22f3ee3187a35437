package core

import "strings"

// RenderKind is the form of a rendered marker.
type RenderKind int

// Render kinds.
const (
	RenderString RenderKind = iota
	RenderArray
	RenderTemplate
)

// String returns the string representation of the render kind.
func (k RenderKind) String() string {
	switch k {
	case RenderString:
		return "string"
	case RenderArray:
		return "array"
	case RenderTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Rendered is the host-neutral result of a marker call.
type Rendered[T any] struct {
	Kind   RenderKind
	Text   string
	Values []string
	Parts  []TemplatePart[T]
}

// RenderFull joins every segment: a.b[0]["key"].c
func RenderFull[T any](path []PathPart[T]) string {
	var sb strings.Builder
	for i, part := range path {
		sb.WriteString(part.Text(i == 0))
	}
	return sb.String()
}

// RenderPlain returns the value of the last segment.
func RenderPlain[T any](path []PathPart[T]) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1].Value
}

// RenderSplit returns the value of every segment.
func RenderSplit[T any](path []PathPart[T]) []string {
	values := make([]string, len(path))
	for i, part := range path {
		values[i] = part.Value
	}
	return values
}

// RenderTemplateParts renders a full path keeping dynamic segments as expressions.
// Adjacent text is merged, so parts alternate between text and expressions.
func RenderTemplateParts[T any](path []PathPart[T]) []TemplatePart[T] {
	var (
		parts []TemplatePart[T]
		text  strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, TemplatePart[T]{Text: text.String()})
			text.Reset()
		}
	}
	for i, part := range path {
		if !part.Dynamic {
			text.WriteString(part.Text(i == 0))
			continue
		}
		text.WriteString("[")
		flush()
		parts = append(parts, TemplatePart[T]{Expr: part.Source, IsExpr: true})
		text.WriteString("]")
	}
	flush()
	return parts
}

// hasDynamic reports whether any segment is dynamic.
func hasDynamic[T any](path []PathPart[T]) (PathPart[T], bool) {
	for _, part := range path {
		if part.Dynamic {
			return part, true
		}
	}
	return PathPart[T]{}, false
}

// hasUnmarkedDynamic reports the first dynamic segment not wrapped in an
// interpolate marker.
func hasUnmarkedDynamic[T any](path []PathPart[T]) (PathPart[T], bool) {
	for _, part := range path {
		if part.Dynamic && !part.Interpolated {
			return part, true
		}
	}
	return PathPart[T]{}, false
}

// applyDepth trims a path. A non-negative depth skips segments from the
// root; a negative depth keeps that many segments from the leaf.
func applyDepth[T any](path []PathPart[T], depth int) ([]PathPart[T], bool) {
	if depth >= 0 {
		if depth >= len(path) {
			return nil, false
		}
		return path[depth:], true
	}
	keep := -depth
	if keep > len(path) {
		return nil, false
	}
	return path[len(path)-keep:], true
}
