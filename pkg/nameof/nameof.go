// Package nameof provides the marker functions rewritten by the nameof
// transformer. Each call is replaced at build time by a string or string
// slice literal naming its argument:
//
//	nameof.Name(user.Address.City)       // "City"
//	nameof.Full(user.Address.City)       // "user.Address.City"
//	nameof.Full(user.Address.City, 1)    // "Address.City"
//	nameof.Split(user.Address.City)      // []string{"user", "Address", "City"}
//	nameof.Interpolate(rows[i].Name)     // fmt.Sprintf("rows[%v].Name", i)
//	nameof.NameOf[store.Order]()         // "Order"
//
// Calls that reach run time have not been transformed and panic.
package nameof

import "errors"

// ErrNotTransformed is the panic value of a marker call that was never rewritten.
var ErrNotTransformed = errors.New("nameof: call was not transformed; run `nameof transform` on this package")

// Name returns the last segment of the access path v.
func Name[T any](v T) string {
	panic(ErrNotTransformed)
}

// NameOf returns the name of the type T.
func NameOf[T any]() string {
	panic(ErrNotTransformed)
}

// Full returns the access path v. An optional depth trims segments: a
// positive depth skips segments from the root, a negative depth keeps that
// many segments from the leaf.
func Full[T any](v T, depth ...int) string {
	panic(ErrNotTransformed)
}

// FullOf returns the qualified name of the type T.
func FullOf[T any](depth ...int) string {
	panic(ErrNotTransformed)
}

// Split returns the segments of the access path v.
func Split[T any](v T, depth ...int) []string {
	panic(ErrNotTransformed)
}

// SplitOf returns the segments of the qualified name of the type T.
func SplitOf[T any](depth ...int) []string {
	panic(ErrNotTransformed)
}

// Interpolate returns the access path v keeping non-constant indices
// as run-time values.
func Interpolate[T any](v T) string {
	panic(ErrNotTransformed)
}
