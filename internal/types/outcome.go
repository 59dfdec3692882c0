package types

import "fmt"

// Outcome carries a component result that may have been produced by a fallback.
// A degraded Outcome is still a valid value; Note says why it was degraded.
type Outcome[T any] struct {
	Value    T
	Degraded bool
	Note     string
}

// Ok wraps a normally computed value.
func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Degrade wraps a fallback value together with a diagnostic note.
func Degrade[T any](v T, note string) Outcome[T] {
	return Outcome[T]{Value: v, Degraded: true, Note: note}
}

// Guard runs fn and converts a panic inside it into a degraded Outcome holding fallback.
// The recovered value is rendered into Note.
func Guard[T any](fallback T, fn func() T) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Degrade(fallback, fmt.Sprint(r))
		}
	}()
	return Ok(fn())
}
