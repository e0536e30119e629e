// Package transformer defines the typed row-set transformation contract and
// ordered composition.
package transformer

// Transformer rewrites a slice of rows. Implementations may reuse the input
// backing array.
type Transformer[T any] interface {
	Apply([]T) []T
}

// Func adapts a plain function to Transformer.
type Func[T any] func([]T) []T

// Apply implements Transformer.
func (f Func[T]) Apply(in []T) []T { return f(in) }

// Chain is an ordered list of transformers.
type Chain[T any] []Transformer[T]

// Apply runs each transformer on the output of the previous one.
func (c Chain[T]) Apply(in []T) []T {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}
