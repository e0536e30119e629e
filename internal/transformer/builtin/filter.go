// Package builtin contains reusable typed row-set transformers: filtering,
// key-based de-duplication, full-row distinct and join-key folding.
package builtin

// Filter keeps rows for which Keep returns true, preserving order.
type Filter[T any] struct {
	Keep func(T) bool
}

// Apply implements transformer.Transformer. It filters in place.
func (f Filter[T]) Apply(in []T) []T {
	if f.Keep == nil {
		return in
	}
	out := in[:0]
	for _, r := range in {
		if f.Keep(r) {
			out = append(out, r)
		}
	}
	return out
}
