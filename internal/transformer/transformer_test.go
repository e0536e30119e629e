package transformer

import (
	"reflect"
	"testing"
)

/*
identityTransformer is a no-op transformer used in tests.
It returns the input slice without allocating or modifying it.
*/
type identityTransformer[T any] struct{}

func (identityTransformer[T]) Apply(in []T) []T { return in }

/*
TestChain_OrderAndComposition verifies that Chain applies transformers in
order, each seeing the previous output, and that Func adapts closures.
*/
func TestChain_OrderAndComposition(t *testing.T) {
	double := Func[int](func(in []int) []int {
		for i := range in {
			in[i] *= 2
		}
		return in
	})
	dropOdd := Func[int](func(in []int) []int {
		out := in[:0]
		for _, v := range in {
			if v%4 == 0 {
				out = append(out, v)
			}
		}
		return out
	})

	c := Chain[int]{identityTransformer[int]{}, double, dropOdd}
	got := c.Apply([]int{1, 2, 3, 4})
	if want := []int{4, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("chain = %v, want %v", got, want)
	}

	// Reversed order gives a different result.
	c = Chain[int]{dropOdd, double}
	got = c.Apply([]int{1, 2, 3, 4})
	if want := []int{8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("reversed chain = %v, want %v", got, want)
	}
}

// TestChain_Empty returns the input unchanged.
func TestChain_Empty(t *testing.T) {
	in := []string{"a"}
	if got := (Chain[string]{}).Apply(in); !reflect.DeepEqual(got, in) {
		t.Fatalf("empty chain = %v", got)
	}
}
