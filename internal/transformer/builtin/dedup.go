package builtin

import (
	"sort"
	"strings"
)

// Dedup policies.
const (
	KeepFirst = "keep-first"
	KeepLast  = "keep-last"
)

// DeDup collapses rows that share a business key and chooses a winner
// according to Policy:
//
//   - "keep-first": the earliest occurrence
//   - "keep-last" : the latest occurrence (default)
//
// Winners are returned in ascending order of their input position. Rows for
// which Key reports ok=false are passed through after the winners.
type DeDup[T any] struct {
	Key    func(T) (key string, ok bool)
	Policy string
}

// Apply implements transformer.Transformer.
func (d DeDup[T]) Apply(in []T) []T {
	if len(in) == 0 || d.Key == nil {
		return in
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = KeepLast
	}
	winners := make(map[string]int, len(in))
	var passthrough []int

	for i, r := range in {
		key, ok := d.Key(r)
		if !ok {
			passthrough = append(passthrough, i)
			continue
		}
		if _, exists := winners[key]; exists && policy == KeepFirst {
			continue
		}
		winners[key] = i
	}

	indexes := make([]int, 0, len(winners))
	for _, idx := range winners {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	out := make([]T, 0, len(indexes)+len(passthrough))
	for _, idx := range indexes {
		out = append(out, in[idx])
	}
	for _, idx := range passthrough {
		out = append(out, in[idx])
	}
	return out
}
