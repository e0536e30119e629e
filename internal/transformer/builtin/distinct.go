package builtin

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/zeebo/xxh3"
)

// Valuer exposes a row's column values in a fixed order.
type Valuer interface {
	Values() []any
}

// Distinct drops rows that are equal across every column, keeping the first
// occurrence. Rows are bucketed by an xxh3 hash of their values and compared
// exactly inside a bucket, so hash collisions never merge distinct rows.
type Distinct[T Valuer] struct{}

// Apply implements transformer.Transformer.
func (Distinct[T]) Apply(in []T) []T {
	if len(in) < 2 {
		return in
	}

	buckets := make(map[uint64][]int, len(in))
	out := make([]T, 0, len(in))
	var scratch []byte

	for _, r := range in {
		vals := r.Values()
		scratch = appendValues(scratch[:0], vals)
		h := xxh3.Hash(scratch)

		dup := false
		for _, j := range buckets[h] {
			if equalValues(out[j].Values(), vals) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		buckets[h] = append(buckets[h], len(out))
		out = append(out, r)
	}
	return out
}

// appendValues encodes vals with a type tag per value so that, e.g., the
// string "1" and the int 1 hash differently and nil differs from "".
func appendValues(b []byte, vals []any) []byte {
	for _, v := range vals {
		switch t := v.(type) {
		case nil:
			b = append(b, 0)
		case string:
			b = append(b, 1)
			b = binary.LittleEndian.AppendUint32(b, uint32(len(t)))
			b = append(b, t...)
		case int32:
			b = append(b, 2)
			b = binary.LittleEndian.AppendUint32(b, uint32(t))
		case int64:
			b = append(b, 3)
			b = binary.LittleEndian.AppendUint64(b, uint64(t))
		case int:
			b = append(b, 3)
			b = binary.LittleEndian.AppendUint64(b, uint64(t))
		case float64:
			b = append(b, 4)
			b = binary.LittleEndian.AppendUint64(b, math.Float64bits(t))
		case *float64:
			if t == nil {
				b = append(b, 0)
			} else {
				b = append(b, 4)
				b = binary.LittleEndian.AppendUint64(b, math.Float64bits(*t))
			}
		case bool:
			if t {
				b = append(b, 5, 1)
			} else {
				b = append(b, 5, 0)
			}
		case time.Time:
			b = append(b, 6)
			b = binary.LittleEndian.AppendUint64(b, uint64(t.UnixNano()))
		default:
			s := fmt.Sprint(t)
			b = append(b, 7)
			b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
			b = append(b, s...)
		}
	}
	return b
}

// equalValues compares two value lists column by column. Pointers to
// floats compare by pointee, times by instant.
func equalValues(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalValue(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch x := a.(type) {
	case *float64:
		y, ok := b.(*float64)
		if !ok {
			return false
		}
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y || (math.IsNaN(*x) && math.IsNaN(*y))
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (math.IsNaN(x) && math.IsNaN(y)))
	default:
		return a == b
	}
}
