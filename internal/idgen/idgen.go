// Package idgen assigns surrogate keys to fact rows.
package idgen

import "fmt"

// PartitionShift is the number of low bits reserved for the row number
// within a partition: up to 8,589,934,591 rows per partition.
const PartitionShift = 33

// MaxPartition is the largest partition index that keeps ids positive.
const MaxPartition = 1<<(63-PartitionShift) - 1

// Monotonic hands out ids of the form partition<<33 | row. Ids are unique
// and strictly increasing when partitions are visited in ascending order,
// but not contiguous across partitions. They carry no meaning outside one
// run.
//
// A Monotonic is not safe for concurrent use; give each goroutine its own
// partition via ForPartition.
type Monotonic struct {
	base uint64
	next uint64
}

// ForPartition returns a generator for partition p.
func ForPartition(p int) (*Monotonic, error) {
	if p < 0 || p > MaxPartition {
		return nil, fmt.Errorf("idgen: partition %d out of range [0, %d]", p, MaxPartition)
	}
	return &Monotonic{base: uint64(p) << PartitionShift}, nil
}

// Next returns the next id.
func (m *Monotonic) Next() int64 {
	id := m.base | m.next
	m.next++
	return int64(id)
}

// Split decomposes an id into its partition and row number.
func Split(id int64) (partition int, row int64) {
	return int(uint64(id) >> PartitionShift), id & (1<<PartitionShift - 1)
}
