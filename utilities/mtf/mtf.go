// Package mtf implements the move-to-front table used by the RLE3 transform.
//
// A [Table] is a recency-ordered permutation of all 256 byte values. Encoding a
// byte returns its current position and promotes it to the front; decoding an
// index returns the byte at that position and promotes it the same way. As long
// as both sides start from a freshly reset table and see the same sequence of
// operations, they stay in lockstep.
//
// Tables are plain values with no shared state. Every encode or decode pass
// must own its own table.
package mtf

import (
	"bytes"

	"github.com/boljen/go-bitmap"
)

// Size is the number of entries in a table, one per possible byte value.
const Size = 256

// Table is a move-to-front table. The zero value is NOT usable; call [New] or
// [Table.Reset] first.
type Table struct {
	entries [Size]byte
}

// New returns a table initialized to the identity permutation.
func New() *Table {
	table := &Table{}
	table.Reset()
	return table
}

// Reset restores the identity permutation, i.e. value i at position i.
func (table *Table) Reset() {
	for i := 0; i < Size; i++ {
		table.entries[i] = byte(i)
	}
}

// IndexOf returns the position of `value` in the table without modifying it.
//
// Since the table is always a full permutation the byte is guaranteed to be
// found. bytes.IndexByte is vectorized on most platforms and returns the lowest
// matching index, which is all we need.
func (table *Table) IndexOf(value byte) int {
	return bytes.IndexByte(table.entries[:], value)
}

// At returns the byte at the given position without modifying the table.
func (table *Table) At(index byte) byte {
	return table.entries[index]
}

// Encode returns the position of `value` and moves it to the front.
func (table *Table) Encode(value byte) byte {
	index := table.IndexOf(value)
	table.promote(index, value)
	return byte(index)
}

// Decode returns the byte at position `index` and moves it to the front.
func (table *Table) Decode(index byte) byte {
	value := table.entries[index]
	table.promote(int(index), value)
	return value
}

// promote shifts entries [0, index) right by one and puts value at position 0.
func (table *Table) promote(index int, value byte) {
	if index == 0 {
		return
	}
	copy(table.entries[1:index+1], table.entries[:index])
	table.entries[0] = value
}

// Snapshot returns a copy of the current ordering.
func (table *Table) Snapshot() [Size]byte {
	return table.entries
}

// IsPermutation checks that every byte value appears exactly once.
func (table *Table) IsPermutation() bool {
	seen := bitmap.New(Size)
	for _, value := range table.entries {
		if seen.Get(int(value)) {
			return false
		}
		seen.Set(int(value), true)
	}
	return true
}
