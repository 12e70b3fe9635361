// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package bitvec defines a bit vector type useful for
// tracking which elements of a fixed-size set need work
// (e.g., which rows of a frame must be redrawn).
package bitvec

import (
	"iter"
	"math/bits"
	"unsafe"
)

// Uint represents the granularity of a bit vector.
type Uint interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// V is a resizable bit vector with custom granularity.
type V[T Uint] struct {
	s   []T
	n   int
	cnt int
}

// nbit returns the number of bits in T.
func (*V[T]) nbit() int { return int(unsafe.Sizeof(T(0))) * 8 }

// Len returns the number of bits in the vector.
func (v *V[_]) Len() int { return v.n }

// Count returns the number of set bits in the vector.
func (v *V[_]) Count() int { return v.cnt }

// Resize changes the vector to hold n bits, all of them
// unset. Non-positive values of n empty the vector.
func (v *V[T]) Resize(n int) {
	n = max(n, 0)
	nb := v.nbit()
	w := (n + nb - 1) / nb
	if cap(v.s) < w {
		v.s = make([]T, w)
	} else {
		v.s = v.s[:w]
		clear(v.s)
	}
	v.n = n
	v.cnt = 0
}

// Set sets a given bit.
func (v *V[T]) Set(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.cnt++
	}
}

// Unset unsets a given bit.
func (v *V[T]) Unset(index int) {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.cnt--
	}
}

// IsSet checks whether a given bit is set.
func (v *V[T]) IsSet(index int) bool {
	n := v.nbit()
	i := index / n
	b := T(1) << (index & (n - 1))
	return v.s[i]&b != 0
}

// SetAll sets every bit in the vector.
func (v *V[T]) SetAll() {
	if v.cnt == v.n {
		return
	}
	for i := range v.s {
		v.s[i] = ^T(0)
	}
	// Bits past Len must stay unset.
	if r := v.n % v.nbit(); r != 0 {
		v.s[len(v.s)-1] = T(1)<<r - 1
	}
	v.cnt = v.n
}

// Clear unsets every bit in the vector.
func (v *V[T]) Clear() {
	if v.cnt == 0 {
		return
	}
	clear(v.s)
	v.cnt = 0
}

// Ones returns an iterator over the indices of the set
// bits, in increasing order.
// The vector must not be changed during iteration.
func (v *V[T]) Ones() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := v.nbit()
		for i, x := range v.s {
			for x != 0 {
				b := bits.TrailingZeros64(uint64(x))
				if !yield(i*n + b) {
					return
				}
				x &^= T(1) << b
			}
		}
	}
}
