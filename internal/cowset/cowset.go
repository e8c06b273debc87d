// Package cowset provides a small, copy-on-write set container.
//
// Fragment nodes typically carry only a handful of items and parents,
// and are read far more often than written. Rather than reach for a
// general hash set, Set keeps its
// elements in a plain slice and replaces the whole slice on every mutation.
// Readers that captured a slice via Snapshot or All before a concurrent
// writer ran observe the pre-mutation state in full; they never see a
// torn or partially-updated set. This mirrors the Cloner/whole-value-swap
// discipline gaissmai-bart uses for its persistent table variants, applied
// here to a slice instead of a tree.
package cowset

import "iter"

// Set is a copy-on-write set of comparable elements. The zero value is an
// empty, usable set. Set is not safe for concurrent mutation; callers
// serialize writes (the graph engine does this with its write lock) but
// concurrent reads of a Set value obtained before a write started are safe.
type Set[T comparable] struct {
	elems []T
}

// New returns a Set containing the given elements, deduplicated.
func New[T comparable](elems ...T) Set[T] {
	var s Set[T]
	for _, e := range elems {
		s = s.Add(e)
	}
	return s
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s.elems)
}

// Contains reports whether v is a member of the set.
func (s Set[T]) Contains(v T) bool {
	for _, e := range s.elems {
		if e == v {
			return true
		}
	}
	return false
}

// Add returns a new Set with v added. If v is already present, the
// receiver's backing slice is reused unchanged (Add is then a no-op aside
// from the returned copy of the header).
func (s Set[T]) Add(v T) Set[T] {
	if s.Contains(v) {
		return s
	}
	next := make([]T, len(s.elems), len(s.elems)+1)
	copy(next, s.elems)
	next = append(next, v)
	return Set[T]{elems: next}
}

// Remove returns a new Set with v removed. If v is not present, the
// receiver is returned unchanged.
func (s Set[T]) Remove(v T) Set[T] {
	idx := -1
	for i, e := range s.elems {
		if e == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	next := make([]T, 0, len(s.elems)-1)
	next = append(next, s.elems[:idx]...)
	next = append(next, s.elems[idx+1:]...)
	return Set[T]{elems: next}
}

// All returns a snapshot-safe range iterator over the set's elements, in
// unspecified order. The iterator reflects the set exactly as it was when
// All was called; subsequent Add/Remove calls on other copies of this Set
// never retroactively affect it.
func (s Set[T]) All() iter.Seq[T] {
	elems := s.elems
	return func(yield func(T) bool) {
		for _, e := range elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Snapshot returns the set's elements as a plain slice the caller owns.
// Mutating the returned slice does not affect s.
func (s Set[T]) Snapshot() []T {
	out := make([]T, len(s.elems))
	copy(out, s.elems)
	return out
}
