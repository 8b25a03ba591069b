package sets

import (
	"cmp"
	"maps"
	"slices"
)

// Set is a simple generic hash set for ordered keys.
// Usage: s := sets.New("a", "b"); s.Add("c"); if s.Has("b") {...}
type Set[T cmp.Ordered] map[T]struct{}

// New creates a set pre-populated with the provided values.
func New[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts value into the set.
func (s Set[T]) Add(v T) { s[v] = struct{}{} }

// Has returns true if v is present.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Delete removes v if present.
func (s Set[T]) Delete(v T) { delete(s, v) }

// Sorted returns the members in ascending order.
func (s Set[T]) Sorted() []T {
	return slices.Sorted(maps.Keys(s))
}

// Difference returns the members of s that are not in other, sorted.
func (s Set[T]) Difference(other Set[T]) []T {
	out := make([]T, 0)
	for v := range s {
		if !other.Has(v) {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
