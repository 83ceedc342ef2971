package bptree

import (
	"cmp"
	"sort"
)

// node is the tagged-variant representation of both InternalNode and
// LeafNode from the original design: a single struct discriminated by
// leaf, whose fields the algorithms read directly. Virtual dispatch isn't used — the
// leaf/internal branch is shallow and already correlated with every call
// site that would need it.
type node[K cmp.Ordered] struct {
	leaf bool
	keys []K

	// internal-only
	children []*node[K]

	// leaf-only
	ptrs []RecordPointer
	prev *node[K]
	next *node[K]
}

// indexForDescend returns the smallest i such that k < keys[i], or
// len(keys) if no such i exists (the fallthrough to the rightmost child).
func indexForDescend[K cmp.Ordered](keys []K, k K) int {
	return sort.Search(len(keys), func(i int) bool { return k < keys[i] })
}

// firstIndexGE returns the smallest i such that keys[i] >= k, or len(keys).
func firstIndexGE[K cmp.Ordered](keys []K, k K) int {
	return sort.Search(len(keys), func(i int) bool { return !(keys[i] < k) })
}

func insertAt[T any](s []T, i int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
