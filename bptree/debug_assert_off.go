//go:build !bptreedebug

package bptree

import "cmp"

// debugCheck is a no-op without the bptreedebug build tag; see
// debug_assert.go.
func debugCheck[K cmp.Ordered](_ *Tree[K]) {}
