//go:build bptreedebug

package bptree

import "cmp"

// debugCheck panics if the tree's structural invariants don't hold. It is
// only compiled in with the bptreedebug build tag — Insert and Remove call
// it after every mutation that leaves a non-empty tree (not on the duplicate
// or missing-key paths, which change nothing), and it is a no-op in ordinary
// builds (see debug_assert_off.go). Invariant violations are a programming
// error in the tree, not a user-facing outcome, so they panic rather than
// return an error.
func debugCheck[K cmp.Ordered](t *Tree[K]) {
	if err := t.CheckInvariants(); err != nil {
		panic(err)
	}
}
