package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemove_OnEmptyTreeIsNoop(t *testing.T) {
	tree := New[int](4)
	tree.Remove(1)
	require.True(t, tree.IsEmpty())
}

func TestRemove_MissingKeyIsNoop(t *testing.T) {
	tree := New[int](4)
	tree.Insert(1, rp(1))
	tree.Insert(2, rp(2))
	tree.Remove(99)

	ptr, ok := tree.Get(1)
	require.True(t, ok)
	require.Equal(t, rp(1), ptr)
	_, ok = tree.Get(2)
	require.True(t, ok)
}

func TestRemove_IdempotentAfterFirstRemoval(t *testing.T) {
	tree := New[int](4)
	for k := 1; k <= 20; k++ {
		tree.Insert(k, rp(k))
	}

	tree.Remove(10)
	snapshot := tree.RangeScan(0, 100)

	tree.Remove(10)
	require.Equal(t, snapshot, tree.RangeScan(0, 100))
}

func TestRemove_SingleLeafRootDrainsToEmpty(t *testing.T) {
	tree := New[int](4)
	tree.Insert(1, rp(1))
	tree.Insert(2, rp(2))
	tree.Remove(1)
	require.False(t, tree.IsEmpty())
	tree.Remove(2)
	require.True(t, tree.IsEmpty())
}

func TestRemove_LeafUnderflowRebalancesAndFixesSeparators(t *testing.T) {
	tree := New[int](4)
	for k := 1; k <= 12; k += 1 {
		tree.Insert(k, rp(k))
	}
	require.NoError(t, tree.CheckInvariants())

	// Drain a leaf down to force an underflow; depending on sibling
	// occupancy this resolves as a borrow or a merge, and either way the
	// ancestor separators above it must end up consistent.
	for _, k := range []int{5, 6} {
		tree.Remove(k)
		require.NoError(t, tree.CheckInvariants())
	}

	var want []int
	for k := 1; k <= 12; k++ {
		if k == 5 || k == 6 {
			continue
		}
		want = append(want, k)
	}
	var got []int
	for _, l := range leaves(tree) {
		got = append(got, l.keys...)
	}
	require.Equal(t, want, got)
}

func TestRemove_MergeBypassesFreedLeafInChain(t *testing.T) {
	tree := New[int](4)
	for k := 1; k <= 8; k++ {
		tree.Insert(k, rp(k))
	}
	before := leaves(tree)
	require.GreaterOrEqual(t, len(before), 2)

	// Remove enough of one leaf's contents to force a merge.
	tree.Remove(3)
	tree.Remove(4)
	require.NoError(t, tree.CheckInvariants())

	after := leaves(tree)
	require.Nil(t, after[0].prev)
	require.Nil(t, after[len(after)-1].next)
	for i := 1; i < len(after); i++ {
		require.Same(t, after[i-1], after[i].prev)
	}

	require.Equal(t, []RecordPointer{rp(1), rp(2), rp(5), rp(6), rp(7), rp(8)}, tree.RangeScan(0, 100))
}

func TestRemove_RootCollapseShrinksHeight(t *testing.T) {
	tree := New[int](4)
	for k := 1; k <= 12; k++ {
		tree.Insert(k, rp(k))
	}
	require.False(t, tree.root.leaf)

	for k := 12; k >= 4; k-- {
		tree.Remove(k)
	}
	require.NoError(t, tree.CheckInvariants())

	// Down to few enough keys that the tree should have collapsed to a
	// single leaf root at some point during the drain.
	require.True(t, tree.root.leaf)
	require.Equal(t, []int{1, 2, 3}, tree.root.keys)
}

func TestRemove_InternalBorrowFromLeftSeparatorIsPromotedKey(t *testing.T) {
	// Force a three-level tree so an internal (non-leaf) node underflows
	// and must borrow from its internal sibling, per design note #3: the
	// parent separator after the borrow must be the sibling's promoted
	// key, not the moved child's minimum key.
	tree := New[int](4)
	for k := 0; k < 200; k++ {
		tree.Insert(k, rp(k))
	}
	for k := 199; k >= 100; k-- {
		tree.Remove(k)
		require.NoError(t, tree.CheckInvariants())
	}
	for k := 0; k < 100; k++ {
		ptr, ok := tree.Get(k)
		require.True(t, ok)
		require.Equal(t, rp(k), ptr)
	}

	// A small fanout-4 tree pins the borrow itself: with 1..12 inserted the
	// root is [7] over [3 5] and [9 11]; removing 12, 11 and 10 leaves the
	// right internal node with no keys, so it borrows from its left
	// sibling. The parent separator becomes the sibling's last key (5) and
	// the old separator (7) becomes the borrowing node's first key.
	small := New[int](4)
	for k := 1; k <= 12; k++ {
		small.Insert(k, rp(k))
	}
	for _, k := range []int{12, 11, 10} {
		small.Remove(k)
	}
	require.NoError(t, small.CheckInvariants())
	require.Equal(t, []int{5}, small.root.keys)
	require.Equal(t, []int{3}, small.root.children[0].keys)
	require.Equal(t, []int{7}, small.root.children[1].keys)
}

func TestRemove_AllKeysInRandomOrderEmptiesTree(t *testing.T) {
	for _, fanout := range []int{4, 6, 9} {
		tree := New[int](fanout)
		n := 250
		insertOrder := pseudoRandomPermutation(n, 7)
		for _, k := range insertOrder {
			tree.Insert(k, rp(k))
		}
		removeOrder := pseudoRandomPermutation(n, 13)
		for i, k := range removeOrder {
			tree.Remove(k)
			require.NoError(t, tree.CheckInvariants())
			require.Equal(t, i == n-1, tree.IsEmpty())
		}
		require.True(t, tree.IsEmpty())
	}
}

func TestRemove_RandomizedInsertRemoveMixMaintainsInvariants(t *testing.T) {
	tree := New[int](5)
	present := map[int]bool{}
	state := uint64(42)
	next := func(mod int) int {
		state = state*6364136223846793005 + 1442695040888963407
		return int(state % uint64(mod))
	}

	for i := 0; i < 2000; i++ {
		k := next(500)
		if next(2) == 0 {
			ok := tree.Insert(k, rp(k))
			require.Equal(t, !present[k], ok)
			present[k] = true
		} else {
			tree.Remove(k)
			delete(present, k)
		}
		require.NoError(t, tree.CheckInvariants())
	}

	for k := 0; k < 500; k++ {
		_, ok := tree.Get(k)
		require.Equal(t, present[k], ok)
	}
}
