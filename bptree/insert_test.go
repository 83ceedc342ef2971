package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsert_EmptyTreeBecomesSingleLeafRoot(t *testing.T) {
	tree := New[int](4)
	require.True(t, tree.IsEmpty())
	require.True(t, tree.Insert(1, rp(1)))
	require.False(t, tree.IsEmpty())
	require.True(t, tree.root.leaf)
	require.Equal(t, []int{1}, tree.root.keys)
}

func TestInsert_RejectsDuplicateKey(t *testing.T) {
	tree := New[int](4)
	require.True(t, tree.Insert(1, rp(1)))
	require.False(t, tree.Insert(1, rp(999)))

	ptr, ok := tree.Get(1)
	require.True(t, ok)
	require.Equal(t, rp(1), ptr, "value from the rejected insert must not overwrite the original")
}

func TestInsert_LeafSplitPromotesRightMinKey(t *testing.T) {
	tree := New[int](4)
	for _, k := range []int{1, 2, 3, 4} {
		require.True(t, tree.Insert(k, rp(k)))
	}

	require.False(t, tree.root.leaf, "fourth insert must overflow the leaf and grow a root")
	require.Equal(t, []int{3}, tree.root.keys)
	require.Equal(t, []int{1, 2}, tree.root.children[0].keys)
	require.Equal(t, []int{3, 4}, tree.root.children[1].keys)
}

func TestInsert_LeafSplitStitchesChain(t *testing.T) {
	tree := New[int](4)
	for k := 1; k <= 9; k++ {
		require.True(t, tree.Insert(k, rp(k)))
	}

	ls := leaves(tree)
	require.NoError(t, tree.CheckInvariants())

	var got []int
	for _, l := range ls {
		got = append(got, l.keys...)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, got)

	require.Nil(t, ls[0].prev)
	require.Nil(t, ls[len(ls)-1].next)
	for i := 1; i < len(ls); i++ {
		require.Same(t, ls[i-1], ls[i].prev)
		require.Same(t, ls[i], ls[i-1].next)
	}
}

func TestInsert_InternalSplitGrowsHeight(t *testing.T) {
	tree := New[int](4)
	// Enough inserts to force at least two internal-node splits at fanout 4.
	for k := 1; k <= 40; k++ {
		require.True(t, tree.Insert(k, rp(k)))
	}
	require.NoError(t, tree.CheckInvariants())
	require.False(t, tree.root.children[0].leaf, "an internal split must have grown the tree past two levels")

	for k := 1; k <= 40; k++ {
		ptr, ok := tree.Get(k)
		require.True(t, ok, "key %d should be present", k)
		require.Equal(t, rp(k), ptr)
	}
}

func TestInsert_OutOfOrderKeepsSortedLeaves(t *testing.T) {
	tree := New[int](4)
	keys := []int{50, 10, 90, 30, 70, 20, 80, 40, 60, 0}
	for _, k := range keys {
		require.True(t, tree.Insert(k, rp(k)))
	}
	require.NoError(t, tree.CheckInvariants())

	got := tree.RangeScan(-1000, 1000)
	require.Len(t, got, len(keys))
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1].PageID, got[i].PageID)
	}
}

func TestInsert_RandomizedMaintainsInvariants(t *testing.T) {
	for _, fanout := range []int{4, 5, 8} {
		tree := New[int](fanout)
		seen := map[int]bool{}
		seq := pseudoRandomPermutation(300, 1)
		for _, k := range seq {
			ok := tree.Insert(k, rp(k))
			require.Equal(t, !seen[k], ok)
			seen[k] = true
			require.NoError(t, tree.CheckInvariants())
		}
		for k := range seen {
			ptr, ok := tree.Get(k)
			require.True(t, ok)
			require.Equal(t, rp(k), ptr)
		}
	}
}

// pseudoRandomPermutation returns a deterministic shuffle of [0, n) using a
// small linear-congruential generator, so tests stay reproducible without
// depending on math/rand's version-specific sequence.
func pseudoRandomPermutation(n int, seed uint64) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	state := seed | 1
	for i := len(out) - 1; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int(state % uint64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
