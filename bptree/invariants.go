package bptree

import (
	"cmp"
	"fmt"
)

// CheckInvariants walks the whole tree and verifies the structural
// invariants from the design: key uniqueness and ascending order, equal
// root-to-leaf path lengths, node occupancy bounds, separator correctness,
// and leaf-chain integrity. It is not used on any hot path — it exists for
// tests and for the debug-build assertions in debug_assert.go.
func (t *Tree[K]) CheckInvariants() error {
	if t.root == nil {
		return nil
	}

	height, err := t.checkNode(t.root, true, nil, nil)
	if err != nil {
		return err
	}
	_ = height

	return t.checkLeafChain()
}

// checkNode recurses through the subtree rooted at n, verifying occupancy
// and separator correctness, and returns the subtree's height (a leaf
// counts as 1). Each internal node compares the heights of its children
// and reports any difference as an unequal-path-length error.
func (t *Tree[K]) checkNode(n *node[K], isRoot bool, lower, upper *K) (int, error) {
	leafMin := t.fanout / 2
	internalMin := (t.fanout - 1) / 2

	if n.leaf {
		if !isRoot && (len(n.keys) < leafMin || len(n.keys) > t.fanout-1) {
			return 0, fmt.Errorf("bptree: leaf occupancy %d outside [%d, %d]", len(n.keys), leafMin, t.fanout-1)
		}
		if isRoot && len(n.keys) > t.fanout-1 {
			return 0, fmt.Errorf("bptree: root leaf occupancy %d exceeds %d", len(n.keys), t.fanout-1)
		}
		for i := 1; i < len(n.keys); i++ {
			if !(n.keys[i-1] < n.keys[i]) {
				return 0, fmt.Errorf("bptree: leaf keys not strictly ascending at %d", i)
			}
		}
		if err := checkBounds(n.keys, lower, upper); err != nil {
			return 0, err
		}
		return 1, nil
	}

	if !isRoot && (len(n.keys) < internalMin || len(n.keys) > t.fanout-1) {
		return 0, fmt.Errorf("bptree: internal occupancy %d outside [%d, %d]", len(n.keys), internalMin, t.fanout-1)
	}
	if isRoot && len(n.keys) < 1 {
		return 0, fmt.Errorf("bptree: internal root has zero keys")
	}
	if len(n.children) != len(n.keys)+1 {
		return 0, fmt.Errorf("bptree: internal node has %d keys but %d children", len(n.keys), len(n.children))
	}
	for i := 1; i < len(n.keys); i++ {
		if !(n.keys[i-1] < n.keys[i]) {
			return 0, fmt.Errorf("bptree: internal keys not strictly ascending at %d", i)
		}
	}
	if err := checkBounds(n.keys, lower, upper); err != nil {
		return 0, err
	}

	var height = -1
	for i, child := range n.children {
		var lo, hi *K
		if i > 0 {
			lo = &n.keys[i-1]
		} else {
			lo = lower
		}
		if i < len(n.keys) {
			hi = &n.keys[i]
		} else {
			hi = upper
		}
		h, err := t.checkNode(child, false, lo, hi)
		if err != nil {
			return 0, err
		}
		if height == -1 {
			height = h
		} else if h != height {
			return 0, fmt.Errorf("bptree: unequal root-to-leaf path lengths (%d vs %d)", height, h)
		}
	}
	return height + 1, nil
}

// checkBounds verifies every key in keys satisfies lower <= k < upper,
// where a nil bound is unconstrained — the separator-correctness
// invariant applied to whatever subtree range this node was reached under.
func checkBounds[K cmp.Ordered](keys []K, lower, upper *K) error {
	for _, k := range keys {
		if lower != nil && k < *lower {
			return fmt.Errorf("bptree: key %v below subtree lower bound %v", k, *lower)
		}
		if upper != nil && !(k < *upper) {
			return fmt.Errorf("bptree: key %v not below subtree upper bound %v", k, *upper)
		}
	}
	return nil
}

// checkLeafChain walks the leftmost path to the first leaf, then follows
// next links, verifying doubly-linked consistency and that the chain
// visits every leaf reachable from the root exactly once.
func (t *Tree[K]) checkLeafChain() error {
	cur := t.root
	for !cur.leaf {
		cur = cur.children[0]
	}

	if cur.prev != nil {
		return fmt.Errorf("bptree: first leaf has non-nil prev")
	}

	count := 0
	var last *node[K]
	for cur != nil {
		if cur.prev != last {
			return fmt.Errorf("bptree: leaf chain prev mismatch at position %d", count)
		}
		last = cur
		count++
		cur = cur.next
	}

	want := t.countLeaves(t.root)
	if count != want {
		return fmt.Errorf("bptree: leaf chain visited %d leaves, tree has %d", count, want)
	}
	return nil
}

func (t *Tree[K]) countLeaves(n *node[K]) int {
	if n.leaf {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += t.countLeaves(c)
	}
	return total
}
