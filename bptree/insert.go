package bptree

import "cmp"

// splitResult carries the new right-hand node produced by a split, and the
// separator key the caller must absorb into its own keys/children.
type splitResult[K cmp.Ordered] struct {
	right *node[K]
	sep   K
}

// insertResult is what the recursive insert helper returns in addition to
// the success flag: ok is false iff key was already present (duplicate),
// in which case split is always nil and must be propagated unchanged by
// every caller up the recursion.
type insertResult[K cmp.Ordered] struct {
	ok    bool
	split *splitResult[K]
}

// Insert adds key with the given record pointer. It reports false and
// leaves the tree unchanged iff key is already present.
func (t *Tree[K]) Insert(key K, ptr RecordPointer) bool {
	if t.root == nil {
		t.root = &node[K]{leaf: true, keys: []K{key}, ptrs: []RecordPointer{ptr}}
		debugCheck(t)
		return true
	}

	res := t.insert(t.root, key, ptr)
	if !res.ok {
		return false
	}
	if res.split != nil {
		t.root = &node[K]{
			leaf:     false,
			keys:     []K{res.split.sep},
			children: []*node[K]{t.root, res.split.right},
		}
	}
	debugCheck(t)
	return true
}

func (t *Tree[K]) insert(n *node[K], key K, ptr RecordPointer) insertResult[K] {
	if n.leaf {
		return t.insertLeaf(n, key, ptr)
	}

	i := indexForDescend(n.keys, key)
	res := t.insert(n.children[i], key, ptr)
	if !res.ok || res.split == nil {
		return res
	}
	return t.insertIntoInternal(n, i, res.split)
}

func (t *Tree[K]) insertLeaf(n *node[K], key K, ptr RecordPointer) insertResult[K] {
	i := firstIndexGE(n.keys, key)
	if i < len(n.keys) && n.keys[i] == key {
		return insertResult[K]{ok: false}
	}

	if len(n.keys) < t.fanout-1 {
		n.keys = insertAt(n.keys, i, key)
		n.ptrs = insertAt(n.ptrs, i, ptr)
		return insertResult[K]{ok: true}
	}

	return insertResult[K]{ok: true, split: t.splitLeaf(n, i, key, ptr)}
}

// splitLeaf merges key/ptr into a conceptual array of fanout entries, then
// divides it floor(fanout/2) left, ceil(fanout/2) right, and stitches the
// new right leaf into the sibling chain between n and n's old next.
func (t *Tree[K]) splitLeaf(n *node[K], i int, key K, ptr RecordPointer) *splitResult[K] {
	keys := insertAt(append([]K(nil), n.keys...), i, key)
	ptrs := insertAt(append([]RecordPointer(nil), n.ptrs...), i, ptr)

	left := t.fanout / 2
	right := &node[K]{
		leaf: true,
		keys: append([]K(nil), keys[left:]...),
		ptrs: append([]RecordPointer(nil), ptrs[left:]...),
	}
	n.keys = keys[:left]
	n.ptrs = ptrs[:left]

	right.next = n.next
	if right.next != nil {
		right.next.prev = right
	}
	right.prev = n
	n.next = right

	return &splitResult[K]{right: right, sep: right.keys[0]}
}

func (t *Tree[K]) insertIntoInternal(n *node[K], i int, sp *splitResult[K]) insertResult[K] {
	if len(n.keys) < t.fanout-1 {
		n.keys = insertAt(n.keys, i, sp.sep)
		n.children = insertAt(n.children, i+1, sp.right)
		return insertResult[K]{ok: true}
	}
	return insertResult[K]{ok: true, split: t.splitInternal(n, i, sp)}
}

// splitInternal virtually inserts the separator and right child to form
// fanout keys and fanout+1 children, retains the first fanout/2 keys and
// fanout/2+1 children in n, promotes the middle key, and moves the rest to
// a new right node.
func (t *Tree[K]) splitInternal(n *node[K], i int, sp *splitResult[K]) *splitResult[K] {
	keys := insertAt(append([]K(nil), n.keys...), i, sp.sep)
	children := insertAt(append([]*node[K](nil), n.children...), i+1, sp.right)

	mid := t.fanout / 2
	promoted := keys[mid]

	right := &node[K]{
		leaf:     false,
		keys:     append([]K(nil), keys[mid+1:]...),
		children: append([]*node[K](nil), children[mid+1:]...),
	}
	n.keys = keys[:mid]
	n.children = children[:mid+1]

	return &splitResult[K]{right: right, sep: promoted}
}
