// Package btree is a classic (non-B+) in-memory B-tree: values live at
// every level, not just the leaves, and deletion uses predecessor/successor
// rotation rather than the leaf-chain rebalancing the sibling bptree
// package uses. It exists in this module to give the benchmark suite a
// same-shape structure that differs from a B+ tree only in where values
// are stored, isolating that one design choice's effect on measurements.
package btree

import (
	"errors"
	"slices"

	"github.com/btreeindex/bptree/bench"
)

var _ bench.Index = (*Index)(nil)

type node struct {
	leaf     bool
	keys     []int64
	values   [][]byte
	children []*node
}

// Tree is a degree-t B-tree: every non-root node holds between t-1 and
// 2t-1 keys.
type Tree struct {
	t    int
	root *node
}

// New builds an empty tree of the given minimum degree. t < 2 is clamped
// to 2, the smallest degree for which the split arithmetic holds.
func New(t int) *Tree {
	if t < 2 {
		t = 2
	}
	return &Tree{t: t, root: &node{leaf: true}}
}

// Index wraps Tree in the bench.Index interface.
type Index struct {
	t *Tree
}

func NewIndex(t int) *Index { return &Index{t: New(t)} }

func (x *Index) Insert(key int64, value []byte) error { x.t.Insert(key, value); return nil }

func (x *Index) Get(key int64) ([]byte, error) {
	v, ok := x.t.Get(key)
	if !ok {
		return nil, errors.New("btree: key not found")
	}
	return v, nil
}

func (x *Index) Delete(key int64) error { return x.t.Delete(key) }

func (x *Index) Range(start, end int64) (bench.Iterator, error) { return x.t.Range(start, end) }

func (x *Index) Close() error { return nil }

func (t *Tree) Get(key int64) ([]byte, bool) {
	return t.search(t.root, key)
}

func (t *Tree) search(x *node, key int64) ([]byte, bool) {
	i, found := slices.BinarySearch(x.keys, key)
	if found {
		return x.values[i], true
	}
	if x.leaf {
		return nil, false
	}
	return t.search(x.children[i], key)
}

func (t *Tree) Insert(key int64, value []byte) {
	root := t.root
	if len(root.keys) == 2*t.t-1 {
		newRoot := &node{children: []*node{root}}
		t.splitChild(newRoot, 0)
		t.root = newRoot
	}
	t.insertNonFull(t.root, key, value)
}

func (t *Tree) insertNonFull(x *node, k int64, v []byte) {
	if x.leaf {
		idx, found := slices.BinarySearch(x.keys, k)
		if found {
			x.values[idx] = v
			return
		}
		x.keys = slices.Insert(x.keys, idx, k)
		x.values = slices.Insert(x.values, idx, v)
		return
	}
	i := 0
	for i < len(x.keys) && k > x.keys[i] {
		i++
	}
	if len(x.children[i].keys) == 2*t.t-1 {
		t.splitChild(x, i)
		if k > x.keys[i] {
			i++
		}
	}
	t.insertNonFull(x.children[i], k, v)
}

func (t *Tree) splitChild(x *node, i int) {
	deg := t.t
	y := x.children[i]
	z := &node{leaf: y.leaf}
	z.keys = append(z.keys, y.keys[deg:]...)
	z.values = append(z.values, y.values[deg:]...)
	if !y.leaf {
		z.children = append(z.children, y.children[deg:]...)
	}

	midKey, midVal := y.keys[deg-1], y.values[deg-1]
	y.keys, y.values = y.keys[:deg-1], y.values[:deg-1]
	if !y.leaf {
		y.children = y.children[:deg]
	}

	x.keys = slices.Insert(x.keys, i, midKey)
	x.values = slices.Insert(x.values, i, midVal)
	x.children = slices.Insert(x.children, i+1, z)
}

func (t *Tree) Delete(key int64) error {
	_, found := t.search(t.root, key)
	if !found {
		return errors.New("btree: key not found")
	}
	t.delete(t.root, key)
	if len(t.root.keys) == 0 && !t.root.leaf {
		t.root = t.root.children[0]
	}
	return nil
}

func (t *Tree) delete(x *node, k int64) {
	idx, found := slices.BinarySearch(x.keys, k)
	if found {
		if x.leaf {
			x.keys = slices.Delete(x.keys, idx, idx+1)
			x.values = slices.Delete(x.values, idx, idx+1)
		} else {
			t.deleteInternal(x, idx)
		}
		return
	}
	if x.leaf {
		return
	}
	child := x.children[idx]
	if len(child.keys) < t.t {
		t.fill(x, idx)
	}
	if idx > len(x.keys) {
		t.delete(x.children[idx-1], k)
	} else {
		t.delete(x.children[idx], k)
	}
}

func (t *Tree) deleteInternal(x *node, i int) {
	k, y, z := x.keys[i], x.children[i], x.children[i+1]
	if len(y.keys) >= t.t {
		pk, pv := t.getPred(y)
		x.keys[i], x.values[i] = pk, pv
		t.delete(y, pk)
	} else if len(z.keys) >= t.t {
		sk, sv := t.getSucc(z)
		x.keys[i], x.values[i] = sk, sv
		t.delete(z, sk)
	} else {
		t.merge(x, i)
		t.delete(y, k)
	}
}

func (t *Tree) getPred(x *node) (int64, []byte) {
	for !x.leaf {
		x = x.children[len(x.keys)]
	}
	return x.keys[len(x.keys)-1], x.values[len(x.values)-1]
}

func (t *Tree) getSucc(x *node) (int64, []byte) {
	for !x.leaf {
		x = x.children[0]
	}
	return x.keys[0], x.values[0]
}

func (t *Tree) fill(x *node, i int) {
	if i != 0 && len(x.children[i-1].keys) >= t.t {
		t.borrowPrev(x, i)
	} else if i != len(x.keys) && len(x.children[i+1].keys) >= t.t {
		t.borrowNext(x, i)
	} else if i != len(x.keys) {
		t.merge(x, i)
	} else {
		t.merge(x, i-1)
	}
}

func (t *Tree) borrowPrev(x *node, i int) {
	c, s := x.children[i], x.children[i-1]
	c.keys = slices.Insert(c.keys, 0, x.keys[i-1])
	c.values = slices.Insert(c.values, 0, x.values[i-1])
	if !c.leaf {
		c.children = slices.Insert(c.children, 0, s.children[len(s.keys)])
		s.children = s.children[:len(s.keys)]
	}
	x.keys[i-1], x.values[i-1] = s.keys[len(s.keys)-1], s.values[len(s.keys)-1]
	s.keys, s.values = s.keys[:len(s.keys)-1], s.values[:len(s.values)-1]
}

func (t *Tree) borrowNext(x *node, i int) {
	c, s := x.children[i], x.children[i+1]
	c.keys, c.values = append(c.keys, x.keys[i]), append(c.values, x.values[i])
	if !c.leaf {
		c.children = append(c.children, s.children[0])
		s.children = slices.Delete(s.children, 0, 1)
	}
	x.keys[i], x.values[i] = s.keys[0], s.values[0]
	s.keys, s.values = s.keys[1:], s.values[1:]
}

func (t *Tree) merge(x *node, i int) {
	y, z := x.children[i], x.children[i+1]
	y.keys, y.values = append(y.keys, x.keys[i]), append(y.values, x.values[i])
	y.keys, y.values = append(y.keys, z.keys...), append(y.values, z.values...)
	if !y.leaf {
		y.children = append(y.children, z.children...)
	}
	x.keys, x.values = slices.Delete(x.keys, i, i+1), slices.Delete(x.values, i, i+1)
	x.children = slices.Delete(x.children, i+1, i+2)
}

// Range returns an iterator over every key in [start, end], built eagerly
// by an in-order walk — the plain B-tree has no leaf chain to stream from.
func (t *Tree) Range(start, end int64) (*Iterator, error) {
	it := &Iterator{idx: -1}
	t.collect(t.root, start, end, it)
	return it, nil
}

func (t *Tree) collect(x *node, s, e int64, it *Iterator) {
	for i := 0; i < len(x.keys); i++ {
		if !x.leaf {
			t.collect(x.children[i], s, e, it)
		}
		if x.keys[i] >= s && x.keys[i] <= e {
			it.entries = append(it.entries, entry{x.keys[i], x.values[i]})
		}
	}
	if !x.leaf {
		t.collect(x.children[len(x.keys)], s, e, it)
	}
}

type entry struct {
	key   int64
	value []byte
}

type Iterator struct {
	entries []entry
	idx     int
}

func (it *Iterator) Next() bool    { it.idx++; return it.idx < len(it.entries) }
func (it *Iterator) Key() int64    { return it.entries[it.idx].key }
func (it *Iterator) Value() []byte { return it.entries[it.idx].value }
func (it *Iterator) Error() error  { return nil }
func (it *Iterator) Close() error  { return nil }
