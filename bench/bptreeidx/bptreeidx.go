// Package bptreeidx wraps the in-memory bptree.Tree in the bench.Index
// interface so it can be swept alongside the reference B-tree and
// LSM-tree implementations.
package bptreeidx

import (
	"errors"

	"github.com/btreeindex/bptree/bptree"
	"github.com/btreeindex/bptree/bench"
)

var _ bench.Index = (*Index)(nil)

// Index adapts a bptree.Tree[int64]. RecordPointer is an opaque 8-byte
// handle the tree never interprets, so it is used here purely as a handle
// into a side table holding the actual value bytes and the key that
// produced it — the tree supplies ordering, the side table supplies
// payload.
type Index struct {
	tree   *bptree.Tree[int64]
	values map[uint32][]byte
	keyOf  map[uint32]int64
	ptrOf  map[int64]bptree.RecordPointer
	next   uint32
}

// New builds an Index over a fresh B+ tree with the given fanout.
func New(fanout int) *Index {
	return &Index{
		tree:   bptree.New[int64](fanout),
		values: make(map[uint32][]byte),
		keyOf:  make(map[uint32]int64),
		ptrOf:  make(map[int64]bptree.RecordPointer),
	}
}

func (x *Index) Insert(key int64, value []byte) error {
	if ptr, ok := x.ptrOf[key]; ok {
		x.values[ptr.PageID] = value
		return nil
	}
	x.next++
	ptr := bptree.RecordPointer{PageID: x.next, SlotID: x.next}
	x.tree.Insert(key, ptr)
	x.ptrOf[key] = ptr
	x.keyOf[ptr.PageID] = key
	x.values[ptr.PageID] = value
	return nil
}

func (x *Index) Get(key int64) ([]byte, error) {
	ptr, ok := x.tree.Get(key)
	if !ok {
		return nil, errors.New("bptreeidx: key not found")
	}
	return x.values[ptr.PageID], nil
}

func (x *Index) Delete(key int64) error {
	ptr, ok := x.ptrOf[key]
	if !ok {
		return errors.New("bptreeidx: key not found")
	}
	x.tree.Remove(key)
	delete(x.ptrOf, key)
	delete(x.keyOf, ptr.PageID)
	delete(x.values, ptr.PageID)
	return nil
}

func (x *Index) Range(start, end int64) (bench.Iterator, error) {
	ptrs := x.tree.RangeScan(start, end)
	return &rangeIterator{idx: x, ptrs: ptrs, i: -1}, nil
}

func (x *Index) Close() error { return nil }

type rangeIterator struct {
	idx  *Index
	ptrs []bptree.RecordPointer
	i    int
}

func (it *rangeIterator) Next() bool {
	it.i++
	return it.i < len(it.ptrs)
}

func (it *rangeIterator) Key() int64 {
	return it.idx.keyOf[it.ptrs[it.i].PageID]
}

func (it *rangeIterator) Value() []byte {
	return it.idx.values[it.ptrs[it.i].PageID]
}

func (it *rangeIterator) Error() error { return nil }
func (it *rangeIterator) Close() error { return nil }
