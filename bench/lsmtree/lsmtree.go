// Package lsmtree is a minimal leveled LSM tree kept entirely in memory:
// a mutable memtable that flushes into sorted, Bloom-filtered segments,
// which are themselves periodically compacted down the level stack. It
// gives the benchmark suite a write-optimized structure to measure against
// the read-optimized B+ tree and B-tree.
package lsmtree

import (
	"container/heap"
	"errors"
	"slices"
	"sort"

	"github.com/btreeindex/bptree/bench"
)

var _ bench.Index = (*Tree)(nil)

type entry struct {
	key   int64
	value []byte // nil marks a tombstone
}

type segment struct {
	data   []entry
	filter *bloomFilter
}

// Tree is an in-memory LSM tree with a fixed number of levels; L0 holds
// unmerged flushed segments and each level above merges and deduplicates
// the one below it once it accumulates enough segments.
type Tree struct {
	memtable  []entry
	levels    [][]segment
	threshold int
}

// New builds a tree that flushes its memtable to L0 once it reaches
// threshold entries.
func New(threshold int) *Tree {
	if threshold < 1 {
		threshold = 1
	}
	return &Tree{
		threshold: threshold,
		memtable:  make([]entry, 0, threshold),
		levels:    make([][]segment, 5),
	}
}

func (l *Tree) Insert(key int64, value []byte) error {
	l.memtable = append(l.memtable, entry{key, value})
	if len(l.memtable) >= l.threshold {
		l.flush()
	}
	return nil
}

func (l *Tree) Delete(key int64) error {
	return l.Insert(key, nil)
}

func (l *Tree) flush() {
	slices.SortFunc(l.memtable, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		default:
			return 0
		}
	})

	filter := newBloom(len(l.memtable)*10, 3)
	for _, e := range l.memtable {
		filter.add(e.key)
	}

	l.levels[0] = append([]segment{{data: l.memtable, filter: filter}}, l.levels[0]...)
	l.memtable = make([]entry, 0, l.threshold)

	l.checkCompaction(0)
}

func (l *Tree) checkCompaction(level int) {
	if len(l.levels[level]) >= 10 && level < len(l.levels)-1 {
		l.compactLevel(level)
	}
}

func (l *Tree) compactLevel(level int) {
	var combined []entry
	for _, s := range l.levels[level] {
		combined = append(combined, s.data...)
	}

	// Stable: newer segments sort first within equal keys, so the
	// dedup pass below keeps the newest version of each key.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].key < combined[j].key
	})

	var compacted []entry
	for i := 0; i < len(combined); i++ {
		if i > 0 && combined[i].key == combined[i-1].key {
			continue
		}
		compacted = append(compacted, combined[i])
	}

	filter := newBloom(len(compacted)*10, 3)
	for _, e := range compacted {
		filter.add(e.key)
	}

	l.levels[level+1] = append([]segment{{data: compacted, filter: filter}}, l.levels[level+1]...)
	l.levels[level] = make([]segment, 0)

	l.checkCompaction(level + 1)
}

func (l *Tree) Get(key int64) ([]byte, error) {
	for i := len(l.memtable) - 1; i >= 0; i-- {
		if l.memtable[i].key == key {
			if l.memtable[i].value == nil {
				return nil, errors.New("lsmtree: key deleted")
			}
			return l.memtable[i].value, nil
		}
	}

	for _, level := range l.levels {
		for _, s := range level {
			if !s.filter.test(key) {
				continue
			}
			idx, found := slices.BinarySearchFunc(s.data, key, func(e entry, t int64) int {
				switch {
				case e.key < t:
					return -1
				case e.key > t:
					return 1
				default:
					return 0
				}
			})
			if found {
				if s.data[idx].value == nil {
					return nil, errors.New("lsmtree: key deleted")
				}
				return s.data[idx].value, nil
			}
		}
	}
	return nil, errors.New("lsmtree: key not found")
}

// Range merges the memtable and every segment via a k-way heap merge,
// keeping only the newest version of each key (segments are pushed in
// newest-first order) and dropping tombstones, then returns the result as
// a materialized iterator.
func (l *Tree) Range(start, end int64) (bench.Iterator, error) {
	h := &mergeHeap{}
	heap.Init(h)

	if len(l.memtable) > 0 {
		sorted := append([]entry(nil), l.memtable...)
		slices.SortFunc(sorted, func(a, b entry) int {
			switch {
			case a.key < b.key:
				return -1
			case a.key > b.key:
				return 1
			default:
				return 0
			}
		})
		heap.Push(h, &heapItem{data: sorted, index: 0})
	}
	for _, level := range l.levels {
		for _, seg := range level {
			if len(seg.data) > 0 {
				heap.Push(h, &heapItem{data: seg.data, index: 0})
			}
		}
	}

	var final []entry
	var lastKey int64
	first := true

	for h.Len() > 0 {
		item := heap.Pop(h).(*heapItem)
		e := item.data[item.index]

		if e.key >= start && e.key <= end && (first || e.key != lastKey) {
			if e.value != nil {
				final = append(final, e)
			}
			lastKey = e.key
			first = false
		}

		item.index++
		if item.index < len(item.data) {
			heap.Push(h, item)
		}
	}

	return &rangeIterator{entries: final, idx: -1}, nil
}

func (l *Tree) Close() error { return nil }

type heapItem struct {
	data  []entry
	index int
}

type mergeHeap []*heapItem

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].data[h[i].index].key < h[j].data[h[j].index].key }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(*heapItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

type rangeIterator struct {
	entries []entry
	idx     int
}

func (it *rangeIterator) Next() bool    { it.idx++; return it.idx < len(it.entries) }
func (it *rangeIterator) Key() int64    { return it.entries[it.idx].key }
func (it *rangeIterator) Value() []byte { return it.entries[it.idx].value }
func (it *rangeIterator) Error() error  { return nil }
func (it *rangeIterator) Close() error  { return nil }
