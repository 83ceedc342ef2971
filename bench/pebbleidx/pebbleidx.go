// Package pebbleidx wraps Pebble (CockroachDB's LSM storage engine) behind
// the bench.Index interface, standing in for a production-grade LSM tree
// in the benchmark sweep alongside the from-scratch lsmtree implementation.
package pebbleidx

import (
	"encoding/binary"
	"fmt"

	"github.com/btreeindex/bptree/bench"
	"github.com/cockroachdb/pebble"
)

var _ bench.Index = (*Index)(nil)

type Index struct {
	db *pebble.DB
}

// Open opens (or creates) a Pebble database at dir. Benchmarks typically
// point this at a throwaway temp directory since nothing here persists
// beyond the process.
func Open(dir string) (*Index, error) {
	opts := &pebble.Options{
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 4,
		L0CompactionThreshold:       4,
		L0StopWritesThreshold:       12,
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("pebbleidx: open: %w", err)
	}
	return &Index{db: db}, nil
}

func (x *Index) Close() error {
	return x.db.Close()
}

func (x *Index) Insert(key int64, value []byte) error {
	return x.db.Set(encodeKey(key), value, pebble.NoSync)
}

func (x *Index) Get(key int64) ([]byte, error) {
	val, closer, err := x.db.Get(encodeKey(key))
	if err == pebble.ErrNotFound {
		return nil, fmt.Errorf("pebbleidx: key not found")
	}
	if err != nil {
		return nil, fmt.Errorf("pebbleidx: get: %w", err)
	}
	result := make([]byte, len(val))
	copy(result, val)
	closer.Close()
	return result, nil
}

func (x *Index) Delete(key int64) error {
	if err := x.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return fmt.Errorf("pebbleidx: delete: %w", err)
	}
	return nil
}

// Range returns an iterator over every key in [start, end] inclusive.
func (x *Index) Range(start, end int64) (bench.Iterator, error) {
	iterOpts := &pebble.IterOptions{
		LowerBound: encodeKey(start),
		UpperBound: encodeKeyExclusive(end),
	}
	iter, err := x.db.NewIter(iterOpts)
	if err != nil {
		return nil, fmt.Errorf("pebbleidx: range: %w", err)
	}
	iter.First()
	return &rangeIterator{iter: iter, first: true}, nil
}

// encodeKey encodes an int64 as big-endian 8 bytes, preserving numeric
// sort order the way Pebble's byte-lexicographic ordering requires. The
// sign bit is flipped so negative keys sort before non-negative ones.
func encodeKey(k int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(k)^(1<<63))
	return b
}

// encodeKeyExclusive converts our inclusive upper bound into Pebble's
// exclusive UpperBound convention.
func encodeKeyExclusive(k int64) []byte {
	return encodeKey(k + 1)
}

type rangeIterator struct {
	iter  *pebble.Iterator
	first bool
	key   int64
	val   []byte
	err   error
}

func (it *rangeIterator) Next() bool {
	var valid bool
	if it.first {
		it.first = false
		valid = it.iter.Valid()
	} else {
		valid = it.iter.Next()
	}
	if !valid {
		return false
	}
	k := it.iter.Key()
	if len(k) != 8 {
		it.err = fmt.Errorf("pebbleidx: unexpected key length %d", len(k))
		return false
	}
	it.key = int64(binary.BigEndian.Uint64(k) ^ (1 << 63))
	v := it.iter.Value()
	it.val = make([]byte, len(v))
	copy(it.val, v)
	return true
}

func (it *rangeIterator) Key() int64    { return it.key }
func (it *rangeIterator) Value() []byte { return it.val }
func (it *rangeIterator) Error() error  { return it.err }
func (it *rangeIterator) Close() error  { return it.iter.Close() }
