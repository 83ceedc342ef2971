// Package bench defines the common interface every index implementation
// under comparison is benchmarked through, plus the workload generators and
// measurement plumbing shared across them.
package bench

// Index is the uniform surface every competing structure is wrapped in:
// the in-memory B+ tree under test, reference B-tree and LSM-tree
// baselines, and a Pebble-backed index standing in for a mature
// production LSM engine.
//
// The interface has no save/load methods. Every implementation lives in
// memory except the Pebble-backed one, which writes to the directory it is
// opened on.
type Index interface {
	Insert(key int64, value []byte) error
	Get(key int64) ([]byte, error)
	Delete(key int64) error
	Range(start, end int64) (Iterator, error)
	Close() error
}

// Iterator walks a Range result in ascending key order.
type Iterator interface {
	Next() bool
	Key() int64
	Value() []byte
	Error() error
	Close() error
}
