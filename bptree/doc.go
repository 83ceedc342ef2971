// Package bptree implements an in-memory B+ tree keyed by any ordered type.
//
// A Tree owns a possibly-empty subtree rooted at a single node. Internal
// nodes route searches over up to fanout-1 separator keys and fanout
// children; leaf nodes hold up to fanout-1 (key, RecordPointer) entries in
// ascending order and are linked into a doubly-linked chain so RangeScan can
// walk consecutive leaves without re-descending the tree.
//
// The tree is not safe for concurrent use. Callers that need concurrent
// access must serialize it externally (single-writer, or one-writer/
// many-readers) — Tree itself holds no lock.
package bptree
