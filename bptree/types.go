package bptree

// RecordPointer is an opaque locator the tree stores but never interprets:
// a (page, slot) pair pointing at wherever the caller's storage layer keeps
// the actual record. The zero value is a valid, meaningless placeholder.
type RecordPointer struct {
	PageID uint32
	SlotID uint32
}
