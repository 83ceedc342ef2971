package bench

import (
	"encoding/csv"
	"runtime"
	"strconv"
)

// Result is one row of benchmark output: which structure, which
// configuration (fanout, degree, or memtable threshold), which operation,
// and the latency and memory footprint observed for it.
type Result struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

// MemStats is a snapshot of the Go runtime's memory accounting, taken
// right after a forced GC so it reflects live data rather than garbage
// awaiting collection.
type MemStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// Snapshot forces a GC and reads back runtime.MemStats.
func Snapshot() MemStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record appends one result row to w.
func Record(w *csv.Writer, res Result) error {
	return w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}
