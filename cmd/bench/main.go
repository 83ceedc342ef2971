// Command bench sweeps the in-memory B+ tree, reference B-tree and
// LSM-tree baselines, and a Pebble-backed index across a range of
// configurations, recording latency and memory footprint to CSV, a
// Prometheus textfile, and a comparison chart.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/btreeindex/bptree/bench"
	"github.com/btreeindex/bptree/bench/bptreeidx"
	"github.com/btreeindex/bptree/bench/btree"
	"github.com/btreeindex/bptree/bench/lsmtree"
	"github.com/btreeindex/bptree/bench/pebbleidx"
)

func main() {
	f, err := os.Create("bench_results.csv")
	if err != nil {
		fmt.Println("bench: create csv:", err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"})

	recorder := bench.NewMetricsRecorder()

	fanouts := []int{8, 32, 128}
	lsmThresholds := []int{1000, 10000}
	scale := 200000

	var bptreeSeries, btreeSeries bench.Series
	bptreeSeries.Label, btreeSeries.Label = "BPlusTree", "BTree"

	for _, fo := range fanouts {
		lat := runSuite(w, recorder, "BPlusTree", fo, bptreeidx.New(fo), scale)
		bptreeSeries.X = append(bptreeSeries.X, float64(fo))
		bptreeSeries.Y = append(bptreeSeries.Y, float64(lat))

		lat = runSuite(w, recorder, "BTree", fo, btree.NewIndex(fo), scale)
		btreeSeries.X = append(btreeSeries.X, float64(fo))
		btreeSeries.Y = append(btreeSeries.Y, float64(lat))
	}

	for _, th := range lsmThresholds {
		runSuite(w, recorder, "LSM-Tree", th, lsmtree.New(th), scale)
	}

	dir, err := os.MkdirTemp("", "pebbleidx-bench")
	if err == nil {
		defer os.RemoveAll(dir)
		if pidx, err := pebbleidx.Open(dir); err == nil {
			runSuite(w, recorder, "Pebble", 0, pidx, scale)
		} else {
			fmt.Println("bench: pebble open:", err)
		}
	}

	w.Flush()

	if err := bench.RenderLatencyChart(
		"Insert latency vs fanout", "fanout", "ns/op",
		[]bench.Series{bptreeSeries, btreeSeries}, "bench_latency.png",
	); err != nil {
		fmt.Println("bench: render chart:", err)
	}

	if err := recorder.WriteTextfile("bench_metrics.prom"); err != nil {
		fmt.Println("bench: write metrics textfile:", err)
	}

	fmt.Println("Benchmark complete: bench_results.csv, bench_latency.png, bench_metrics.prom")
}

func runSuite(w *csv.Writer, recorder *bench.MetricsRecorder, name string, conf int, idx bench.Index, n int) int64 {
	fmt.Printf("Testing %s (Config: %d)\n", name, conf)
	confStr := strconv.Itoa(conf)

	start := time.Now()
	for k := 0; k < n; k++ {
		idx.Insert(int64(k), []byte("v"))
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	stats := bench.Snapshot()
	record(w, recorder, bench.Result{
		Name: name, Config: confStr, Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency, MemMB: stats.AllocMB, Objects: stats.HeapObjects,
	})

	start = time.Now()
	bench.ExecuteWorkload(idx, bench.OLTP, n/2)
	record(w, recorder, bench.Result{
		Name: name, Config: confStr, Operation: "Workload_OLTP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), MemMB: bench.Snapshot().AllocMB,
	})

	start = time.Now()
	bench.ExecuteWorkload(idx, bench.OLAP, n/2)
	record(w, recorder, bench.Result{
		Name: name, Config: confStr, Operation: "Workload_OLAP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), MemMB: bench.Snapshot().AllocMB,
	})

	start = time.Now()
	bench.ExecuteWorkload(idx, bench.Reporting, 100)
	record(w, recorder, bench.Result{
		Name: name, Config: confStr, Operation: "Workload_Range",
		LatencyNs: time.Since(start).Nanoseconds() / 100, MemMB: bench.Snapshot().AllocMB,
	})

	idx.Close()
	return insertLatency
}

func record(w *csv.Writer, recorder *bench.MetricsRecorder, res bench.Result) {
	bench.Record(w, res)
	recorder.Observe(res)
}
