package bench

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// MetricsRecorder mirrors each recorded Result into Prometheus gauges and
// can dump them to a textfile-collector-compatible file, so benchmark
// results can be picked up by a local Prometheus instance as well as read
// from the CSV. The file holds whatever was observed up to the call to
// WriteTextfile; cmd/bench writes it once, after the whole sweep.
type MetricsRecorder struct {
	registry  *prometheus.Registry
	latencyNs *prometheus.GaugeVec
	memMB     *prometheus.GaugeVec
	objects   *prometheus.GaugeVec
}

// NewMetricsRecorder builds a recorder with its own registry, labeled by
// structure name, configuration, and operation — the same three
// dimensions a Result row carries.
func NewMetricsRecorder() *MetricsRecorder {
	labels := []string{"structure", "config", "operation"}
	r := &MetricsRecorder{
		registry: prometheus.NewRegistry(),
		latencyNs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bptree_bench_latency_ns",
			Help: "Average per-operation latency in nanoseconds for the last run of this structure/config/operation.",
		}, labels),
		memMB: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bptree_bench_mem_mb",
			Help: "Resident heap allocation in MB sampled after this run.",
		}, labels),
		objects: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bptree_bench_heap_objects",
			Help: "Live heap object count sampled after this run.",
		}, labels),
	}
	r.registry.MustRegister(r.latencyNs, r.memMB, r.objects)
	return r
}

// Observe mirrors a Result into the recorder's gauges.
func (r *MetricsRecorder) Observe(res Result) {
	labels := prometheus.Labels{"structure": res.Name, "config": res.Config, "operation": res.Operation}
	r.latencyNs.With(labels).Set(float64(res.LatencyNs))
	r.memMB.With(labels).Set(float64(res.MemMB))
	r.objects.With(labels).Set(float64(res.Objects))
}

// WriteTextfile gathers the registry and writes it in the Prometheus text
// exposition format to path, in the layout node_exporter's textfile
// collector expects.
func (r *MetricsRecorder) WriteTextfile(path string) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("bench: gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bench: create metrics file: %w", err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("bench: encode metric family: %w", err)
		}
	}
	return nil
}
