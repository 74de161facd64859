// Package baseline implements the comparison recording strategies the
// thread-local engine is benchmarked against. They are not part of the
// engine: both funnel every increment through shared state, which is exactly
// the contention the snapshot-batching design avoids.
package baseline

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the minimal surface a baseline strategy offers the bench
// runner: record one labeled increment, read the running total back.
type Recorder interface {
	Record(dest string, delta uint64)
	Total() uint64
}

// AtomicRecorder is the simplest possible strategy: one process-wide atomic
// counter shared by every worker. Labels are discarded.
type AtomicRecorder struct {
	n atomic.Uint64
}

// NewAtomicRecorder creates a zeroed recorder.
func NewAtomicRecorder() *AtomicRecorder {
	return &AtomicRecorder{}
}

// Record adds delta to the shared counter.
func (r *AtomicRecorder) Record(_ string, delta uint64) {
	r.n.Add(delta)
}

// Total returns the current counter value.
func (r *AtomicRecorder) Total() uint64 {
	return r.n.Load()
}

// PromRecorder delegates to a prometheus CounterVec on a private registry,
// standing in for "hand the increments to an external metrics library".
type PromRecorder struct {
	reg *prometheus.Registry
	vec *prometheus.CounterVec
}

// NewPromRecorder creates a recorder with its own registry so runs don't
// collide with any process-global metrics.
func NewPromRecorder() *PromRecorder {
	reg := prometheus.NewRegistry()
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dimtally_requests_total",
		Help: "Synthetic workload increments recorded via the prometheus baseline.",
	}, []string{"dest"})
	reg.MustRegister(vec)
	return &PromRecorder{reg: reg, vec: vec}
}

// Record increments the dest-labeled counter.
func (r *PromRecorder) Record(dest string, delta uint64) {
	r.vec.WithLabelValues(dest).Add(float64(delta))
}

// Total gathers the registry and sums all counter children. Far more
// expensive than the engine's query surface; it exists so the bench runner
// can poll for its stop condition.
func (r *PromRecorder) Total() uint64 {
	mfs, err := r.reg.Gather()
	if err != nil {
		return 0
	}
	var total uint64
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += uint64(c.GetValue())
			}
		}
	}
	return total
}
