package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Target is the aggregator's stopping predicate: stop once the merged total
// for Key, summed across all label combinations, reaches Value.
type Target struct {
	Key   string
	Value uint64
}

// AggregateStats describes how a run's batches arrived, for harness
// reporting. These are statistics about the aggregation itself, not about
// the recorded metrics.
type AggregateStats struct {
	Batches        int64         `json:"batches"`
	BatchSizeP50   int64         `json:"batchSizeP50"`
	BatchSizeP99   int64         `json:"batchSizeP99"`
	BatchSizeMax   int64         `json:"batchSizeMax"`
	MergeP50       time.Duration `json:"mergeP50"`
	MergeP99       time.Duration `json:"mergeP99"`
	MergeMax       time.Duration `json:"mergeMax"`
	DrainedAtClose bool          `json:"drainedAtClose"`
}

// Aggregator is the single consumer of flushed snapshots. It owns the global
// Store: only the Run loop mutates it, and the query surface is meant for use
// after Run returns (or between runs), matching the single-threaded consumer
// model — no locks are taken.
type Aggregator struct {
	store      *Store
	batchSizes *hdrhistogram.Histogram
	mergeTimes *hdrhistogram.Histogram
	batches    int64
	closed     bool
}

// NewAggregator creates an aggregator with an empty global store.
func NewAggregator() *Aggregator {
	return &Aggregator{
		store: NewStore(),
		// Batch sizes are bounded by the flush threshold; the headroom
		// covers merged lifecycle flushes.
		batchSizes: hdrhistogram.New(1, FlushThreshold*10, 3),
		// Merge latency in microseconds, up to one minute.
		mergeTimes: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Run consumes snapshots from in until either the channel is closed (all
// senders gone) or the merged total for target.Key reaches target.Value.
//
// Once the target is met Run returns immediately; batches sent afterwards are
// simply never drained. That loss is acceptable: producers are shut down by
// the surrounding runtime, not by the aggregator, and their sends are
// best-effort.
//
// The return value is the merged total for target.Key at the moment Run
// stopped (zero if the key was never recorded).
func (a *Aggregator) Run(in <-chan *Snapshot, target Target) uint64 {
	for snap := range in {
		start := time.Now()
		a.store.Merge(snap.Store())
		_ = a.mergeTimes.RecordValue(time.Since(start).Microseconds())
		_ = a.batchSizes.RecordValue(int64(snap.Increments()))
		a.batches++

		if total, ok := a.store.GetAllDims(target.Key); ok && total >= target.Value {
			return total
		}
	}
	a.closed = true
	total, _ := a.store.GetAllDims(target.Key)
	return total
}

// Get returns the merged count for an exact identity.
func (a *Aggregator) Get(n *Name) (uint64, bool) {
	return a.store.Get(n)
}

// GetAllDims returns the merged count for key summed over all label
// combinations.
func (a *Aggregator) GetAllDims(key string) (uint64, bool) {
	return a.store.GetAllDims(key)
}

// Store exposes the merged global store for reporting.
func (a *Aggregator) Store() *Store { return a.store }

// Stats summarizes batch arrival and merge cost for the completed run.
func (a *Aggregator) Stats() AggregateStats {
	return AggregateStats{
		Batches:        a.batches,
		BatchSizeP50:   a.batchSizes.ValueAtQuantile(50),
		BatchSizeP99:   a.batchSizes.ValueAtQuantile(99),
		BatchSizeMax:   a.batchSizes.Max(),
		MergeP50:       time.Duration(a.mergeTimes.ValueAtQuantile(50)) * time.Microsecond,
		MergeP99:       time.Duration(a.mergeTimes.ValueAtQuantile(99)) * time.Microsecond,
		MergeMax:       time.Duration(a.mergeTimes.Max()) * time.Microsecond,
		DrainedAtClose: a.closed,
	}
}
