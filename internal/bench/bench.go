// Package bench orchestrates benchmark runs: it wires a workload onto a
// recording strategy, waits for the target total, and collects the result.
package bench

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dimtally/dimtally/internal/baseline"
	"github.com/dimtally/dimtally/internal/config"
	"github.com/dimtally/dimtally/internal/metrics"
	"github.com/dimtally/dimtally/internal/runner"
	"github.com/dimtally/dimtally/internal/workload"
)

// Result is the outcome of one run.
type Result struct {
	Name    string        `json:"name,omitempty"`
	Mode    string        `json:"mode"`
	Workers int           `json:"workers"`
	Tasks   int           `json:"tasks"`
	Total   uint64        `json:"total"`
	Elapsed time.Duration `json:"elapsed"`

	// RatePerSec is Total divided by Elapsed.
	RatePerSec float64 `json:"ratePerSec"`

	// Counters holds the merged per-identity counts (tlv mode only),
	// keyed by the identity's display form.
	Counters map[string]uint64 `json:"counters,omitempty"`

	// Aggregate describes batch arrival for the run (tlv mode only).
	Aggregate *metrics.AggregateStats `json:"aggregate,omitempty"`
}

// Runner executes benchmark runs for a validated configuration.
type Runner struct {
	cfg *config.RunConfig
	log *zap.Logger
}

// NewRunner validates cfg and builds a Runner.
func NewRunner(cfg *config.RunConfig, log *zap.Logger) (*Runner, error) {
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}, nil
}

// Run executes the configured mode and returns its result.
func (r *Runner) Run() (*Result, error) {
	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	r.log.Info("run starting",
		zap.String("mode", r.cfg.Mode),
		zap.Int("workers", workers),
		zap.Int("tasks", r.cfg.Tasks),
		zap.Uint64("target", r.cfg.Target.Value),
	)

	var (
		res *Result
		err error
	)
	switch r.cfg.Mode {
	case config.ModeTLV:
		res = r.runEngine(workers)
	case config.ModeAtomic:
		res = r.runBaseline(workers, baseline.NewAtomicRecorder())
	case config.ModeProm:
		res = r.runBaseline(workers, baseline.NewPromRecorder())
	default:
		err = fmt.Errorf("unknown mode: %s", r.cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	res.Name = r.cfg.Name
	res.Mode = r.cfg.Mode
	res.Workers = workers
	res.Tasks = r.cfg.Tasks
	res.RatePerSec = float64(res.Total) / res.Elapsed.Seconds()

	r.log.Info("run finished",
		zap.String("mode", res.Mode),
		zap.Uint64("total", res.Total),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// runEngine drives the thread-local engine: a worker pool feeding snapshots
// to a single aggregator.
func (r *Runner) runEngine(workers int) *Result {
	// Buffered generously so best-effort sends rarely drop before the
	// target is met; after it, drops are the intended behavior.
	capacity := workers * 4
	if capacity < 64 {
		capacity = 64
	}
	ch := make(chan *metrics.Snapshot, capacity)

	pool := runner.NewPool(runner.Config{
		Workers: workers,
		Out:     ch,
		Logger:  r.log,
	})
	pool.Start()

	gen := workload.Generator{Iterations: r.cfg.Iterations, YieldEvery: r.cfg.YieldEvery}
	stop := make(chan struct{})
	go func() {
		// Once the target is met the pool is shut down in the
		// background; tasks not yet submitted are abandoned. Closing
		// ch after the last worker exits is what lets the aggregator
		// stop when the workload alone can't reach the target.
		defer func() {
			pool.Shutdown()
			close(ch)
		}()
		for i := 0; i < r.cfg.Tasks; i++ {
			select {
			case <-stop:
				return
			default:
			}
			pool.Submit(gen.Task())
		}
	}()

	start := time.Now()
	agg := metrics.NewAggregator()
	total := agg.Run(ch, metrics.Target{Key: r.cfg.Target.Key, Value: r.cfg.Target.Value})
	elapsed := time.Since(start)
	close(stop)

	counters := make(map[string]uint64, agg.Store().Len())
	agg.Store().Each(func(name *metrics.OwnedName, count uint64) {
		counters[name.String()] = count
	})
	stats := agg.Stats()

	return &Result{
		Total:     total,
		Elapsed:   elapsed,
		Counters:  counters,
		Aggregate: &stats,
	}
}

// runBaseline drives a shared-state recorder with plain goroutines: no
// contexts, no snapshots, just the recorder's own synchronization.
func (r *Runner) runBaseline(workers int, rec baseline.Recorder) *Result {
	perWorker := r.cfg.Tasks / workers
	if r.cfg.Tasks%workers != 0 {
		perWorker++
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := 0; t < perWorker; t++ {
				for i := 0; i < r.cfg.Iterations; i++ {
					rec.Record(workload.Hosts[i%len(workload.Hosts)].String(), 1)
					if r.cfg.YieldEvery > 0 && (i+1)%r.cfg.YieldEvery == 0 {
						select {
						case <-stop:
							return
						default:
						}
						runtime.Gosched()
					}
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(100 * time.Microsecond)
	defer ticker.Stop()
poll:
	for rec.Total() < r.cfg.Target.Value {
		select {
		case <-done:
			break poll
		case <-ticker.C:
		}
	}
	elapsed := time.Since(start)
	close(stop)

	return &Result{Total: rec.Total(), Elapsed: elapsed}
}
