// Package runner provides the worker pool that hosts recording contexts.
//
// Each worker goroutine owns exactly one metrics.Context for its lifetime.
// The pool is where the engine's lifecycle flushes are wired: a worker
// connects its context on start, force-flushes before parking on an empty
// queue, and performs a final flush when it stops. Workload code only ever
// sees the context it is handed and never shares it.
package runner

import (
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/dimtally/dimtally/internal/metrics"
)

// Task is a unit of work executed by a worker. The context passed in is the
// worker's own recording context; tasks must not retain it past their return.
type Task func(*metrics.Context)

// Config configures a Pool.
type Config struct {
	// Workers is the number of worker goroutines. Defaults to GOMAXPROCS.
	Workers int

	// QueueSize is the capacity of the task queue. Defaults to 2x Workers.
	QueueSize int

	// Out is the aggregator channel every worker context connects to.
	Out chan<- *metrics.Snapshot

	// Logger receives worker lifecycle events. Defaults to a nop logger.
	Logger *zap.Logger
}

// Pool runs tasks on a fixed set of workers, each with its own recording
// context.
type Pool struct {
	workers int
	out     chan<- *metrics.Snapshot
	log     *zap.Logger

	tasks chan Task
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewPool creates a pool. Start must be called before Submit.
func NewPool(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 2
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{
		workers: cfg.Workers,
		out:     cfg.Out,
		log:     cfg.Logger,
		tasks:   make(chan Task, cfg.QueueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
	p.log.Debug("pool started", zap.Int("workers", p.workers))
}

// Submit queues a task, blocking while the queue is full. Submitting after
// Shutdown panics, like any send on a closed channel would.
func (p *Pool) Submit(t Task) {
	p.tasks <- t
}

// Shutdown closes the queue and waits for all workers to finish their final
// flush and exit. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() { close(p.tasks) })
	p.wg.Wait()
	p.log.Debug("pool stopped")
}

// run is the worker loop. The flush points mirror a runtime's thread
// lifecycle notifications: connect on start, flush before parking on an
// empty queue, flush once more on stop.
func (p *Pool) run(id int) {
	defer p.wg.Done()

	ctx := metrics.NewContext()
	ctx.Connect(p.out)
	p.log.Debug("worker started", zap.Int("worker", id))

	for {
		select {
		case t, ok := <-p.tasks:
			if !ok {
				ctx.Flush()
				p.log.Debug("worker stopped", zap.Int("worker", id))
				return
			}
			t(ctx)
		default:
			// Queue empty: about to park. Flush whatever is pending so
			// the aggregator is not starved while we idle.
			ctx.Flush()
			t, ok := <-p.tasks
			if !ok {
				ctx.Flush()
				p.log.Debug("worker stopped", zap.Int("worker", id))
				return
			}
			t(ctx)
		}
	}
}
