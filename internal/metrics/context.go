package metrics

// Context is the per-worker recording endpoint. Every worker goroutine owns
// exactly one, created for it by the runtime layer and never shared, so no
// synchronization appears anywhere on the increment path.
//
// Lifecycle: Connect must be called exactly once, before any Increment; the
// runtime's park/stop callbacks use TakeSnapshot to force-flush whatever is
// pending so increments are not lost when the worker goes idle or exits.
type Context struct {
	out  chan<- *Snapshot
	snap *Snapshot
}

// NewContext creates an unconnected context.
func NewContext() *Context {
	return &Context{}
}

// Connect binds the context to the aggregator channel and allocates its
// initial empty snapshot.
func (c *Context) Connect(out chan<- *Snapshot) {
	c.out = out
	c.snap = NewSnapshot()
}

// Connected reports whether Connect has been called.
func (c *Context) Connected() bool { return c.snap != nil }

// Increment records one counter observation. When the live snapshot crosses
// the flush threshold it is detached and sent to the aggregator.
//
// Calling Increment before Connect is a contract violation and panics.
func (c *Context) Increment(m Counter) {
	if c.snap == nil {
		panic("metrics: Context.Increment called before Connect")
	}
	if c.snap.Increment(m) {
		c.send(c.snap.Take())
	}
}

// TakeSnapshot detaches the current snapshot, leaving an empty one live.
// Exposed for the runtime's park/stop lifecycle callbacks; callers should
// check Empty before forwarding the result so idle workers don't emit
// zero-increment batches.
func (c *Context) TakeSnapshot() *Snapshot {
	if c.snap == nil {
		panic("metrics: Context.TakeSnapshot called before Connect")
	}
	return c.snap.Take()
}

// Flush force-flushes the pending snapshot to the aggregator, suppressing
// empty batches. It is the one-call form of TakeSnapshot + send used by
// lifecycle hooks.
func (c *Context) Flush() {
	if c.snap == nil || c.snap.Empty() {
		return
	}
	c.send(c.snap.Take())
}

// send hands a detached snapshot to the aggregator without blocking. A full
// or closed-down channel means the batch is dropped: the aggregator may have
// already met its target, and this engine is a monitoring endpoint, not a
// ledger. The worker keeps recording into its fresh snapshot either way.
func (c *Context) send(s *Snapshot) {
	select {
	case c.out <- s:
	default:
	}
}
