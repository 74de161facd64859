package metrics

// FlushThreshold is the number of increments a Snapshot accumulates before it
// signals that it should be flushed to the aggregator. Larger batches
// amortize the channel-send cost but delay aggregator visibility.
const FlushThreshold = 50000

// Counter is the metric descriptor workload code records with: a static key,
// an optional single label, and a count delta. It is decomposed into a
// borrowed identity at the increment site, so recording a Counter whose
// identity the snapshot has already seen allocates nothing.
type Counter struct {
	Key       string
	LabelName string
	Label     LabelValue
	Delta     uint64
}

func (c *Counter) name() Name {
	if c.Label == nil {
		return NewName(c.Key)
	}
	return NameWith1(c.Key, c.LabelName, c.Label)
}

// Snapshot is one worker's accumulation buffer: a Store plus an increment
// count. It is exclusively owned — by the recording Context while live, then
// by the aggregator after being taken and sent.
type Snapshot struct {
	store *Store
	cnt   uint64
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{store: NewStore()}
}

// Increment records c and reports whether the flush threshold has been
// reached. The signal fires on exactly the call that reaches FlushThreshold,
// not before.
func (s *Snapshot) Increment(c Counter) bool {
	n := c.name()
	s.store.Update(&n, c.Delta)
	s.cnt++
	return s.cnt >= FlushThreshold
}

// Take swaps the snapshot's store and count for fresh empty ones and returns
// the previous state as a detached snapshot. The swap is a single logical
// operation under exclusive ownership: there is no window where the caller
// and the context observe inconsistent state.
func (s *Snapshot) Take() *Snapshot {
	prev := &Snapshot{store: s.store, cnt: s.cnt}
	s.store = NewStore()
	s.cnt = 0
	return prev
}

// Empty reports whether nothing has been recorded since creation or the last
// Take. Used to suppress sending empty batches on lifecycle flushes.
func (s *Snapshot) Empty() bool { return s.cnt == 0 }

// Increments returns the number of increments accumulated.
func (s *Snapshot) Increments() uint64 { return s.cnt }

// Store exposes the underlying store, primarily so the aggregator can merge
// a detached snapshot.
func (s *Snapshot) Store() *Store { return s.store }
