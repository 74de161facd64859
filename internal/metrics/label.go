// Package metrics implements a low-overhead dimensional counter engine.
//
// Each worker goroutine records labeled increments into its own Context with
// no heap allocation on the repeated-key path. Batches (Snapshots) are flushed
// over a channel to a single Aggregator that merges them into a global Store.
//
// The package is built around three rules:
//   - No locks anywhere on the recording path. Correctness comes from
//     exclusive per-worker ownership plus message-passing handoff of whole
//     Snapshots.
//   - Identities are hashed once per operation and probed with a weak
//     comparator, so a stack-held lookup key can be matched against stored
//     owned keys without being materialized first.
//   - Label values are trusted to provide collision-free surrogates. A
//     colliding surrogate silently merges two distinct labels; see LabelValue.
package metrics

import "strconv"

// LabelValue is the capability contract for anything usable as a metric label.
//
// Surrogate must be stable and deterministic for a logical value: the store
// hashes and compares labels by (label name, surrogate) only, never by the
// display form. Two distinct values of the same label type that return the
// same surrogate will be silently conflated into one counter. This is a
// deliberate trade-off that keeps the hot path allocation-free; implementors
// are responsible for surrogate uniqueness within their type.
//
// Clone returns an owned, type-erased copy; it is called only when an
// identity is first persisted into a store.
type LabelValue interface {
	Surrogate() uint64
	String() string
	Clone() LabelValue
}

// Uint64Label is a ready-made numeric label value.
type Uint64Label uint64

func (v Uint64Label) Surrogate() uint64 { return uint64(v) }

func (v Uint64Label) String() string { return strconv.FormatUint(uint64(v), 10) }

func (v Uint64Label) Clone() LabelValue { return v }
