package metrics

import (
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// storeSeq hands out distinct hash seeds. Stepping by a large odd constant
// (Weyl sequence) keeps consecutive seeds well separated.
var storeSeq atomic.Uint64

func nextSeed() uint64 {
	return storeSeq.Add(0x9e3779b97f4a7c15)
}

type entry struct {
	name  OwnedName
	count uint64
}

// Store maps owned metric identities to running uint64 counts.
//
// A Store is single-owner: one goroutine mutates it at a time, so it carries
// no locks. Buckets are keyed by the full 64-bit hash of an identity; the
// (rare) collision bucket is probed with the weak comparator. Because a
// borrowed Name is hashed and compared directly against stored OwnedNames,
// the common "already seen" Update path performs no allocation and no rehash.
//
// Each Store hashes under its own seed, so identities moving between stores
// (Merge) are always rehashed under the destination's seed.
type Store struct {
	seed    uint64
	digest  xxhash.Digest
	buckets map[uint64][]entry
	n       int
}

// NewStore creates an empty store with a fresh hash seed.
func NewStore() *Store {
	return &Store{
		seed:    nextSeed(),
		buckets: make(map[uint64][]entry),
	}
}

func (s *Store) hashBorrowed(n *Name) uint64 {
	s.digest.ResetWithSeed(s.seed)
	n.hashInto(&s.digest)
	return s.digest.Sum64()
}

func (s *Store) hashOwned(o *OwnedName) uint64 {
	s.digest.ResetWithSeed(s.seed)
	o.hashInto(&s.digest)
	return s.digest.Sum64()
}

// Update adds delta to the counter addressed by n, creating it at delta if
// this store has never seen the identity.
//
// The hash is computed once; an existing entry is found and bumped in place
// without converting n to its owned form. Only a first-seen identity pays the
// toOwned allocation.
func (s *Store) Update(n *Name, delta uint64) {
	h := s.hashBorrowed(n)
	b := s.buckets[h]
	for i := range b {
		if b[i].name.matchesBorrowed(n) {
			b[i].count += delta
			return
		}
	}
	s.buckets[h] = append(b, entry{name: n.toOwned(), count: delta})
	s.n++
}

// Get returns the exact counter for n. Unlike Update this path carries no
// hot-path guarantee; it may cost more and that is acceptable.
func (s *Store) Get(n *Name) (uint64, bool) {
	h := s.hashBorrowed(n)
	for i := range s.buckets[h] {
		e := &s.buckets[h][i]
		if e.name.matchesBorrowed(n) {
			return e.count, true
		}
	}
	return 0, false
}

// GetAllDims sums every entry recorded under key regardless of labels.
// Linear over all entries; used when a metric recorded with different label
// combinations should be reported in aggregate. The second return is false
// when no entry carries the key.
func (s *Store) GetAllDims(key string) (uint64, bool) {
	var total uint64
	found := false
	for _, b := range s.buckets {
		for i := range b {
			if b[i].name.key == key {
				total += b[i].count
				found = true
			}
		}
	}
	return total, found
}

// Merge folds every entry of other into s, rehashing each identity under this
// store's seed (seeds differ between independently constructed stores). Each
// previously unseen identity is adopted as-is, so merging allocates at most
// once per new identity and nothing for identities s already tracks.
//
// Merge takes ownership of other's entries; other must not be used afterwards.
func (s *Store) Merge(other *Store) {
	for _, b := range other.buckets {
		for i := range b {
			e := &b[i]
			h := s.hashOwned(&e.name)
			dst := s.buckets[h]
			hit := false
			for j := range dst {
				if dst[j].name.matchesOwned(&e.name) {
					dst[j].count += e.count
					hit = true
					break
				}
			}
			if !hit {
				s.buckets[h] = append(dst, entry{name: e.name, count: e.count})
				s.n++
			}
		}
	}
}

// Len returns the number of distinct identities tracked.
func (s *Store) Len() int { return s.n }

// Each calls fn for every (identity, count) pair in unspecified order.
func (s *Store) Each(fn func(name *OwnedName, count uint64)) {
	for _, b := range s.buckets {
		for i := range b {
			fn(&b[i].name, b[i].count)
		}
	}
}
