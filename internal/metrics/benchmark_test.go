package metrics

import "testing"

// =============================================================================
// Hot-path allocation guarantees
// =============================================================================

// After an identity has been seen once, further Updates against it must not
// touch the heap: the borrowed name is hashed and probed in place, never
// materialized. This is the engine's core property.
func TestStore_RepeatedUpdateDoesNotAllocate(t *testing.T) {
	store := NewStore()
	var dest LabelValue = hostH1

	// First sight pays the one-time toOwned allocation; prime it.
	prime := NameWith1("foo", "dest", dest)
	store.Update(&prime, 0)

	allocs := testing.AllocsPerRun(1000, func() {
		n := NameWith1("foo", "dest", dest)
		store.Update(&n, 1)
	})
	if allocs != 0 {
		t.Errorf("repeated Update allocated %.1f times per call, want 0", allocs)
	}
}

func TestSnapshot_RepeatedIncrementDoesNotAllocate(t *testing.T) {
	snap := NewSnapshot()
	var dest LabelValue = hostH2

	snap.Increment(Counter{Key: "foo", LabelName: "dest", Label: dest, Delta: 1})

	// Stays well below FlushThreshold, so no Take happens mid-measurement.
	allocs := testing.AllocsPerRun(1000, func() {
		snap.Increment(Counter{Key: "foo", LabelName: "dest", Label: dest, Delta: 1})
	})
	if allocs != 0 {
		t.Errorf("repeated Increment allocated %.1f times per call, want 0", allocs)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkStore_UpdateHit(b *testing.B) {
	store := NewStore()
	var dest LabelValue = hostH1
	prime := NameWith1("foo", "dest", dest)
	store.Update(&prime, 0)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		n := NameWith1("foo", "dest", dest)
		store.Update(&n, 1)
	}
}

func BenchmarkStore_UpdateUnlabeledHit(b *testing.B) {
	store := NewStore()
	prime := NewName("foo")
	store.Update(&prime, 0)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		n := NewName("foo")
		store.Update(&n, 1)
	}
}

func BenchmarkStore_Get(b *testing.B) {
	store := NewStore()
	var dest LabelValue = hostH1
	prime := NameWith1("foo", "dest", dest)
	store.Update(&prime, 123)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		n := NameWith1("foo", "dest", dest)
		store.Get(&n)
	}
}

func BenchmarkSnapshot_Increment(b *testing.B) {
	snap := NewSnapshot()
	hosts := []LabelValue{hostH1, hostH2, hostH3}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		snap.Increment(Counter{Key: "foo", LabelName: "dest", Label: hosts[i%3], Delta: 1})
	}
}

func BenchmarkStore_Merge(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		dst := buildStore(map[testHost]uint64{hostH1: 1, hostH2: 2, hostH3: 3})
		src := buildStore(map[testHost]uint64{hostH1: 4, hostH2: 5, hostH3: 6})
		b.StartTimer()

		dst.Merge(src)
	}
}
