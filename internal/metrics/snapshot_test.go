package metrics

import "testing"

func TestSnapshot_IncrementAndTake(t *testing.T) {
	snap := NewSnapshot()

	const k = 100
	for i := 0; i < k; i++ {
		snap.Increment(Counter{Key: "foo", LabelName: "dest", Label: hostH1, Delta: 2})
	}

	detached := snap.Take()

	if total, ok := detached.Store().GetAllDims("foo"); !ok || total != 2*k {
		t.Errorf("detached GetAllDims = (%d, %v), want (%d, true)", total, ok, 2*k)
	}
	if detached.Increments() != k {
		t.Errorf("detached Increments = %d, want %d", detached.Increments(), k)
	}

	// The original snapshot must be empty after the take.
	if !snap.Empty() {
		t.Error("snapshot not empty after Take")
	}
	if _, ok := snap.Store().GetAllDims("foo"); ok {
		t.Error("snapshot store still holds entries after Take")
	}
}

// The flush signal fires on exactly the call that reaches the threshold.
func TestSnapshot_ThresholdSignal(t *testing.T) {
	snap := NewSnapshot()

	c := Counter{Key: "foo", Delta: 1}
	for i := uint64(1); i < FlushThreshold; i++ {
		if snap.Increment(c) {
			t.Fatalf("flush signaled at increment %d, want only at %d", i, uint64(FlushThreshold))
		}
	}
	if !snap.Increment(c) {
		t.Fatalf("no flush signal at increment %d", uint64(FlushThreshold))
	}
}

func TestSnapshot_Empty(t *testing.T) {
	snap := NewSnapshot()
	if !snap.Empty() {
		t.Error("fresh snapshot not empty")
	}
	snap.Increment(Counter{Key: "foo", Delta: 1})
	if snap.Empty() {
		t.Error("snapshot empty after an increment")
	}
	snap.Take()
	if !snap.Empty() {
		t.Error("snapshot not empty after Take")
	}
}

func TestCounter_UnlabeledName(t *testing.T) {
	snap := NewSnapshot()
	snap.Increment(Counter{Key: "foo", Delta: 5})

	n := NewName("foo")
	if got, ok := snap.Store().Get(&n); !ok || got != 5 {
		t.Errorf("Get = (%d, %v), want (5, true)", got, ok)
	}
}
