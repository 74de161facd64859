package workload

import (
	"testing"

	"github.com/dimtally/dimtally/internal/metrics"
)

func TestHost_LabelValueContract(t *testing.T) {
	seen := make(map[uint64]bool)
	for _, h := range Hosts {
		if seen[h.Surrogate()] {
			t.Fatalf("duplicate surrogate %d for host %s", h.Surrogate(), h)
		}
		seen[h.Surrogate()] = true

		clone := h.Clone()
		if clone.Surrogate() != h.Surrogate() || clone.String() != h.String() {
			t.Errorf("Clone() of %s does not preserve value", h)
		}
	}
}

func TestGenerator_Task(t *testing.T) {
	ch := make(chan *metrics.Snapshot, 4)
	ctx := metrics.NewContext()
	ctx.Connect(ch)

	g := Generator{Iterations: 300, YieldEvery: 100}
	g.Task()(ctx)

	snap := ctx.TakeSnapshot()
	if total, ok := snap.Store().GetAllDims(MetricKey); !ok || total != 300 {
		t.Errorf("GetAllDims(%s) = (%d, %v), want (300, true)", MetricKey, total, ok)
	}

	// Cycling over three hosts splits the total evenly.
	for _, h := range Hosts {
		n := metrics.NameWith1(MetricKey, LabelDest, h)
		if got, ok := snap.Store().Get(&n); !ok || got != 100 {
			t.Errorf("Get(dest=%s) = (%d, %v), want (100, true)", h, got, ok)
		}
	}
}
