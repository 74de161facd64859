// Package workload provides the synthetic counter loops used to drive the
// metrics engine in benchmark runs.
package workload

import (
	"runtime"

	"github.com/dimtally/dimtally/internal/metrics"
	"github.com/dimtally/dimtally/internal/runner"
)

// MetricKey is the counter every generated task increments.
const MetricKey = "requests.total"

// LabelDest is the single label dimension the workload records under.
const LabelDest = "dest"

// Host is the destination label value. Surrogates are the enum ordinals,
// which are unique per value as the LabelValue contract requires.
type Host uint8

const (
	H1 Host = iota
	H2
	H3
)

func (h Host) Surrogate() uint64 { return uint64(h) }

func (h Host) String() string {
	switch h {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	default:
		return "unknown"
	}
}

func (h Host) Clone() metrics.LabelValue { return h }

// Hosts lists all destination values a generator cycles through.
var Hosts = [...]Host{H1, H2, H3}

// Generator builds tasks that increment MetricKey in a tight loop, cycling
// the dest label across Hosts.
type Generator struct {
	// Iterations is the number of increments one task performs.
	Iterations int

	// YieldEvery inserts a scheduler yield after this many increments, for
	// fairness with other tasks. Zero disables yielding. This is pacing
	// policy only; the recording path itself never blocks.
	YieldEvery int
}

// Task returns one runnable workload task.
func (g Generator) Task() runner.Task {
	return func(ctx *metrics.Context) {
		for i := 0; i < g.Iterations; i++ {
			ctx.Increment(metrics.Counter{
				Key:       MetricKey,
				LabelName: LabelDest,
				Label:     Hosts[i%len(Hosts)],
				Delta:     1,
			})
			if g.YieldEvery > 0 && (i+1)%g.YieldEvery == 0 {
				runtime.Gosched()
			}
		}
	}
}
