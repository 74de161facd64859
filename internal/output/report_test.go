package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dimtally/dimtally/internal/bench"
	"github.com/dimtally/dimtally/internal/config"
	"github.com/dimtally/dimtally/internal/metrics"
)

func sampleResult() *bench.Result {
	return &bench.Result{
		Name:       "smoke",
		Mode:       config.ModeTLV,
		Workers:    4,
		Tasks:      100,
		Total:      30,
		Elapsed:    1500 * time.Millisecond,
		RatePerSec: 20,
		Counters: map[string]uint64{
			"requests.total{dest=H1}": 20,
			"requests.total{dest=H2}": 10,
		},
		Aggregate: &metrics.AggregateStats{Batches: 3, BatchSizeP50: 10},
	}
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(sampleResult(), config.FormatJSON); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	doc := buf.String()
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON report: %s", doc)
	}
	if got := gjson.Get(doc, "mode").String(); got != "tlv" {
		t.Errorf("mode = %q, want tlv", got)
	}
	if got := gjson.Get(doc, "total").Uint(); got != 30 {
		t.Errorf("total = %d, want 30", got)
	}
	if got := gjson.Get(doc, "aggregate.batches").Int(); got != 3 {
		t.Errorf("aggregate.batches = %d, want 3", got)
	}

	var sum uint64
	gjson.Get(doc, "counters").ForEach(func(_, v gjson.Result) bool {
		sum += v.Uint()
		return true
	})
	if sum != 30 {
		t.Errorf("counters sum = %d, want 30", sum)
	}
}

func TestWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(sampleResult(), config.FormatText); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	text := buf.String()
	for _, want := range []string{"smoke (tlv)", "total", "30", "requests.total{dest=H1}", "batches"} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}
}

func TestWriter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(sampleResult(), "xml"); err == nil {
		t.Fatal("Write accepted an unknown format")
	}
}
