package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dimtally/dimtally/internal/bench"
	"github.com/dimtally/dimtally/internal/config"
)

// Writer renders a bench.Result in a chosen format.
type Writer struct {
	w      io.Writer
	scheme *ColorScheme
}

// NewWriter creates a writer. Colors are enabled only when w is an
// interactive terminal.
func NewWriter(w io.Writer) *Writer {
	scheme := NoColorScheme()
	if f, ok := w.(*os.File); ok && IsTerminal(f) {
		scheme = DefaultColorScheme()
	}
	return &Writer{w: w, scheme: scheme}
}

// Write renders res in the given format (text or json).
func (wr *Writer) Write(res *bench.Result, format string) error {
	switch format {
	case config.FormatJSON:
		return wr.writeJSON(res)
	case config.FormatText, "":
		return wr.writeText(res)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}

func (wr *Writer) writeJSON(res *bench.Result) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func (wr *Writer) writeText(res *bench.Result) error {
	s := wr.scheme

	title := res.Name
	if title == "" {
		title = "benchmark run"
	}
	if _, err := s.Header.Fprintf(wr.w, "%s (%s)\n", title, res.Mode); err != nil {
		return err
	}

	line := func(label string, format string, args ...interface{}) {
		s.Label.Fprintf(wr.w, "  %-12s", label)
		s.Value.Fprintf(wr.w, format+"\n", args...)
	}

	line("workers", "%d", res.Workers)
	line("tasks", "%d", res.Tasks)
	s.Label.Fprintf(wr.w, "  %-12s", "total")
	s.Highlight.Fprintf(wr.w, "%d\n", res.Total)
	line("elapsed", "%s", res.Elapsed)
	line("rate", "%.0f/s", res.RatePerSec)

	if agg := res.Aggregate; agg != nil {
		s.Header.Fprintln(wr.w, "aggregation")
		line("batches", "%d", agg.Batches)
		line("batch p50", "%d", agg.BatchSizeP50)
		line("batch p99", "%d", agg.BatchSizeP99)
		line("merge p50", "%s", agg.MergeP50)
		line("merge p99", "%s", agg.MergeP99)
	}

	if len(res.Counters) > 0 {
		s.Header.Fprintln(wr.w, "counters")
		names := make([]string, 0, len(res.Counters))
		for name := range res.Counters {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.Dim.Fprintf(wr.w, "  %-40s", name)
			s.Value.Fprintf(wr.w, "%d\n", res.Counters[name])
		}
	}
	return nil
}

// WriteResult renders res to path in the given format, or to stdout when
// path is empty.
func WriteResult(res *bench.Result, format, path string) error {
	if path == "" {
		return NewWriter(os.Stdout).Write(res, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	return NewWriter(f).Write(res, format)
}
