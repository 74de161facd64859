// Package config provides configuration parsing and validation for benchmark
// runs.
package config

// Recording modes.
const (
	// ModeTLV is the thread-local-value engine: per-worker snapshots
	// flushed to a single aggregator.
	ModeTLV = "tlv"
	// ModeAtomic is the shared-atomic-counter baseline.
	ModeAtomic = "atomic"
	// ModeProm is the external-library (prometheus) baseline.
	ModeProm = "prom"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RunConfig is the root configuration for one benchmark run.
//
// Example YAML:
//
//	name: "tlv 100M"
//	mode: tlv
//	workers: 8
//	tasks: 1000
//	yieldEvery: 100
//	target:
//	  key: requests.total
//	  value: 100000000
//	report:
//	  format: json
//	  path: result.json
type RunConfig struct {
	// Name of the run (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Mode selects the recording strategy: tlv, atomic, or prom
	Mode string `json:"mode" yaml:"mode"`

	// Workers is the number of worker goroutines (default: GOMAXPROCS)
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Tasks is the number of workload tasks to spawn
	Tasks int `json:"tasks" yaml:"tasks"`

	// Iterations is the number of increments per task. Zero derives a
	// value high enough to overshoot the target.
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// YieldEvery yields the scheduler after this many increments
	YieldEvery int `json:"yieldEvery,omitempty" yaml:"yieldEvery,omitempty"`

	// Target is the stopping predicate
	Target TargetConfig `json:"target" yaml:"target"`

	// Report controls result output
	Report ReportConfig `json:"report,omitempty" yaml:"report,omitempty"`
}

// TargetConfig is the aggregator's stopping predicate: stop once the merged
// total for Key reaches Value.
type TargetConfig struct {
	Key   string `json:"key" yaml:"key"`
	Value uint64 `json:"value" yaml:"value"`
}

// ReportConfig controls how results are emitted.
type ReportConfig struct {
	// Format is text or json (default: text)
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Path writes the report to a file instead of stdout
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ApplyDefaults fills unset fields with usable values.
func ApplyDefaults(c *RunConfig) {
	if c.Mode == "" {
		c.Mode = ModeTLV
	}
	if c.Tasks == 0 {
		c.Tasks = 1000
	}
	if c.Target.Key == "" {
		c.Target.Key = "requests.total"
	}
	if c.Target.Value == 0 {
		c.Target.Value = 100_000_000
	}
	if c.Iterations == 0 {
		// Overshoot so the target is reached even when some batches are
		// dropped or never drained.
		c.Iterations = int(2*c.Target.Value)/c.Tasks + 1
	}
	if c.YieldEvery == 0 {
		c.YieldEvery = 100
	}
	if c.Report.Format == "" {
		c.Report.Format = FormatText
	}
}

// runSchema validates JSON run configs before decoding. YAML configs go
// through struct-level Validate only.
const runSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "mode": {"type": "string", "enum": ["tlv", "atomic", "prom"]},
    "workers": {"type": "integer", "minimum": 0},
    "tasks": {"type": "integer", "minimum": 1},
    "iterations": {"type": "integer", "minimum": 0},
    "yieldEvery": {"type": "integer", "minimum": 0},
    "target": {
      "type": "object",
      "properties": {
        "key": {"type": "string", "minLength": 1},
        "value": {"type": "integer", "minimum": 1}
      },
      "additionalProperties": false
    },
    "report": {
      "type": "object",
      "properties": {
        "format": {"type": "string", "enum": ["text", "json"]},
        "path": {"type": "string"}
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`
