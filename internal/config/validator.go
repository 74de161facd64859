package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the run configuration.
//
// Returns nil if valid, or a ValidationErrors containing all problems found.
func (c *RunConfig) Validate() error {
	errs := &ValidationErrors{}

	switch c.Mode {
	case ModeTLV, ModeAtomic, ModeProm:
	case "":
		errs.Add("mode", "mode is required")
	default:
		errs.Add("mode", fmt.Sprintf("unknown mode: %s", c.Mode))
	}

	if c.Workers < 0 {
		errs.Add("workers", "workers must not be negative")
	}
	if c.Tasks <= 0 {
		errs.Add("tasks", "at least one task is required")
	}
	if c.Iterations < 0 {
		errs.Add("iterations", "iterations must not be negative")
	}
	if c.YieldEvery < 0 {
		errs.Add("yieldEvery", "yieldEvery must not be negative")
	}

	if c.Target.Key == "" {
		errs.Add("target.key", "target key is required")
	}
	if c.Target.Value == 0 {
		errs.Add("target.value", "target value must be positive")
	}

	switch c.Report.Format {
	case "", FormatText, FormatJSON:
	default:
		errs.Add("report.format", fmt.Sprintf("unknown format: %s", c.Report.Format))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
