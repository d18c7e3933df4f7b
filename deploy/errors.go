package deploy

import (
	"errors"
	"fmt"
	"strings"
)

// ProvisionError reports that one application failed to get a usable version
// registered: either the label already exists with error_if_exists set, or
// the create call was rejected.
type ProvisionError struct {
	App   string
	Label string
	Err   error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision version %s for application %s: %v", e.Label, e.App, e.Err)
}

func (e *ProvisionError) Unwrap() error { return e.Err }

// TriggerError reports that one environment's deploy command was rejected.
type TriggerError struct {
	App         string
	Environment string
	Label       string
	StatusCode  int
	Err         error
}

func (e *TriggerError) Error() string {
	msg := fmt.Sprintf("trigger deploy of %s to %s/%s", e.Label, e.App, e.Environment)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TriggerError) Unwrap() error { return e.Err }

// HealthCheckError reports that one environment failed to reach or hold
// healthy status within the allotted attempts, or does not exist.
type HealthCheckError struct {
	App         string
	Environment string
	Reason      string
}

func (e *HealthCheckError) Error() string {
	return fmt.Sprintf("environment %s/%s unhealthy: %s", e.App, e.Environment, e.Reason)
}

// AggregateError holds an ordered list of errors from independent
// sub-operations plus a summary message. An empty aggregate is not itself an
// error condition; callers decide based on Len.
type AggregateError struct {
	Message string
	Errs    []error
}

// NewAggregateError creates an empty aggregate with the given summary.
func NewAggregateError(message string) *AggregateError {
	return &AggregateError{Message: message}
}

func (e *AggregateError) Error() string {
	if len(e.Errs) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%s (%d failed): %s", e.Message, len(e.Errs), strings.Join(parts, "; "))
}

// Unwrap exposes the sub-errors for errors.Is and errors.As traversal,
// including through nested aggregates.
func (e *AggregateError) Unwrap() []error { return e.Errs }

// Len returns the number of sub-errors.
func (e *AggregateError) Len() int { return len(e.Errs) }

// Append adds a sub-error, ignoring nil.
func (e *AggregateError) Append(err error) {
	if err != nil {
		e.Errs = append(e.Errs, err)
	}
}

// Filter returns the sub-errors matching pred, descending into nested
// aggregates.
func (e *AggregateError) Filter(pred func(error) bool) []error {
	var matched []error
	for _, err := range e.Errs {
		var nested *AggregateError
		if errors.As(err, &nested) {
			matched = append(matched, nested.Filter(pred)...)
			continue
		}
		if pred(err) {
			matched = append(matched, err)
		}
	}
	return matched
}

// ProvisionErrors returns every ProvisionError nested under err.
func ProvisionErrors(err error) []*ProvisionError {
	var out []*ProvisionError
	collect(err, func(e error) {
		var pe *ProvisionError
		if errors.As(e, &pe) {
			out = append(out, pe)
		}
	})
	return out
}

// TriggerErrors returns every TriggerError nested under err.
func TriggerErrors(err error) []*TriggerError {
	var out []*TriggerError
	collect(err, func(e error) {
		var te *TriggerError
		if errors.As(e, &te) {
			out = append(out, te)
		}
	})
	return out
}

// HealthCheckErrors returns every HealthCheckError nested under err.
func HealthCheckErrors(err error) []*HealthCheckError {
	var out []*HealthCheckError
	collect(err, func(e error) {
		var he *HealthCheckError
		if errors.As(e, &he) {
			out = append(out, he)
		}
	})
	return out
}

// collect walks err's leaves depth-first, preserving aggregate order.
func collect(err error, visit func(error)) {
	if err == nil {
		return
	}
	var agg *AggregateError
	if errors.As(err, &agg) {
		for _, sub := range agg.Errs {
			collect(sub, visit)
		}
		return
	}
	visit(err)
}
