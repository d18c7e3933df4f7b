package deploy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateErrorEmpty(t *testing.T) {
	agg := NewAggregateError("nothing failed")
	assert.Equal(t, 0, agg.Len())
	assert.Equal(t, "nothing failed", agg.Error())

	// Append ignores nil so collection loops stay branch-free.
	agg.Append(nil)
	assert.Equal(t, 0, agg.Len())
}

func TestAggregateErrorMessage(t *testing.T) {
	agg := NewAggregateError("deploy failed")
	agg.Append(&TriggerError{App: "checkout", Environment: "checkout-blue", Label: "v1", Err: errors.New("throttled")})
	agg.Append(&HealthCheckError{App: "payments", Environment: "payments-live", Reason: "health is Severe"})

	msg := agg.Error()
	assert.Contains(t, msg, "deploy failed (2 failed)")
	assert.Contains(t, msg, "checkout/checkout-blue")
	assert.Contains(t, msg, "payments/payments-live")
}

func TestAggregateErrorNestedFiltering(t *testing.T) {
	// Mirror of the run-level shape: a top aggregate holding a trigger
	// aggregate and a health aggregate.
	triggers := NewAggregateError("triggers failed")
	triggers.Append(&TriggerError{App: "a", Environment: "a-1", Label: "v1"})
	triggers.Append(&TriggerError{App: "b", Environment: "b-1", Label: "v1"})

	health := NewAggregateError("health failed")
	health.Append(&HealthCheckError{App: "a", Environment: "a-2", Reason: "health is Degraded"})

	run := NewAggregateError("run failed")
	run.Append(triggers)
	run.Append(health)

	assert.Len(t, TriggerErrors(run), 2)
	assert.Len(t, HealthCheckErrors(run), 1)
	assert.Empty(t, ProvisionErrors(run))

	// errors.As descends through the nesting.
	var te *TriggerError
	require.True(t, errors.As(run, &te))
	assert.Equal(t, "a-1", te.Environment)

	// Filter preserves order across nested aggregates.
	all := run.Filter(func(error) bool { return true })
	require.Len(t, all, 3)
}

func TestLeafErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	pe := &ProvisionError{App: "checkout", Label: "v1", Err: cause}
	assert.ErrorIs(t, pe, cause)
	assert.Contains(t, pe.Error(), "checkout")
	assert.Contains(t, pe.Error(), "v1")

	te := &TriggerError{App: "checkout", Environment: "checkout-blue", Label: "v1", StatusCode: 400, Err: cause}
	assert.ErrorIs(t, te, cause)
	assert.Contains(t, te.Error(), "status 400")
}

func TestCollectOnPlainError(t *testing.T) {
	// Non-aggregate errors are visited as single leaves.
	assert.Empty(t, TriggerErrors(errors.New("plain")))
	assert.Empty(t, TriggerErrors(nil))

	te := &TriggerError{App: "a", Environment: "a-1", Label: "v1"}
	assert.Len(t, TriggerErrors(te), 1)
}
