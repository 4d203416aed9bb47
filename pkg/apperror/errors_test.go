package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(CodeCycleDetected, "cycle detected")
	assert.Equal(t, "[CYCLE_DETECTED] cycle detected", err.Error())

	err = NewWithField(CodeMalformedGraph, "bad attribute", "child_cost")
	assert.Equal(t, "[MALFORMED_GRAPH] bad attribute (field: child_cost)", err.Error())
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeIOFailure, "cannot write lp file")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeIOFailure, err.Code)
}

func TestIsAndCode(t *testing.T) {
	err := New(CodeLatencyInfeasible, "too small")
	wrapped := fmt.Errorf("context: %w", err)

	assert.True(t, Is(wrapped, CodeLatencyInfeasible))
	assert.False(t, Is(wrapped, CodeCycleDetected))
	assert.Equal(t, CodeLatencyInfeasible, Code(wrapped))

	assert.False(t, Is(errors.New("plain"), CodeCycleDetected))
	assert.Equal(t, CodeInternal, Code(errors.New("plain")))
}

func TestDetails(t *testing.T) {
	err := Newf(CodeResourceCountMismatch, "expected %d but %d supplied", 4, 2).
		WithDetails("expected", 4).
		WithDetails("given", 2)

	assert.Equal(t, 4, err.Details["expected"])
	assert.Equal(t, 2, err.Details["given"])
	assert.Equal(t, "[RESOURCE_COUNT_MISMATCH] expected 4 but 2 supplied", err.Error())
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "critical", SeverityCritical.String())

	err := NewCritical(CodeInternal, "corrupted state")
	assert.True(t, IsCritical(err))
	assert.False(t, IsCritical(New(CodeInternal, "ordinary")))

	demoted := New(CodeInternal, "x").WithSeverity(SeverityWarning)
	assert.Equal(t, SeverityWarning, demoted.Severity)
}

func TestPredefined(t *testing.T) {
	require.True(t, Is(ErrNoConstraint, CodeNoConstraint))
	require.True(t, Is(ErrEmptyGraph, CodeEmptyGraph))
	require.True(t, Is(ErrEmptySourceChilds, CodeEmptySourceChildren))
	require.True(t, Is(ErrEmptySinkParents, CodeEmptySinkParents))
}
