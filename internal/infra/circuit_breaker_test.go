package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failingCall() error { return errBoom }
func okCall() error      { return nil }

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failingCall), errBoom)
	}
	assert.Equal(t, CBOpen, cb.State())

	// Fast-fail while open — the call never runs
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 1, OpenTimeout: time.Minute})

	require.Error(t, cb.Execute(failingCall))
	require.Error(t, cb.Execute(failingCall))
	require.NoError(t, cb.Execute(okCall))
	require.Error(t, cb.Execute(failingCall))
	require.Error(t, cb.Execute(failingCall))

	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerHalfOpenProbe(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failingCall))
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	// Probe failure trips straight back to open
	require.Error(t, cb.Execute(failingCall))
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerClosesAfterSuccessfulProbes(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: 10 * time.Millisecond})

	require.Error(t, cb.Execute(failingCall))
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(okCall))
	require.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(okCall))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerStateString(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
}
