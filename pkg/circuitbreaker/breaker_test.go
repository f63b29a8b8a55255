package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail() error { return errBackend }
func ok() error   { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker("cache", Config{
		FailureThreshold: 2,
		Timeout:          time.Hour,
	})

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBackend)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker("cache", Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})
	require.Error(t, cb.Execute(context.Background(), fail))
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(context.Background(), ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreaker_IsFailureFilter(t *testing.T) {
	errMiss := errors.New("miss")
	cb := NewCircuitBreaker("cache", Config{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return err != nil && !errors.Is(err, errMiss) },
	})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), func() error { return errMiss }), errMiss)
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(5), cb.counts.successes)
}

func TestBreaker_CancelledContext(t *testing.T) {
	cb := NewCircuitBreaker("cache", Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, cb.Execute(ctx, ok), context.Canceled)
	assert.Zero(t, cb.counts.requests)
}

func TestExecuteWithResult(t *testing.T) {
	cb := NewCircuitBreaker("cache", Config{})
	v, err := ExecuteWithResult(context.Background(), cb, func() (string, error) { return "hit", nil })
	require.NoError(t, err)
	assert.Equal(t, "hit", v)
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("cache", Config{
		FailureThreshold: 1,
		Timeout:          10 * time.Millisecond,
	})
	require.Error(t, cb.Execute(context.Background(), fail))

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())
	require.Error(t, cb.Execute(context.Background(), fail))
	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(context.Background(), ok), ErrCircuitOpen)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
