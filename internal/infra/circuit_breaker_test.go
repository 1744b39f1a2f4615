package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTPDown = errors.New("smtp: connection refused")

func failing() error    { return errSMTPDown }
func succeeding() error { return nil }

func TestBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	b := NewBreaker("test", 5, 2, time.Minute)

	for i := 0; i < 5; i++ {
		err := b.Call(failing)
		require.ErrorIs(t, err, errSMTPDown)
	}
	assert.Equal(t, BreakerOpen, b.State())

	// Open means fast-fail: fn must not run.
	called := false
	err := b.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := NewBreaker("test", 3, 1, time.Minute)

	for i := 0; i < 2; i++ {
		_ = b.Call(failing)
	}
	require.NoError(t, b.Call(succeeding))
	for i := 0; i < 2; i++ {
		_ = b.Call(failing)
	}
	// 2 + 2 failures split by a success never reaches the trip threshold.
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_HalfOpenAfterCooldownThenRecloses(t *testing.T) {
	b := NewBreaker("test", 1, 2, 10*time.Millisecond)

	_ = b.Call(failing)
	require.Equal(t, BreakerOpen, b.State())

	time.Sleep(20 * time.Millisecond)
	require.Equal(t, BreakerHalfOpen, b.State())

	// First probe success keeps it half-open, second closes it.
	require.NoError(t, b.Call(succeeding))
	assert.Equal(t, BreakerHalfOpen, b.State())
	require.NoError(t, b.Call(succeeding))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_ProbeFailureReopens(t *testing.T) {
	b := NewBreaker("test", 1, 2, 10*time.Millisecond)

	_ = b.Call(failing)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, BreakerHalfOpen, b.State())

	require.ErrorIs(t, b.Call(failing), errSMTPDown)
	assert.Equal(t, BreakerOpen, b.State())

	// The reopened breaker starts a fresh cooldown.
	assert.ErrorIs(t, b.Call(succeeding), ErrBreakerOpen)
}
