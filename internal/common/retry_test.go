package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincomply/sarforge/internal/service"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "not found is permanent", err: ErrRecordNotFound, want: false},
		{name: "wrapped not found is permanent", err: fmt.Errorf("lookup: %w", ErrRecordNotFound), want: false},
		{name: "missing config is permanent", err: ErrMissingConfig, want: false},
		{name: "invalid config is permanent", err: ErrInvalidConfig, want: false},
		{name: "explicit non-retryable", err: &RetryableError{Err: errors.New("bad input"), Retryable: false}, want: false},
		{name: "explicit retryable", err: &RetryableError{Err: errors.New("busy"), Retryable: true}, want: true},
		{name: "unknown errors assumed transient", err: errors.New("database is locked"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWithRetry(t *testing.T) {
	opts := service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), func() error {
			attempts++
			if attempts < 3 {
				return errors.New("database is locked")
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("permanent errors short-circuit", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), func() error {
			attempts++
			return fmt.Errorf("lookup: %w", ErrRecordNotFound)
		}, opts)

		require.ErrorIs(t, err, ErrRecordNotFound)
		assert.Equal(t, 1, attempts, "a permanent error must not be retried")
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		attempts := 0
		err := WithRetry(context.Background(), func() error {
			attempts++
			return errors.New("still busy")
		}, opts)

		require.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, attempts)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WithRetry(ctx, func() error {
			return errors.New("busy")
		}, opts)

		require.ErrorIs(t, err, context.Canceled)
	})
}
