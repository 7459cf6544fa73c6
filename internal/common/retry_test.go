package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
	}
}

func TestWithRetry(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		err       error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first try", failures: 0, err: errBoom, attempts: 3, wantCalls: 1},
		{name: "succeeds after transient failures", failures: 2, err: Transient(errBoom), attempts: 3, wantCalls: 3},
		{name: "gives up after max attempts", failures: 5, err: Transient(errBoom), attempts: 3, wantCalls: 3, wantErr: ErrMaxRetries},
		{name: "stops on permanent error", failures: 5, err: Permanent(errBoom), attempts: 3, wantCalls: 1, wantErr: errBoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithRetry(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			}, fastRetry(tt.attempts))

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return Transient(errors.New("boom"))
	}, fastRetry(5))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(ErrRateLimit))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(Transient(errors.New("x"))))
	assert.False(t, IsRetryable(Permanent(ErrRateLimit)))
	assert.False(t, IsRetryable(errors.New("plain")))
}
