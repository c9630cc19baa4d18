package camunda

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "pitch-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var fastRetry = &RetryConfig{
	MaxRetries: 2,
	BaseDelay:  time.Millisecond,
	MaxDelay:   5 * time.Millisecond,
}

func TestWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	result, err := withRetry(context.Background(), fastRetry, "create-instance", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", status.Error(codes.Unavailable, "connection refused")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_PermanentErrorStopsImmediately(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetry, "create-instance", func(ctx context.Context) (int, error) {
		calls++
		return 0, status.Error(codes.NotFound, "process definition with id 'pitch-intake' not found")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrorCode("BUSINESS_RULE_VIOLATION"), stdErr.Code)
	assert.Contains(t, stdErr.Message, "1 attempt(s)")
}

func TestWithRetry_ExhaustsRetries(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetry, "create-instance", func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("context deadline exceeded")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrorCode("TIMEOUT_ERROR"), stdErr.Code)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	calls := 0
	_, err := withRetry(ctx, slow, "deploy", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, status.Error(codes.Unavailable, "gateway restarting")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, apperrors.ErrorCode("TIMEOUT_ERROR"), apperrors.Normalize(err).Code)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{status.Error(codes.Unavailable, "x"), true},
		{status.Error(codes.ResourceExhausted, "backpressure"), true},
		{status.Error(codes.InvalidArgument, "bad variables"), false},
		{status.Error(codes.NotFound, "timeout in name"), false},
		{errors.New("connection reset by peer"), true},
		{fmt.Errorf("dial: %w", errors.New("broken pipe")), true},
		{errors.New("invalid argument"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isTransient(tt.err), tt.err.Error())
	}
}

func TestMapGatewayError(t *testing.T) {
	tests := []struct {
		err  error
		want apperrors.ErrorCode
	}{
		{status.Error(codes.DeadlineExceeded, "slow"), "TIMEOUT_ERROR"},
		{status.Error(codes.InvalidArgument, "bad"), "BUSINESS_RULE_VIOLATION"},
		{status.Error(codes.Unauthenticated, "no token"), "BUSINESS_RULE_VIOLATION"},
		{status.Error(codes.Unavailable, "down"), "EXTERNAL_SERVICE_ERROR"},
		{errors.New("something odd"), "EXTERNAL_SERVICE_ERROR"},
	}
	for _, tt := range tests {
		err := mapGatewayError(tt.err, "create-instance", 2)
		var stdErr *apperrors.StandardError
		require.ErrorAs(t, err, &stdErr)
		assert.Equal(t, tt.want, stdErr.Code, tt.err.Error())
	}
}

func TestRetryConfig_Backoff(t *testing.T) {
	r := &RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	assert.Equal(t, 100*time.Millisecond, r.backoff(0))
	assert.Equal(t, 400*time.Millisecond, r.backoff(2))
	assert.Equal(t, time.Second, r.backoff(5))
	assert.Equal(t, time.Second, r.backoff(70))
}
