package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-advisor/internal/common/errors"
)

func createMockJob(key int64, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               "score-eligibility",
		ProcessInstanceKey: key * 10,
		CustomHeaders:      "{}",
		Retries:            3,
		Variables:          variables,
	}}
}

func TestDecodeVariables(t *testing.T) {
	type input struct {
		Message string `json:"message"`
	}

	got, err := DecodeVariables[input](createMockJob(1, `{"message":"hello","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Message)

	_, err = DecodeVariables[input](createMockJob(2, `{"message":`))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidPayload))
}

func TestRetry(t *testing.T) {
	cfg := &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("transient errors are retried", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), cfg, func(int) error {
			calls++
			if calls < 3 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), cfg, func(int) error {
			calls++
			return errors.New("permission denied")
		})
		assert.EqualError(t, err, "permission denied")
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retry(context.Background(), cfg, func(int) error {
			calls++
			return errors.New("connection refused")
		})
		assert.Error(t, err)
		assert.Equal(t, 4, calls)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := retry(ctx, &RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}, func(int) error {
			return errors.New("timeout")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.True(t, isRetryableZeebeError(errors.New("Connection Reset by peer")))
	assert.False(t, isRetryableZeebeError(errors.New("not found")))
}
