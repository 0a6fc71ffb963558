package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_Success(t *testing.T) {
	attempts := 0
	value, err := Retry(context.Background(), func(context.Context) (string, error) {
		attempts++
		return "page", nil
	}, 3, 10*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "page", value)
	assert.Equal(t, 1, attempts, "should succeed on first try")
}

func TestRetry_EventualSuccess(t *testing.T) {
	attempts := 0
	value, err := Retry(context.Background(), func(context.Context) (int, error) {
		attempts++
		if attempts < 3 {
			return 0, errors.New("temporary error")
		}
		return attempts, nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, value)
	assert.Equal(t, 3, attempts)
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")

	_, err := Retry(context.Background(), func(context.Context) (struct{}, error) {
		attempts++
		return struct{}{}, expectedErr
	}, 3, time.Millisecond)

	assert.Equal(t, expectedErr, err, "should return the last error")
	assert.Equal(t, 3, attempts, "should attempt exactly maxAttempts times")
}

func TestRetry_LinearBackoff(t *testing.T) {
	var calls []time.Time
	start := time.Now()

	_, err := Retry(context.Background(), func(context.Context) (int, error) {
		calls = append(calls, time.Now())
		return 0, errors.New("error")
	}, 3, 20*time.Millisecond)
	require.Error(t, err)
	require.Len(t, calls, 3)

	// Waits of 20ms then 40ms.
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestRetry_PageNotFoundIsFinal(t *testing.T) {
	attempts := 0
	_, err := Retry(context.Background(), func(context.Context) ([]byte, error) {
		attempts++
		return nil, ErrPageNotFound
	}, 5, time.Millisecond)

	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.Equal(t, 1, attempts)
}

func TestRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	_, err := Retry(ctx, func(context.Context) (int, error) {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return 0, errors.New("error")
	}, 10, 10*time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts, "should stop when context is canceled")
}

func TestRetry_CanceledKeepsAttemptError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetchErr := errors.New("connection reset")

	_, err := Retry(ctx, func(context.Context) (int, error) {
		cancel()
		return 0, fetchErr
	}, 3, time.Millisecond)

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, fetchErr)
}

func TestRetry_CanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := Retry(ctx, func(context.Context) (int, error) {
		return 0, errors.New("error")
	}, 3, time.Second)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetry_InvalidMaxAttempts(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := Retry(context.Background(), func(context.Context) (int, error) {
			t.Fatal("operation should not run")
			return 0, nil
		}, n, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	}
}

func TestWithTimeout(t *testing.T) {
	t.Run("finishes in time", func(t *testing.T) {
		value, err := WithTimeout(context.Background(), "fetch", time.Second, func(context.Context) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", value)
	})

	t.Run("passes errors through", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := WithTimeout(context.Background(), "fetch", time.Second, func(context.Context) (string, error) {
			return "", boom
		})
		assert.Equal(t, boom, err)
	})

	t.Run("times out", func(t *testing.T) {
		stopped := make(chan struct{})
		_, err := WithTimeout(context.Background(), "loading news.html", 20*time.Millisecond, func(ctx context.Context) (string, error) {
			<-ctx.Done()
			close(stopped)
			return "", ctx.Err()
		})

		assert.ErrorIs(t, err, ErrTimeout)
		assert.Contains(t, err.Error(), "loading news.html timed out after 20ms")

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("operation context was not canceled")
		}
	})

	t.Run("parent canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := WithTimeout(ctx, "fetch", time.Second, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrTimeout)
	})
}
