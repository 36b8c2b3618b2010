package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry_SucceedsFirstAttempt(t *testing.T) {
	value, err := FetchWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		return 42, nil
	}, time.Second, 2)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFetchWithRetry_SucceedsAfterFailure(t *testing.T) {
	calls := 0
	value, err := FetchWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}, time.Second, 2)
	require.NoError(t, err)
	assert.Equal(t, "ok", value)
	assert.Equal(t, 2, calls)
}

func TestFetchWithRetry_SurfacesLastErrorWhenExhausted(t *testing.T) {
	calls := 0
	_, err := FetchWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("still broken")
	}, time.Second, 3)
	require.Error(t, err)
	assert.EqualError(t, err, "still broken")
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetry_TimesOutSlowFetch(t *testing.T) {
	start := time.Now()
	_, err := FetchWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}, 30*time.Millisecond, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// Two attempts plus one backoff, nowhere near the 5s fetch.
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFetchWithRetry_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := FetchWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("fail")
	}, time.Second, 10)
	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestFetchWithRetry_AtLeastOneAttempt(t *testing.T) {
	calls := 0
	_, err := FetchWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("nope")
	}, time.Second, 0)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
