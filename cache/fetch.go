package cache

import (
	"context"
	"fmt"
	"time"
)

const retryBackoff = 200 * time.Millisecond

// FetchWithRetry races fn against a per-attempt timeout and retries failed
// or timed-out attempts with a fixed backoff, surfacing the last error when
// every attempt fails. A fetch that loses the race keeps running in its
// goroutine; its result is discarded, not cancelled.
func FetchWithRetry(ctx context.Context, fn func(context.Context) (interface{}, error), timeout time.Duration, attempts int) (interface{}, error) {
	if attempts < 1 {
		attempts = 1
	}

	type result struct {
		value interface{}
		err   error
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		ch := make(chan result, 1)
		go func() {
			value, err := fn(attemptCtx)
			ch <- result{value, err}
		}()

		select {
		case res := <-ch:
			cancel()
			if res.err == nil {
				return res.value, nil
			}
			lastErr = res.err
		case <-attemptCtx.Done():
			cancel()
			lastErr = fmt.Errorf("fetch timed out after %s: %w", timeout, attemptCtx.Err())
		}
	}
	return nil, lastErr
}
