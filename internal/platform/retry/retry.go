package retry

import (
	"context"
	"errors"
	"net"
	"time"
)

// Policy bounds retries of a single external call.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

var Default = Policy{MaxAttempts: 3, Backoff: 200 * time.Millisecond}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// attempts run out. The backoff doubles after every failed attempt and waiting
// respects ctx cancellation.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := p.Backoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == attempts || retryable == nil || !retryable(err) {
			return lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}

		backoff *= 2
	}

	return lastErr
}

// TransientStatus reports whether an HTTP status code is worth retrying.
func TransientStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// IsNetworkError reports whether err is a network-level failure other than a
// context deadline or cancellation.
func IsNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
