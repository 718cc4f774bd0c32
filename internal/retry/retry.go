// Package retry runs a fallible operation again after a fixed delay.
//
// The wrapper only counts attempts. It never looks at the error it gets
// back, and the error of the final attempt is returned as is:
//
//	err := retry.Do(ctx, retry.DefaultPolicy(), func(ctx context.Context) error {
//	    return fetch(ctx, url)
//	})
package retry

import (
	"context"
	"time"
)

const (
	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3

	// DefaultDelay is the pause between two attempts.
	DefaultDelay = 500 * time.Millisecond
)

// Policy configures Do.
type Policy struct {
	// Retries is how many times a failed operation is attempted again.
	// Total attempts are Retries+1. Negative values count as 0.
	Retries int

	// Delay is the constant wait between attempts.
	Delay time.Duration

	// OnRetry, if set, is called before each wait with the 1-based number
	// of the attempt that just failed and its error.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy returns 3 retries with a 500ms delay.
func DefaultPolicy() Policy {
	return Policy{Retries: DefaultRetries, Delay: DefaultDelay}
}

// Do runs op until it succeeds or the retry budget is spent.
//
// If ctx is cancelled while waiting, Do stops and returns the error of the
// last attempt.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	retries := max(p.Retries, 0)

	var (
		val T
		err error
	)
	for attempt := 0; ; attempt++ {
		val, err = op(ctx)
		if err == nil || attempt >= retries {
			return val, err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
		if !wait(ctx, p.Delay) {
			return val, err
		}
	}
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
