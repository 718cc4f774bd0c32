package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDo_SucceedsOnThirdAttempt(t *testing.T) {
	calls := 0
	op := func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", fmt.Errorf("attempt %d failed", calls)
		}
		return "ok", nil
	}

	got, err := DoValue(context.Background(), Policy{Retries: 3, Delay: time.Millisecond}, op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("value = %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_AlwaysFails(t *testing.T) {
	calls := 0
	var last error
	op := func(ctx context.Context) error {
		calls++
		last = fmt.Errorf("failure %d", calls)
		return last
	}

	err := Do(context.Background(), Policy{Retries: 3, Delay: time.Millisecond}, op)
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if err != last {
		t.Errorf("err = %v, want the last failure %v", err, last)
	}
}

func TestDo_ZeroRetries(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	err := Do(context.Background(), Policy{Retries: 0}, func(ctx context.Context) error {
		calls++
		return sentinel
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want %v", err, sentinel)
	}
}

func TestDo_ConstantDelay(t *testing.T) {
	const delay = 20 * time.Millisecond
	var stamps []time.Time

	Do(context.Background(), Policy{Retries: 3, Delay: delay}, func(ctx context.Context) error {
		stamps = append(stamps, time.Now())
		return errors.New("fail")
	})

	if len(stamps) != 4 {
		t.Fatalf("attempts = %d, want 4", len(stamps))
	}
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		if gap < delay {
			t.Errorf("gap %d = %v, want >= %v", i, gap, delay)
		}
		// Exponential backoff would make the third gap at least 4x the delay.
		if gap > 3*delay+50*time.Millisecond {
			t.Errorf("gap %d = %v looks like backoff growth", i, gap)
		}
	}
}

func TestDo_OnRetry(t *testing.T) {
	var attempts []int
	p := Policy{
		Retries: 2,
		Delay:   time.Millisecond,
		OnRetry: func(attempt int, err error) {
			attempts = append(attempts, attempt)
		},
	}

	Do(context.Background(), p, func(ctx context.Context) error {
		return errors.New("fail")
	})

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
}

func TestDo_CancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sentinel := errors.New("fail")

	err := Do(ctx, Policy{Retries: 5, Delay: time.Hour}, func(ctx context.Context) error {
		calls++
		cancel()
		return sentinel
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err != sentinel {
		t.Errorf("err = %v, want %v", err, sentinel)
	}
}
