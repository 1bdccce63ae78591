package resilience

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/parley-sim/parley/pkg/errors"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsAfterRecoverableFailures(t *testing.T) {
	calls := 0
	err := fastRetry(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New(errors.CodeGenerationFailure, "flaky", nil).WithRecoverable(true)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnUnrecoverable(t *testing.T) {
	calls := 0
	want := errors.New(errors.CodeConfigError, "bad setup", nil)
	err := fastRetry(5).Do(context.Background(), func() error {
		calls++
		return want
	})
	if err != want {
		t.Fatalf("expected the config error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("unrecoverable error should not be retried, got %d calls", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	cfg := fastRetry(3)
	cfg.IsRecoverable = func(error) bool { return true }
	err := cfg.Do(context.Background(), func() error {
		calls++
		return stderrors.New("still down")
	})
	if err == nil {
		t.Fatal("expected the last error")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(3)
	cfg.InitialDelay = time.Second
	cfg.IsRecoverable = func(error) bool { return true }

	err := cfg.Do(ctx, func() error {
		return stderrors.New("down")
	})
	pe := errors.AsParleyError(err)
	if pe == nil || pe.Code != errors.CodeInternal {
		t.Fatalf("expected canceled-retry error, got %v", err)
	}
}

func TestRateLimitIsRecoverableByDefault(t *testing.T) {
	calls := 0
	cfg := fastRetry(2)
	_ = cfg.Do(context.Background(), func() error {
		calls++
		return errors.New(errors.CodeRateLimit, "too fast", nil)
	})
	if calls != 2 {
		t.Errorf("rate limit should be retried, got %d calls", calls)
	}
}
