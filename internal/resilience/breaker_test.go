package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

var errAnswer = errors.New("not found")

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewBreaker(BreakerConfig{Name: "test", MaxFailures: 2, Timeout: time.Minute}, nil)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := Call(cb, func() (string, error) { return "", boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d: expected boom, got %v", i, err)
		}
	}

	calls := 0
	_, err := Call(cb, func() (string, error) {
		calls++
		return "ok", nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open state, got %v", err)
	}
	if calls != 0 {
		t.Error("open breaker must not call through")
	}
}

func TestBreakerIgnoresExpectedErrors(t *testing.T) {
	cb := NewBreaker(BreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		Expected:    func(err error) bool { return errors.Is(err, errAnswer) },
	}, nil)

	for i := 0; i < 3; i++ {
		if _, err := Call(cb, func() (int, error) { return 0, errAnswer }); !errors.Is(err, errAnswer) {
			t.Fatalf("expected errAnswer, got %v", err)
		}
	}

	got, err := Call(cb, func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("expected 7, got %d (%v)", got, err)
	}
}

func TestBreakerIgnoresCancellation(t *testing.T) {
	cb := NewBreaker(BreakerConfig{Name: "test", MaxFailures: 1}, nil)

	for i := 0; i < 3; i++ {
		_, err := Call(cb, func() (string, error) {
			return "", fmt.Errorf("request: %w", context.Canceled)
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("call %d: expected context.Canceled, got %v", i, err)
		}
	}

	if got, err := Call(cb, func() (string, error) { return "ok", nil }); err != nil || got != "ok" {
		t.Fatalf("breaker must stay closed after interrupts, got %q (%v)", got, err)
	}
}
