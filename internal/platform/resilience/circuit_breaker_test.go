package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	breaker := NewCircuitBreaker(2, 10*time.Second, 1)

	breaker.RecordFailure()
	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed after one failure, got %s", breaker.State())
	}

	breaker.RecordFailure()
	if breaker.State() != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", breaker.State())
	}
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	breaker := NewCircuitBreaker(1, 10*time.Second, 1)
	current := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	breaker.now = func() time.Time { return current }

	breaker.RecordFailure()
	if err := breaker.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen while open, got %v", err)
	}

	current = current.Add(11 * time.Second)
	if err := breaker.Allow(); err != nil {
		t.Fatalf("expected half-open probe to be admitted: %v", err)
	}

	breaker.RecordSuccess()
	if breaker.State() != CircuitStateClosed {
		t.Fatalf("expected closed after half-open success, got %s", breaker.State())
	}
}

func TestCircuitBreaker_Do(t *testing.T) {
	breaker := NewCircuitBreaker(1, time.Minute, 1)

	callErr := errors.New("remote down")
	if err := breaker.Do(func() error { return callErr }); !errors.Is(err, callErr) {
		t.Fatalf("expected wrapped call error, got %v", err)
	}

	calls := 0
	err := breaker.Do(func() error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected fn to be skipped while open, ran %d times", calls)
	}
}
