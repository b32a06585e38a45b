package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRecoversWithinBudget(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	err := p.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	p := Policy{MaxAttempts: 3, Delay: time.Millisecond}
	calls := 0
	last := errors.New("attempt 3")
	err := p.Do(context.Background(), "op", func() error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("earlier")
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, last) {
		t.Errorf("err = %v, want the last attempt's error", err)
	}
}

func TestDoZeroAttemptsStillRunsOnce(t *testing.T) {
	p := Policy{MaxAttempts: 0, Delay: time.Millisecond}
	calls := 0
	_ = p.Do(context.Background(), "op", func() error {
		calls++
		return errors.New("boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 10, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, "op", func() error {
			calls++
			return errors.New("always fails")
		})
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Do = nil, want error after cancellation")
		}
		if calls >= 10 {
			t.Errorf("calls = %d, cancellation should cut the budget short", calls)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", p.MaxAttempts)
	}
	if p.Delay != 2*time.Second {
		t.Errorf("Delay = %s, want 2s", p.Delay)
	}
}
