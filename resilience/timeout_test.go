package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})

	if timeout.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", timeout.config.Timeout)
	}
}

func TestTimeout_ExecuteSuccess(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{
		Timeout: time.Second,
	})

	executed := false
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		executed = true
		if _, ok := ctx.Deadline(); !ok {
			t.Error("attempt context has no deadline")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !executed {
		t.Error("Operation was not executed")
	}
}

func TestTimeout_ExecuteError(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{
		Timeout: time.Second,
	})

	testErr := errors.New("test error")
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
}

func TestTimeout_ExecuteTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{
		Timeout: 10 * time.Millisecond,
	})

	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, should wrap context.DeadlineExceeded", err)
	}
	if !IsTimeout(err) {
		t.Error("IsTimeout() = false for a timed out attempt")
	}
}

func TestTimeout_ExecuteContextCancelled(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{
		Timeout: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())

	err := timeout.Execute(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})

	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestTimeout_ParentDeadlineNotWrapped(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{
		Timeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := timeout.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, caller deadline should not be wrapped", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Execute() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestTimeout_Config(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 5 * time.Second})

	if got := timeout.Config().Timeout; got != 5*time.Second {
		t.Errorf("Config().Timeout = %v, want 5s", got)
	}
}
