package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNewRetry(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", r.config.InitialDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
	if r.config.Jitter {
		t.Error("Jitter should default to false")
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{MaxAttempts: 3})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	testErr := errors.New("test error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return testErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_ExhaustedAttempts(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	testErr := errors.New("persistent error")

	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return testErr
	})

	if !errors.Is(err, ErrMaxRetriesExceeded) {
		t.Errorf("Execute() error = %v, want ErrMaxRetriesExceeded", err)
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Execute() error = %v, should wrap last error", err)
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts:  10,
		InitialDelay: 100 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	attempts := 0
	testErr := errors.New("test error")

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := r.Execute(ctx, func(ctx context.Context) error {
		mu.Lock()
		attempts++
		mu.Unlock()
		return testErr
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took %v, want prompt return", elapsed)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_RetryIf(t *testing.T) {
	retryableErr := errors.New("retryable")
	nonRetryableErr := errors.New("non-retryable")

	r := NewRetry(RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		RetryIf: func(err error) bool {
			return errors.Is(err, retryableErr)
		},
	})

	t.Run("retryable error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return retryableErr
		})

		if !errors.Is(err, retryableErr) {
			t.Errorf("Execute() error = %v, want %v", err, retryableErr)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("non-retryable error", func(t *testing.T) {
		attempts := 0
		err := r.Execute(context.Background(), func(ctx context.Context) error {
			attempts++
			return nonRetryableErr
		})

		if err != nonRetryableErr {
			t.Errorf("Execute() error = %v, want %v", err, nonRetryableErr)
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}

func TestRetry_OnRetry(t *testing.T) {
	type call struct {
		attempt int
		delay   time.Duration
	}
	var calls []call

	r := NewRetry(RetryConfig{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		MaxDelay:     3 * time.Millisecond,
		OnRetry: func(_ context.Context, attempt int, err error, delay time.Duration) {
			calls = append(calls, call{attempt, delay})
		},
	})

	testErr := errors.New("test error")
	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	want := []call{
		{1, time.Millisecond},
		{2, 2 * time.Millisecond},
		{3, 3 * time.Millisecond},
	}
	if len(calls) != len(want) {
		t.Fatalf("callbacks = %d, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("callback[%d] = %+v, want %+v", i, calls[i], want[i])
		}
		if i > 0 && calls[i].delay < calls[i-1].delay {
			t.Errorf("delay decreased at callback %d", i)
		}
	}
}

func TestRetry_Delay(t *testing.T) {
	tests := []struct {
		name    string
		config  RetryConfig
		attempt int
		want    time.Duration
	}{
		{
			name:    "exponential",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Strategy: BackoffExponential},
			attempt: 3,
			want:    40 * time.Millisecond,
		},
		{
			name:    "linear",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Strategy: BackoffLinear},
			attempt: 3,
			want:    30 * time.Millisecond,
		},
		{
			name:    "constant",
			config:  RetryConfig{InitialDelay: 10 * time.Millisecond, Strategy: BackoffConstant},
			attempt: 3,
			want:    10 * time.Millisecond,
		},
		{
			name: "max delay cap",
			config: RetryConfig{
				InitialDelay: time.Second,
				MaxDelay:     5 * time.Second,
				Multiplier:   10.0,
			},
			attempt: 5,
			want:    5 * time.Second,
		},
		{
			name:    "network defaults",
			config:  RetryConfig{InitialDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second},
			attempt: 4,
			want:    4 * time.Second,
		},
		{
			name:    "overflow stays capped",
			config:  RetryConfig{InitialDelay: time.Second, MaxDelay: time.Minute},
			attempt: 200,
			want:    time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetry(tt.config)
			if got := r.Delay(tt.attempt); got != tt.want {
				t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetry_DelayJitter(t *testing.T) {
	r := NewRetry(RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		Jitter:       true,
	})

	for i := 0; i < 50; i++ {
		d := r.Delay(1)
		if d < 100*time.Millisecond || d > 125*time.Millisecond {
			t.Fatalf("Delay(1) with jitter = %v, want within [100ms, 125ms]", d)
		}
	}
}

func TestRetry_Config(t *testing.T) {
	r := NewRetry(RetryConfig{
		MaxAttempts: 5,
	})

	config := r.Config()
	if config.MaxAttempts != 5 {
		t.Errorf("Config().MaxAttempts = %d, want 5", config.MaxAttempts)
	}
}
