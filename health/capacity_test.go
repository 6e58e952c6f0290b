package health

import (
	"context"
	"errors"
	"testing"
)

func TestNewCapacityChecker_Defaults(t *testing.T) {
	c := NewCapacityChecker(CapacityCheckerConfig{}, func() int { return 0 })

	if c.Name() != "capacity" {
		t.Errorf("Name() = %q, want capacity", c.Name())
	}
	if c.config.WarningThreshold != 0.8 {
		t.Errorf("WarningThreshold = %v, want 0.8", c.config.WarningThreshold)
	}
	if c.config.CriticalThreshold != 0.95 {
		t.Errorf("CriticalThreshold = %v, want 0.95", c.config.CriticalThreshold)
	}
}

func TestNewCapacityChecker_CriticalBelowWarning(t *testing.T) {
	c := NewCapacityChecker(CapacityCheckerConfig{
		WarningThreshold:  0.9,
		CriticalThreshold: 0.5,
	}, func() int { return 0 })

	if c.config.CriticalThreshold <= c.config.WarningThreshold {
		t.Errorf("CriticalThreshold = %v, should exceed warning %v", c.config.CriticalThreshold, c.config.WarningThreshold)
	}
	if c.config.CriticalThreshold > 1 {
		t.Errorf("CriticalThreshold = %v, should not exceed 1", c.config.CriticalThreshold)
	}
}

func TestCapacityChecker_Check(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		value int
		want  Status
	}{
		{"no limit", 0, 1_000_000, StatusHealthy},
		{"normal", 100, 10, StatusHealthy},
		{"warning", 100, 85, StatusDegraded},
		{"critical", 100, 96, StatusUnhealthy},
		{"over limit", 100, 150, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCapacityChecker(CapacityCheckerConfig{Name: "cache", Limit: tt.limit}, func() int { return tt.value })

			r := c.Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v (%s)", r.Status, tt.want, r.Message)
			}
			if r.Details["value"] != tt.value {
				t.Errorf("value = %v, want %d", r.Details["value"], tt.value)
			}
			if tt.want == StatusUnhealthy && !errors.Is(r.Error, ErrThresholdExceeded) {
				t.Errorf("Error = %v, want ErrThresholdExceeded", r.Error)
			}
		})
	}
}

func TestCapacityChecker_CanceledContext(t *testing.T) {
	c := NewCapacityChecker(CapacityCheckerConfig{}, func() int {
		t.Error("gauge read after cancellation")
		return 0
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if r := c.Check(ctx); r.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", r.Status)
	}
}
