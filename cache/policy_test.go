package cache

import (
	"testing"
	"time"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	if p.DefaultTTL != 5*time.Minute {
		t.Errorf("DefaultTTL = %v, want 5m", p.DefaultTTL)
	}
	if p.MaxTTL != time.Hour {
		t.Errorf("MaxTTL = %v, want 1h", p.MaxTTL)
	}
}

func TestPolicy_EffectiveTTL(t *testing.T) {
	tests := []struct {
		name     string
		policy   Policy
		override time.Duration
		want     time.Duration
	}{
		{"default when no override", DefaultPolicy(), 0, 5 * time.Minute},
		{"default when negative override", DefaultPolicy(), -time.Second, 5 * time.Minute},
		{"override within max", DefaultPolicy(), 10 * time.Minute, 10 * time.Minute},
		{"override clamped to max", DefaultPolicy(), 2 * time.Hour, time.Hour},
		{"no max enforced", Policy{DefaultTTL: time.Minute}, 48 * time.Hour, 48 * time.Hour},
		{"default clamped to max", Policy{DefaultTTL: time.Hour, MaxTTL: time.Minute}, 0, time.Minute},
		{"zero policy", Policy{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.EffectiveTTL(tt.override); got != tt.want {
				t.Errorf("EffectiveTTL(%v) = %v, want %v", tt.override, got, tt.want)
			}
		})
	}
}
