package health

import (
	"context"
	"fmt"
)

// CapacityCheckerConfig configures the capacity health checker.
type CapacityCheckerConfig struct {
	// Name identifies the measured component.
	// Default: "capacity"
	Name string

	// Limit is the expected maximum of the gauge. Zero reports the gauge
	// without judging it.
	Limit int

	// WarningThreshold is the fraction of Limit that triggers degraded status.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the fraction of Limit that triggers unhealthy status.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64
}

// CapacityChecker compares a gauge such as cache entries or in-flight
// requests against a limit.
type CapacityChecker struct {
	config CapacityCheckerConfig
	gauge  func() int
}

// NewCapacityChecker creates a new capacity checker reading gauge on each check.
func NewCapacityChecker(config CapacityCheckerConfig, gauge func() int) *CapacityChecker {
	if config.Name == "" {
		config.Name = "capacity"
	}
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold + 0.1
		if config.CriticalThreshold > 1 {
			config.CriticalThreshold = 0.99
		}
	}

	return &CapacityChecker{config: config, gauge: gauge}
}

// Name returns the name of this checker.
func (c *CapacityChecker) Name() string {
	return c.config.Name
}

// Check performs the capacity check.
func (c *CapacityChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	value := c.gauge()
	details := map[string]any{
		"value": value,
	}

	if c.config.Limit <= 0 {
		return Healthy(fmt.Sprintf("%s: %d", c.config.Name, value)).WithDetails(details)
	}

	usageRatio := float64(value) / float64(c.config.Limit)
	details["limit"] = c.config.Limit
	details["usage_percent"] = usageRatio * 100

	if usageRatio >= c.config.CriticalThreshold {
		return Unhealthy(
			fmt.Sprintf("%s usage critical: %.1f%%", c.config.Name, usageRatio*100),
			ErrThresholdExceeded,
		).WithDetails(details)
	}

	if usageRatio >= c.config.WarningThreshold {
		return Degraded(
			fmt.Sprintf("%s usage high: %.1f%%", c.config.Name, usageRatio*100),
		).WithDetails(details)
	}

	return Healthy(
		fmt.Sprintf("%s usage normal: %.1f%%", c.config.Name, usageRatio*100),
	).WithDetails(details)
}

var _ Checker = (*CapacityChecker)(nil)
