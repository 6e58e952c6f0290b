package health_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/hnfetch/health"
)

func ExampleNewUpstreamChecker() {
	upstream := health.NewUpstreamChecker(health.UpstreamCheckerConfig{
		Name:             "hn-api",
		FailureThreshold: 2,
	})
	ctx := context.Background()

	fmt.Println(upstream.Check(ctx).Status)

	upstream.RecordFailure(errors.New("connection refused"))
	upstream.RecordStale()
	fmt.Println(upstream.Check(ctx).Status)

	upstream.RecordFailure(errors.New("connection refused"))
	fmt.Println(upstream.Check(ctx).Status)

	upstream.RecordSuccess()
	fmt.Println(upstream.Check(ctx).Status)
	// Output:
	// healthy
	// degraded
	// unhealthy
	// healthy
}

func ExampleNewCapacityChecker() {
	entries := 90
	checker := health.NewCapacityChecker(health.CapacityCheckerConfig{
		Name:  "cache",
		Limit: 100,
	}, func() int { return entries })

	result := checker.Check(context.Background())
	fmt.Println(result.Status)
	fmt.Println(result.Message)
	// Output:
	// degraded
	// cache usage high: 90.0%
}

func ExampleAggregator_Report() {
	agg := health.NewAggregator()
	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		return health.Healthy("reachable")
	}))
	agg.Register("cache", health.NewCheckerFunc("cache", func(ctx context.Context) health.Result {
		return health.Degraded("serving stale data")
	}))

	report := agg.Report(context.Background())
	fmt.Println("Overall:", report.Status)
	fmt.Println("Checks:", len(report.Checks))
	// Output:
	// Overall: degraded
	// Checks: 2
}
