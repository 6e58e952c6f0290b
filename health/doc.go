// Package health provides health checking primitives for the fetch layer.
//
// A Checker reports a Status (Healthy, Degraded or Unhealthy) for one
// component. UpstreamChecker follows the outcome of requests against a remote
// API, CapacityChecker compares a gauge against thresholds, and Aggregator
// combines checkers into one report.
//
// # Tracking an upstream
//
//	upstream := health.NewUpstreamChecker(health.UpstreamCheckerConfig{
//	    Name:             "hn-api",
//	    FailureThreshold: 5,
//	})
//	upstream.RecordFailure(err) // after a fetch fails
//	upstream.RecordStale()      // after stale data was served instead
//	upstream.RecordSuccess()    // after a fetch succeeds
//
// # Aggregating Health Checks
//
//	agg := health.NewAggregator()
//	agg.Register("upstream", upstream)
//	agg.Register("cache", cacheChecker)
//
//	report := agg.Report(ctx)
//
// # HTTP Endpoints
//
// RegisterHandlers mounts the probes on a gorilla/mux router:
//
//	r := mux.NewRouter()
//	health.RegisterHandlers(r, agg)
//	// GET /healthz, /readyz, /health and /health/{check}
package health
