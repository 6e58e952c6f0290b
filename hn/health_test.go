package hn

import (
	"context"
	"net/http"
	"testing"

	"github.com/jonwraymond/hnfetch/health"
)

func TestService_HealthChecker(t *testing.T) {
	api, srv := newFakeAPI(t)
	api.set("/item/1.json", `{"id":1,"type":"story"}`)

	rt := &refusedTransport{failures: 5, next: http.DefaultTransport}
	cfg := testConfig()
	cfg.MaxRetries = 0
	s := NewService(WithNetworkConfig(cfg), WithBaseURL(srv.URL), WithHTTPClient(&http.Client{Transport: rt}))
	ctx := context.Background()

	if got := s.HealthChecker().Check(ctx).Status; got != health.StatusHealthy {
		t.Fatalf("initial status = %v, want healthy", got)
	}

	for i := range 4 {
		if _, err := s.FetchStory(ctx, 1); err == nil {
			t.Fatalf("fetch %d: expected failure", i)
		}
	}
	if got := s.HealthChecker().Check(ctx).Status; got != health.StatusDegraded {
		t.Errorf("status after 4 failures = %v, want degraded", got)
	}

	if _, err := s.FetchStory(ctx, 1); err == nil {
		t.Fatal("fifth fetch: expected failure")
	}
	res := s.HealthChecker().Check(ctx)
	if res.Status != health.StatusUnhealthy {
		t.Errorf("status after 5 failures = %v, want unhealthy", res.Status)
	}
	if res.Error == nil {
		t.Error("unhealthy result should carry the last error")
	}

	if _, err := s.FetchStory(ctx, 1); err != nil {
		t.Fatalf("FetchStory() after recovery error = %v", err)
	}
	res = s.HealthChecker().Check(ctx)
	if res.Status != health.StatusHealthy {
		t.Errorf("status after success = %v, want healthy", res.Status)
	}
	if res.Details["story_entries"] != 1 {
		t.Errorf("details = %v, want story_entries=1", res.Details)
	}
}

func TestService_RegisterHealthChecks(t *testing.T) {
	s := NewService(WithBaseURL("http://hn.invalid/"))
	agg := health.NewAggregator()
	s.RegisterHealthChecks(agg)

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "hn_api" || names[1] != "hn_permits" {
		t.Errorf("CheckerNames() = %v", names)
	}

	report := agg.Report(context.Background())
	if report.Status != health.StatusHealthy {
		t.Errorf("report status = %v, want healthy", report.Status)
	}
}
