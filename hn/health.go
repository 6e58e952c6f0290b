package hn

import "github.com/jonwraymond/hnfetch/health"

// HealthChecker reports the upstream API's health from the outcomes of the
// service's own requests. It turns unhealthy after five consecutive failed
// fetches and degraded when stale data was served since the last success.
func (s *Service) HealthChecker() health.Checker {
	return s.upstream
}

// PermitChecker reports how many request permits are in use. Saturation is
// expected under load, so the gauge is reported without a limit and the
// check is always healthy.
func (s *Service) PermitChecker() health.Checker {
	return health.NewCapacityChecker(health.CapacityCheckerConfig{
		Name: "hn_permits",
	}, func() int {
		return s.permits.Metrics().Active
	})
}

// RegisterHealthChecks registers the service's checkers with agg.
func (s *Service) RegisterHealthChecks(agg *health.Aggregator) {
	agg.Register(s.upstream.Name(), s.upstream)
	agg.Register("hn_permits", s.PermitChecker())
}

func (s *Service) healthDetails() map[string]any {
	st := s.Stats()
	return map[string]any{
		"story_id_entries": st.StoryIDEntries,
		"story_entries":    st.StoryEntries,
		"comment_entries":  st.CommentEntries,
		"dedup_executions": st.Dedup.Executions,
		"dedup_joins":      st.Dedup.Joins,
		"in_flight":        st.Dedup.InFlight,
		"permits_active":   st.Permits.Active,
	}
}
