package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure; classification still answers, possibly with the search fallback.
	Degraded Status = "degraded"
	// Unhealthy indicates every checked component is failing.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentIndex = "index"
	ComponentCache = "cache"
)

// DefaultCheckTimeout bounds each component probe.
const DefaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index   Pinger
	cache   Pinger
	timeout time.Duration
}

// New creates a Service. index is nil for the in-memory index, which is
// always reported healthy.
func New(index Pinger) *Service {
	return &Service{index: index, timeout: DefaultCheckTimeout}
}

// WithCache adds the lookup cache to the checks.
func (s *Service) WithCache(cache Pinger) *Service {
	s.cache = cache
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{ComponentIndex: s.probe(ctx, s.index)}
	if s.cache != nil {
		checks[ComponentCache] = s.probe(ctx, s.cache)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) probe(ctx context.Context, p Pinger) CheckResult {
	if p == nil {
		return CheckOK
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
