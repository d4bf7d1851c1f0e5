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
	// Degraded indicates the catalog is reachable but the shared cache is not.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog is unreachable.
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

// Component names in Report.Checks.
const (
	ComponentCatalog = "catalog"
	ComponentCache   = "cache"
)

const defaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	catalog Pinger
	cache   Pinger
	timeout time.Duration
}

// New creates a Service. cache can be nil when no shared cache is configured.
func New(catalog, cache Pinger) *Service {
	return &Service{catalog: catalog, cache: cache, timeout: defaultCheckTimeout}
}

// Check pings every component, each bounded by the check timeout.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	checks[ComponentCatalog] = s.ping(ctx, s.catalog)
	if s.cache != nil {
		checks[ComponentCache] = s.ping(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentCatalog] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func (s *Service) ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
