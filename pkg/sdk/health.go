package apicat

import (
	"context"

	healthuc "github.com/kailas-cloud/apicat/internal/usecase/health"
)

// HealthStatus is the client's view of the data API and its shared cache.
type HealthStatus struct {
	Status  string // "ok", "degraded" or "error"
	Catalog string // data API: "ok" or "error"
	Cache   string // shared cache: "ok", "error", or empty without WithRedisCache
}

// Healthy reports whether the data API is reachable. A degraded client
// still serves every call; specifications are downloaded on each request.
func (h HealthStatus) Healthy() bool { return h.Status != string(healthuc.Unhealthy) }

// Health pings the data API and, when configured, the shared cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	rec := c.obs.begin("health")
	report := c.healthSvc.Check(ctx)
	h := HealthStatus{
		Status:  string(report.Status),
		Catalog: string(report.Checks[healthuc.ComponentCatalog]),
		Cache:   string(report.Checks[healthuc.ComponentCache]),
	}
	var err error
	if !h.Healthy() {
		err = ErrTransport
	}
	rec.end(err)
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
