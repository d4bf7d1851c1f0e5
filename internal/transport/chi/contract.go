package chi

import (
	"context"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
	"github.com/kailas-cloud/apicat/internal/usecase/health"
)

// Browser is the list-with-load-more surface.
type Browser interface {
	View() browse.View
	SetIntent(ctx context.Context, intent request.Intent) error
	LoadMore(ctx context.Context) (bool, error)
	Session() *browse.Session
}

// Catalog serves entity lookups and operation URLs.
type Catalog interface {
	Details(ctx context.Context, apiName string) (catalog.Details, error)
	Deployments(ctx context.Context, apiName string) ([]domain.ApiDeployment, error)
	Specification(ctx context.Context, id domain.DefinitionID) (string, error)
	RefreshSpecification(ctx context.Context, id domain.DefinitionID) (string, error)
	Operations(
		ctx context.Context, id domain.DefinitionID, deployment *domain.ApiDeployment, values map[string]string,
	) ([]catalog.ResolvedOperation, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}
