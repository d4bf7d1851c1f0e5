package apicat

import (
	"context"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/apicat/internal/usecase/health"
)

// --- catalogUseCase mock ---

type mockCatalogUC struct {
	searchFn        func(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error)
	continueFn      func(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error)
	apiFn           func(ctx context.Context, name string) (domain.ApiMetadata, error)
	serverFn        func(ctx context.Context, name string) (*domain.Server, error)
	detailsFn       func(ctx context.Context, apiName string) (catalog.Details, error)
	deploymentsFn   func(ctx context.Context, apiName string) ([]domain.ApiDeployment, error)
	definitionsFn   func(ctx context.Context, apiName, versionName string) ([]domain.ApiDefinition, error)
	specificationFn func(ctx context.Context, id domain.DefinitionID) (string, error)
	refreshFn       func(ctx context.Context, id domain.DefinitionID) (string, error)
	operationsFn    func(
		ctx context.Context, id domain.DefinitionID, d *domain.ApiDeployment, values map[string]string,
	) ([]catalog.ResolvedOperation, error)
}

func (m *mockCatalogUC) Search(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error) {
	return m.searchFn(ctx, intent)
}

func (m *mockCatalogUC) Continue(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
	return m.continueFn(ctx, c)
}

func (m *mockCatalogUC) Api(ctx context.Context, name string) (domain.ApiMetadata, error) {
	return m.apiFn(ctx, name)
}

func (m *mockCatalogUC) Server(ctx context.Context, name string) (*domain.Server, error) {
	return m.serverFn(ctx, name)
}

func (m *mockCatalogUC) Details(ctx context.Context, apiName string) (catalog.Details, error) {
	return m.detailsFn(ctx, apiName)
}

func (m *mockCatalogUC) Deployments(ctx context.Context, apiName string) ([]domain.ApiDeployment, error) {
	return m.deploymentsFn(ctx, apiName)
}

func (m *mockCatalogUC) Definitions(ctx context.Context, apiName, versionName string) ([]domain.ApiDefinition, error) {
	return m.definitionsFn(ctx, apiName, versionName)
}

func (m *mockCatalogUC) Specification(ctx context.Context, id domain.DefinitionID) (string, error) {
	return m.specificationFn(ctx, id)
}

func (m *mockCatalogUC) RefreshSpecification(ctx context.Context, id domain.DefinitionID) (string, error) {
	return m.refreshFn(ctx, id)
}

func (m *mockCatalogUC) Operations(
	ctx context.Context, id domain.DefinitionID, d *domain.ApiDeployment, values map[string]string,
) ([]catalog.ResolvedOperation, error) {
	return m.operationsFn(ctx, id, d, values)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
