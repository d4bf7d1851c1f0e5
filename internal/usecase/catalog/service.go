package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/logger"
	"github.com/kailas-cloud/apicat/internal/metrics"
)

// Service is the stateless request layer over the catalog data API. Every
// call is one round trip, except Specification which may add a download.
type Service struct {
	transport Transport
	specs     SpecificationCache
	pageSize  int
	logger    *zap.Logger
}

// New creates a catalog service. specs may be nil, in which case every
// Specification call downloads the document.
func New(transport Transport, specs SpecificationCache) *Service {
	return &Service{
		transport: transport,
		specs:     specs,
		pageSize:  request.DefaultPageSize,
		logger:    zap.NewNop(),
	}
}

// WithPageSize sets the $top bound of list requests.
func (s *Service) WithPageSize(n int) *Service {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// WithLogger sets the logger.
func (s *Service) WithLogger(l *zap.Logger) *Service {
	s.logger = logger.OrNop(l)
	return s
}

// PageSize returns the $top bound of list requests.
func (s *Service) PageSize() int { return s.pageSize }

// Search fetches the first page of APIs matching intent. Intents that must
// not reach the network yield an empty terminal page.
func (s *Service) Search(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error) {
	q := request.FromIntent(intent, s.pageSize)
	if q.Skip() {
		metrics.CatalogPagesTotal.WithLabelValues("skipped").Inc()
		return page.Empty[domain.ApiMetadata](), nil
	}

	var env page.Envelope[domain.ApiMetadata]
	var err error
	if q.Semantic() {
		err = s.transport.Post(ctx, ":search?"+q.Encode(), q.Body(), &env)
	} else {
		err = s.transport.Get(ctx, "/apis?"+q.Encode(), &env)
	}
	if err != nil {
		return page.Page[domain.ApiMetadata]{}, fmt.Errorf("search apis: %w", err)
	}
	metrics.CatalogPagesTotal.WithLabelValues("first").Inc()
	return env.Page(), nil
}

// Continue dereferences a continuation cursor. The cursor already encodes
// the original search and filters. A terminal cursor yields an empty
// terminal page without a round trip.
func (s *Service) Continue(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
	return page.FetchNext[domain.ApiMetadata](ctx, s, c)
}

// Follow implements page.Follower. It always issues the request, so callers
// holding a possibly terminal cursor go through Continue.
func (s *Service) Follow(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error) {
	var env page.Envelope[domain.ApiMetadata]
	if err := s.transport.GetURL(ctx, c.Link(), &env); err != nil {
		return page.Page[domain.ApiMetadata]{}, fmt.Errorf("next page: %w", err)
	}
	metrics.CatalogPagesTotal.WithLabelValues("next").Inc()
	return env.Page(), nil
}

// Api fetches one API.
func (s *Service) Api(ctx context.Context, name string) (domain.ApiMetadata, error) { //nolint:revive // mirrors the resource name
	var out domain.ApiMetadata
	if err := s.transport.Get(ctx, apiPath(name), &out); err != nil {
		return domain.ApiMetadata{}, fmt.Errorf("get api %s: %w", name, err)
	}
	return out, nil
}

// Server fetches the MCP server entry registered under name. It returns
// nil when the response carries no server.
func (s *Service) Server(ctx context.Context, name string) (*domain.Server, error) {
	var out struct {
		Server *domain.Server `json:"server"`
	}
	if err := s.transport.Get(ctx, "/v0/servers/"+url.PathEscape(name), &out); err != nil {
		return nil, fmt.Errorf("get server %s: %w", name, err)
	}
	return out.Server, nil
}

// Versions lists the first page of versions of an API.
func (s *Service) Versions(ctx context.Context, apiName string) ([]domain.ApiVersion, error) {
	return firstPage[domain.ApiVersion](ctx, s, apiPath(apiName)+"/versions", "list versions")
}

// Deployments lists the first page of deployments of an API.
func (s *Service) Deployments(ctx context.Context, apiName string) ([]domain.ApiDeployment, error) {
	return firstPage[domain.ApiDeployment](ctx, s, apiPath(apiName)+"/deployments", "list deployments")
}

// Definitions lists the first page of definitions of an API version.
func (s *Service) Definitions(ctx context.Context, apiName, versionName string) ([]domain.ApiDefinition, error) {
	return firstPage[domain.ApiDefinition](ctx, s, versionPath(apiName, versionName)+"/definitions", "list definitions")
}

// Definition fetches one definition.
func (s *Service) Definition(ctx context.Context, id domain.DefinitionID) (domain.ApiDefinition, error) {
	if err := id.Validate(); err != nil {
		return domain.ApiDefinition{}, err
	}
	var out domain.ApiDefinition
	if err := s.transport.Get(ctx, definitionPath(id), &out); err != nil {
		return domain.ApiDefinition{}, fmt.Errorf("get definition %s: %w", id.Key(), err)
	}
	return out, nil
}

// SpecificationLink asks the server to export a definition and returns the
// download link. Each call may mint a different link.
func (s *Service) SpecificationLink(ctx context.Context, id domain.DefinitionID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	var out struct {
		Value string `json:"value"`
	}
	if err := s.transport.Post(ctx, definitionPath(id)+":exportSpecification", nil, &out); err != nil {
		return "", fmt.Errorf("export specification %s: %w", id.Key(), err)
	}
	if out.Value == "" {
		return "", fmt.Errorf("export specification %s: %w", id.Key(), domain.ErrEmptySpecificationLink)
	}
	return out.Value, nil
}

// Specification returns the document text of a definition. Concurrent and
// repeated calls for the same id share one export and download.
func (s *Service) Specification(ctx context.Context, id domain.DefinitionID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	load := func(ctx context.Context) ([]byte, error) {
		return s.downloadSpecification(ctx, id)
	}
	if s.specs == nil {
		data, err := load(ctx)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	text, err := s.specs.Get(ctx, id.Key(), load)
	if err != nil {
		return "", fmt.Errorf("specification %s: %w", id.Key(), err)
	}
	return text, nil
}

// RefreshSpecification drops the memoized document of id and downloads it
// again.
func (s *Service) RefreshSpecification(ctx context.Context, id domain.DefinitionID) (string, error) {
	if err := id.Validate(); err != nil {
		return "", err
	}
	if s.specs != nil {
		if err := s.specs.Invalidate(ctx, id.Key()); err != nil {
			return "", fmt.Errorf("refresh specification %s: %w", id.Key(), err)
		}
	}
	return s.Specification(ctx, id)
}

func (s *Service) downloadSpecification(ctx context.Context, id domain.DefinitionID) ([]byte, error) {
	link, err := s.SpecificationLink(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.transport.Download(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("download specification %s: %w", id.Key(), err)
	}
	s.logger.Debug("specification downloaded", zap.String("definition", id.Key()), zap.Int("bytes", len(data)))
	return data, nil
}

// Environment fetches one environment.
func (s *Service) Environment(ctx context.Context, environmentID string) (domain.ApiEnvironment, error) {
	var out domain.ApiEnvironment
	if err := s.transport.Get(ctx, "/environments/"+url.PathEscape(environmentID), &out); err != nil {
		return domain.ApiEnvironment{}, fmt.Errorf("get environment %s: %w", environmentID, err)
	}
	return out, nil
}

// SecurityRequirements lists the auth schemes an API version declares.
func (s *Service) SecurityRequirements(ctx context.Context, apiName, versionName string) ([]domain.AuthSchemeMetadata, error) {
	return firstPage[domain.AuthSchemeMetadata](
		ctx, s, versionPath(apiName, versionName)+"/securityRequirements", "list security requirements",
	)
}

// SecurityCredentials resolves the credentials of one auth scheme.
func (s *Service) SecurityCredentials(ctx context.Context, apiName, versionName, schemeName string) (domain.AuthScheme, error) {
	path := versionPath(apiName, versionName) + "/securityRequirements/" + url.PathEscape(schemeName) + ":getCredentials"
	var out domain.AuthScheme
	if err := s.transport.Post(ctx, path, nil, &out); err != nil {
		return domain.AuthScheme{}, fmt.Errorf("get credentials %s: %w", schemeName, err)
	}
	return out, nil
}

// MetadataSchemas lists custom property schemas. They live outside the
// workspace and come back as a bare array.
func (s *Service) MetadataSchemas(ctx context.Context) ([]domain.MetadataSchema, error) {
	var out []domain.MetadataSchema
	if err := s.transport.GetRoot(ctx, "/metadataSchemas?"+s.topParam(), &out); err != nil {
		return nil, fmt.Errorf("list metadata schemas: %w", err)
	}
	if out == nil {
		out = []domain.MetadataSchema{}
	}
	return out, nil
}

// firstPage fetches one bounded page of a sub-resource and drops the cursor.
func firstPage[T any](ctx context.Context, s *Service, path, op string) ([]T, error) {
	var env page.Envelope[T]
	if err := s.transport.Get(ctx, path+"?"+s.topParam(), &env); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return env.Page().Items, nil
}

func (s *Service) topParam() string {
	return request.ParamTop + "=" + strconv.Itoa(s.pageSize)
}

func apiPath(name string) string {
	return "/apis/" + url.PathEscape(name)
}

func versionPath(apiName, versionName string) string {
	return apiPath(apiName) + "/versions/" + url.PathEscape(versionName)
}

func definitionPath(id domain.DefinitionID) string {
	return versionPath(id.APIName, id.VersionName) + "/definitions/" + url.PathEscape(id.DefinitionName)
}
