package apicat

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbRedis "github.com/kailas-cloud/apicat/internal/db/redis"
	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/repository/speccache"
	"github.com/kailas-cloud/apicat/internal/transport/dataapi"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/apicat/internal/usecase/health"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheKeyPrefix   = "apicat:spec:"
)

// Internal interface for substitution in tests.
type catalogUseCase interface {
	Search(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error)
	Continue(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error)
	Api(ctx context.Context, name string) (domain.ApiMetadata, error)
	Server(ctx context.Context, name string) (*domain.Server, error)
	Details(ctx context.Context, apiName string) (catalog.Details, error)
	Deployments(ctx context.Context, apiName string) ([]domain.ApiDeployment, error)
	Definitions(ctx context.Context, apiName, versionName string) ([]domain.ApiDefinition, error)
	Specification(ctx context.Context, id domain.DefinitionID) (string, error)
	RefreshSpecification(ctx context.Context, id domain.DefinitionID) (string, error)
	Operations(
		ctx context.Context, id domain.DefinitionID, deployment *domain.ApiDeployment, values map[string]string,
	) ([]catalog.ResolvedOperation, error)
}

// Client is the apicat SDK entry point.
type Client struct {
	catalog       catalogUseCase
	authenticated bool
	store         *dbRedis.Store // nil unless WithRedisCache
	healthSvc     healthUseCase
	obs           *observer
}

// New creates a Client for the data API at baseURL. The provided context
// is used for the initial cache readiness check.
func New(ctx context.Context, baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{cacheDriver: cacheMemory}
	for _, o := range opts {
		o.apply(cfg)
	}
	if baseURL == "" {
		return nil, errors.New("apicat: data api base url required")
	}
	if cfg.pageSize > 1000 {
		return nil, fmt.Errorf("apicat: page size must be at most 1000, got %d", cfg.pageSize)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	transport, err := dataapi.New(dataapi.Config{
		BaseURL:    baseURL,
		Workspace:  cfg.workspace,
		Token:      cfg.token,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("apicat: %w", err)
	}

	store, redisStore, err := createSpecStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := catalog.New(transport, speccache.New(store, nil, nil))
	if cfg.pageSize > 0 {
		svc = svc.WithPageSize(cfg.pageSize)
	}

	c := &Client{
		catalog:       svc,
		authenticated: transport.Authenticated(),
		obs:           obs,
	}
	if redisStore != nil {
		c.store = redisStore
		c.healthSvc = healthuc.New(transport, redisStore)
	} else {
		c.healthSvc = healthuc.New(transport, nil)
	}
	return c, nil
}

func createSpecStore(ctx context.Context, cfg *clientConfig) (speccache.Store, *dbRedis.Store, error) {
	switch cfg.cacheDriver {
	case cacheMemory:
		return speccache.NewMemoryStore(), nil, nil
	case cacheLRU:
		if cfg.cacheSize <= 0 {
			return nil, nil, fmt.Errorf("apicat: lru cache size must be positive, got %d", cfg.cacheSize)
		}
		return speccache.NewLRUStore(cfg.cacheSize, cfg.cacheTTL), nil, nil
	case cacheRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.redisAddrs,
			Password: cfg.redisPassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("apicat: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("apicat: redis not ready: %w", err)
		}
		return speccache.NewKVStore(s, defaultCacheKeyPrefix, cfg.cacheTTL), s, nil
	default:
		return nil, nil, fmt.Errorf("apicat: unknown cache driver %q", cfg.cacheDriver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Authenticated reports whether the client was given a token.
func (c *Client) Authenticated() bool { return c.authenticated }

// Search fetches the first page for q.
func (c *Client) Search(ctx context.Context, q Query) (_ Page, err error) {
	rec := c.obs.begin("search", "text", q.Text, "semantic", q.Semantic, "filters", len(q.Filters))
	defer func() { rec.end(err) }()

	intent, err := q.toIntent()
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	p, err := c.catalog.Search(ctx, intent)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	rec.returned(len(p.Items))
	return fromInternalPage(p), nil
}

// Continue fetches the page behind next, as returned in Page.Next.
// An empty next yields an empty terminal page.
func (c *Client) Continue(ctx context.Context, next string) (_ Page, err error) {
	rec := c.obs.begin("continue")
	defer func() { rec.end(err) }()

	p, err := c.catalog.Continue(ctx, page.NewCursor(next))
	if err != nil {
		return Page{}, fmt.Errorf("continue: %w", err)
	}
	rec.returned(len(p.Items))
	return fromInternalPage(p), nil
}

// API fetches one API by name.
func (c *Client) API(ctx context.Context, name string) (_ API, err error) {
	rec := c.obs.begin("api.get", "api", name)
	defer func() { rec.end(err) }()

	api, err := c.catalog.Api(ctx, name)
	if err != nil {
		return API{}, fmt.Errorf("get api %s: %w", name, err)
	}
	return api, nil
}

// Server fetches a registry server entry. A missing server is (nil, nil).
func (c *Client) Server(ctx context.Context, name string) (_ *Server, err error) {
	rec := c.obs.begin("server.get", "server", name)
	defer func() { rec.end(err) }()

	s, err := c.catalog.Server(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get server %s: %w", name, err)
	}
	return s, nil
}

// Details fetches an API with its versions and deployments.
func (c *Client) Details(ctx context.Context, apiName string) (_ Details, err error) {
	rec := c.obs.begin("api.details", "api", apiName)
	defer func() { rec.end(err) }()

	d, err := c.catalog.Details(ctx, apiName)
	if err != nil {
		return Details{}, fmt.Errorf("get details %s: %w", apiName, err)
	}
	return d, nil
}

// Definitions lists the definitions of an API version.
func (c *Client) Definitions(ctx context.Context, apiName, versionName string) (_ []Definition, err error) {
	rec := c.obs.begin("definition.list", "api", apiName, "version", versionName)
	defer func() { rec.end(err) }()

	defs, err := c.catalog.Definitions(ctx, apiName, versionName)
	if err != nil {
		return nil, fmt.Errorf("list definitions %s/%s: %w", apiName, versionName, err)
	}
	rec.returned(len(defs))
	return defs, nil
}

// Specification returns the definition's document text. Downloads are
// memoized per definition; failures are not.
func (c *Client) Specification(ctx context.Context, id DefinitionID) (_ string, err error) {
	rec := c.obs.begin("specification.get", "definition", id.Key())
	defer func() { rec.end(err) }()

	text, err := c.catalog.Specification(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get specification: %w", err)
	}
	return text, nil
}

// RefreshSpecification drops the memoized document of id and downloads it
// again, for a definition known to have changed.
func (c *Client) RefreshSpecification(ctx context.Context, id DefinitionID) (_ string, err error) {
	rec := c.obs.begin("specification.refresh", "definition", id.Key())
	defer func() { rec.end(err) }()

	text, err := c.catalog.RefreshSpecification(ctx, id)
	if err != nil {
		return "", fmt.Errorf("refresh specification: %w", err)
	}
	return text, nil
}

// Operations resolves callable URLs for every operation of the definition.
// deployment picks the runtime host by name; empty uses the default one.
func (c *Client) Operations(
	ctx context.Context, id DefinitionID, deployment string, values map[string]string,
) (_ []Operation, err error) {
	rec := c.obs.begin("operation.list", "definition", id.Key(), "deployment", deployment)
	defer func() { rec.end(err) }()

	deployments, err := c.catalog.Deployments(ctx, id.APIName)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	dep := catalog.FindDeployment(deployments, deployment)
	if dep == nil && deployment != "" {
		return nil, fmt.Errorf("list operations: deployment %s: %w", deployment, ErrNotFound)
	}
	ops, err := c.catalog.Operations(ctx, id, dep, values)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	rec.returned(len(ops))
	return ops, nil
}
