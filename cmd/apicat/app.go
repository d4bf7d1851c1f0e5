package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/apicat/internal/config"
	dbRedis "github.com/kailas-cloud/apicat/internal/db/redis"
	logpkg "github.com/kailas-cloud/apicat/internal/logger"
	"github.com/kailas-cloud/apicat/internal/metrics"
	"github.com/kailas-cloud/apicat/internal/repository/speccache"
	"github.com/kailas-cloud/apicat/internal/transport/dataapi"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/apicat/internal/usecase/health"
)

// app is the composition root shared by every command.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	client  *dataapi.Client
	cache   *dbRedis.Store // nil unless the redis driver is configured
	catalog *catalog.Service
}

// newApp loads config and wires the catalog stack. loggerEnv selects the
// logger flavor: "cli" for one-shot commands, the config env for serve.
func newApp(ctx context.Context, opts *rootOptions, loggerEnv string) (*app, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if loggerEnv == "cli" {
		level = opts.logLevel
	}
	logger, err := logpkg.NewLogger(loggerEnv, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.RegisterCatalogMetrics()

	client, err := dataapi.New(dataapi.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		Workspace: cfg.Catalog.Workspace,
		Token:     cfg.Catalog.Token,
		Timeout:   time.Duration(cfg.Catalog.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create data api client: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, client: client}

	store, err := a.specStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	specs := speccache.New(store, metrics.SpecCacheTotal, logger)
	a.catalog = catalog.New(client, specs).
		WithPageSize(cfg.Catalog.PageSize).
		WithLogger(logger)
	return a, nil
}

// specStore picks the specification cache policy from config.
func (a *app) specStore(ctx context.Context) (speccache.Store, error) {
	ttl := time.Duration(a.cfg.Cache.TTLSec) * time.Second
	switch a.cfg.Cache.Driver {
	case config.CacheDriverLRU:
		return speccache.NewLRUStore(a.cfg.Cache.Size, ttl), nil
	case config.CacheDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:         a.cfg.Cache.Addrs,
			Password:      a.cfg.Cache.Password,
			LocalCacheTTL: ttl,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		a.cache = store
		timeout := time.Duration(a.cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			return nil, fmt.Errorf("redis not ready: %w", err)
		}
		a.logger.Info("connected to redis", zap.Strings("addrs", a.cfg.Cache.Addrs))
		return speccache.NewKVStore(store, a.cfg.Cache.KeyPrefix, ttl), nil
	default:
		return speccache.NewMemoryStore(), nil
	}
}

// health builds the health service over the data API and the shared cache.
func (a *app) health() *healthuc.Service {
	// Pass a nil interface, not a typed nil *Store.
	if a.cache != nil {
		return healthuc.New(a.client, a.cache)
	}
	return healthuc.New(a.client, nil)
}

// Close releases the cache connection and flushes the logger.
func (a *app) Close() {
	if a.cache != nil {
		a.cache.Close()
	}
	_ = a.logger.Sync()
}
