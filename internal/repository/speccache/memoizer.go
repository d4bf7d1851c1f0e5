// Package speccache memoizes specification documents by definition id.
package speccache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/apicat/internal/db"
	"github.com/kailas-cloud/apicat/internal/logger"
)

const defaultLoadTimeout = 2 * time.Minute

// LoadFunc fetches a document on a miss.
type LoadFunc = func(ctx context.Context) ([]byte, error)

// Memoizer returns a stored document or runs at most one load per key at a
// time, handing the result to every concurrent caller. Failed loads are not
// stored, so the next call retries.
type Memoizer struct {
	store       Store
	group       singleflight.Group
	loadTimeout time.Duration
	cacheTotal  *prometheus.CounterVec
	logger      *zap.Logger
}

// New creates a Memoizer over store.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"shared"), may be nil.
func New(store Store, cacheTotal *prometheus.CounterVec, l *zap.Logger) *Memoizer {
	return &Memoizer{
		store:       store,
		loadTimeout: defaultLoadTimeout,
		cacheTotal:  cacheTotal,
		logger:      logger.OrNop(l),
	}
}

// WithLoadTimeout bounds a single load. The load is detached from the
// caller that started it, so a cancelled caller does not fail the others.
func (m *Memoizer) WithLoadTimeout(d time.Duration) *Memoizer {
	if d > 0 {
		m.loadTimeout = d
	}
	return m
}

// Get returns the document stored under key, loading it on a miss.
func (m *Memoizer) Get(ctx context.Context, key string, load LoadFunc) (string, error) {
	if v, ok := m.lookup(ctx, key); ok {
		m.inc("hit")
		return string(v), nil
	}

	// Shared reports true for the leader too, so track who ran the load.
	var ran atomic.Bool
	ch := m.group.DoChan(key, func() (any, error) {
		ran.Store(true)
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.loadTimeout)
		defer cancel()

		// A flight that finished between our lookup and DoChan already stored it.
		if v, ok := m.lookup(lctx, key); ok {
			return string(v), nil
		}
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if err := m.store.Set(lctx, key, v); err != nil {
			m.logger.Warn("spec cache write failed", zap.String("key", key), zap.Error(err))
		}
		return string(v), nil
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("wait for specification: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("load specification %s: %w", key, res.Err)
		}
		if ran.Load() {
			m.inc("miss")
		} else {
			m.inc("shared")
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the stored document and detaches any in-flight load, so
// the next Get downloads it again.
func (m *Memoizer) Invalidate(ctx context.Context, key string) error {
	m.group.Forget(key)
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate specification %s: %w", key, err)
	}
	return nil
}

func (m *Memoizer) lookup(ctx context.Context, key string) ([]byte, bool) {
	v, err := m.store.Get(ctx, key)
	if err == nil {
		return v, true
	}
	if !errors.Is(err, db.ErrKeyNotFound) {
		m.logger.Warn("spec cache read failed", zap.String("key", key), zap.Error(err))
	}
	return nil, false
}

func (m *Memoizer) inc(result string) {
	if m.cacheTotal != nil {
		m.cacheTotal.WithLabelValues(result).Inc()
	}
}
