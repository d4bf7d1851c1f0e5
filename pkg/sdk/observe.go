package apicat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded in the "outcome" label of apicat_sdk_operations_total.
const (
	outcomeOK          = "ok"
	outcomeNotFound    = "not_found"
	outcomeDenied      = "denied"
	outcomeRateLimited = "rate_limited"
	outcomeCanceled    = "canceled"
	outcomeUpstream    = "upstream_error"
	outcomeError       = "error"
)

// outcome classifies err by the catalog failure it carries. Status
// sentinels are checked before ErrTransport, which every failed round
// trip also matches.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden), errors.Is(err, ErrNotAuthenticated):
		return outcomeDenied
	case errors.Is(err, ErrRateLimited):
		return outcomeRateLimited
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	case errors.Is(err, ErrTransport), errors.Is(err, ErrEmptySpecificationLink):
		return outcomeUpstream
	default:
		return outcomeError
	}
}

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apicat",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and catalog outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apicat",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call latency in seconds, data API round trips included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apicat",
			Subsystem: "sdk",
			Name:      "items_total",
			Help:      "Catalog entries returned by listing calls.",
		}, []string{"operation"}),
	}
	var err error
	if m.operations, err = register(reg, m.operations); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.items, err = register(reg, m.items); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns c, or the identical collector an earlier client already
// put on reg, so several clients can share one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("apicat: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("apicat: metric already registered as %T", are.ExistingCollector)
	}
	return existing, nil
}

// observer logs and counts SDK calls. A nil observer records nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// call is one SDK operation in flight. attrs name the catalog entity it
// touches and are logged with the result.
type call struct {
	obs   *observer
	op    string
	start time.Time
	attrs []any
	items int
}

func (o *observer) begin(op string, attrs ...any) *call {
	if o == nil {
		return nil
	}
	return &call{obs: o, op: op, start: time.Now(), attrs: attrs, items: -1}
}

// returned records how many catalog entries the call produced.
func (c *call) returned(n int) {
	if c != nil {
		c.items = n
	}
}

func (c *call) end(err error) {
	if c == nil {
		return
	}
	dur := time.Since(c.start)
	result := outcome(err)

	if m := c.obs.metrics; m != nil {
		m.operations.WithLabelValues(c.op, result).Inc()
		m.duration.WithLabelValues(c.op).Observe(dur.Seconds())
		if c.items > 0 {
			m.items.WithLabelValues(c.op).Add(float64(c.items))
		}
	}

	l := c.obs.logger
	if l == nil {
		return
	}
	args := append([]any{"op", c.op, "outcome", result, "duration", dur}, c.attrs...)
	if c.items >= 0 {
		args = append(args, "items", c.items)
	}
	switch result {
	case outcomeOK:
		l.Debug("catalog call completed", args...)
	case outcomeNotFound, outcomeCanceled:
		l.Info("catalog call completed", append(args, "error", err)...)
	default:
		l.Warn("catalog call failed", append(args, "error", err)...)
	}
}
