package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestKey struct{}

// WithRequest derives the logger of one inbound request from base, tagged
// with its request id, and stores it in ctx.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := OrNop(base)
	if requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	return context.WithValue(ctx, requestKey{}, l), l
}

// FromContext returns the request logger stored by WithRequest, or fallback
// outside a request. A nil fallback yields a no-op logger.
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(requestKey{}).(*zap.Logger); ok {
		return l
	}
	return OrNop(fallback)
}
