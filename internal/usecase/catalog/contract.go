package catalog

import "context"

// Transport is the data API round trip layer.
type Transport interface {
	// Get fetches a workspace-relative path.
	Get(ctx context.Context, path string, out any) error
	// GetRoot fetches a path outside the workspace prefix.
	GetRoot(ctx context.Context, path string, out any) error
	// GetURL fetches an absolute locator verbatim.
	GetURL(ctx context.Context, rawURL string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	// Download fetches a document link without credentials.
	Download(ctx context.Context, link string) ([]byte, error)
}

// SpecificationCache memoizes specification documents by key.
type SpecificationCache interface {
	Get(ctx context.Context, key string, load func(ctx context.Context) ([]byte, error)) (string, error)
	Invalidate(ctx context.Context, key string) error
}
