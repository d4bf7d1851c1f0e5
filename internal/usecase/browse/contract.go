package browse

import (
	"context"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
)

// Catalog fetches listing pages.
type Catalog interface {
	Search(ctx context.Context, intent request.Intent) (page.Page[domain.ApiMetadata], error)
	Continue(ctx context.Context, c page.Cursor) (page.Page[domain.ApiMetadata], error)
}
