package browse

import (
	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/search/order"
)

// View is what a list-with-load-more surface renders.
type View struct {
	Items         []domain.ApiMetadata `json:"items"`
	State         State                `json:"state"`
	IsLoading     bool                 `json:"isLoading"`
	IsLoadingMore bool                 `json:"isLoadingMore"`
	HasMore       bool                 `json:"hasMore"`
	Empty         bool                 `json:"empty"`
	Err           error                `json:"-"`
	Error         string               `json:"error,omitempty"`
}

// SortKey extracts the value of field f from an API entry.
func SortKey(a domain.ApiMetadata, f order.Field) string {
	switch f {
	case order.FieldName:
		return a.Name
	case order.FieldKind:
		return a.Kind
	case order.FieldLifecycleStage:
		return a.LifecycleStage
	default:
		return a.Title
	}
}
