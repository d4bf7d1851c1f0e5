package apicat

import (
	"fmt"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/page"
	"github.com/kailas-cloud/apicat/internal/domain/search/filter"
	"github.com/kailas-cloud/apicat/internal/domain/search/mode"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
)

// Catalog resources.
type (
	API          = domain.ApiMetadata
	Version      = domain.ApiVersion
	Deployment   = domain.ApiDeployment
	Definition   = domain.ApiDefinition
	DefinitionID = domain.DefinitionID
	Server       = domain.Server
	Details      = catalog.Details
	Operation    = catalog.ResolvedOperation
	View         = browse.View
)

// Filter restricts results to items whose facet Type equals Value.
// Filters on the same facet are alternatives; different facets must all match.
type Filter struct {
	Type  string
	Value string
}

// Query describes one listing request.
type Query struct {
	Text    string
	Filters []Filter
	// Semantic uses vector search. An empty semantic query returns nothing.
	Semantic bool
	// Autocomplete returns nothing for empty text or semantic queries.
	Autocomplete bool
}

// Page is one slice of a listing. An empty Next means the listing is done.
type Page struct {
	Items []API
	Next  string
}

// HasMore reports whether Continue can fetch another page.
func (p Page) HasMore() bool { return p.Next != "" }

func (q Query) toIntent() (request.Intent, error) {
	clauses := make([]filter.Clause, 0, len(q.Filters))
	for _, f := range q.Filters {
		c, err := filter.NewClause(f.Type, f.Value)
		if err != nil {
			return request.Intent{}, fmt.Errorf("filter %s:%s: %w", f.Type, f.Value, err)
		}
		clauses = append(clauses, c)
	}
	intent, err := request.NewIntent(q.Text, clauses, mode.FromFlag(q.Semantic))
	if err != nil {
		return request.Intent{}, err
	}
	return intent.WithAutocomplete(q.Autocomplete), nil
}

func fromInternalPage(p page.Page[domain.ApiMetadata]) Page {
	return Page{Items: p.Items, Next: p.Next.Link()}
}
