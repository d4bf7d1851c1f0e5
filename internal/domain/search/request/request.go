package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/apicat/internal/domain/search/filter"
	"github.com/kailas-cloud/apicat/internal/domain/search/mode"
)

// Query limits.
const (
	// DefaultPageSize is the $top bound sent with every list request.
	DefaultPageSize = 50
	MaxPageSize     = 1000
	MaxTextLength   = 1024
)

// Query parameter names understood by the data API.
const (
	ParamTop    = "$top"
	ParamSearch = "$search"
	ParamFilter = "$filter"
)

// SearchTypeVector is the searchType of a semantic search body.
const SearchTypeVector = "vector"

// Intent is what the user is currently asking for. It is immutable;
// any change produces a new Intent.
type Intent struct {
	text         string
	filters      []filter.Clause
	searchMode   mode.Mode
	autocomplete bool
}

// NewIntent validates and creates an Intent. Empty mode means Lexical.
func NewIntent(text string, filters []filter.Clause, m mode.Mode) (Intent, error) {
	if len(text) > MaxTextLength {
		return Intent{}, fmt.Errorf("search text too long (max %d chars)", MaxTextLength)
	}
	if m == "" {
		m = mode.Lexical
	}
	if !m.IsValid() {
		return Intent{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if len(filters) > filter.MaxClauses {
		return Intent{}, fmt.Errorf("too many filters (max %d)", filter.MaxClauses)
	}
	return Intent{
		text:       text,
		filters:    append([]filter.Clause(nil), filters...),
		searchMode: m,
	}, nil
}

// WithAutocomplete returns a copy flagged as an autocomplete lookup.
// Autocomplete lookups never run without text and never run semantically.
func (i Intent) WithAutocomplete(on bool) Intent {
	i.autocomplete = on
	return i
}

// Text returns the search text.
func (i Intent) Text() string { return i.text }

// Filters returns a copy of the active filter clauses.
func (i Intent) Filters() []filter.Clause { return append([]filter.Clause(nil), i.filters...) }

// Mode returns the search mode.
func (i Intent) Mode() mode.Mode { return i.searchMode }

// Autocomplete reports whether this is an autocomplete lookup.
func (i Intent) Autocomplete() bool { return i.autocomplete }

// Skip reports whether the intent must resolve to an empty page without
// touching the network.
func (i Intent) Skip() bool {
	if i.text == "" && i.searchMode == mode.Semantic {
		return true
	}
	return i.autocomplete && (i.text == "" || i.searchMode == mode.Semantic)
}

// Equal reports whether two intents would produce the same query.
func (i Intent) Equal(o Intent) bool {
	return i.text == o.text &&
		i.searchMode == o.searchMode &&
		i.autocomplete == o.autocomplete &&
		filter.Equal(i.filters, o.filters)
}

// Param is one query string parameter.
type Param struct {
	Name  string
	Value string
}

// SemanticBody is the JSON body of a semantic search request.
type SemanticBody struct {
	Query      string `json:"query"`
	SearchType string `json:"searchType"`
}

// Query is the backend form of an Intent: ordered query parameters plus,
// for semantic search, a request body.
type Query struct {
	params []Param
	body   *SemanticBody
	skip   bool
}

// Build translates search text, filters and mode into a Query.
// pageSize <= 0 means DefaultPageSize.
func Build(search string, filters []filter.Clause, m mode.Mode, pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	q := Query{params: []Param{{Name: ParamTop, Value: strconv.Itoa(pageSize)}}}

	if search != "" && m != mode.Semantic {
		q.params = append(q.params, Param{Name: ParamSearch, Value: search})
	}
	if expr := filter.Expression(filters); expr != "" {
		q.params = append(q.params, Param{Name: ParamFilter, Value: expr})
	}

	switch {
	case search != "" && m == mode.Semantic:
		q.body = &SemanticBody{Query: search, SearchType: SearchTypeVector}
	case search == "" && m == mode.Semantic:
		q.skip = true
	}
	return q
}

// FromIntent builds the Query for an Intent.
func FromIntent(i Intent, pageSize int) Query {
	q := Build(i.text, i.filters, i.searchMode, pageSize)
	if i.Skip() {
		q.skip = true
	}
	return q
}

// Params returns a copy of the ordered parameters.
func (q Query) Params() []Param { return append([]Param(nil), q.params...) }

// Get returns the value of a parameter.
func (q Query) Get(name string) (string, bool) {
	for _, p := range q.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Semantic reports whether the query targets the semantic search endpoint.
func (q Query) Semantic() bool { return q.body != nil }

// Body returns the semantic search body, or nil for a lexical query.
func (q Query) Body() *SemanticBody { return q.body }

// Skip reports whether the query must not be sent.
func (q Query) Skip() bool { return q.skip }

// Encode renders the parameters as a query string in insertion order.
// Parameter names are kept verbatim so "$top" stays readable.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q.params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
