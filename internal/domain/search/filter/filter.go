package filter

import (
	"fmt"
	"strings"
)

// MaxClauses caps the number of active facet clauses in one query.
const MaxClauses = 64

// Clause narrows a listing to entries whose facet equals value.
// Several clauses may share a facet type; they are OR-ed together.
type Clause struct {
	facetType string
	value     string
}

// NewClause validates and creates a Clause.
func NewClause(facetType, value string) (Clause, error) {
	facetType = strings.TrimSpace(facetType)
	if facetType == "" {
		return Clause{}, fmt.Errorf("filter facet type is required")
	}
	if strings.ContainsAny(facetType, " ()'") {
		return Clause{}, fmt.Errorf("invalid filter facet type %q", facetType)
	}
	if value == "" {
		return Clause{}, fmt.Errorf("value is required for facet %q", facetType)
	}
	return Clause{facetType: facetType, value: value}, nil
}

// ParseClause reads a "type:value" pair. Only the first colon separates.
func ParseClause(s string) (Clause, error) {
	facetType, value, ok := strings.Cut(s, ":")
	if !ok {
		return Clause{}, fmt.Errorf("filter %q: expected type:value", s)
	}
	return NewClause(facetType, value)
}

// ParseClauses parses each raw pair in order.
func ParseClauses(raw []string) ([]Clause, error) {
	if len(raw) > MaxClauses {
		return nil, fmt.Errorf("too many filters (max %d)", MaxClauses)
	}
	out := make([]Clause, 0, len(raw))
	for _, s := range raw {
		c, err := ParseClause(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// FacetType returns the facet name.
func (c Clause) FacetType() string { return c.facetType }

// Value returns the accepted value.
func (c Clause) Value() string { return c.value }

// String renders the clause as an equality predicate.
func (c Clause) String() string {
	return c.facetType + " eq " + quote(c.value)
}

// quote wraps v in single quotes, doubling embedded quotes.
func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// Group is the set of clauses sharing one facet type.
type Group struct {
	FacetType string
	Clauses   []Clause
}

// GroupByFacet groups clauses by facet type. Groups appear in the order their
// facet type was first seen and clauses keep their input order.
func GroupByFacet(clauses []Clause) []Group {
	var groups []Group
	index := make(map[string]int, len(clauses))
	for _, c := range clauses {
		i, ok := index[c.facetType]
		if !ok {
			i = len(groups)
			index[c.facetType] = i
			groups = append(groups, Group{FacetType: c.facetType})
		}
		groups[i].Clauses = append(groups[i].Clauses, c)
	}
	return groups
}

// Expression builds the $filter value: OR within a facet, AND across facets,
// each group parenthesized. Returns "" when there are no clauses.
func Expression(clauses []Clause) string {
	if len(clauses) == 0 {
		return ""
	}
	groups := GroupByFacet(clauses)
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		preds := make([]string, 0, len(g.Clauses))
		for _, c := range g.Clauses {
			preds = append(preds, c.String())
		}
		parts = append(parts, "("+strings.Join(preds, " or ")+")")
	}
	return strings.Join(parts, " and ")
}

// Equal reports whether two clause lists are identical, order included.
func Equal(a, b []Clause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
