package filter

import (
	"strings"
	"testing"
)

func mustClause(t *testing.T, facetType, value string) Clause {
	t.Helper()
	c, err := NewClause(facetType, value)
	if err != nil {
		t.Fatalf("NewClause(%q, %q): %v", facetType, value, err)
	}
	return c
}

func TestNewClause_Validation(t *testing.T) {
	if _, err := NewClause("", "rest"); err == nil {
		t.Error("expected error for empty facet type")
	}
	if _, err := NewClause("kind", ""); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := NewClause("kind eq", "rest"); err == nil {
		t.Error("expected error for facet type with spaces")
	}
	c, err := NewClause(" kind ", "rest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.FacetType() != "kind" || c.Value() != "rest" {
		t.Errorf("got %q=%q", c.FacetType(), c.Value())
	}
}

func TestParseClause(t *testing.T) {
	c, err := ParseClause("lifecycleStage:production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.FacetType() != "lifecycleStage" || c.Value() != "production" {
		t.Errorf("got %q=%q", c.FacetType(), c.Value())
	}

	c, err = ParseClause("customProperties/url:https://x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Value() != "https://x" {
		t.Errorf("value = %q, want %q", c.Value(), "https://x")
	}

	if _, err := ParseClause("nocolon"); err == nil {
		t.Error("expected error for missing colon")
	}
}

func TestParseClauses_TooMany(t *testing.T) {
	raw := make([]string, MaxClauses+1)
	for i := range raw {
		raw[i] = "kind:rest"
	}
	if _, err := ParseClauses(raw); err == nil {
		t.Error("expected error for too many filters")
	}
}

func TestExpression_Empty(t *testing.T) {
	if got := Expression(nil); got != "" {
		t.Errorf("Expression(nil) = %q, want empty", got)
	}
}

func TestExpression_SameFacetIsOred(t *testing.T) {
	got := Expression([]Clause{
		mustClause(t, "type", "v1"),
		mustClause(t, "type", "v2"),
	})
	want := "(type eq 'v1' or type eq 'v2')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Contains(got, " and ") {
		t.Error("single group must not contain and")
	}
}

func TestExpression_FirstSeenGroupOrder(t *testing.T) {
	got := Expression([]Clause{
		mustClause(t, "lifecycleStage", "design"),
		mustClause(t, "kind", "rest"),
		mustClause(t, "lifecycleStage", "production"),
		mustClause(t, "kind", "graphql"),
	})
	want := "(lifecycleStage eq 'design' or lifecycleStage eq 'production') and (kind eq 'rest' or kind eq 'graphql')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpression_DifferentFacets(t *testing.T) {
	got := Expression([]Clause{
		mustClause(t, "kind", "rest"),
		mustClause(t, "lifecycleStage", "production"),
	})
	want := "(kind eq 'rest') and (lifecycleStage eq 'production')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpression_EscapesQuotes(t *testing.T) {
	got := Expression([]Clause{mustClause(t, "title", "O'Reilly")})
	want := "(title eq 'O''Reilly')"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGroupByFacet(t *testing.T) {
	groups := GroupByFacet([]Clause{
		mustClause(t, "b", "1"),
		mustClause(t, "a", "2"),
		mustClause(t, "b", "3"),
	})
	if len(groups) != 2 {
		t.Fatalf("len = %d, want 2", len(groups))
	}
	if groups[0].FacetType != "b" || groups[1].FacetType != "a" {
		t.Errorf("order = %q, %q", groups[0].FacetType, groups[1].FacetType)
	}
	if len(groups[0].Clauses) != 2 || groups[0].Clauses[1].Value() != "3" {
		t.Errorf("group b clauses = %v", groups[0].Clauses)
	}
}

func TestEqual(t *testing.T) {
	a := []Clause{mustClause(t, "kind", "rest"), mustClause(t, "kind", "soap")}
	b := []Clause{mustClause(t, "kind", "rest"), mustClause(t, "kind", "soap")}
	c := []Clause{mustClause(t, "kind", "soap"), mustClause(t, "kind", "rest")}
	if !Equal(a, b) {
		t.Error("identical lists should be equal")
	}
	if Equal(a, c) {
		t.Error("order matters")
	}
	if Equal(a, a[:1]) {
		t.Error("different lengths should differ")
	}
}
