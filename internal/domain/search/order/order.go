package order

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is the sort direction.
type Direction string

// Direction constants.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Field is a sortable attribute.
type Field string

// Sortable fields.
const (
	FieldTitle          Field = "title"
	FieldName           Field = "name"
	FieldKind           Field = "kind"
	FieldLifecycleStage Field = "lifecycleStage"
)

var fields = []Field{FieldTitle, FieldName, FieldKind, FieldLifecycleStage}

// lookupField matches name against the known fields ignoring case.
func lookupField(name string) (Field, bool) {
	for _, f := range fields {
		if strings.EqualFold(string(f), name) {
			return f, true
		}
	}
	return "", false
}

// Spec selects a field and direction. The zero Spec means "no sort".
type Spec struct {
	Field     Field     `json:"field"`
	Direction Direction `json:"direction"`
}

// IsZero reports whether no sort is requested.
func (s Spec) IsZero() bool { return s.Field == "" }

// String renders the spec as field:direction.
func (s Spec) String() string {
	if s.IsZero() {
		return ""
	}
	return string(s.Field) + ":" + string(s.Direction)
}

// Validate checks the field and direction.
func (s Spec) Validate() error {
	if s.IsZero() {
		return nil
	}
	if f, ok := lookupField(string(s.Field)); !ok || f != s.Field {
		return fmt.Errorf("unsupported sort field %q", s.Field)
	}
	if s.Direction != Asc && s.Direction != Desc {
		return fmt.Errorf("invalid sort direction %q", s.Direction)
	}
	return nil
}

// Parse reads "field" or "field:asc|desc". Empty input is the zero Spec.
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, nil
	}
	field, dir, _ := strings.Cut(s, ":")
	f, ok := lookupField(field)
	if !ok {
		return Spec{}, fmt.Errorf("unsupported sort field %q", field)
	}
	spec := Spec{Field: f, Direction: Asc}
	if dir != "" {
		spec.Direction = Direction(strings.ToLower(dir))
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Apply returns items ordered by spec, leaving the input untouched.
// With a zero spec the input is returned as is. key extracts the sort field
// from an item. Comparison is byte-wise; Desc negates the Asc result so
// equal keys keep fetch order in both directions.
func Apply[T any](items []T, spec Spec, key func(T, Field) string) []T {
	if spec.IsZero() {
		return items
	}
	out := slices.Clone(items)
	sign := 1
	if spec.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return sign * strings.Compare(key(a, spec.Field), key(b, spec.Field))
	})
	return out
}
