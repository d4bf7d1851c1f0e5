// Package openapi extracts callable operations from a specification document.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for documents that are not OpenAPI 3.x.
var ErrUnsupportedFormat = errors.New("unsupported specification format")

// ParamLocation is where a parameter travels.
type ParamLocation string

// Parameter locations.
const (
	ParamInPath   ParamLocation = "path"
	ParamInQuery  ParamLocation = "query"
	ParamInHeader ParamLocation = "header"
)

// Param is one operation parameter.
type Param struct {
	Name        string        `json:"name"`
	In          ParamLocation `json:"in"`
	Required    bool          `json:"required,omitempty"`
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Operation is one method on one path.
type Operation struct {
	Method      string  `json:"method"`
	URLTemplate string  `json:"urlTemplate"`
	OperationID string  `json:"operationId,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Params      []Param `json:"params,omitempty"`
}

// Document is the part of a specification the browser needs.
type Document struct {
	Title      string      `json:"title"`
	Version    string      `json:"version"`
	Servers    []string    `json:"servers,omitempty"`
	Operations []Operation `json:"operations"`
}

// Parse loads a JSON or YAML OpenAPI 3 document. External references are
// not followed and the document is not validated.
func Parse(ctx context.Context, data []byte) (*Document, error) {
	var head struct {
		OpenAPI string `yaml:"openapi"`
		Swagger string `yaml:"swagger"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode specification: %w", err)
	}
	if head.Swagger != "" || !strings.HasPrefix(head.OpenAPI, "3.") {
		return nil, ErrUnsupportedFormat
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load specification: %w", err)
	}

	out := &Document{Operations: ExtractOperations(doc)}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.Version = doc.Info.Version
	}
	for _, s := range doc.Servers {
		if s != nil && s.URL != "" {
			out.Servers = append(out.Servers, s.URL)
		}
	}
	return out, nil
}

// ExtractOperations lists every operation ordered by path, then method.
func ExtractOperations(doc *openapi3.T) []Operation {
	out := []Operation{}
	if doc == nil || doc.Paths == nil {
		return out
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			params := append(openapi3.Parameters{}, item.Parameters...)
			params = append(params, op.Parameters...)
			out = append(out, Operation{
				Method:      strings.ToUpper(method),
				URLTemplate: path,
				OperationID: strings.TrimSpace(op.OperationID),
				Summary:     strings.TrimSpace(op.Summary),
				Params:      extractParams(params),
			})
		}
	}

	slices.SortFunc(out, func(a, b Operation) int {
		if c := strings.Compare(a.URLTemplate, b.URLTemplate); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
	return out
}

// Find returns the operation with the given id.
func (d *Document) Find(operationID string) (Operation, bool) {
	for _, op := range d.Operations {
		if op.OperationID == operationID {
			return op, true
		}
	}
	return Operation{}, false
}

func extractParams(params openapi3.Parameters) []Param {
	var out []Param
	for _, p := range params {
		if p == nil || p.Value == nil {
			continue
		}
		var in ParamLocation
		switch p.Value.In {
		case openapi3.ParameterInPath:
			in = ParamInPath
		case openapi3.ParameterInQuery:
			in = ParamInQuery
		case openapi3.ParameterInHeader:
			in = ParamInHeader
		default:
			continue
		}
		out = append(out, Param{
			Name:        p.Value.Name,
			In:          in,
			Required:    p.Value.Required,
			Type:        schemaType(p.Value.Schema),
			Description: strings.TrimSpace(p.Value.Description),
		})
	}
	return out
}

func schemaType(ref *openapi3.SchemaRef) string {
	if ref == nil || ref.Value == nil || ref.Value.Type == nil {
		return ""
	}
	for _, t := range []string{"string", "integer", "number", "boolean", "array", "object"} {
		if ref.Value.Type.Is(t) {
			return t
		}
	}
	return ""
}
