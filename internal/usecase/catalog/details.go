package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/openapi"
	"github.com/kailas-cloud/apicat/internal/urltemplate"
)

// Details is an API with its versions and deployments.
type Details struct {
	Api         domain.ApiMetadata     `json:"api"` //nolint:revive // mirrors the resource name
	Versions    []domain.ApiVersion    `json:"versions"`
	Deployments []domain.ApiDeployment `json:"deployments"`
}

// Details fetches an API, its versions and its deployments in parallel.
// The first failure cancels the rest.
func (s *Service) Details(ctx context.Context, apiName string) (Details, error) {
	var d Details
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Api, err = s.Api(gctx, apiName)
		return err
	})
	g.Go(func() error {
		var err error
		d.Versions, err = s.Versions(gctx, apiName)
		return err
	})
	g.Go(func() error {
		var err error
		d.Deployments, err = s.Deployments(gctx, apiName)
		return err
	})
	if err := g.Wait(); err != nil {
		return Details{}, fmt.Errorf("api details %s: %w", apiName, err)
	}
	return d, nil
}

// ResolvedOperation is an operation with its callable URL on a deployment.
type ResolvedOperation struct {
	openapi.Operation
	URL     string   `json:"url"`
	Missing []string `json:"missing,omitempty"`
}

// Operations parses the definition's document and resolves every operation
// URL against deployment (may be nil) using values for path parameters.
func (s *Service) Operations(
	ctx context.Context,
	id domain.DefinitionID,
	deployment *domain.ApiDeployment,
	values map[string]string,
) ([]ResolvedOperation, error) {
	text, err := s.Specification(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := openapi.Parse(ctx, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse specification %s: %w", id.Key(), err)
	}

	out := make([]ResolvedOperation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		r := urltemplate.Resolve(op.URLTemplate, deployment, id.VersionName, values)
		out = append(out, ResolvedOperation{Operation: op, URL: r.URL, Missing: r.Missing})
	}
	return out, nil
}

// FindDeployment picks the named deployment, or the default one when name
// is empty, falling back to the first. It returns nil when none match.
func FindDeployment(deployments []domain.ApiDeployment, name string) *domain.ApiDeployment {
	for i := range deployments {
		if name != "" && deployments[i].Name == name {
			return &deployments[i]
		}
	}
	if name != "" {
		return nil
	}
	for i := range deployments {
		if deployments[i].IsDefault {
			return &deployments[i]
		}
	}
	if len(deployments) > 0 {
		return &deployments[0]
	}
	return nil
}
