package domain

import (
	"net/url"
	"strings"
)

// ApiMetadata is a catalog entry as listed by the data API.
//
//nolint:revive // mirrors the data API resource name
type ApiMetadata struct {
	Name                  string                  `json:"name"`
	Title                 string                  `json:"title"`
	Kind                  string                  `json:"kind,omitempty"`
	Description           string                  `json:"description,omitempty"`
	Summary               string                  `json:"summary,omitempty"`
	LifecycleStage        string                  `json:"lifecycleStage,omitempty"`
	TermsOfService        *TermsOfService         `json:"termsOfService,omitempty"`
	License               *License                `json:"license,omitempty"`
	ExternalDocumentation []ExternalDocumentation `json:"externalDocumentation,omitempty"`
	Contacts              []Contact               `json:"contacts,omitempty"`
	CustomProperties      map[string]any          `json:"customProperties,omitempty"`
	LastUpdated           string                  `json:"lastUpdated,omitempty"`
}

// TermsOfService links to the API's terms.
type TermsOfService struct {
	URL string `json:"url"`
}

// License describes the API license.
type License struct {
	Name       string `json:"name,omitempty"`
	URL        string `json:"url,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// ExternalDocumentation links to documentation hosted elsewhere.
type ExternalDocumentation struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
}

// Contact is an API owner contact.
type Contact struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Email string `json:"email,omitempty"`
}

// ApiVersion is a published version of an API.
//
//nolint:revive // mirrors the data API resource name
type ApiVersion struct {
	Name           string `json:"name"`
	Title          string `json:"title"`
	LifecycleStage string `json:"lifecycleStage,omitempty"`
}

// DeploymentServer holds the runtime endpoints of a deployment.
type DeploymentServer struct {
	RuntimeURI []string `json:"runtimeUri"`
}

// ApiDeployment is a reachable instance of an API version.
//
//nolint:revive // mirrors the data API resource name
type ApiDeployment struct {
	Name             string           `json:"name"`
	Title            string           `json:"title"`
	Description      string           `json:"description,omitempty"`
	EnvironmentID    string           `json:"environmentId,omitempty"`
	DefinitionID     string           `json:"definitionId,omitempty"`
	Server           DeploymentServer `json:"server"`
	IsDefault        bool             `json:"isDefault,omitempty"`
	CustomProperties map[string]any   `json:"customProperties,omitempty"`
	RecommendedTitle string           `json:"recommendedTitle,omitempty"`
}

// Host returns the first runtime URI, or "" when the deployment has none.
func (d *ApiDeployment) Host() string {
	if d == nil || len(d.Server.RuntimeURI) == 0 {
		return ""
	}
	return d.Server.RuntimeURI[0]
}

// SpecificationInfo names the format of a definition document.
type SpecificationInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// ApiDefinition describes one specification document attached to a version.
//
//nolint:revive // mirrors the data API resource name
type ApiDefinition struct {
	Name          string            `json:"name"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Specification SpecificationInfo `json:"specification"`
}

// DefinitionID identifies a definition within an API version.
type DefinitionID struct {
	APIName        string `json:"apiName"`
	VersionName    string `json:"versionName"`
	DefinitionName string `json:"definitionName"`
}

// Key is the stable cache key of the identifier. Segments are path-escaped
// so a name containing "/" cannot collide with another identifier.
func (id DefinitionID) Key() string {
	return strings.Join([]string{
		url.PathEscape(id.APIName),
		url.PathEscape(id.VersionName),
		url.PathEscape(id.DefinitionName),
	}, "/")
}

// Validate reports a missing identifier segment.
func (id DefinitionID) Validate() error {
	switch {
	case id.APIName == "":
		return ErrInvalidDefinitionID
	case id.VersionName == "":
		return ErrInvalidDefinitionID
	case id.DefinitionName == "":
		return ErrInvalidDefinitionID
	}
	return nil
}

// EnvironmentServer describes the gateway or platform behind an environment.
type EnvironmentServer struct {
	Type                string   `json:"type,omitempty"`
	ManagementPortalURI []string `json:"managementPortalUri,omitempty"`
}

// Onboarding holds developer onboarding hints for an environment.
type Onboarding struct {
	Instructions       string   `json:"instructions,omitempty"`
	DeveloperPortalURI []string `json:"developerPortalUri,omitempty"`
}

// ApiEnvironment is a runtime environment hosting deployments.
//
//nolint:revive // mirrors the data API resource name
type ApiEnvironment struct {
	Name        string            `json:"name"`
	Title       string            `json:"title"`
	Kind        string            `json:"kind,omitempty"`
	Description string            `json:"description,omitempty"`
	Server      EnvironmentServer `json:"server"`
	Onboarding  Onboarding        `json:"onboarding"`
}

// AuthSchemeMetadata lists a security requirement of an API version.
type AuthSchemeMetadata struct {
	Name           string `json:"name"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	SecurityScheme string `json:"securityScheme"`
}

// ApiKeyCredentials carries an API key and where it goes.
//
//nolint:revive // mirrors the data API resource name
type ApiKeyCredentials struct {
	Name  string `json:"name"`
	In    string `json:"in"`
	Value string `json:"value"`
}

// OAuth2Credentials carries the settings to run an OAuth2 flow.
type OAuth2Credentials struct {
	ClientID string   `json:"clientId"`
	AuthURL  string   `json:"authorizationUrl,omitempty"`
	TokenURL string   `json:"tokenUrl,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
}

// AuthScheme is the resolved credential set of a security requirement.
type AuthScheme struct {
	Name           string             `json:"name"`
	Title          string             `json:"title,omitempty"`
	SecurityScheme string             `json:"securityScheme"`
	APIKey         *ApiKeyCredentials `json:"apiKey,omitempty"`
	OAuth2         *OAuth2Credentials `json:"oauth2,omitempty"`
}

// MetadataAssignment says which entity kind a metadata schema applies to.
type MetadataAssignment struct {
	Entity     string `json:"entity"`
	Required   bool   `json:"required,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// MetadataSchema is a custom property schema; its facets drive the filter UI.
type MetadataSchema struct {
	Name       string               `json:"name"`
	Schema     string               `json:"schema"`
	AssignedTo []MetadataAssignment `json:"assignedTo,omitempty"`
}
