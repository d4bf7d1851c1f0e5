package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/search/filter"
	"github.com/kailas-cloud/apicat/internal/domain/search/mode"
	"github.com/kailas-cloud/apicat/internal/domain/search/order"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/apicat/internal/usecase/health"
)

// Server exposes the browsing controller and operation URL resolution to
// local UI collaborators.
type Server struct {
	browser Browser
	catalog Catalog
	health  HealthChecker
}

// NewServer creates an HTTP API server. Handlers log through the
// request-scoped logger installed by NewRouter.
func NewServer(browser Browser, catalog Catalog, health HealthChecker) *Server {
	return &Server{
		browser: browser,
		catalog: catalog,
		health:  health,
	}
}

// Routes mounts every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/browse", s.GetBrowse)
	r.Put("/browse/intent", s.PutBrowseIntent)
	r.Post("/browse/more", s.LoadMore)

	r.Get("/session", s.GetSession)
	r.Put("/session/sort", s.PutSessionSort)
	r.Put("/session/layout", s.PutSessionLayout)
	r.Put("/session/auth", s.PutSessionAuth)

	r.Get("/apis/{api}", s.GetAPIDetails)
	r.Route("/apis/{api}/versions/{version}/definitions/{definition}", func(r chi.Router) {
		r.Get("/specification", s.GetSpecification)
		r.Get("/operations", s.ListOperations)
	})
}

// IntentRequest is the body of PUT /browse/intent.
type IntentRequest struct {
	Text         string   `json:"text"`
	Filters      []string `json:"filters"`
	Mode         string   `json:"mode"`
	Autocomplete bool     `json:"autocomplete"`
}

// LoadMoreResponse is the body returned by POST /browse/more.
type LoadMoreResponse struct {
	Loaded bool        `json:"loaded"`
	View   browse.View `json:"view"`
}

// GetBrowse handles GET /browse.
func (s *Server) GetBrowse(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.browser.View())
}

// PutBrowseIntent handles PUT /browse/intent.
func (s *Server) PutBrowseIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	intent, err := intentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	if err := s.browser.SetIntent(r.Context(), intent); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.browser.View())
}

// LoadMore handles POST /browse/more.
func (s *Server) LoadMore(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.browser.LoadMore(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoadMoreResponse{Loaded: loaded, View: s.browser.View()})
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.browser.Session().Snapshot())
}

// PutSessionSort handles PUT /session/sort. An empty sort clears ordering.
func (s *Server) PutSessionSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sort string `json:"sort"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	spec, err := order.Parse(req.Sort)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	if err := s.browser.Session().SetSort(spec); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.browser.View())
}

// PutSessionLayout handles PUT /session/layout.
func (s *Server) PutSessionLayout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Layout browse.Layout `json:"layout"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.browser.Session().SetLayout(req.Layout); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.browser.Session().Snapshot())
}

// PutSessionAuth handles PUT /session/auth. Authenticating resumes an idle
// listing in the background.
func (s *Server) PutSessionAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Authenticated *bool `json:"authenticated"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Authenticated == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "authenticated is required")
		return
	}
	s.browser.Session().SetAuthenticated(*req.Authenticated)
	writeJSON(w, http.StatusOK, s.browser.Session().Snapshot())
}

// GetAPIDetails handles GET /apis/{api}.
func (s *Server) GetAPIDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.catalog.Details(r.Context(), chi.URLParam(r, "api"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// GetSpecification handles GET .../definitions/{definition}/specification.
// refresh=true drops the memoized document and downloads it again.
func (s *Server) GetSpecification(w http.ResponseWriter, r *http.Request) {
	var refresh bool
	if err := runtime.BindQueryParameter("form", true, false, "refresh", r.URL.Query(), &refresh); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid refresh: "+err.Error())
		return
	}
	fetch := s.catalog.Specification
	if refresh {
		fetch = s.catalog.RefreshSpecification
	}
	text, err := fetch(r.Context(), definitionID(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// ListOperations handles GET .../definitions/{definition}/operations.
//
// Query: deployment=<name> picks the runtime host (default deployment when
// absent), param=<name>=<value> may repeat to fill path parameters.
func (s *Server) ListOperations(w http.ResponseWriter, r *http.Request) {
	var (
		deploymentName string
		rawParams      []string
	)
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "deployment", q, &deploymentName); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid deployment: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "param", q, &rawParams); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid param: "+err.Error())
		return
	}
	values, err := ParseParamValues(rawParams)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	id := definitionID(r)
	deployments, err := s.catalog.Deployments(r.Context(), id.APIName)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	deployment := catalog.FindDeployment(deployments, deploymentName)
	if deployment == nil && deploymentName != "" {
		s.handleDomainError(w, r, fmt.Errorf("deployment %s: %w", deploymentName, domain.ErrNotFound))
		return
	}

	ops, err := s.catalog.Operations(r.Context(), id, deployment, values)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": ops})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParseParamValues splits name=value pairs. The value may contain "=".
func ParseParamValues(raw []string) (map[string]string, error) {
	values := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("param %q: want name=value", kv)
		}
		values[name] = value
	}
	return values, nil
}

func intentFromRequest(req IntentRequest) (request.Intent, error) {
	m, ok := mode.Parse(req.Mode)
	if !ok {
		return request.Intent{}, fmt.Errorf("unknown search mode %q", req.Mode)
	}
	filters, err := filter.ParseClauses(req.Filters)
	if err != nil {
		return request.Intent{}, err
	}
	intent, err := request.NewIntent(req.Text, filters, m)
	if err != nil {
		return request.Intent{}, err
	}
	return intent.WithAutocomplete(req.Autocomplete), nil
}

func definitionID(r *http.Request) domain.DefinitionID {
	return domain.DefinitionID{
		APIName:        chi.URLParam(r, "api"),
		VersionName:    chi.URLParam(r, "version"),
		DefinitionName: chi.URLParam(r, "definition"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
