package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/apis/{api}/versions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, api := range []string{"petstore", "payments"} {
		req := httptest.NewRequest("GET", "/apis/"+api+"/versions", http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/apis/{api}/versions", "200"))
	if val < 2 {
		t.Errorf("expected both requests under one route label, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/browse", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/browse/more", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	tests := []struct {
		method, path, status string
	}{
		{"GET", "/browse", "200"},
		{"POST", "/browse/more", "409"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total for %s %s >= 1, got %f", tc.path, tc.status, val)
			}
		})
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("GET", "/no/such/path", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if val < 1 {
		t.Errorf("expected unmatched 404 to be counted, got %f", val)
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in-flight gauge = %f after request, want 0", got)
	}
}

func TestRegisterCatalogMetrics_Idempotent(t *testing.T) {
	RegisterCatalogMetrics()
	RegisterCatalogMetrics()

	CatalogRequestsTotal.WithLabelValues("GET", "200").Inc()
	if testutil.ToFloat64(CatalogRequestsTotal.WithLabelValues("GET", "200")) < 1 {
		t.Error("expected catalog counter to increment")
	}
}
