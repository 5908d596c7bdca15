package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/customers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	expectedTotal := `
		# HELP swiftremind_http_requests_total Total number of HTTP requests.
		# TYPE swiftremind_http_requests_total counter
		swiftremind_http_requests_total{method="GET",path="/customers",status_code="200"} 1
	`
	assert.NoError(t, testutil.CollectAndCompare(httpRequestsTotal, strings.NewReader(expectedTotal)),
		"unexpected metrics for http_requests_total")
}
