package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(StructuredLogger(logger))
	r.Get("/customers", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`[]`))
	})

	req := httptest.NewRequest(http.MethodGet, "/customers", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Served request"`)
	assert.Contains(t, out, `"component":"http"`)
	assert.Contains(t, out, `"method":"GET"`)
	assert.Contains(t, out, `"path":"/customers"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"request_id"`)
}
