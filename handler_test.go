package openmetricz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/openmetricz"
	metricstesting "github.com/zoobzio/openmetricz/testing"
)

func TestHandler_ServesExposition(t *testing.T) {
	registry := pinnedRegistry(t)
	counter, err := registry.AddCounter(HTTPRequestsKey, "Number of http-requests", "", nil)
	require.NoError(t, err)
	counter.Add(4)

	rec := httptest.NewRecorder()
	registry.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, openmetricz.DefaultPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, openmetricz.OpenMetricsContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, metricstesting.Snapshot(t, registry), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "http_requests_total 4\n")
}

func TestHandler_RejectsOtherMethods(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	handler := registry.Handler()

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(method, openmetricz.DefaultPath, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
			assert.NotContains(t, rec.Body.String(), "# EOF")
		})
	}
}

func TestRegistry_ContentType(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	assert.Equal(t, "application/openmetrics-text; version=1.0.0; charset=utf-8", registry.ContentType())
}
