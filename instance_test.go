package openmetricz_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/openmetricz"
	metricstesting "github.com/zoobzio/openmetricz/testing"
)

func TestInstanceMetrics_Registration(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)

	im, err := openmetricz.NewInstanceMetrics(registry, "app")
	require.NoError(t, err)

	for _, name := range []openmetricz.Key{"app_incoming_requests", "app_tcp_connections"} {
		_, ok := registry.LookupKind(name, nil, openmetricz.KindCounter)
		assert.True(t, ok, "counter %s should be registered", name)
	}
	for _, name := range []openmetricz.Key{"app_current_sessions", "app_worker_threads"} {
		_, ok := registry.LookupKind(name, nil, openmetricz.KindGauge)
		assert.True(t, ok, "gauge %s should be registered", name)
	}
	assert.Equal(t, "seconds", im.RequestDuration().Unit())

	// The root route carries every standard method plus the fallback
	for _, method := range append(slices.Clone(openmetricz.StandardMethods), openmetricz.OtherMethod) {
		_, ok := im.HTTPRequests("/", method)
		assert.True(t, ok, "route / method %s should be registered", method)
	}
}

func TestInstanceMetrics_Unprefixed(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)

	_, err := openmetricz.NewInstanceMetrics(registry, "")
	require.NoError(t, err)

	_, ok := registry.LookupKind("incoming_requests", nil, openmetricz.KindCounter)
	assert.True(t, ok)
}

func TestInstanceMetrics_HTTPRoutes(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	im, err := openmetricz.NewInstanceMetrics(registry, "app")
	require.NoError(t, err)

	require.NoError(t, im.AddHTTPRoute("/users", http.MethodGet, http.MethodPost))
	// Registering again only fills in what is missing
	require.NoError(t, im.AddHTTPRoute("/users", http.MethodGet, http.MethodDelete))

	assert.True(t, im.IncHTTPRequest("/users", http.MethodGet))
	assert.True(t, im.IncHTTPRequest("/users", http.MethodDelete))
	assert.True(t, im.IncHTTPRequest("/users", http.MethodPatch), "unlisted method should fall back")
	assert.False(t, im.IncHTTPRequest("/missing", http.MethodGet))

	get, _ := im.HTTPRequests("/users", http.MethodGet)
	other, _ := im.HTTPRequests("/users", openmetricz.OtherMethod)
	assert.Equal(t, uint64(1), get.Value())
	assert.Equal(t, uint64(1), other.Value())

	_, ok := im.HTTPRequests("/users", http.MethodPatch)
	assert.False(t, ok)
}

func TestInstanceMetrics_SharedRegistry(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	first, err := openmetricz.NewInstanceMetrics(registry, "app")
	require.NoError(t, err)

	// A second set with the same prefix collides on the scalar metrics
	_, err = openmetricz.NewInstanceMetrics(registry, "app")
	assert.ErrorIs(t, err, openmetricz.ErrAlreadyExists)

	// Route counters registered elsewhere are reused
	require.NoError(t, first.AddHTTPRoute("/"))
}

func TestInstanceMetrics_Middleware(t *testing.T) {
	clock := metricstesting.PinnedClock(pinned)
	registry := metricstesting.NewTestRegistryWithClock(t, clock)
	im, err := openmetricz.NewInstanceMetrics(registry, "app")
	require.NoError(t, err)

	var sessionsDuringRequest int64
	handler := im.Middleware("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sessionsDuringRequest = im.CurrentSessions().Value()
		clock.Advance(200 * time.Millisecond)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(1), sessionsDuringRequest)
	assert.Equal(t, int64(0), im.CurrentSessions().Value())
	assert.Equal(t, uint64(1), im.IncomingRequests().Value())

	post, _ := im.HTTPRequests("/", http.MethodPost)
	assert.Equal(t, uint64(1), post.Value())

	assert.Equal(t, uint64(1), im.RequestDuration().Count())
	assert.InDelta(t, 0.2, im.RequestDuration().Sum(), 1e-9)
}

func TestInstanceMetrics_ConnState(t *testing.T) {
	registry := metricstesting.NewTestRegistry(t)
	im, err := openmetricz.NewInstanceMetrics(registry, "app")
	require.NoError(t, err)

	im.ConnState(nil, http.StateNew)
	im.ConnState(nil, http.StateActive)
	im.ConnState(nil, http.StateNew)
	im.ConnState(nil, http.StateClosed)

	assert.Equal(t, uint64(2), im.TCPConnections().Value())
}
