package openmetricz

import (
	"bytes"
	"net/http"
)

// OpenMetricsContentType is the only exposition format the registry produces.
const OpenMetricsContentType = "application/openmetrics-text; version=1.0.0; charset=utf-8"

// DefaultPath is where transports conventionally mount Handler.
const DefaultPath = "/metrics"

// ContentType returns the content type of WriteTo's output.
func (*Registry) ContentType() string {
	return OpenMetricsContentType
}

// Handler returns an http.Handler serving the registry to GET requests.
// Other methods get 405 Method Not Allowed.
func (r *Registry) Handler() http.Handler {
	return &metricsHandler{registry: r}
}

type metricsHandler struct {
	registry *Registry
}

func (h *metricsHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method Not Allowed - only GET is allowed here", http.StatusMethodNotAllowed)
		return
	}

	// Render fully before writing so a failed render never sends a partial body.
	var body bytes.Buffer
	if _, err := h.registry.WriteTo(&body); err != nil {
		h.registry.log().Error("metrics render failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.registry.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := body.WriteTo(w); err != nil {
		h.registry.log().Debug("metrics response write failed", "error", err, "remote", req.RemoteAddr)
	}
}
