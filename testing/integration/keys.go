package integration

import "github.com/zoobzio/openmetricz"

// Shared metric keys for all integration tests - consistent Key type usage.
const (
	// Common service metrics.
	RequestsKey openmetricz.Key = "requests"
	ErrorsKey   openmetricz.Key = "errors"
	LatencyKey  openmetricz.Key = "latency_seconds"
	SizesKey    openmetricz.Key = "response_size_bytes"
	BuildKey    openmetricz.Key = "build"
	StatusKey   openmetricz.Key = "service_status"
	InflightKey openmetricz.Key = "inflight"

	// Shared test keys.
	SharedCounterKey openmetricz.Key = "shared_counter"
	SharedGaugeKey   openmetricz.Key = "shared_gauge"
	SharedHistKey    openmetricz.Key = "shared_hist"
	SharedSummaryKey openmetricz.Key = "shared_summary"
)

// ServiceStates are the lifecycle states reported through StatusKey.
var ServiceStates = []string{"starting", "running", "draining", "stopped"}
