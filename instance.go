package openmetricz

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
)

// OtherMethod is the method label of the per-route fallback counter.
const OtherMethod = "other"

// StandardMethods are registered for a route when AddHTTPRoute gets no methods.
var StandardMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPost,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

type routeKey struct {
	route  string
	method string
}

// InstanceMetrics holds the metrics an embedding HTTP server reports about itself.
type InstanceMetrics struct {
	registry         *Registry
	incomingRequests *Counter[uint64]
	tcpConnections   *Counter[uint64]
	currentSessions  *Gauge[int64]
	workerThreads    *Gauge[int64]
	requestDuration  *Histogram
	httpRequestsName Key
	httpRequests     map[routeKey]*Counter[uint64]
	mu               sync.RWMutex
}

// NewInstanceMetrics registers the server metrics in r, every name prefixed
// with prefix and an underscore when prefix is not empty. The root route "/"
// is registered with StandardMethods.
func NewInstanceMetrics(r *Registry, prefix string) (*InstanceMetrics, error) {
	name := func(n string) Key {
		if prefix == "" {
			return Key(n)
		}
		return Key(prefix + "_" + n)
	}

	im := &InstanceMetrics{
		registry:         r,
		httpRequestsName: name("http_requests"),
		httpRequests:     make(map[routeKey]*Counter[uint64]),
	}

	var err error
	if im.incomingRequests, err = r.AddCounter(name("incoming_requests"), "Number of incoming requests", "", nil); err != nil {
		return nil, err
	}
	if im.tcpConnections, err = r.AddCounter(name("tcp_connections"), "Number of TCP connections", "", nil); err != nil {
		return nil, err
	}
	if im.currentSessions, err = r.AddGauge(name("current_sessions"), "Number of current sessions", "", nil); err != nil {
		return nil, err
	}
	if im.workerThreads, err = r.AddGauge(name("worker_threads"), "Number of worker threads", "", nil); err != nil {
		return nil, err
	}
	if im.requestDuration, err = r.AddHistogram(name("request_duration_seconds"), "Time spent serving requests", "seconds", nil, DefaultDurationBuckets); err != nil {
		return nil, err
	}

	if err := im.AddHTTPRoute("/"); err != nil {
		return nil, err
	}
	return im, nil
}

func (im *InstanceMetrics) IncomingRequests() *Counter[uint64] { return im.incomingRequests }
func (im *InstanceMetrics) TCPConnections() *Counter[uint64]   { return im.tcpConnections }
func (im *InstanceMetrics) CurrentSessions() *Gauge[int64]     { return im.currentSessions }
func (im *InstanceMetrics) WorkerThreads() *Gauge[int64]       { return im.workerThreads }
func (im *InstanceMetrics) RequestDuration() *Histogram        { return im.requestDuration }

// AddHTTPRoute registers per-method request counters for route, plus the
// OtherMethod fallback. No methods means StandardMethods. Registering a
// route again only adds the methods that are missing.
func (im *InstanceMetrics) AddHTTPRoute(route string, methods ...string) error {
	if len(methods) == 0 {
		methods = StandardMethods
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	for _, method := range append(slices.Clone(methods), OtherMethod) {
		key := routeKey{route: route, method: method}
		if _, ok := im.httpRequests[key]; ok {
			continue
		}
		c, err := im.registry.AddCounter(im.httpRequestsName, "Number of HTTP requests per route and method", "",
			Labels{{Key: "route", Value: route}, {Key: "method", Value: method}})
		if errors.Is(err, ErrAlreadyExists) {
			existing, ok := im.registry.LookupKind(im.httpRequestsName,
				Labels{{Key: "route", Value: route}, {Key: "method", Value: method}}, KindCounter)
			if c, ok = existing.(*Counter[uint64]); !ok {
				return fmt.Errorf("route %q method %s: %w", route, method, err)
			}
			err = nil
		}
		if err != nil {
			return fmt.Errorf("route %q method %s: %w", route, method, err)
		}
		im.httpRequests[key] = c
	}
	return nil
}

// HTTPRequests returns the counter for route and method, if registered.
func (im *InstanceMetrics) HTTPRequests(route, method string) (*Counter[uint64], bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	c, ok := im.httpRequests[routeKey{route: route, method: method}]
	return c, ok
}

// IncHTTPRequest counts a request. Methods without their own counter go to the
// route's OtherMethod counter. It reports false when the route is unknown.
func (im *InstanceMetrics) IncHTTPRequest(route, method string) bool {
	im.mu.RLock()
	c, ok := im.httpRequests[routeKey{route: route, method: method}]
	if !ok {
		c, ok = im.httpRequests[routeKey{route: route, method: OtherMethod}]
	}
	im.mu.RUnlock()

	if !ok {
		return false
	}
	c.Inc()
	return true
}

// ConnState counts new TCP connections. Assign it to http.Server.ConnState.
func (im *InstanceMetrics) ConnState(_ net.Conn, state http.ConnState) {
	if state == http.StateNew {
		im.tcpConnections.Inc()
	}
}

// Middleware instruments next as route: incoming requests, current sessions,
// per-method request counts and request duration.
func (im *InstanceMetrics) Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		im.incomingRequests.Inc()
		done := im.currentSessions.Track()
		defer done()
		defer im.requestDuration.Start().Stop()

		im.IncHTTPRequest(route, req.Method)
		next.ServeHTTP(w, req)
	})
}
