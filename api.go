// Package openmetricz provides an embeddable metrics registry that renders
// OpenMetrics 1.0.0 text expositions.
//
// # Key-Enforced API
//
// Family names are declared as Key constants, the same way every metric name in
// an application should be declared once:
//
//	const (
//	    HTTPRequests = openmetricz.Key("http_requests")
//	    BuildInfo    = openmetricz.Key("build")
//	)
//
// # Metric Types
//
// Counter: monotonically increasing values, rendered as name_total
//
//	requests, err := registry.AddCounter(HTTPRequests, "Number of http-requests", "",
//	    openmetricz.FromMap(map[string]string{"method": "GET", "endpoint": "/"}))
//	requests.Inc()
//	requests.Add(2)
//
// Gauge: values that go up and down
//
//	sessions, err := registry.AddGauge(Sessions, "Open sessions", "", nil)
//	defer sessions.Track()()
//
// Info: fixed information carried in labels, always rendered first
//
// Histogram: cumulative buckets with an implicit +Inf bucket
//
// Summary: quantiles estimated over a bounded window of recent samples
//
// Stateset: a fixed set of named boolean states
//
// Untyped: a value with no declared semantics
//
// # Identity
//
// Every series is identified by its family name, its label set sorted by key,
// and whether it is an Info. Registering the same identity twice fails with
// ErrAlreadyExists; Clone creates a sibling series with different labels.
//
// # Thread-Safety Guarantees
//
// - Counter, Gauge and Untyped updates are lock-free atomic operations
// - Histogram, Summary and Stateset updates hold a short per-metric lock
// - The registry lock is held only to insert, look up or copy pointers
// - Rendering formats outside every lock, so scrapes never block updates for long
//
// Metrics are never removed, so pointers handed out stay valid for the
// lifetime of the registry.
//
// # Exposition
//
//	http.Handle(openmetricz.DefaultPath, registry.Handler())
//
// or render directly with registry.WriteTo(w).
package openmetricz

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/zoobzio/clockz"
)

// Key is the type for metric family names.
// Declare keys as constants to keep names consistent across an application.
type Key string

// family records what the first member of a family declared.
type family struct {
	help string
	unit string
	kind Kind
}

// Registry owns every metric registered through it.
type Registry struct {
	metrics  map[string]Metric
	families map[Key]family
	clock    clockz.Clock
	logger   *slog.Logger
	mu       sync.RWMutex
}

// New creates an empty Registry using the wall clock.
func New() *Registry {
	return &Registry{
		metrics:  make(map[string]Metric),
		families: make(map[Key]family),
		clock:    clockz.RealClock,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithClock sets the clock used for timestamps and stopwatches of metrics
// registered afterwards.
func (r *Registry) WithClock(clock clockz.Clock) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
	return r
}

// WithLogger sets the logger for registration events.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
	return r
}

// Clock returns the clock handed to new metrics.
func (r *Registry) Clock() clockz.Clock {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clock
}

func (r *Registry) log() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}

// AddCounter registers a uint64 counter.
func (r *Registry) AddCounter(name Key, help, unit string, labels Labels) (*Counter[uint64], error) {
	return AddCounterOf[uint64](r, name, help, unit, labels)
}

// AddCounterOf registers a counter of scalar type T.
func AddCounterOf[T Number](r *Registry, name Key, help, unit string, labels Labels) (*Counter[T], error) {
	c, err := newCounter[T](name, help, unit, labels, r.Clock())
	return add(r, c, err)
}

// AddGauge registers an int64 gauge.
func (r *Registry) AddGauge(name Key, help, unit string, labels Labels) (*Gauge[int64], error) {
	return AddGaugeOf[int64](r, name, help, unit, labels)
}

// AddGaugeOf registers a gauge of scalar type T.
func AddGaugeOf[T Number](r *Registry, name Key, help, unit string, labels Labels) (*Gauge[T], error) {
	g, err := newGauge[T](name, help, unit, labels, r.Clock())
	return add(r, g, err)
}

// AddInfo registers an info metric.
func (r *Registry) AddInfo(name Key, help, unit string, labels Labels) (*Info, error) {
	i, err := newInfo(name, help, unit, labels, r.Clock())
	return add(r, i, err)
}

// AddHistogram registers a histogram with the given ascending upper bounds.
// Empty bounds select DefaultDurationBuckets.
func (r *Registry) AddHistogram(name Key, help, unit string, labels Labels, bounds []float64) (*Histogram, error) {
	h, err := newHistogram(name, help, unit, labels, bounds, r.Clock())
	return add(r, h, err)
}

// AddSummary registers a summary reporting quantiles over the last maxSamples
// observations. Empty quantiles select DefaultQuantiles, zero maxSamples
// selects DefaultMaxSamples.
func (r *Registry) AddSummary(name Key, help, unit string, labels Labels, quantiles []float64, maxSamples int) (*Summary, error) {
	s, err := newSummary(name, help, unit, labels, quantiles, maxSamples, r.Clock())
	return add(r, s, err)
}

// AddStateset registers a stateset holding at most capacity states.
func (r *Registry) AddStateset(name Key, help, unit string, labels Labels, capacity int, states []string) (*Stateset, error) {
	s, err := newStateset(name, help, unit, labels, capacity, states, r.Clock())
	return add(r, s, err)
}

// AddUntyped registers an untyped metric.
func (r *Registry) AddUntyped(name Key, help, unit string, labels Labels) (*Untyped, error) {
	u, err := newUntyped(name, help, unit, labels, r.Clock())
	return add(r, u, err)
}

func add[M Metric](r *Registry, m M, err error) (M, error) {
	var zero M
	if err != nil {
		r.log().Debug("metric rejected", "error", err)
		return zero, err
	}
	if err := r.register(m); err != nil {
		return zero, err
	}
	return m, nil
}

// Clone registers a metric of the same kind, name, help, unit and configuration
// as source, with a different label set.
func Clone[M Metric](r *Registry, source M, labels Labels) (M, error) {
	var zero M
	if isNilMetric(source) {
		return zero, fmt.Errorf("%w: clone source is nil", ErrNotFound)
	}
	if !r.owns(source) {
		return zero, fmt.Errorf("%w: %s is not registered", ErrNotFound, source.MetricName())
	}
	cloned, err := source.clone(labels)
	if err != nil {
		r.log().Debug("metric rejected", "error", err)
		return zero, err
	}
	if err := r.register(cloned); err != nil {
		return zero, err
	}
	return cloned.(M), nil
}

// isNilMetric reports a missing source, including a typed nil from a failed Add.
func isNilMetric(m Metric) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func (r *Registry) owns(m Metric) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.metrics[MakeKey(m.Name(), m.Labels(), m.Kind())]
	return ok && stored == m
}

func (r *Registry) register(m Metric) error {
	key := MakeKey(m.Name(), m.Labels(), m.Kind())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.metrics[key]; exists {
		r.logger.Debug("metric already registered", "key", key)
		return fmt.Errorf("%w: %s", ErrAlreadyExists, key)
	}

	if f, ok := r.families[m.Name()]; ok {
		if f.kind != m.Kind() || f.help != m.Help() || f.unit != m.Unit() {
			r.logger.Warn("family member disagrees with family metadata",
				"family", string(m.Name()),
				"kind", m.Kind().String(),
				"family_kind", f.kind.String(),
			)
		}
	} else {
		r.families[m.Name()] = family{help: m.Help(), unit: m.Unit(), kind: m.Kind()}
	}

	r.metrics[key] = m
	r.logger.Debug("metric registered", "metric", m.MetricName(), "kind", m.Kind().String())
	return nil
}

// Lookup finds a non-Info metric by name and labels. Label order does not matter.
func (r *Registry) Lookup(name Key, labels Labels) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[MakeKey(name, labels, KindUntyped)]
	return m, ok
}

// LookupKind finds a metric by name, labels and kind. A metric stored under the
// same name and labels with another kind is not returned.
func (r *Registry) LookupKind(name Key, labels Labels, kind Kind) (Metric, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[MakeKey(name, labels, kind)]
	if !ok || m.Kind() != kind {
		return nil, false
	}
	return m, true
}

// Len returns the number of registered series.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.metrics)
}

// Metrics returns a snapshot of every registered metric in render order:
// Info families first, then by family name, then by label set.
func (r *Registry) Metrics() []Metric {
	r.mu.RLock()
	out := make([]Metric, 0, len(r.metrics))
	for _, m := range r.metrics {
		out = append(out, m)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, compareRenderOrder)
	return out
}

func compareRenderOrder(a, b Metric) int {
	aInfo, bInfo := a.Kind() == KindInfo, b.Kind() == KindInfo
	if aInfo != bInfo {
		if aInfo {
			return -1
		}
		return 1
	}
	return cmp.Or(
		strings.Compare(string(a.Name()), string(b.Name())),
		strings.Compare(a.MetricName(), b.MetricName()),
	)
}

// WriteTo renders every metric in OpenMetrics text format, ending with # EOF.
// Only errors from w are returned.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	var current Key
	for i, m := range r.Metrics() {
		// Family metadata is written once, however many label sets it has.
		if i == 0 || m.Name() != current {
			current = m.Name()
			writeFamilyHeader(bw, m)
		}
		m.render(bw)
	}
	bw.WriteString("# EOF\n")

	err := bw.Flush()
	return cw.n, err
}

// Generate renders the registry into w.
func (r *Registry) Generate(w io.Writer) error {
	_, err := r.WriteTo(w)
	return err
}

func writeFamilyHeader(w *bufio.Writer, m Metric) {
	name := string(m.Name())
	if help := m.Help(); help != "" {
		fmt.Fprintf(w, "# HELP %s %s\n", name, escapeHelp(help))
	}
	fmt.Fprintf(w, "# TYPE %s %s\n", name, m.Kind())
	if unit := m.Unit(); unit != "" {
		fmt.Fprintf(w, "# UNIT %s %s\n", name, unit)
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
