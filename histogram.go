package openmetricz

import (
	"bufio"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/zoobzio/clockz"
)

// Histogram counts observations into fixed buckets with an implicit +Inf overflow bucket.
type Histogram struct {
	desc
	bounds      []float64
	counts      []uint64 // per bucket, not cumulative; last entry is the overflow bucket
	bucketNames []string
	countName   string
	sumName     string
	mu          sync.Mutex
	sum         float64
	count       uint64
}

func newHistogram(name Key, help, unit string, labels Labels, bounds []float64, clock clockz.Clock) (*Histogram, error) {
	if len(bounds) == 0 {
		bounds = DefaultDurationBuckets
	}
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("%w: %s: bucket bound %v is not finite", ErrInvalidArgument, name, b)
		}
		if i > 0 && b <= bounds[i-1] {
			return nil, fmt.Errorf("%w: %s: bucket bounds must be strictly ascending", ErrInvalidArgument, name)
		}
	}

	h := &Histogram{
		bounds: slices.Clone(bounds),
		counts: make([]uint64, len(bounds)+1),
	}
	if err := h.init(KindHistogram, name, help, unit, labels, clock); err != nil {
		return nil, err
	}

	h.bucketNames = make([]string, len(bounds)+1)
	for i, b := range bounds {
		h.bucketNames[i] = h.sampleName("bucket", Label{Key: "le", Value: formatLabelFloat(b)})
	}
	h.bucketNames[len(bounds)] = h.sampleName("bucket", Label{Key: "le", Value: "+Inf"})
	h.countName = MakeNameWithSuffixAndLabels(name, "count", h.labels, false)
	h.sumName = MakeNameWithSuffixAndLabels(name, "sum", h.labels, false)
	return h, nil
}

// Observe records a value in the first bucket whose bound is >= value,
// or in the overflow bucket when no bound matches.
func (h *Histogram) Observe(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	// SearchFloat64s returns the first index where h.bounds[i] >= value,
	// len(h.bounds) selects the overflow bucket.
	i := sort.SearchFloat64s(h.bounds, value)

	h.mu.Lock()
	h.counts[i]++
	h.sum += value
	h.count++
	h.mu.Unlock()

	h.touch()
}

// Start returns a stopwatch that observes elapsed seconds when stopped.
func (h *Histogram) Start() *Stopwatch {
	return newStopwatch(h.clock, h)
}

// Bounds returns the configured upper bounds, without +Inf.
func (h *Histogram) Bounds() []float64 {
	return slices.Clone(h.bounds)
}

// BucketCounts returns the per-bucket counts, overflow last.
func (h *Histogram) BucketCounts() []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.counts)
}

// Buckets returns the bucket boundaries including +Inf and their per-bucket counts.
func (h *Histogram) Buckets() (buckets []float64, counts []uint64) {
	buckets = append(slices.Clone(h.bounds), math.Inf(1))
	return buckets, h.BucketCounts()
}

// Sum returns the sum of all observed values.
func (h *Histogram) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sum
}

// Count returns the total number of observed values.
func (h *Histogram) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}

func (h *Histogram) render(w *bufio.Writer) {
	h.mu.Lock()
	counts := slices.Clone(h.counts)
	sum, count := h.sum, h.count
	h.mu.Unlock()

	var cumulative uint64
	for i, c := range counts {
		cumulative += c
		writeSample(w, h.bucketNames[i], strconv.FormatUint(cumulative, 10))
	}
	writeSample(w, h.countName, strconv.FormatUint(count, 10))
	writeSample(w, h.sumName, FormatFloat(sum))
	h.renderCreated(w)
}

func (h *Histogram) clone(labels Labels) (Metric, error) {
	cloned, err := newHistogram(h.name, h.help, h.unit, labels, h.bounds, h.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
