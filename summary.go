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

// Summary estimates quantiles over the most recent observations.
//
// Only the last maxSamples observations are retained in a ring buffer, so the
// quantiles describe recent data while Sum and Count cover every observation.
type Summary struct {
	desc
	quantiles     []float64
	quantileNames []string
	countName     string
	sumName       string
	mu            sync.Mutex
	samples       []float64
	next          int // ring position of the next write once samples is full
	maxSamples    int
	sum           float64
	count         uint64
}

func newSummary(name Key, help, unit string, labels Labels, quantiles []float64, maxSamples int, clock clockz.Clock) (*Summary, error) {
	if len(quantiles) == 0 {
		quantiles = DefaultQuantiles
	}
	for _, q := range quantiles {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return nil, fmt.Errorf("%w: %s: quantile %v outside [0, 1]", ErrInvalidArgument, name, q)
		}
	}
	if maxSamples < 0 || maxSamples > MaxSummaryWindow {
		return nil, fmt.Errorf("%w: %s: sample window %d outside [0, %d]", ErrInvalidArgument, name, maxSamples, MaxSummaryWindow)
	}
	if maxSamples == 0 {
		maxSamples = DefaultMaxSamples
	}

	s := &Summary{
		quantiles:  slices.Clone(quantiles),
		maxSamples: maxSamples,
	}
	if err := s.init(KindSummary, name, help, unit, labels, clock); err != nil {
		return nil, err
	}

	s.quantileNames = make([]string, len(quantiles))
	for i, q := range quantiles {
		s.quantileNames[i] = s.sampleName("", Label{Key: "quantile", Value: formatLabelFloat(q)})
	}
	s.countName = MakeNameWithSuffixAndLabels(name, "count", s.labels, false)
	s.sumName = MakeNameWithSuffixAndLabels(name, "sum", s.labels, false)
	return s, nil
}

// Observe records a value, evicting the oldest retained sample when the window is full.
func (s *Summary) Observe(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}

	s.mu.Lock()
	if len(s.samples) < s.maxSamples {
		s.samples = append(s.samples, value)
	} else {
		s.samples[s.next] = value
	}
	s.next = (s.next + 1) % s.maxSamples
	s.sum += value
	s.count++
	s.mu.Unlock()

	s.touch()
}

// Start returns a stopwatch that observes elapsed seconds when stopped.
func (s *Summary) Start() *Stopwatch {
	return newStopwatch(s.clock, s)
}

// Quantiles returns the configured quantile levels.
func (s *Summary) Quantiles() []float64 {
	return slices.Clone(s.quantiles)
}

// MaxSamples returns the size of the sample window.
func (s *Summary) MaxSamples() int {
	return s.maxSamples
}

// Sum returns the sum of every observation ever made.
func (s *Summary) Sum() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}

// Count returns the number of observations ever made.
func (s *Summary) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// CalculateQuantiles estimates each configured quantile from the retained samples,
// in configuration order. With no samples every estimate is NaN.
func (s *Summary) CalculateQuantiles() []float64 {
	s.mu.Lock()
	sorted := slices.Clone(s.samples)
	s.mu.Unlock()

	sort.Float64s(sorted)
	return estimateQuantiles(sorted, s.quantiles)
}

func estimateQuantiles(sorted, quantiles []float64) []float64 {
	out := make([]float64, len(quantiles))
	for i, q := range quantiles {
		out[i] = estimateQuantile(sorted, q)
	}
	return out
}

// estimateQuantile interpolates between the two samples around rank q*n - 0.5.
func estimateQuantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	pos := q*float64(n) - 0.5
	if pos <= 0 {
		return sorted[0]
	}
	idx := int(math.Floor(pos))
	if idx >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(idx)
	return sorted[idx] + (sorted[idx+1]-sorted[idx])*frac
}

func (s *Summary) render(w *bufio.Writer) {
	s.mu.Lock()
	sorted := slices.Clone(s.samples)
	sum, count := s.sum, s.count
	s.mu.Unlock()

	sort.Float64s(sorted)
	for i, v := range estimateQuantiles(sorted, s.quantiles) {
		writeSample(w, s.quantileNames[i], FormatFloat(v))
	}
	writeSample(w, s.countName, strconv.FormatUint(count, 10))
	writeSample(w, s.sumName, FormatFloat(sum))
	s.renderCreated(w)
}

func (s *Summary) clone(labels Labels) (Metric, error) {
	cloned, err := newSummary(s.name, s.help, s.unit, labels, s.quantiles, s.maxSamples, s.clock)
	if err != nil {
		return nil, err
	}
	return cloned, nil
}
