package benchmarks

import (
	"math/rand"
	"testing"

	"github.com/zoobzio/openmetricz"
)

// Benchmark metric keys - pre-defined, compile-time safe.
const (
	BenchCounterKey  openmetricz.Key = "bench_counter"
	BenchGaugeKey    openmetricz.Key = "bench_gauge"
	BenchHistKey     openmetricz.Key = "bench_histogram"
	BenchSummaryKey  openmetricz.Key = "bench_summary"
	BenchStatesetKey openmetricz.Key = "bench_stateset"
)

// Standard histogram buckets for realistic testing.
var standardBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0}

func mustNoErr(b *testing.B, err error) {
	b.Helper()
	if err != nil {
		b.Fatal(err)
	}
}

// BenchmarkCounter_Inc tests sequential counter increments.
func BenchmarkCounter_Inc(b *testing.B) {
	counter, err := openmetricz.New().AddCounter(BenchCounterKey, "help", "", nil)
	mustNoErr(b, err)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		counter.Inc()
	}
}

// BenchmarkCounter_Inc_Parallel tests counter increments under contention.
func BenchmarkCounter_Inc_Parallel(b *testing.B) {
	counter, err := openmetricz.New().AddCounter(BenchCounterKey, "help", "", nil)
	mustNoErr(b, err)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			counter.Inc()
		}
	})
}

// BenchmarkFloatGauge_Add_Parallel exercises the CAS loop under contention.
func BenchmarkFloatGauge_Add_Parallel(b *testing.B) {
	gauge, err := openmetricz.AddGaugeOf[float64](openmetricz.New(), BenchGaugeKey, "help", "", nil)
	mustNoErr(b, err)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			gauge.Add(0.5)
		}
	})
}

// BenchmarkHistogram_Observe tests observations spread across the buckets.
func BenchmarkHistogram_Observe(b *testing.B) {
	hist, err := openmetricz.New().AddHistogram(BenchHistKey, "help", "", nil, standardBuckets)
	mustNoErr(b, err)

	values := make([]float64, 1024)
	for i := range values {
		values[i] = rand.Float64() * 12
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		hist.Observe(values[i%len(values)])
	}
}

// BenchmarkSummary_Observe tests ring buffer writes once the window is full.
func BenchmarkSummary_Observe(b *testing.B) {
	summary, err := openmetricz.New().AddSummary(BenchSummaryKey, "help", "", nil, nil, 0)
	mustNoErr(b, err)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		summary.Observe(float64(i % 1000))
	}
}

// BenchmarkSummary_CalculateQuantiles measures a full default window sort.
func BenchmarkSummary_CalculateQuantiles(b *testing.B) {
	summary, err := openmetricz.New().AddSummary(BenchSummaryKey, "help", "", nil, nil, 0)
	mustNoErr(b, err)
	for i := 0; i < openmetricz.DefaultMaxSamples; i++ {
		summary.Observe(rand.Float64())
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = summary.CalculateQuantiles()
	}
}

// BenchmarkStateset_SetExclusiveState tests lifecycle transitions.
func BenchmarkStateset_SetExclusiveState(b *testing.B) {
	states := []string{"starting", "running", "draining", "stopped"}
	stateset, err := openmetricz.New().AddStateset(BenchStatesetKey, "help", "", nil, len(states), states)
	mustNoErr(b, err)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = stateset.SetExclusiveState(i % len(states))
	}
}
