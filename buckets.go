package openmetricz

// Standard bucket definitions for different types of histograms.
var (
	// DefaultDurationBuckets provides reasonable duration buckets in seconds.
	// Used when a histogram is registered without bounds.
	DefaultDurationBuckets = []float64{
		0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
	}

	// DefaultLatencyBuckets provides reasonable latency buckets in milliseconds.
	DefaultLatencyBuckets = []float64{
		1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
	}

	// DefaultSizeBuckets provides reasonable size buckets in bytes.
	DefaultSizeBuckets = []float64{
		64, 256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304,
	}
)

// Summary defaults.
var (
	// DefaultQuantiles is used when a summary is registered without quantiles.
	DefaultQuantiles = []float64{0.5, 0.9, 0.99}
)

// DefaultMaxSamples is the sample window used when a summary is registered with zero.
const DefaultMaxSamples = 500

// MaxSummaryWindow is the largest sample window a summary accepts.
const MaxSummaryWindow = 1 << 20
