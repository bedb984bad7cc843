package openmetricz

// Kind enumerates the metric types the registry can hold.
type Kind int

const (
	KindCounter Kind = iota
	KindGauge
	KindHistogram
	KindSummary
	KindInfo
	KindStateset
	KindUntyped
)

// String returns the word used on the # TYPE line.
func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	case KindSummary:
		return "summary"
	case KindInfo:
		return "info"
	case KindStateset:
		return "stateset"
	default:
		return "unknown"
	}
}

// reservedLabel is the label name a kind adds to its own sample lines.
func (k Kind) reservedLabel() string {
	switch k {
	case KindHistogram:
		return "le"
	case KindSummary:
		return "quantile"
	case KindStateset:
		return "state"
	default:
		return ""
	}
}
