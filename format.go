package openmetricz

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxDecimals bounds the significant digits of fractional values.
const maxDecimals = 6

// FormatFloat renders v the way sample values are written.
//
// Integral values get exactly one decimal place (3 -> "3.0"). Fractional values
// with a magnitude below 0.001 use fixed notation with six decimals so they never
// switch to an exponent; everything else uses six significant digits.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == math.Floor(v):
		return strconv.FormatFloat(v, 'f', 1, 64)
	case math.Abs(v) < 0.001:
		return strconv.FormatFloat(v, 'f', maxDecimals, 64)
	default:
		return strconv.FormatFloat(v, 'g', maxDecimals, 64)
	}
}

// formatLabelFloat renders bucket bounds and quantile levels. Unlike FormatFloat
// it is lossless, so distinct values never share a label.
func formatLabelFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatNumber renders integers plainly and floats through FormatFloat.
func formatNumber[T Number](v T) string {
	switch x := any(v).(type) {
	case uint64:
		return strconv.FormatUint(x, 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	}
	return ""
}

// formatTimestamp renders t as Unix seconds with a millisecond fraction.
func formatTimestamp(t time.Time) string {
	ms := t.UnixMilli()
	sec, frac := ms/1000, ms%1000
	if frac < 0 {
		sec--
		frac += 1000
	}
	return fmt.Sprintf("%d.%03d", sec, frac)
}
