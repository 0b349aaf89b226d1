package history

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads readout text such as "12.", "-0.5" or "1" as a float.
// Empty text reads as zero; anything unparsable reads as NaN.
func ParseNumber(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatNumber renders v the way the readout shows computed values: the
// shortest decimal form that round-trips, switching to an exponent only for
// very large or very small magnitudes ("1e+21", "1.5e-7").
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		s = strings.Replace(s, "e-0", "e-", 1)
		return strings.Replace(s, "e+0", "e+", 1)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WithDecimalMarker appends "." to text that has no decimal marker, so an
// integral result reads "31." like a typed number.
func WithDecimalMarker(text string) string {
	if strings.Contains(text, decimalMarker) {
		return text
	}
	return text + decimalMarker
}
