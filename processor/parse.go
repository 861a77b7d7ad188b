package processor

import (
	"math"
	"strconv"
)

// parseDecimal converts an upstream decimal string to a float64. The second
// return value is false for empty, malformed or non-finite values so callers
// can skip the record instead of letting NaN/Inf reach the artifact.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDecimalOr returns the fallback for values that do not parse.
func parseDecimalOr(s string, fallback float64) float64 {
	if f, ok := parseDecimal(s); ok {
		return f
	}
	return fallback
}

// finiteOr guards derived values against division artifacts.
func finiteOr(f, fallback float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
