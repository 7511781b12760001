package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CoercionPolicy decides what happens to a column that is not numeric.
type CoercionPolicy int

const (
	// CoerceDrop drops non-numeric columns.
	CoerceDrop CoercionPolicy = iota
	// CoerceKeep keeps non-numeric columns as raw text.
	CoerceKeep
)

func (p CoercionPolicy) String() string {
	if p == CoerceKeep {
		return "keep"
	}
	return "drop"
}

// ParseCoercionPolicy parses "drop" or "keep".
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return CoerceDrop, nil
	case "keep":
		return CoerceKeep, nil
	}
	return CoerceDrop, fmt.Errorf("invalid non-numeric policy %q (must be drop or keep)", s)
}

// coerceFloats parses every value as a float. Empty fields are missing values.
// It reports false, with the first offending value, if any field is not numeric.
func coerceFloats(values []string) ([]float64, string, bool) {
	out := make([]float64, len(values))
	for i, s := range values {
		if s == "" {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, s, false
		}
		out[i] = f
	}
	return out, "", true
}
