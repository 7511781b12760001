// Package chem implements the empirical formulas used to derive seawater
// CO2 quantities: coordinate conversion, practical salinity, water vapour
// pressure, xCO2 to pCO2, fugacity and temperature correction.
//
// Series arguments are broadcast: a slice of length one stands for a
// constant; all other slices must share one length.
package chem

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch = errors.New("series lengths differ")
	ErrUnknownAirMode = errors.New("unknown air mode")
	ErrUnknownMethod  = errors.New("unknown temperature correction method")
	ErrMissingInput   = errors.New("missing input series")
)

// broadcastLen returns the common length of the given series.
func broadcastLen(series ...[]float64) (int, error) {
	n := 1
	for _, s := range series {
		if len(s) == 0 {
			return 0, ErrMissingInput
		}
		if len(s) == 1 || len(s) == n {
			continue
		}
		if n != 1 {
			return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, n, len(s))
		}
		n = len(s)
	}
	return n, nil
}

func at(s []float64, i int) float64 {
	if len(s) == 1 {
		return s[0]
	}
	return s[i]
}
