// Package units infers and converts pressure and temperature units from the
// magnitude of their values.
package units

import (
	"errors"
	"math"
	"sort"
)

// ErrUnrecognizedUnit is returned when the magnitude of a series matches no
// known unit.
var ErrUnrecognizedUnit = errors.New("unrecognized unit")

// Indeterminate is the order of magnitude of zero, NaN and infinite values.
const Indeterminate = math.MinInt

// OrderOfMagnitude returns floor(log10(|x|)), or Indeterminate.
func OrderOfMagnitude(x float64) int {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return Indeterminate
	}
	return int(math.Floor(math.Log10(math.Abs(x))))
}

// TypicalOrder returns the median order of magnitude over the determinate
// elements of xs, or Indeterminate if there are none.
func TypicalOrder(xs []float64) int {
	orders := make([]int, 0, len(xs))
	for _, x := range xs {
		if o := OrderOfMagnitude(x); o != Indeterminate {
			orders = append(orders, o)
		}
	}
	if len(orders) == 0 {
		return Indeterminate
	}
	sort.Ints(orders)
	n := len(orders)
	if n%2 == 1 {
		return orders[n/2]
	}
	// Even count: mean of the middle pair, floored.
	return orders[n/2-1] + (orders[n/2]-orders[n/2-1])/2
}
