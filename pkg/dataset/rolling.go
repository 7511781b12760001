package dataset

import (
	"math"
	"time"
)

// RollingMean returns the mean of xs over the trailing window (t-window, t]
// at each timestamp. NaN values are ignored; a window without valid values
// yields NaN. times must be ascending.
func RollingMean(times []time.Time, xs []float64, window time.Duration) []float64 {
	out := make([]float64, len(xs))
	var sum float64
	var count int
	start := 0
	for i := range xs {
		if !math.IsNaN(xs[i]) {
			sum += xs[i]
			count++
		}
		for start <= i && !times[start].After(times[i].Add(-window)) {
			if !math.IsNaN(xs[start]) {
				sum -= xs[start]
				count--
			}
			start++
		}
		if count == 0 {
			sum = 0
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}
