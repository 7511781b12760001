package qc

import (
	"sort"
	"time"
)

// DefaultMaxGap is the largest spacing not reported as a gap.
const DefaultMaxGap = 5 * time.Minute

// Gap is a spacing between consecutive timestamps exceeding the threshold.
type Gap struct {
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Duration time.Duration `json:"duration"`
}

// FindGaps returns the spacings between consecutive timestamps that exceed
// maxGap.
func FindGaps(times []time.Time, maxGap time.Duration) []Gap {
	var gaps []Gap
	for i := 1; i < len(times); i++ {
		prev, curr := times[i-1], times[i]
		if gap := curr.Sub(prev); gap > maxGap {
			gaps = append(gaps, Gap{Start: prev, End: curr, Duration: gap})
		}
	}
	return gaps
}

// SamplingInterval infers the sampling interval as the median spacing of
// the timestamps. It returns zero for fewer than two timestamps.
func SamplingInterval(times []time.Time) time.Duration {
	if len(times) < 2 {
		return 0
	}
	diffs := make([]time.Duration, len(times)-1)
	for i := 1; i < len(times); i++ {
		diffs[i-1] = times[i].Sub(times[i-1])
	}
	sort.Slice(diffs, func(i, j int) bool { return diffs[i] < diffs[j] })
	n := len(diffs)
	if n%2 == 1 {
		return diffs[n/2]
	}
	return (diffs[n/2-1] + diffs[n/2]) / 2
}
