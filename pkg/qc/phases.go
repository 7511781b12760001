// Package qc provides quality control on assembled datasets: status phases,
// masking of non-operating phases and time gap detection.
package qc

import (
	"math"
	"sort"
	"time"
)

// DefaultOperatingState is the status value of normal measurement.
const DefaultOperatingState = 5

// Phase is a contiguous run of rows sharing one status value.
type Phase struct {
	Status     float64 // NaN for rows without status
	Start      time.Time
	End        time.Time
	StartIndex int
	EndIndex   int // Inclusive
}

// Len returns the number of rows in the phase.
func (p Phase) Len() int {
	return p.EndIndex - p.StartIndex + 1
}

// Phases groups status into contiguous runs of identical values.
// Consecutive missing values form one run.
func Phases(times []time.Time, status []float64) []Phase {
	var phases []Phase
	for i, s := range status {
		if n := len(phases); n > 0 && sameStatus(phases[n-1].Status, s) {
			phases[n-1].End = times[i]
			phases[n-1].EndIndex = i
			continue
		}
		phases = append(phases, Phase{
			Status:     s,
			Start:      times[i],
			End:        times[i],
			StartIndex: i,
			EndIndex:   i,
		})
	}
	return phases
}

// NonOperatingPhases returns the phases whose status is not operating.
// Missing status counts as non-operating.
func NonOperatingPhases(times []time.Time, status []float64, operating float64) []Phase {
	var out []Phase
	for _, p := range Phases(times, status) {
		if p.Status != operating {
			out = append(out, p)
		}
	}
	return out
}

func sameStatus(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// StatusCount is the number of rows carrying one status value.
type StatusCount struct {
	Status float64
	Rows   int
	Phases int
}

// StatusCounts counts rows and phases per status value, ordered by value.
// Missing status values are counted under NaN, listed last.
func StatusCounts(times []time.Time, status []float64) []StatusCount {
	byStatus := make(map[float64]*StatusCount)
	var missing *StatusCount
	for _, p := range Phases(times, status) {
		c := missing
		if !math.IsNaN(p.Status) {
			c = byStatus[p.Status]
		}
		if c == nil {
			c = &StatusCount{Status: p.Status}
			if math.IsNaN(p.Status) {
				missing = c
			} else {
				byStatus[p.Status] = c
			}
		}
		c.Rows += p.Len()
		c.Phases++
	}

	counts := make([]StatusCount, 0, len(byStatus)+1)
	for _, c := range byStatus {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Status < counts[j].Status })
	if missing != nil {
		counts = append(counts, *missing)
	}
	return counts
}
