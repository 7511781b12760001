package dataset

import (
	"context"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// DefaultTolerance bounds the nearest-neighbour time matching of a merge.
const DefaultTolerance = 2 * time.Minute

// DefaultVariables is the allow-list applied by SelectVariables.
var DefaultVariables = []string{
	"CO2",
	"SBE45Temp",
	"SBE45Cond",
	"SBE45Sal",
	"AIN0_mA_Waterflow",
	"CellTemp",
	"CellPress",
	"DPressInt",
	"Latitude",
	"Longitude",
	"Speed",
	"Course",
	"Error",
	"ANA_state",
	"STATUS",
}

// MergeReport describes a merge.
type MergeReport struct {
	// Matched is the number of base timestamps matched per input (the base
	// itself matches every timestamp).
	Matched []int
	// DroppedVariables lists, per input, the variables already present in
	// an earlier input.
	DroppedVariables [][]string
	// DroppedAttributes lists the global attributes that conflicted.
	DroppedAttributes []string
}

// Merger aligns datasets onto the time axis of the first one.
type Merger struct {
	logger    *zap.Logger
	tolerance time.Duration
}

// MergeOption configures the Merger.
type MergeOption func(*Merger)

// WithMergeLogger sets the diagnostics sink.
func WithMergeLogger(l *zap.Logger) MergeOption {
	return func(m *Merger) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTolerance sets the maximum distance of a time match.
func WithTolerance(d time.Duration) MergeOption {
	return func(m *Merger) {
		if d >= 0 {
			m.tolerance = d
		}
	}
}

// NewMerger creates a Merger with the given options.
func NewMerger(opts ...MergeOption) *Merger {
	m := &Merger{
		logger:    zap.NewNop(),
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge reindexes datasets[1:] onto the time axis of datasets[0] by nearest
// timestamp within the tolerance and combines all variables into a new
// dataset. Unmatched timestamps become missing values. Variables already
// present in an earlier dataset are dropped, never overwritten. Global
// attributes whose values conflict between inputs are dropped.
func (m *Merger) Merge(ctx context.Context, datasets []*Dataset) (*Dataset, *MergeReport, error) {
	if len(datasets) == 0 {
		return nil, nil, ErrNoData
	}

	base := datasets[0]
	merged := base.Clone()
	report := &MergeReport{
		Matched:          []int{base.Len()},
		DroppedVariables: make([][]string, len(datasets)),
	}

	for i, ds := range datasets[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		idx := nearestIndexer(base.Time, ds.Time, m.tolerance)
		matched := 0
		for _, j := range idx {
			if j >= 0 {
				matched++
			}
		}
		report.Matched = append(report.Matched, matched)

		var dropped []string
		for _, name := range ds.Names() {
			if merged.Has(name) {
				dropped = append(dropped, name)
				continue
			}
			v, _ := ds.Var(name)
			if err := merged.Add(reindex(v, idx)); err != nil {
				return nil, nil, err
			}
		}
		report.DroppedVariables[i+1] = dropped
		if len(dropped) > 0 {
			m.logger.Info("dropped duplicate variables",
				zap.Int("dataset", i+1),
				zap.Strings("variables", dropped))
		}
		m.logger.Debug("aligned dataset",
			zap.Int("dataset", i+1),
			zap.Int("matched", matched),
			zap.Int("timestamps", base.Len()),
			zap.Duration("tolerance", m.tolerance))
	}

	merged.Attrs, report.DroppedAttributes = combineAttrs(datasets)
	if len(report.DroppedAttributes) > 0 {
		m.logger.Info("dropped conflicting attributes", zap.Strings("attributes", report.DroppedAttributes))
	}
	return merged, report, nil
}

// nearestIndexer returns for every target timestamp the index of the nearest
// source timestamp within tolerance, or -1. source must be ascending. On a
// tie the later source timestamp wins.
func nearestIndexer(target, source []time.Time, tolerance time.Duration) []int {
	idx := make([]int, len(target))
	for i, t := range target {
		idx[i] = -1
		if len(source) == 0 {
			continue
		}
		// First source timestamp at or after t.
		k := sort.Search(len(source), func(n int) bool { return !source[n].Before(t) })

		best, dist := -1, time.Duration(math.MaxInt64)
		if k < len(source) {
			best, dist = k, source[k].Sub(t)
		}
		if k > 0 {
			if d := t.Sub(source[k-1]); d < dist {
				best, dist = k-1, d
			}
		}
		if best >= 0 && dist <= tolerance {
			idx[i] = best
		}
	}
	return idx
}

func reindex(v *Variable, idx []int) *Variable {
	out := &Variable{Name: v.Name, Attrs: copyAttrs(v.Attrs)}
	if v.IsText() {
		out.Text = make([]string, len(idx))
		for i, j := range idx {
			if j >= 0 {
				out.Text[i] = v.Text[j]
			}
		}
		return out
	}
	out.Data = make([]float64, len(idx))
	for i, j := range idx {
		if j >= 0 {
			out.Data[i] = v.Data[j]
		} else {
			out.Data[i] = math.NaN()
		}
	}
	return out
}

// combineAttrs keeps the global attributes on which all inputs that carry
// them agree.
func combineAttrs(datasets []*Dataset) (map[string]string, []string) {
	attrs := make(map[string]string)
	conflict := make(map[string]bool)
	for _, ds := range datasets {
		for k, v := range ds.Attrs {
			if old, ok := attrs[k]; ok && old != v {
				conflict[k] = true
			}
			if _, ok := attrs[k]; !ok {
				attrs[k] = v
			}
		}
	}
	var dropped []string
	for k := range conflict {
		delete(attrs, k)
		dropped = append(dropped, k)
	}
	sort.Strings(dropped)
	return attrs, dropped
}

// SelectVariables restricts ds to the allow-list and returns the dropped
// names. Allow-listed variables that do not exist are ignored.
func SelectVariables(ds *Dataset, allow []string) []string {
	if allow == nil {
		allow = DefaultVariables
	}
	return ds.Keep(allow)
}
