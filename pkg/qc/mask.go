package qc

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/dataset"
)

// DefaultMaskShift extends every masked phase past its end.
const DefaultMaskShift = 20 * time.Minute

// OrigSuffix names the preserved copy of a masked variable.
const OrigSuffix = "_orig"

// MaskOptions configures MaskNonOperating.
type MaskOptions struct {
	StatusVar      string
	Shift          time.Duration
	OperatingValue float64
	Logger         *zap.Logger
}

// MaskReport describes a masking run.
type MaskReport struct {
	Phases []Phase
	// Masked is the number of values set to missing per variable.
	Masked map[string]int
	// Preserved lists the <name>_orig copies written by this run.
	Preserved []string
}

// ResolveStatusVar returns the first candidate present in ds.
func ResolveStatusVar(ds *dataset.Dataset, candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" && ds.Has(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: none of the status variables %v", dataset.ErrVariableNotFound, candidates)
}

// RestoreOriginals copies every preserved <name>_orig back into <name> and
// returns the restored names. Masking a restored dataset again starts from
// the unmasked values.
func RestoreOriginals(ds *dataset.Dataset) []string {
	var restored []string
	for _, name := range ds.Names() {
		base, ok := strings.CutSuffix(name, OrigSuffix)
		if !ok || base == "" {
			continue
		}
		saved, err := ds.Float(name)
		if err != nil {
			continue
		}
		if err := ds.SetFloat(base, append([]float64(nil), saved...), nil); err != nil {
			continue
		}
		restored = append(restored, base)
	}
	return restored
}

// MaskNonOperating sets the named variables to missing during every phase
// whose status is not the operating value, from the start of the phase to
// its end plus the shift. When more than one variable is masked, each is
// first copied to <name>_orig, replacing any earlier copy. The values are
// taken as unmasked; call RestoreOriginals before masking a dataset again.
func MaskNonOperating(ds *dataset.Dataset, columns []string, opts MaskOptions) (*MaskReport, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	status, err := ds.Float(opts.StatusVar)
	if err != nil {
		return nil, fmt.Errorf("status variable: %w", err)
	}
	for _, c := range columns {
		if _, err := ds.Float(c); err != nil {
			return nil, err
		}
	}

	report := &MaskReport{
		Phases: NonOperatingPhases(ds.Time, status, opts.OperatingValue),
		Masked: make(map[string]int, len(columns)),
	}
	for _, p := range report.Phases {
		logger.Debug("non-operating phase",
			zap.Float64("status", p.Status),
			zap.Time("start", p.Start),
			zap.Time("end", p.End),
			zap.Duration("shift", opts.Shift))
	}

	preserve := len(columns) > 1
	for _, c := range columns {
		current, _ := ds.Float(c)
		data := append([]float64(nil), current...)
		v, _ := ds.Var(c)

		if preserve {
			orig := c + OrigSuffix
			if err := ds.SetFloat(orig, append([]float64(nil), data...), v.Attrs); err != nil {
				return nil, err
			}
			report.Preserved = append(report.Preserved, orig)
		}

	masked := maskWindows(ds.Time, data, report.Phases, opts.Shift)
		if err := ds.SetFloat(c, data, nil); err != nil {
			return nil, err
		}
		report.Masked[c] = masked
	}

	logger.Info("masked non-operating phases",
		zap.Int("phases", len(report.Phases)),
		zap.Strings("variables", columns),
		zap.String("status_variable", opts.StatusVar),
		zap.Duration("shift", opts.Shift))
	return report, nil
}

// maskWindows sets data to NaN within [start, end+shift] of every phase and
// returns the number of values that changed.
func maskWindows(times []time.Time, data []float64, phases []Phase, shift time.Duration) int {
	masked := 0
	for _, p := range phases {
		until := p.End.Add(shift)
		i := sort.Search(len(times), func(n int) bool { return !times[n].Before(p.Start) })
		for ; i < len(times) && !times[i].After(until); i++ {
			if !math.IsNaN(data[i]) {
				data[i] = math.NaN()
				masked++
			}
		}
	}
	return masked
}
