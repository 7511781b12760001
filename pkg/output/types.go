// Package output provides dataset summary reports and their formatting.
package output

import (
	"math"
	"strconv"
	"time"

	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/qc"
)

// Report is the summary of one dataset.
type Report struct {
	// Summary provides the dataset extent.
	Summary Summary `json:"summary"`

	// Variables describes every variable in dataset order.
	Variables []VariableStats `json:"variables"`

	// Statuses counts rows per instrument status value.
	Statuses []StatusStats `json:"statuses,omitempty"`

	// Gaps lists spacings longer than the gap threshold.
	Gaps []qc.Gap `json:"gaps,omitempty"`

	// Metadata provides context about the report.
	Metadata Metadata `json:"metadata"`
}

// Summary provides the dataset extent.
type Summary struct {
	SourceType       string        `json:"source_type"`
	Start            time.Time     `json:"start"`
	End              time.Time     `json:"end"`
	Rows             int           `json:"rows"`
	Variables        int           `json:"variables"`
	SamplingInterval time.Duration `json:"sampling_interval"`
	Gaps             int           `json:"gaps"`
}

// VariableStats describes one variable. Min and Max are nil for text
// variables and for variables without valid values.
type VariableStats struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Unit     string   `json:"unit,omitempty"`
	LongName string   `json:"long_name,omitempty"`
	Valid    int      `json:"valid"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
}

// StatusStats is the number of rows and phases of one status value.
type StatusStats struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
	Phases int    `json:"phases"`
}

// Metadata provides context about the report.
type Metadata struct {
	// File is the dataset file the report was built from.
	File string `json:"file,omitempty"`

	// StatusVariable is the variable the status counts were taken from.
	StatusVariable string `json:"status_variable,omitempty"`

	// MaxGap is the gap threshold.
	MaxGap time.Duration `json:"max_gap"`

	// Attributes are the global dataset attributes.
	Attributes map[string]string `json:"attributes,omitempty"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ReportOptions controls how a report is built.
type ReportOptions struct {
	File string

	// StatusVars are the candidate status variables, first match wins.
	StatusVars []string

	// MaxGap defaults to qc.DefaultMaxGap.
	MaxGap time.Duration
}

// NewReport summarizes ds.
func NewReport(ds *dataset.Dataset, opts ReportOptions) *Report {
	if opts.MaxGap <= 0 {
		opts.MaxGap = qc.DefaultMaxGap
	}

	gaps := qc.FindGaps(ds.Time, opts.MaxGap)
	report := &Report{
		Summary: Summary{
			SourceType:       ds.Attrs[dataset.AttrSourceType],
			Start:            ds.Start(),
			End:              ds.End(),
			Rows:             ds.Len(),
			Variables:        len(ds.Names()),
			SamplingInterval: qc.SamplingInterval(ds.Time),
			Gaps:             len(gaps),
		},
		Gaps: gaps,
		Metadata: Metadata{
			File:        opts.File,
			MaxGap:      opts.MaxGap,
			Attributes:  ds.Attrs,
			GeneratedAt: time.Now().UTC(),
		},
	}

	for _, name := range ds.Names() {
		v, _ := ds.Var(name)
		report.Variables = append(report.Variables, variableStats(v))
	}

	if name, err := qc.ResolveStatusVar(ds, opts.StatusVars...); err == nil {
		status, _ := ds.Float(name)
		report.Metadata.StatusVariable = name
		for _, c := range qc.StatusCounts(ds.Time, status) {
			report.Statuses = append(report.Statuses, StatusStats{
				Status: formatStatus(c.Status),
				Rows:   c.Rows,
				Phases: c.Phases,
			})
		}
	}

	return report
}

func variableStats(v *dataset.Variable) VariableStats {
	s := VariableStats{
		Name:     v.Name,
		Type:     "float64",
		Unit:     v.Unit(),
		LongName: v.Attrs[dataset.AttrLongName],
		Valid:    v.Valid(),
	}
	if v.IsText() {
		s.Type = "string"
		return s
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v.Data {
		if math.IsNaN(x) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if s.Valid > 0 {
		s.Min, s.Max = &lo, &hi
	}
	return s
}

func formatStatus(s float64) string {
	if math.IsNaN(s) {
		return "missing"
	}
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// HasGaps returns true if any gap exceeded the threshold.
func (r *Report) HasGaps() bool {
	return len(r.Gaps) > 0
}
