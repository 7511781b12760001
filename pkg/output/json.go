package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter formats reports as JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the dataset extent plus the fraction of valid values per
// numeric variable.
type quietReport struct {
	File string `json:"file,omitempty"`
	Summary
	Coverage map[string]float64 `json:"coverage"`
}

// Format renders the report as JSON. Long names are only included when
// verbose.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(newQuietReport(report))
	}
	if f.opts.Verbose {
		return encoder.Encode(report)
	}

	trimmed := *report
	trimmed.Variables = make([]VariableStats, len(report.Variables))
	for i, v := range report.Variables {
		v.LongName = ""
		trimmed.Variables[i] = v
	}
	return encoder.Encode(&trimmed)
}

func newQuietReport(report *Report) quietReport {
	q := quietReport{
		File:     report.Metadata.File,
		Summary:  report.Summary,
		Coverage: make(map[string]float64),
	}
	for _, v := range report.Variables {
		if v.Type != "float64" || report.Summary.Rows == 0 {
			continue
		}
		q.Coverage[v.Name] = float64(v.Valid) / float64(report.Summary.Rows)
	}
	return q
}
