package output

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

const timeLayout = "2006-01-02 15:04:05"

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type textStyles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
	column lipgloss.Style
}

// newTextStyles binds the styles to w so that color is only emitted when w
// is a terminal.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")),
		label:  r.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#666666")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		column: r.NewStyle().Width(24),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	st := newTextStyles(w)
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, st, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "OceanPack: %d rows, %d variables, %s to %s, %d gap(s)\n",
		report.Summary.Rows,
		report.Summary.Variables,
		report.Summary.Start.Format(timeLayout),
		report.Summary.End.Format(timeLayout),
		report.Summary.Gaps)
	return err
}

func (f *TextFormatter) formatFull(report *Report, st textStyles, w io.Writer) error {
	s := report.Summary

	fmt.Fprintln(w, st.title.Render("=== OceanPack Dataset Summary ==="))
	fmt.Fprintln(w)
	if report.Metadata.File != "" {
		fmt.Fprintf(w, "%s %s\n", st.label.Render("File:"), report.Metadata.File)
	}
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Source type:"), valueOr(s.SourceType, "unknown"))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Start:"), s.Start.Format(timeLayout))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("End:"), s.End.Format(timeLayout))
	fmt.Fprintf(w, "%s %d\n", st.label.Render("Rows:"), s.Rows)
	fmt.Fprintf(w, "%s %s\n", st.label.Render("Sampling interval:"), s.SamplingInterval)
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Variables (%d)", s.Variables)))
	for _, v := range report.Variables {
		f.formatVariable(v, st, w)
	}
	fmt.Fprintln(w)

	if len(report.Statuses) > 0 {
		fmt.Fprintln(w, st.title.Render(fmt.Sprintf("Status (%s)", report.Metadata.StatusVariable)))
		for _, c := range report.Statuses {
			fmt.Fprintf(w, "  %s %d row(s) in %d phase(s)\n", st.column.Render(c.Status), c.Rows, c.Phases)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	if !report.HasGaps() {
		fmt.Fprintf(w, "No gaps longer than %s\n", report.Metadata.MaxGap)
		return nil
	}
	fmt.Fprintln(w, st.warn.Render(fmt.Sprintf("Gaps: %d longer than %s", len(report.Gaps), report.Metadata.MaxGap)))
	for _, g := range report.Gaps {
		fmt.Fprintf(w, "  - Gap of %s between %s and %s\n",
			g.Duration,
			g.Start.Format(timeLayout),
			g.End.Format(timeLayout))
	}
	return nil
}

func (f *TextFormatter) formatVariable(v VariableStats, st textStyles, w io.Writer) {
	unit := ""
	if v.Unit != "" {
		unit = " [" + v.Unit + "]"
	}
	stats := fmt.Sprintf("%d valid", v.Valid)
	if v.Min != nil && v.Max != nil {
		stats += fmt.Sprintf(", min %s, max %s", formatFloat(*v.Min), formatFloat(*v.Max))
	}
	if v.Type == "string" {
		stats += ", text"
	}
	fmt.Fprintf(w, "  %s %s%s\n", st.column.Render(v.Name), stats, st.dim.Render(unit))

	if f.opts.Verbose && v.LongName != "" && v.LongName != v.Name {
		fmt.Fprintf(w, "    %s\n", st.dim.Render(v.LongName))
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
