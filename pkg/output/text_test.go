package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	checks := []string{
		"OceanPack Dataset Summary",
		"cruise.opds",
		"Analyzer",
		"2024-01-15 10:00:00",
		"2024-01-15 10:13:00",
		"Rows: 5",
		"Variables (4)",
		"4 valid, min 405, max 412",
		"[ppm]",
		"Status (STATUS)",
		"missing",
		"Gaps: 1 longer than 5m0s",
		"Gap of 10m0s",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("Output missing %q\n%s", check, output)
		}
	}
	if strings.Contains(output, "CO2 mole fraction") {
		t.Error("Long names should only appear in verbose output")
	}
}

func TestTextFormatter_Format_NoGaps(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(createTestDataset(t), ReportOptions{MaxGap: time.Hour})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No gaps longer than 1h0m0s") {
		t.Errorf("Output missing gap summary\n%s", buf.String())
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := createTestReport(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()

	// Quiet mode should be a single line
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 1 {
		t.Errorf("Quiet output has %d lines, want 1", len(lines))
	}
	if !strings.Contains(output, "OceanPack: 5 rows, 4 variables") {
		t.Errorf("Quiet output = %q", output)
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport(t)

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "CO2 mole fraction") {
		t.Error("Verbose output missing long name")
	}
}
