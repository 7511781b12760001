package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/detector"
	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose <path>...",
		Short: "Check an input batch before converting it",
		Long: `Check log files for common problems without converting them:
- Configuration validity
- Input files found for the given paths
- Duplicate files
- Header found in every file
- Source type resolution
- Channels used by processing present in the header

Example:
  oceanpack diagnose cruise/analyzer
  oceanpack diagnose -v --config oceanpack.yaml cruise/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), cmd.OutOrStdout(), args, g)
		},
	}
}

func runDiagnose(ctx context.Context, w io.Writer, inputs []string, g *Globals) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := []DiagnosticResult{}

	// 1. Configuration
	cfg, result := checkConfig(ctx, g.ConfigPath)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, g.Verbose)
		return nil
	}

	// 2. Input files
	files, result := checkInputs(inputs, cfg.FileSuffix)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, g.Verbose)
		return nil
	}

	// 3. Duplicates
	if cfg.DeduplicateFiles {
		files, result = checkDuplicates(files, cfg.HashContent)
		results = append(results, result)
	}

	// 4. Headers
	headers, result := checkHeaders(files)
	results = append(results, result)

	// 5. Source type
	results = append(results, checkSourceType(ctx, cfg, files[0]))

	// 6. Processing channels
	if h := firstHeader(files, headers); h != nil {
		results = append(results, checkChannels(cfg, h))
	}

	printDiagnostics(w, results, g.Verbose)
	return nil
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Configuration",
	}

	if path == "" {
		cfg, err := config.Load(ctx, "")
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("Invalid environment overrides: %v", err)
			result.Suggests = []string{fmt.Sprintf("Check the %s_* environment variables", config.EnvPrefix)}
			return nil, result
		}
		result.Status = "ok"
		result.Message = "No config file, using defaults"
		return cfg, result
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return nil, result
	}
	if err == nil && info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return nil, result
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Loaded %s", path)
	result.Details = []string{
		fmt.Sprintf("Source type: %s", cfg.SourceType),
		fmt.Sprintf("File suffix: %s", cfg.FileSuffix),
		fmt.Sprintf("Compression: %s level %d", cfg.Compression.Codec, cfg.Compression.Level),
	}
	return cfg, result
}

func checkInputs(inputs []string, suffix string) ([]string, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Input Files",
	}

	files, err := parser.ExpandInputs(inputs, suffix)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot expand inputs: %v", err)
		result.Suggests = []string{"Check the input paths exist"}
		return nil, result
	}
	if len(files) == 0 {
		result.Status = "error"
		result.Message = fmt.Sprintf("No *.%s files found", suffix)
		result.Suggests = []string{
			"Check the file suffix (file_suffix in the config)",
			"Directories are searched recursively",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found %d file(s)", len(files))
	result.Details = files
	return files, result
}

func checkDuplicates(files []string, hashContent bool) ([]string, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Duplicate Files",
	}

	kept, dups, err := dataset.DeduplicateFiles(files, hashContent)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot compare files: %v", err)
		return files, result
	}
	if len(dups) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d duplicate file(s) will be dropped", len(dups))
		result.Details = dups
		return kept, result
	}

	result.Status = "ok"
	result.Message = "No duplicate files"
	return kept, result
}

func checkHeaders(files []string) ([]*parser.LogHeader, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Headers",
	}

	headers := make([]*parser.LogHeader, len(files))
	var missing []string
	for i, f := range files {
		h, err := parser.ReadHeaderFile(f)
		if err != nil {
			if errors.Is(err, parser.ErrNoHeader) {
				missing = append(missing, f)
			} else {
				missing = append(missing, fmt.Sprintf("%s: %v", f, err))
			}
			continue
		}
		headers[i] = h
	}

	switch {
	case len(missing) == len(files):
		result.Status = "error"
		result.Message = "No file has a header"
		result.Details = missing
		result.Suggests = []string{
			fmt.Sprintf("A header ends with a %s line within the first %d lines", parser.MarkerRate, parser.MaxHeaderLines),
		}
	case len(missing) > 0:
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d file(s) without header will be skipped", len(missing))
		result.Details = missing
	default:
		result.Status = "ok"
		result.Message = fmt.Sprintf("All %d file(s) have a header", len(files))
	}
	return headers, result
}

func checkSourceType(ctx context.Context, cfg *config.Config, first string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Source Type",
	}

	if st := cfg.Source(); st != parser.SourceUnknown {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Configured: %s", st)
		return result
	}

	detection, err := detector.New().DetectFromFile(ctx, first)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot detect source type of %s", filepath.Base(first))
		result.Details = []string{err.Error()}
		result.Suggests = []string{
			fmt.Sprintf("Pass --source-type (one of %s)", sourceTypeList()),
		}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Detected: %s", detection.Type)
	result.Details = []string{fmt.Sprintf("%s: %s", detection.Strategy, detection.Reason)}
	return result
}

func checkChannels(cfg *config.Config, h *parser.LogHeader) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Processing Channels",
	}

	v := cfg.Variables
	channels := []string{
		v.CO2, v.CellPressure, v.DifferentialPressure, v.EquilibratorTemp,
		v.SST, v.Conductivity, v.Latitude, v.Longitude,
	}
	var missing []string
	for _, c := range channels {
		if c != "" && !h.Has(c) {
			missing = append(missing, c)
		}
	}
	hasStatus := false
	for _, s := range v.Status {
		hasStatus = hasStatus || h.Has(s)
	}
	if !hasStatus {
		missing = append(missing, strings.Join(v.Status, "|"))
	}

	if len(missing) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d channel(s) missing, dependent stages will be skipped", len(missing))
		result.Details = missing
		result.Suggests = []string{"Merge with a dataset carrying these channels, or rename them under variables in the config"}
		return result
	}

	result.Status = "ok"
	result.Message = "All processing channels present"
	return result
}

func sourceTypeList() string {
	names := make([]string, 0, len(parser.SourceTypes()))
	for _, st := range parser.SourceTypes() {
		names = append(names, st.String())
	}
	return strings.Join(names, ", ")
}

func firstHeader(files []string, headers []*parser.LogHeader) *parser.LogHeader {
	for i := range files {
		if headers[i] != nil {
			return headers[i]
		}
	}
	return nil
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, verbose bool) {
	fmt.Fprintln(w, "=== OceanPack Input Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		// Status icon
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before converting.")
		ExitCode = 1
	case warnCount > 0:
		fmt.Fprintln(w, "\nInput is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nInput looks good!")
	}
}
