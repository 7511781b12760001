package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/detector"
	"github.com/ccollicutt/oceanpack/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output string
	Suffix string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(g *Globals) *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <path>",
		Short: "Detect the source type of log files",
		Long: `Detect which OceanPack source type (Analyzer, NetDI, Stream, Internal) a
log file was written by.

The header of the file is inspected first; when it carries no
distinguishing marker, the names of the parent directories are used. For a
directory the first log file found is inspected.

Example:
  oceanpack detect cruise/analyzer/2024-01-15.log
  oceanpack detect -o json cruise/netdi/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Suffix, "suffix", parser.DefaultSuffix, "File suffix searched for in directories")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, g *Globals, opts *DetectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := parser.ExpandInputs(args, opts.Suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no log files found in %s", args[0])
	}
	logFile := files[0]
	if len(files) > 1 {
		g.logger().Debug("inspecting first file only", zap.String("file", logFile), zap.Int("files", len(files)))
	}

	d := detector.New()
	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	switch opts.Output {
	case "json":
		return outputDetectJSON(cmd.OutOrStdout(), result, logFile)
	case "text":
		return outputDetectText(cmd.OutOrStdout(), result, logFile)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, logFile string) error {
	fmt.Fprintln(w, "=== Source Type Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", logFile)
	fmt.Fprintf(w, "Detected: %s\n", result.Type)
	fmt.Fprintf(w, "Strategy: %s\n", result.Strategy)
	fmt.Fprintf(w, "Reason: %s\n", result.Reason)
	fmt.Fprintln(w)

	if result.Strategy != "header" {
		fmt.Fprintln(w, "Note: the header carried no source marker; the directory name decided.")
		fmt.Fprintln(w, "Pass --source-type to convert if this is wrong.")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "--- Configuration snippet ---")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "source_type: %s\n", result.Type)
	return nil
}

// JSONOutput represents the detect JSON output.
type JSONOutput struct {
	File       string `json:"file"`
	SourceType string `json:"source_type"`
	Strategy   string `json:"strategy"`
	Reason     string `json:"reason"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, logFile string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(JSONOutput{
		File:       logFile,
		SourceType: result.Type.String(),
		Strategy:   result.Strategy,
		Reason:     result.Reason,
	})
}
