package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
)

// AttrConversionID identifies the conversion run that produced a dataset.
const AttrConversionID = "conversion_id"

// ConvertOptions holds command-line options for the convert command.
type ConvertOptions struct {
	OutputOptions
	SourceType     string
	KeepNonNumeric bool
	HashContent    bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(g *Globals) *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Convert raw log files into a dataset file",
		Long: `Convert OceanPack log files into one time-indexed dataset.

Each path is a log file, a directory searched recursively for files with the
configured suffix, or a glob pattern. Duplicate files are dropped, files
without a header are skipped with a warning, and rows are merged in time
order with the first occurrence of a timestamp winning.

The source type is detected from the first file unless --source-type is set.

Exit codes:
  0 - Dataset written
  1 - Dataset written, but files were skipped or columns dropped
  2 - Configuration or runtime error (no output file is written)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "output", "o", "", "Output dataset file")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (opds|xlsx), default from the output extension")
	cmd.Flags().StringVar(&opts.SourceType, "source-type", "", "Source type (Analyzer|NetDI|Stream|Internal|auto)")
	cmd.Flags().BoolVar(&opts.KeepNonNumeric, "keep-non-numeric", false, "Keep non-numeric columns as text instead of dropping them")
	cmd.Flags().BoolVar(&opts.HashContent, "hash-content", false, "Compare file content when dropping duplicate files")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, g *Globals, opts *ConvertOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	if opts.SourceType != "" {
		cfg.SourceType = opts.SourceType
	}
	if opts.KeepNonNumeric {
		cfg.NonNumeric = dataset.CoerceKeep.String()
	}
	if opts.HashContent {
		cfg.HashContent = true
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	start := time.Now()
	a := dataset.NewAssembler(
		dataset.WithLogger(g.logger()),
		dataset.WithSuffix(cfg.FileSuffix),
		dataset.WithDeduplication(cfg.DeduplicateFiles),
		dataset.WithContentHash(cfg.HashContent),
		dataset.WithCoercionPolicy(cfg.Coercion()),
		dataset.WithSourceType(cfg.Source()),
	)
	ds, report, err := a.Assemble(ctx, args)
	if err != nil {
		return fmt.Errorf("assembling dataset: %w", err)
	}
	ds.Attrs[AttrConversionID] = uuid.NewString()

	if err := g.writeDataset(ctx, cfg, ds, opts.OutputOptions); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Converted %d file(s) into %s\n", len(report.Files), opts.Path)
	fmt.Fprintf(out, "  Source type: %s\n", report.SourceType)
	if report.Detection != nil {
		fmt.Fprintf(out, "  Detected by: %s (%s)\n", report.Detection.Strategy, report.Detection.Reason)
	}
	fmt.Fprintf(out, "  Rows:        %d\n", ds.Len())
	fmt.Fprintf(out, "  Variables:   %d\n", len(ds.Names()))
	fmt.Fprintf(out, "  Duration:    %s\n", time.Since(start).Round(time.Millisecond))
	if len(report.DuplicateFiles) > 0 {
		fmt.Fprintf(out, "  Duplicate files dropped: %d\n", len(report.DuplicateFiles))
	}
	if len(report.SkippedFiles) > 0 {
		fmt.Fprintf(out, "  Files without header skipped: %d\n", len(report.SkippedFiles))
	}
	if len(report.DroppedColumns) > 0 {
		fmt.Fprintf(out, "  Non-numeric columns dropped: %v\n", report.DroppedColumns)
	}

	if report.HasWarnings() {
		ExitCode = 1
	}
	return nil
}
