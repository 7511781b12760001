package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/export"
	"github.com/ccollicutt/oceanpack/pkg/output"
	"github.com/ccollicutt/oceanpack/pkg/qc"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	Output string
	MaxGap config.Duration
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(g *Globals) *cobra.Command {
	opts := &InspectOptions{MaxGap: config.Duration(qc.DefaultMaxGap)}

	cmd := &cobra.Command{
		Use:   "inspect <file.opds>",
		Short: "Summarize a dataset file",
		Long: `Print a summary of a dataset: source type, time extent, row count,
sampling interval, per-variable statistics, instrument status counts and
time gaps longer than --max-gap.

Exit codes:
  0 - No gaps
  1 - Gaps longer than --max-gap found
  2 - Runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().Var(&opts.MaxGap, "max-gap", "Report spacings longer than this (e.g. 5min)")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, g *Globals, opts *InspectOptions) error {
	path := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: g.Verbose,
		Quiet:   g.Quiet,
	})
	if err != nil {
		return err
	}

	ds, err := export.Load(ctx, path)
	if err != nil {
		return err
	}

	report := output.NewReport(ds, output.ReportOptions{
		File:       path,
		StatusVars: cfg.Variables.Status,
		MaxGap:     opts.MaxGap.Std(),
	})
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if report.HasGaps() {
		ExitCode = 1
	}
	return nil
}
