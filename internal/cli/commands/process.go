package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/export"
	"github.com/ccollicutt/oceanpack/pkg/processor"
)

// ProcessOptions holds command-line options for the process command.
type ProcessOptions struct {
	OutputOptions
	Method string
	Air    string
	Shift  config.Duration
	Stages []string
}

// NewProcessCommand creates the process command.
func NewProcessCommand(g *Globals) *cobra.Command {
	opts := &ProcessOptions{}

	cmd := &cobra.Command{
		Use:   "process <file.opds>",
		Short: "Derive pCO2, fCO2 and salinity from a dataset",
		Long: `Run the processing stages over a dataset:

  coordinates             DDMM.MMMM to decimal degrees
  salinity                practical salinity from conductivity
  equilibrator_pressure   cell pressure minus smoothed differential pressure
  pco2                    xCO2 to pCO2 at equilibrator temperature
  fco2                    fugacity at equilibrator temperature
  temperature_correction  pCO2 and fCO2 at sea surface temperature
  mask                    blank CO2 values during non-operating phases

Stages whose input variables are missing are skipped with a warning. Stages
named with --stage are required and fail instead.

Without --output the input file is rewritten in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "output", "o", "", "Output dataset file (default: overwrite the input)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (opds|xlsx), default from the output extension")
	cmd.Flags().StringVar(&opts.Method, "method", "", "Temperature correction method (Takahashi2009|Takahashi1993)")
	cmd.Flags().StringVar(&opts.Air, "air", "", "CO2 measured in wet or dry air")
	cmd.Flags().Var(&opts.Shift, "shift", "Masking extension past each non-operating phase (e.g. 20min)")
	cmd.Flags().StringSliceVar(&opts.Stages, "stage", nil, "Run specific stage(s) only (can be repeated)")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string, g *Globals, opts *ProcessOptions) error {
	input := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	if opts.Method != "" {
		cfg.TemperatureCorrectionMethod = opts.Method
	}
	if opts.Air != "" {
		cfg.AirMode = opts.Air
	}
	if cmd.Flags().Changed("shift") {
		cfg.MaskShift = opts.Shift
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	p, err := processor.NewProcessor(cfg,
		processor.WithLogger(g.logger()),
		processor.WithStageFilter(opts.Stages))
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	// Load materializes the whole file, so writing back to input is safe.
	ds, err := export.Load(ctx, input)
	if err != nil {
		return err
	}
	result, err := p.Process(ctx, ds)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	out := opts.OutputOptions
	if out.Path == "" {
		out.Path = input
	}
	if err := g.writeDataset(ctx, cfg, ds, out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Processed %s into %s\n", input, out.Path)
	for _, s := range result.Stages {
		switch {
		case s.Skipped:
			fmt.Fprintf(w, "  [SKIP] %s (missing %v)\n", s.Name, s.Missing)
		case s.Masked != nil:
			fmt.Fprintf(w, "  [DONE] %s (%d variable(s) masked)\n", s.Name, len(s.Masked))
		default:
			fmt.Fprintf(w, "  [DONE] %s %v\n", s.Name, s.Provided)
		}
	}
	return nil
}
