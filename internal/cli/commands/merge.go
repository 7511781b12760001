package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/oceanpack/pkg/config"
	"github.com/ccollicutt/oceanpack/pkg/dataset"
	"github.com/ccollicutt/oceanpack/pkg/export"
)

// MergeOptions holds command-line options for the merge command.
type MergeOptions struct {
	OutputOptions
	Tolerance config.Duration
	KeepAll   bool
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(g *Globals) *cobra.Command {
	opts := &MergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge <file.opds>...",
		Short: "Merge datasets onto the time axis of the first one",
		Long: `Merge independently converted datasets, for example analyzer and NetDI data
of the same cruise.

Every dataset after the first is aligned to the first dataset's timestamps
by nearest match within the tolerance; unmatched timestamps become missing
values. Variables already present in an earlier dataset are dropped. Unless
--keep-all is set, the result is restricted to the standard variable list
and the channels named under variables in the configuration.

Example:
  oceanpack merge analyzer.opds netdi.opds -o merged.opds --tolerance 2min`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Path, "output", "o", "", "Output dataset file")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Output format (opds|xlsx), default from the output extension")
	cmd.Flags().Var(&opts.Tolerance, "tolerance", "Maximum time distance of a match (e.g. 2min, 30s)")
	cmd.Flags().BoolVar(&opts.KeepAll, "keep-all", false, "Keep all variables instead of the standard list")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// allowList extends the standard variable list with the configured
// processing channels, so a merged dataset can still be processed.
func allowList(cfg *config.Config) []string {
	v := cfg.Variables
	allow := append([]string(nil), dataset.DefaultVariables...)
	allow = append(allow, v.CO2, v.CellPressure, v.DifferentialPressure, v.EquilibratorTemp,
		v.SST, v.Conductivity, v.Salinity, v.Latitude, v.Longitude)
	return append(allow, v.Status...)
}

func runMerge(cmd *cobra.Command, args []string, g *Globals, opts *MergeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.MergeTolerance = opts.Tolerance
	}
	if opts.KeepAll {
		cfg.KeepAllVariables = true
	}

	inputs := make([]*dataset.Dataset, 0, len(args))
	for _, path := range args {
		ds, err := export.Load(ctx, path)
		if err != nil {
			return err
		}
		inputs = append(inputs, ds)
	}

	m := dataset.NewMerger(
		dataset.WithMergeLogger(g.logger()),
		dataset.WithTolerance(cfg.MergeTolerance.Std()),
	)
	merged, report, err := m.Merge(ctx, inputs)
	if err != nil {
		return fmt.Errorf("merging datasets: %w", err)
	}

	if !cfg.KeepAllVariables {
		if dropped := dataset.SelectVariables(merged, allowList(cfg)); len(dropped) > 0 {
			g.logger().Info("dropped variables outside the standard list", zap.Strings("variables", dropped))
		}
	}

	if err := g.writeDataset(ctx, cfg, merged, opts.OutputOptions); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Merged %d dataset(s) into %s\n", len(inputs), opts.Path)
	for i, path := range args {
		fmt.Fprintf(out, "  %s: %d/%d timestamps matched", path, report.Matched[i], merged.Len())
		if n := len(report.DroppedVariables[i]); n > 0 {
			fmt.Fprintf(out, ", %d duplicate variable(s) dropped", n)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  Variables: %d\n", len(merged.Names()))
	return nil
}
