package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate an OceanPack configuration file without processing data.

Checks:
  - YAML syntax
  - Source type, air mode and correction method names
  - Non-numeric policy
  - Compression codec and level
  - Environment overrides (OCEANPACK_*)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Report what we found
	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Source type:      %s\n", cfg.SourceType)
	fmt.Fprintf(w, "  File suffix:      %s\n", cfg.FileSuffix)
	fmt.Fprintf(w, "  Non-numeric:      %s\n", cfg.NonNumeric)
	fmt.Fprintf(w, "  Merge tolerance:  %s\n", cfg.MergeTolerance)
	fmt.Fprintf(w, "  Mask shift:       %s\n", cfg.MaskShift)
	fmt.Fprintf(w, "  Correction:       %s\n", cfg.Method())
	fmt.Fprintf(w, "  Air mode:         %s\n", cfg.Air())
	fmt.Fprintf(w, "  Compression:      %s level %d\n", cfg.Compression.Codec, cfg.Compression.Level)

	v := cfg.Variables
	fmt.Fprintf(w, "\nVariables:\n")
	fmt.Fprintf(w, "  CO2:              %s\n", v.CO2)
	fmt.Fprintf(w, "  Cell pressure:    %s\n", v.CellPressure)
	fmt.Fprintf(w, "  Diff. pressure:   %s\n", v.DifferentialPressure)
	fmt.Fprintf(w, "  Equ. temperature: %s\n", v.EquilibratorTemp)
	fmt.Fprintf(w, "  SST:              %s\n", v.SST)
	fmt.Fprintf(w, "  Conductivity:     %s\n", v.Conductivity)
	fmt.Fprintf(w, "  Salinity:         %s\n", v.Salinity)
	fmt.Fprintf(w, "  Status:           %v\n", v.Status)
	fmt.Fprintf(w, "  Position:         %s, %s\n", v.Latitude, v.Longitude)

	return nil
}
