// Package cli provides the command-line interface for OceanPack.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes args against a fresh root command and returns the exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "oceanpack",
		Short: "Convert and process OceanPack underway CO2 logs",
		Long: `OceanPack reduces the raw logs of an OceanPack underway CO2 system.

It:
  - Converts batches of log files into one time-indexed dataset
  - Merges datasets from different sensors onto a common time axis
  - Derives salinity, equilibrator pressure, pCO2 and fCO2
  - Masks non-operating phases of the analyzer

Settings come from an optional YAML file (--config) and OCEANPACK_*
environment variables. Command flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if g.Verbose && g.Quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return g.BuildLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.Logger != nil {
				_ = g.Logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.ConfigPath, "config", "", "Path to a YAML configuration file")
	flags.BoolVarP(&g.Verbose, "verbose", "v", false, "Log debug diagnostics")
	flags.BoolVarP(&g.Quiet, "quiet", "q", false, "Log warnings and errors only")

	// Add subcommands
	rootCmd.AddCommand(commands.NewConvertCommand(g))
	rootCmd.AddCommand(commands.NewMergeCommand(g))
	rootCmd.AddCommand(commands.NewProcessCommand(g))
	rootCmd.AddCommand(commands.NewDetectCommand(g))
	rootCmd.AddCommand(commands.NewInspectCommand(g))
	rootCmd.AddCommand(commands.NewDiagnoseCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
