package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/oceanpack/pkg/export"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the OceanPack version and the dataset file format it writes.",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "oceanpack %s\n", Version)
			fmt.Fprintf(w, "  Dataset format: %s v%d\n", export.Magic, export.Version)
			fmt.Fprintf(w, "  Go:             %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
