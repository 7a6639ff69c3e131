// Package version prints build metadata.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ewahlberg/pressgang/internal/buildinfo"
)

// Command returns the version sub-command.
func Command(build *buildinfo.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Pressgang %s\n", build.GetVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "Built:    %s\n", build.GetBuildDate())
			fmt.Fprintf(cmd.OutOrStdout(), "Go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
