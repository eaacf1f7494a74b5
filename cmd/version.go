package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/s0up4200/engagevoice/engagevoice"
)

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{"skipInit": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "engagevoice %s\n", appVersion)
		fmt.Fprintf(out, "Built:      %s\n", buildTime)
		fmt.Fprintf(out, "Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "User-Agent: %s\n", engagevoice.UserAgent())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
