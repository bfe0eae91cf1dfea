package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the Cobra command for displaying build information.
func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Long:  "Show the mcp-gitops version together with the Go runtime and platform it was built with.",
		Run: func(cmd *cobra.Command, args []string) {
			// rootCmd.Version is injected by main at build time.
			if short {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
				return
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mcp-gitops %s (%s, %s/%s)\n",
				rootCmd.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version string")

	return cmd
}
