package cmd

import (
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// updateSlug is the GitHub repository the binary updates itself from.
const updateSlug = "mesosphere/mcp-gitops"

// newSelfUpdateCmd creates the Cobra command for updating the binary to the
// latest GitHub release.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update mcp-gitops to the latest version",
		Long:  `Downloads the latest release of mcp-gitops from GitHub and replaces the current binary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := rootCmd.Version
			if version == "" || version == "dev" {
				return fmt.Errorf("cannot self-update a development version; install a released build first")
			}

			latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(updateSlug))
			if err != nil {
				return fmt.Errorf("failed to detect latest version: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", updateSlug)
			}

			if latest.LessOrEqual(version) {
				fmt.Fprintf(cmd.OutOrStdout(), "Current version %s is already the latest\n", version)
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("could not locate executable: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updating %s -> %s\n", version, latest.Version())
			if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("failed to update binary: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated to version %s\n", latest.Version())
			return nil
		},
	}
}
