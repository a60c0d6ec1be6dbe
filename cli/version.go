package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version of the current build. overridden by the build system.
// see "Makefile" for more information
var Version string

// versionCmd prints the version of the binary
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if Version == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Version information not available")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "labsearch version %s\n", Version)
			return nil
		},
	}
}
