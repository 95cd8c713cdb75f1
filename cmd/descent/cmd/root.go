package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "descent",
		Short:         "descent fits linear models with first-order descent algorithms.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(
		fitCmd(),
		versionCmd(),
	)

	return cmd
}
