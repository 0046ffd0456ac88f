// Package commands holds the renthub command line.
package commands

import (
	"github.com/spf13/cobra"

	"renthub/internal/config"
)

// RootCmd runs serve when invoked without a subcommand.
func RootCmd() *cobra.Command {
	serveCmd := ServeCmd()

	root := &cobra.Command{
		Use:           "renthub",
		Short:         "Rental listing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.Load()
		},
		RunE: serveCmd.RunE,
	}
	root.Flags().AddFlagSet(serveCmd.Flags())

	root.AddCommand(serveCmd, IndexesCmd())
	return root
}
