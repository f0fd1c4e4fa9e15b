package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogapp",
		Short:         "Blog REST API",
		SilenceUsage:  true,
		SilenceErrors: false,
		// running without a subcommand starts the server
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newIndexesCmd(),
		newCleanupCmd(),
	)
	return root
}
