package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd wires the widgetdb commands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "widgetdb",
		Short:         "Z-ordered widget store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newBenchCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
