package commands

import (
	"github.com/spf13/cobra"
)

func newStatusCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the environment status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := newApp(cmd, opts)
			defer application.Shutdown()

			return application.Status()
		},
	}
}
