package commands

import (
	"github.com/spf13/cobra"
)

func newReportCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "report [flags]",
		Short: "Print a structured validation report",
		Long: `Print the validation report of the environment in the format selected
with --output, including per-variable status and statistics. The command
succeeds even when the environment is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := newApp(cmd, opts)
			defer application.Shutdown()

			return application.Report()
		},
	}
}
