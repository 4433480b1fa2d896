package commands

import (
	"github.com/sonemaro/envguard/cmd/envguard/app"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	*Options
	envFiles  []string
	workers   int
	rateLimit int
}

func newCheckCommand(opts *Options) *cobra.Command {
	co := &checkOptions{
		Options: opts,
	}

	cmd := &cobra.Command{
		Use:   "check [flags]",
		Short: "Validate the environment against the schema",
		Long: `Validate the process environment, merged with the dotenv file, against the
schema. With --env-file, each file is layered over the process environment and
checked on its own; files are checked concurrently.

Exits with status 1 when any checked environment is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				co.Config.Workers = co.workers
			}
			if cmd.Flags().Changed("rate-limit") {
				co.Config.RateLimit = co.rateLimit
			}
			if err := co.Config.Validate(); err != nil {
				return err
			}
			return runCheck(cmd, co)
		},
	}

	cmd.Flags().StringArrayVarP(&co.envFiles, "env-file", "e", nil,
		"dotenv file to check (can be specified multiple times)")
	cmd.Flags().IntVarP(&co.workers, "workers", "w", 0,
		"number of files checked concurrently (default: number of CPUs)")
	cmd.Flags().IntVarP(&co.rateLimit, "rate-limit", "r", 0,
		"maximum checks started per second (0 for unlimited)")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	application := newApp(cmd, opts.Options)
	defer application.Shutdown()

	valid, err := application.Check(opts.envFiles)
	if err != nil {
		return err
	}
	if !valid {
		return app.ErrCheckFailed
	}
	return nil
}
