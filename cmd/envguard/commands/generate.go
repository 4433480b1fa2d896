package commands

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Write an example dotenv file for the schema",
		Long: `Write an example dotenv file listing every schema variable. Optional
variables are commented out; defaults, choices or the variable type are noted
after each entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application := newApp(cmd, opts)
			defer application.Shutdown()

			return application.Generate(file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "",
		"example file to write (default: .env.example)")

	return cmd
}
