/*
Package commands implements the CLI command structure for envguard. It
provides the root command and the check, report, status, generate and
version subcommands.
*/
package commands

import (
	"fmt"

	"github.com/sonemaro/envguard/cmd/envguard/app"
	"github.com/sonemaro/envguard/internal/config"
	"github.com/sonemaro/envguard/pkg/logger"
	"github.com/sonemaro/envguard/pkg/output"
	"github.com/spf13/cobra"
)

// Options holds command-line options that apply to all commands
type Options struct {
	Config *config.Config
	Logger logger.Logger

	Schema      string
	Dotenv      string
	Output      string
	Strict      bool
	NoColor     bool
	ShowSecrets bool
	Verbose     int

	// AppOptions are passed to every application instance
	AppOptions []app.Option
}

// NewRootCommand creates the root command for the application
func NewRootCommand(appOpts ...app.Option) *cobra.Command {
	opts := &Options{
		AppOptions: appOpts,
	}

	rootCmd := &cobra.Command{
		Use:   "envguard [command] [flags]",
		Short: "Environment variable schema validator",
		Long: `envguard validates environment variables against a declarative schema.

It reads a schema document (YAML or JSON), checks the process environment or
dotenv files against it, reports missing and invalid variables, and generates
example files documenting every variable.

Configuration is also read from ENVGUARD_* environment variables; flags take
precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeCommand(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags that apply to all commands
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.Schema, "schema", "s", config.DefaultSchemaFile,
		"schema document (.yaml, .yml or .json)")
	flags.StringVar(&opts.Dotenv, "dotenv", config.DefaultDotenvFile,
		"dotenv file merged into the environment (empty to disable)")
	flags.StringVarP(&opts.Output, "output", "o", string(output.FormatText),
		"output format: text|json|yaml")
	flags.BoolVar(&opts.Strict, "strict", false,
		"report variables that are not in the schema")
	flags.BoolVar(&opts.NoColor, "no-color", false,
		"disable colored output")
	flags.BoolVar(&opts.ShowSecrets, "show-secrets", false,
		"print secret values unmasked")
	flags.CountVarP(&opts.Verbose, "verbose", "v",
		"verbose output (can be used multiple times)")

	// Add commands
	rootCmd.AddCommand(
		newCheckCommand(opts),
		newReportCommand(opts),
		newStatusCommand(opts),
		newGenerateCommand(opts),
		newVersionCommand(opts),
	)

	return rootCmd
}

// initializeCommand loads the configuration and applies flag overrides
func initializeCommand(cmd *cobra.Command, opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override config with command line flags
	flags := cmd.Flags()
	if flags.Changed("schema") {
		cfg.Schema = opts.Schema
	}
	if flags.Changed("dotenv") {
		cfg.Dotenv = opts.Dotenv
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.Strict
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.NoColor
	}
	if flags.Changed("show-secrets") {
		cfg.ShowSecrets = opts.ShowSecrets
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.Verbose
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewLogger(logger.Config{
		Verbosity: cfg.Verbose,
		Format:    logger.FormatConsole,
		Output:    cmd.ErrOrStderr(),
	})
	log.WithFields(logger.Fields{
		"command": cmd.Name(),
		"config":  cfg.String(),
	}).Debug("Initializing command")

	opts.Config = &cfg
	opts.Logger = log
	return nil
}

// newApp builds the application for a command run. AppOptions are applied
// last and may replace the output or logger.
func newApp(cmd *cobra.Command, opts *Options) *app.App {
	appOpts := []app.Option{app.WithOutput(cmd.OutOrStdout())}
	if opts.Logger != nil {
		appOpts = append(appOpts, app.WithLogger(opts.Logger))
	}
	appOpts = append(appOpts, opts.AppOptions...)
	return app.New(opts.Config, appOpts...)
}
