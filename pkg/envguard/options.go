package envguard

import (
	"io"
	"os"

	"github.com/sonemaro/envguard/pkg/env"
	"github.com/sonemaro/envguard/pkg/logger"
	"github.com/spf13/afero"
)

// DefaultDotenvPath is the dotenv file read when DotenvOptions.Path is empty
const DefaultDotenvPath = ".env"

// DotenvOptions controls the dotenv file merged into the environment
// snapshot before validation
type DotenvOptions struct {
	// Path of the file; defaults to ".env"
	Path string

	// Override lets file values replace variables already in the environment
	Override bool

	// Require makes a missing file an error instead of being ignored
	Require bool

	// Disable skips the dotenv file entirely
	Disable bool
}

// Options configures a validation run. The zero value validates the process
// environment plus ./.env in non-strict mode and fails on any problem.
type Options struct {
	// Env is the environment to validate; defaults to the process environment
	Env env.Store

	// Fs is the filesystem the dotenv file is read from; defaults to the OS
	Fs afero.Fs

	// Strict excludes variables not named in the schema and warns about them
	Strict bool

	// Verbose logs every warning and error through Logger
	Verbose bool

	// ContinueOnError makes Clean return the partial configuration instead
	// of a ValidationError
	ContinueOnError bool

	Dotenv DotenvOptions

	// Logger receives verbose output; defaults to a console logger on stderr
	Logger logger.Logger

	// Output is where PrintStatus writes; defaults to stdout
	Output io.Writer

	// NoColor disables colored status output
	NoColor bool

	// ShowSecrets prints values of secret-looking variables unmasked
	ShowSecrets bool
}

func (o Options) store() env.Store {
	if o.Env == nil {
		return env.OS()
	}
	return o.Env
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

func (o Options) logger() logger.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if !o.Verbose {
		return logger.Nop()
	}
	return logger.NewLogger(logger.Config{Format: logger.FormatConsole})
}

func (o Options) output() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

func (o DotenvOptions) path() string {
	if o.Path == "" {
		return DefaultDotenvPath
	}
	return o.Path
}
