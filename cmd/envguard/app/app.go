/*
Package app provides the application container for the envguard command. It
wires the loaded configuration to the schema loader, the validation engine,
the output formatter and the worker pool, and handles graceful shutdown.

Usage:

	application := app.New(&cfg)
	defer application.Shutdown()

	valid, err := application.Check(nil)
*/
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sonemaro/envguard/internal/config"
	"github.com/sonemaro/envguard/internal/schemafile"
	"github.com/sonemaro/envguard/pkg/dotenv"
	"github.com/sonemaro/envguard/pkg/env"
	"github.com/sonemaro/envguard/pkg/envguard"
	"github.com/sonemaro/envguard/pkg/logger"
	"github.com/sonemaro/envguard/pkg/output"
	"github.com/sonemaro/envguard/pkg/spec"
	"github.com/sonemaro/envguard/pkg/worker"
	"github.com/spf13/afero"
)

// EnvironmentSource names the check of the process environment
const EnvironmentSource = "environment"

// ErrCheckFailed is returned by commands when a checked environment is invalid
var ErrCheckFailed = errors.New("environment check failed")

// Option customizes an App
type Option func(*App)

// WithFs sets the filesystem schemas, dotenv files and example files use
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithEnv sets the environment store that is validated
func WithEnv(store env.Store) Option {
	return func(a *App) { a.env = store }
}

// WithOutput sets where command output is written
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithLogger replaces the logger built from the configuration
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs
	env    env.Store
	stdout io.Writer

	pool worker.Pool

	ctx      context.Context
	cancel   context.CancelFunc
	signals  chan os.Signal
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config:  cfg,
		fs:      afero.NewOsFs(),
		env:     env.OS(),
		stdout:  os.Stdout,
		ctx:     ctx,
		cancel:  cancel,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.initLogger()
	}

	a.setupSignalHandling()

	a.log.WithFields(logger.Fields{
		"schema":  cfg.Schema,
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return a
}

// initLogger initializes the application logger
func (a *App) initLogger() {
	a.log = logger.NewLogger(logger.Config{
		Verbosity: a.config.Verbose,
		Format:    logger.FormatConsole,
	})

	a.log.WithFields(logger.Fields{
		"verbosity": a.config.Verbose,
	}).Debug("Logger initialized")
}

// LoadSchema reads the configured schema document
func (a *App) LoadSchema() (spec.Schema, error) {
	a.log.WithFields(logger.Fields{
		"path": a.config.Schema,
	}).Debug("Loading schema")

	schema, err := schemafile.Load(a.fs, a.config.Schema)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to load schema")
		return nil, err
	}

	a.log.WithFields(logger.Fields{
		"variables": len(schema),
	}).Debug("Schema loaded")
	return schema, nil
}

// Check validates the process environment, or each dotenv file layered over
// it, and writes one report per target in the configured format. It reports
// whether every target is valid.
func (a *App) Check(files []string) (valid bool, err error) {
	defer a.recoverPanic(&err)

	schema, err := a.LoadSchema()
	if err != nil {
		return false, err
	}

	checks, err := a.runChecks(schema, files)
	if err != nil {
		return false, err
	}

	out, err := a.formatter(false).FormatChecks(checks)
	if err != nil {
		return false, fmt.Errorf("output formatting failed: %w", err)
	}
	if err := a.writeOutput(out); err != nil {
		return false, err
	}

	valid = true
	for _, c := range checks {
		if !c.Report.Valid {
			valid = false
			a.log.WithFields(logger.Fields{
				"source": c.Source,
				"errors": len(c.Report.Errors),
			}).Warn("Environment is invalid")
		}
	}
	return valid, nil
}

// Report writes the structured report of the process environment, with
// statistics, in the configured format
func (a *App) Report() (err error) {
	defer a.recoverPanic(&err)

	schema, err := a.LoadSchema()
	if err != nil {
		return err
	}

	report, err := envguard.BuildReport(schema, a.options())
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out, err := a.formatter(true).Format(report)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}
	return a.writeOutput(out)
}

// Status prints the status report of the process environment
func (a *App) Status() error {
	schema, err := a.LoadSchema()
	if err != nil {
		return err
	}
	return envguard.FprintStatus(a.stdout, schema, a.options())
}

// Generate writes an example dotenv file for the schema
func (a *App) Generate(path string) error {
	if path == "" {
		path = a.config.Example
	}

	schema, err := a.LoadSchema()
	if err != nil {
		return err
	}

	if err := dotenv.WriteExample(a.fs, schema, path); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  path,
		}).Error("Failed to write example file")
		return err
	}

	a.log.WithFields(logger.Fields{
		"path":      path,
		"variables": len(schema),
	}).Info("Example file written")
	_, err = fmt.Fprintf(a.stdout, "Wrote %s\n", path)
	return err
}

// Shutdown performs a graceful shutdown of the application
func (a *App) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.log.Debug("Initiating graceful shutdown")

	a.stopSignalHandling()
	a.cancel()

	if a.pool != nil {
		if err := a.pool.Stop(); err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Failed to stop worker pool")
			return err
		}
	}

	a.log.Debug("Shutdown complete")
	return nil
}

// target is one environment validated by Check
type target struct {
	source string
	file   string
}

func (a *App) runChecks(schema spec.Schema, files []string) ([]output.Check, error) {
	targets := []target{{source: EnvironmentSource}}
	if len(files) > 0 {
		targets = targets[:0]
		for _, f := range files {
			targets = append(targets, target{source: f, file: f})
		}
	}

	workers := min(a.config.Workers, len(targets))
	if workers < 1 {
		workers = 1
	}
	pool, err := worker.NewPool(worker.Config{
		Workers:   workers,
		RateLimit: a.config.RateLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	a.mu.Lock()
	a.pool = pool
	a.mu.Unlock()

	if err := pool.Start(a.ctx); err != nil {
		return nil, err
	}

	a.log.WithFields(logger.Fields{
		"targets": len(targets),
		"workers": workers,
	}).Info("Starting environment checks")

	for i, t := range targets {
		err := pool.Submit(worker.Task{
			ID: i,
			Execute: func(ctx context.Context) (worker.Result, error) {
				report, err := a.checkTarget(schema, t)
				if err != nil {
					return worker.Result{}, err
				}
				return worker.Result{Data: output.Check{Source: t.source, Report: report}}, nil
			},
		})
		if err != nil {
			_ = pool.Stop()
			return nil, fmt.Errorf("failed to queue check of %s: %w", t.source, err)
		}
	}

	results, err := pool.Wait()
	if err != nil {
		return nil, err
	}

	checks := make([]output.Check, 0, len(results))
	for _, r := range results {
		checks = append(checks, r.Data.(output.Check))
	}

	stats := pool.GetStats()
	a.log.WithFields(logger.Fields{
		"completed": stats.CompletedTasks,
		"failed":    stats.FailedTasks,
		"duration":  stats.Uptime,
	}).Debug("Environment checks completed")

	return checks, nil
}

// checkTarget builds the report of one target. Dotenv files are layered
// over a copy of the environment so the process environment is never
// modified.
func (a *App) checkTarget(schema spec.Schema, t target) (*envguard.Report, error) {
	opts := a.options()
	if t.file != "" {
		values, err := dotenv.Read(a.fs, t.file)
		if err != nil {
			return nil, err
		}
		store := env.NewMap(a.env.Snapshot())
		for k, v := range values {
			if err := store.Set(k, v); err != nil {
				return nil, fmt.Errorf("%s: %w", t.file, err)
			}
		}
		opts.Env = store
		opts.Dotenv.Disable = true
	}

	a.log.WithFields(logger.Fields{
		"source": t.source,
	}).Debug("Checking environment")

	return envguard.BuildReport(schema, opts)
}

func (a *App) options() envguard.Options {
	return envguard.Options{
		Env:    a.env,
		Fs:     a.fs,
		Strict: a.config.Strict,
		Dotenv: envguard.DotenvOptions{
			Path:    a.config.Dotenv,
			Disable: a.config.Dotenv == "",
		},
		Verbose:     a.config.Verbose > 0,
		Logger:      a.log,
		Output:      a.stdout,
		NoColor:     a.config.NoColor,
		ShowSecrets: a.config.ShowSecrets,
	}
}

func (a *App) formatter(withStats bool) output.Formatter {
	return output.NewFormatter(output.Config{
		Format:      output.Format(a.config.Output),
		WithStats:   withStats,
		WithColors:  !a.config.NoColor && envguard.IsTerminal(a.stdout),
		ShowSecrets: a.config.ShowSecrets,
	}, a.log)
}

// writeOutput writes the formatted output to the configured writer
func (a *App) writeOutput(content string) error {
	if _, err := fmt.Fprintln(a.stdout, content); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to write output")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (a *App) recoverPanic(err *error) {
	if r := recover(); r != nil {
		a.log.WithFields(logger.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Recovered from panic")
		*err = fmt.Errorf("internal error: %v", r)
	}
}
