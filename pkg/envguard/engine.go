package envguard

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/sonemaro/envguard/pkg/dotenv"
	"github.com/sonemaro/envguard/pkg/logger"
	"github.com/sonemaro/envguard/pkg/spec"
)

// Status describes how a schema variable was resolved
type Status string

const (
	StatusOK      Status = "ok"
	StatusDefault Status = "default"
	StatusMissing Status = "missing"
	StatusInvalid Status = "invalid"
	StatusAbsent  Status = "absent"
)

// Result is the outcome of one validation pass. Problems are always
// reported here, whether or not the caller asked for errors to fail the call.
type Result struct {
	Config   Config
	Errors   []string
	Warnings []string
	Problems []error

	statuses map[string]Status
	notices  []notice
}

// Valid reports whether the pass found no problems
func (r Result) Valid() bool {
	return len(r.Problems) == 0
}

// Err returns the problems as a *ValidationError, or nil when valid
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Problems: r.Problems}
}

type notice struct {
	key string
	msg string
	// def is the default text behind a default-value warning
	def *string
}

func defaultNotice(key, def string) notice {
	return notice{key: key, msg: defaultWarning(key, def), def: &def}
}

func defaultWarning(key, def string) string {
	return fmt.Sprintf("Using default value for %s: %s", key, def)
}

// masked renders the notice with a secret default hidden
func (n notice) masked() string {
	if n.def == nil || !IsSecretName(n.key) {
		return n.msg
	}
	return defaultWarning(n.key, MaskValue(*n.def))
}

// Evaluate validates the environment against schema in a single pass.
//
// Variables are resolved in sorted key order. An absent variable takes its
// default (with a warning), is reported missing when required, or is
// omitted. A present variable must validate and, when choices are set,
// parse to one of them. Variables outside the schema pass through as raw
// strings unless opts.Strict is set, in which case each one produces a
// warning and is dropped.
//
// The returned error is reserved for failures other than validation, such
// as a required dotenv file that cannot be read.
func Evaluate(schema spec.Schema, opts Options) (Result, error) {
	log := opts.logger()

	snapshot := opts.store().Snapshot()
	if err := mergeDotenv(snapshot, opts, log); err != nil {
		return Result{}, err
	}

	var (
		cfg      = make(Config, len(schema))
		problems []error
		warnings []notice
		statuses = make(map[string]Status, len(schema))
	)

	for _, key := range schema.Keys() {
		field := schema[key]
		raw, present := snapshot[key]

		if !present {
			switch {
			case field.HasDefault():
				cfg[key] = field.DefaultValue()
				statuses[key] = StatusDefault
				warnings = append(warnings, defaultNotice(key, field.DefaultText()))
			case field.Required():
				problems = append(problems, &MissingError{Key: key})
				statuses[key] = StatusMissing
			default:
				statuses[key] = StatusAbsent
			}
			continue
		}

		if !field.Validate(raw) {
			problems = append(problems, &InvalidError{Key: key, Value: raw, Message: field.Message()})
			statuses[key] = StatusInvalid
			continue
		}

		v, err := field.Parse(raw)
		if err != nil {
			// validators guarantee parsing; a custom item parser may not
			problems = append(problems, &InvalidError{Key: key, Value: raw, Message: field.Message()})
			statuses[key] = StatusInvalid
			continue
		}

		if !field.Allows(v) {
			problems = append(problems, &InvalidError{Key: key, Value: raw, Allowed: field.ChoiceTexts()})
			statuses[key] = StatusInvalid
			continue
		}

		cfg[key] = v
		statuses[key] = StatusOK
		log.Trace(fmt.Sprintf("%s resolved as %s", key, field.Kind()))
	}

	extra := make([]string, 0)
	for key := range snapshot {
		if _, ok := schema[key]; !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	for _, key := range extra {
		if opts.Strict {
			warnings = append(warnings, notice{key: key,
				msg: "Undefined schema for environment variable: " + key})
			continue
		}
		cfg[key] = snapshot[key]
	}

	res := Result{
		Config:   cfg,
		Problems: problems,
		Errors:   messages(problems),
		statuses: statuses,
		notices:  warnings,
	}
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w.msg)
	}

	if opts.Verbose {
		for _, w := range warnings {
			log.WithFields(logger.Fields{"variable": w.key}).Warn(w.msg)
		}
		for _, p := range problems {
			log.WithFields(logger.Fields{"variable": problemKey(p)}).Error(p.Error())
		}
	}

	return res, nil
}

// Clean validates the environment and returns the cleaned configuration.
// When problems are found it returns a *ValidationError, unless
// opts.ContinueOnError is set, in which case the partial configuration is
// returned with a nil error.
func Clean(schema spec.Schema, opts Options) (Config, error) {
	res, err := Evaluate(schema, opts)
	if err != nil {
		return nil, err
	}
	if !res.Valid() && !opts.ContinueOnError {
		return res.Config, res.Err()
	}
	return res.Config, nil
}

// MustClean is like Clean but panics on error
func MustClean(schema spec.Schema, opts Options) Config {
	cfg, err := Clean(schema, opts)
	if err != nil {
		panic(err)
	}
	return cfg
}

// mergeDotenv adds the dotenv file's variables to snapshot. Existing
// variables win unless the options ask for the file to override them.
func mergeDotenv(snapshot map[string]string, opts Options, log logger.Logger) error {
	if opts.Dotenv.Disable {
		return nil
	}

	path := opts.Dotenv.path()
	values, err := dotenv.Read(opts.fs(), path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !opts.Dotenv.Require {
			log.Debug("no dotenv file at " + path)
			return nil
		}
		return fmt.Errorf("load dotenv: %w", err)
	}

	log.WithFields(logger.Fields{"path": path, "count": len(values)}).Debug("loaded dotenv file")

	for k, v := range values {
		if _, exists := snapshot[k]; exists && !opts.Dotenv.Override {
			continue
		}
		snapshot[k] = v
	}
	return nil
}

func problemKey(err error) string {
	var missing *MissingError
	if errors.As(err, &missing) {
		return missing.Key
	}
	var invalid *InvalidError
	if errors.As(err, &invalid) {
		return invalid.Key
	}
	return ""
}
