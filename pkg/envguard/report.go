package envguard

import (
	"errors"
	"strings"

	"github.com/sonemaro/envguard/pkg/spec"
)

// Test validates the environment and returns the problem descriptions, or
// nil when the environment is valid. The error is only set for failures
// other than validation.
func Test(schema spec.Schema, opts Options) ([]string, error) {
	opts.ContinueOnError = false

	res, err := Evaluate(schema, opts)
	if err != nil {
		return nil, err
	}
	return res.Errors, nil
}

// VariableStatus describes one schema variable in a Report. Required is
// false for variables that have a default.
type VariableStatus struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     spec.Kind `json:"kind" yaml:"kind"`
	Required bool      `json:"required" yaml:"required"`
	Status   Status    `json:"status" yaml:"status"`
	Value    any       `json:"value,omitempty" yaml:"value,omitempty"`
}

// Report is the structured outcome of a validation pass
type Report struct {
	Valid     bool             `json:"valid" yaml:"valid"`
	Errors    []string         `json:"errors" yaml:"errors"`
	Warnings  []string         `json:"warnings" yaml:"warnings"`
	Config    Config           `json:"config" yaml:"config"`
	Variables []VariableStatus `json:"variables" yaml:"variables"`

	problems []error
	notices  []notice
}

// Problems returns the typed errors behind Errors
func (r *Report) Problems() []error {
	return append([]error(nil), r.problems...)
}

// BuildReport validates the environment and describes the outcome. It never
// fails on validation problems; those are listed in the report. Verbose
// logging is turned off for the run.
func BuildReport(schema spec.Schema, opts Options) (*Report, error) {
	opts.ContinueOnError = true
	opts.Verbose = false

	res, err := Evaluate(schema, opts)
	if err != nil {
		return nil, err
	}

	problems := append([]error(nil), res.Problems...)
	statuses := res.statuses

	// A required variable without default that is neither in the config nor
	// already reported is missing.
	reported := make(map[string]bool, len(problems))
	for _, p := range problems {
		reported[problemKey(p)] = true
	}
	for _, key := range schema.Keys() {
		field := schema[key]
		if _, ok := res.Config[key]; ok || field.HasDefault() || !field.Required() || reported[key] {
			continue
		}
		problems = append(problems, &MissingError{Key: key})
		statuses[key] = StatusMissing
	}

	r := &Report{
		Valid:     len(problems) == 0,
		Errors:    messages(problems),
		Warnings:  res.Warnings,
		Config:    res.Config,
		Variables: make([]VariableStatus, 0, len(schema)),
		problems:  problems,
		notices:   res.notices,
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}

	for _, key := range schema.Keys() {
		field := schema[key]
		r.Variables = append(r.Variables, VariableStatus{
			Name:     key,
			Kind:     field.Kind(),
			Required: field.Required() && !field.HasDefault(),
			Status:   statuses[key],
			Value:    res.Config[key],
		})
	}

	return r, nil
}

// Redacted returns a copy of the report in which values of secret-looking
// variables are masked, including inside error messages.
func (r *Report) Redacted() *Report {
	cp := *r

	cp.Config = make(Config, len(r.Config))
	for k, v := range r.Config {
		if IsSecretName(k) && v != nil {
			v = MaskValue(formatValue(v))
		}
		cp.Config[k] = v
	}

	cp.Variables = make([]VariableStatus, len(r.Variables))
	for i, vs := range r.Variables {
		if IsSecretName(vs.Name) && vs.Value != nil {
			vs.Value = MaskValue(formatValue(vs.Value))
		}
		cp.Variables[i] = vs
	}

	cp.problems = make([]error, len(r.problems))
	for i, p := range r.problems {
		var invalid *InvalidError
		if errors.As(p, &invalid) && IsSecretName(invalid.Key) {
			masked := *invalid
			masked.Value = MaskValue(invalid.Value)
			p = &masked
		}
		cp.problems[i] = p
	}
	cp.Errors = messages(cp.problems)
	if cp.Errors == nil {
		cp.Errors = []string{}
	}
	cp.Warnings = append([]string{}, r.Warnings...)
	if len(r.notices) == len(r.Warnings) {
		for i, n := range r.notices {
			cp.Warnings[i] = n.masked()
		}
	}

	return &cp
}

var secretMarkers = []string{"SECRET", "PASSWORD", "TOKEN", "KEY"}

// IsSecretName reports whether a variable name suggests a credential
func IsSecretName(name string) bool {
	upper := strings.ToUpper(name)
	for _, m := range secretMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// MaskValue hides a secret, keeping three characters at each end of values
// longer than eight characters. Lengths count runes.
func MaskValue(v string) string {
	if v == "" {
		return ""
	}
	if r := []rune(v); len(r) > 8 {
		return string(r[:3]) + "***" + string(r[len(r)-3:])
	}
	return "***"
}
