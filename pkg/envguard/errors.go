package envguard

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is
var (
	ErrMissing = errors.New("missing required environment variable")
	ErrInvalid = errors.New("invalid environment variable")
)

// MissingError reports a required variable that is absent and has no default
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return "Missing required environment variable: " + e.Key
}

func (e *MissingError) Unwrap() error { return ErrMissing }

// InvalidError reports a variable whose value failed validation or is not
// one of the permitted choices
type InvalidError struct {
	Key   string
	Value string

	// Message is the field's validation message; empty for choice failures
	Message string

	// Allowed lists the permitted choices for choice failures
	Allowed []string
}

func (e *InvalidError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("Invalid value \"%s\" for environment variable %s. Allowed values: %s",
			e.Value, e.Key, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("Invalid value \"%s\" for environment variable %s: %s", e.Value, e.Key, e.Message)
}

func (e *InvalidError) Unwrap() error { return ErrInvalid }

// ValidationError aggregates every problem found in one validation pass,
// in schema key order
type ValidationError struct {
	Problems []error
}

// Messages returns the problem descriptions in order
func (e *ValidationError) Messages() []string {
	return messages(e.Problems)
}

func (e *ValidationError) Error() string {
	return "environment validation failed:\n" + strings.Join(e.Messages(), "\n")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

func messages(problems []error) []string {
	if len(problems) == 0 {
		return nil
	}
	out := make([]string, len(problems))
	for i, p := range problems {
		out[i] = p.Error()
	}
	return out
}
