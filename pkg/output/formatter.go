/*
Package output renders validation reports for the command line as text,
JSON or YAML. Text output is the status report of package envguard; the
structured formats carry the full report including per-variable status.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatJSON,
		WithStats:  true,
	}, log)

	result, err := formatter.Format(report)

Several reports, for example one per checked dotenv file, are rendered
together with FormatChecks.

Values of secret-looking variables are masked unless Config.ShowSecrets is
set.
*/
package output

import (
	"fmt"

	"github.com/sonemaro/envguard/pkg/envguard"
	"github.com/sonemaro/envguard/pkg/logger"
)

// Format represents the output format type
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported output formats
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// Config holds formatter configuration
type Config struct {
	Format      Format
	WithStats   bool
	WithColors  bool
	ShowSecrets bool
}

// Check pairs a report with the environment source it was produced from
type Check struct {
	Source string
	Report *envguard.Report
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(*envguard.Report) (string, error)
	FormatChecks([]Check) (string, error)
}

type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if log == nil {
		log = logger.Nop()
	}
	return &formatter{
		config: config,
		log:    log,
	}
}

// Format renders a single report in the configured format
func (f *formatter) Format(report *envguard.Report) (string, error) {
	return f.FormatChecks([]Check{{Report: report}})
}

// FormatChecks renders one or more reports in the configured format
func (f *formatter) FormatChecks(checks []Check) (string, error) {
	if len(checks) == 0 {
		msg := "no reports provided for formatting"
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
	for i, c := range checks {
		if c.Report == nil {
			msg := fmt.Sprintf("nil report provided for formatting (check %d)", i)
			f.log.Error(msg)
			return "", fmt.Errorf("%s", msg)
		}
	}

	f.log.WithFields(logger.Fields{
		"format":     f.config.Format,
		"withStats":  f.config.WithStats,
		"withColors": f.config.WithColors,
		"reports":    len(checks),
	}).Debug("Starting format operation")

	checks = f.redact(checks)

	switch f.config.Format {
	case FormatText, "":
		return f.formatText(checks)
	case FormatJSON:
		return f.formatJSON(checks)
	case FormatYAML:
		return f.formatYAML(checks)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
}

func (f *formatter) redact(checks []Check) []Check {
	if f.config.ShowSecrets {
		return checks
	}
	f.log.Debug("Masking secret values")
	out := make([]Check, len(checks))
	for i, c := range checks {
		out[i] = Check{Source: c.Source, Report: c.Report.Redacted()}
	}
	return out
}
