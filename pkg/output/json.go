package output

import (
	"encoding/json"
	"time"

	"github.com/sonemaro/envguard/pkg/envguard"
	"github.com/sonemaro/envguard/pkg/logger"
)

// checkOutput is one report in structured output
type checkOutput struct {
	Source     string           `json:"source,omitempty" yaml:"source,omitempty"`
	Report     *envguard.Report `json:"report" yaml:"report"`
	Statistics *stats           `json:"statistics,omitempty" yaml:"statistics,omitempty"`
}

// structuredOutput is the document written for JSON and YAML
type structuredOutput struct {
	Valid     bool          `json:"valid" yaml:"valid"`
	Checks    []checkOutput `json:"checks" yaml:"checks"`
	Generated time.Time     `json:"generated" yaml:"generated"`
}

func (f *formatter) buildStructured(checks []Check) *structuredOutput {
	out := &structuredOutput{
		Valid:     true,
		Checks:    make([]checkOutput, len(checks)),
		Generated: time.Now().UTC(),
	}
	for i, c := range checks {
		co := checkOutput{Source: c.Source, Report: c.Report}
		if f.config.WithStats {
			co.Statistics = f.calculateStats(c.Report)
		}
		out.Checks[i] = co
		out.Valid = out.Valid && c.Report.Valid
	}
	return out
}

func (f *formatter) formatJSON(checks []Check) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(f.buildStructured(checks), "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}
