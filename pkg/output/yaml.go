package output

import (
	"github.com/sonemaro/envguard/pkg/logger"
	"gopkg.in/yaml.v3"
)

func (f *formatter) formatYAML(checks []Check) (string, error) {
	f.log.Debug("Formatting YAML output")

	// same document as JSON output
	bytes, err := yaml.Marshal(f.buildStructured(checks))
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal YAML")
		return "", err
	}

	return string(bytes), nil
}
