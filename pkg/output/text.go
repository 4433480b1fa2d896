package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/envguard/pkg/envguard"
	"github.com/sonemaro/envguard/pkg/logger"
)

// formatText renders each report as a status block. Blocks for named sources
// are preceded by a source heading.
func (f *formatter) formatText(checks []Check) (string, error) {
	f.log.Debug("Formatting text output")

	if f.config.WithColors {
		f.log.Debug("Applying color formatting")
	}

	var builder strings.Builder
	for _, c := range checks {
		f.log.WithFields(logger.Fields{
			"source": c.Source,
			"valid":  c.Report.Valid,
		}).Trace("Formatting report")

		if c.Source != "" {
			heading := "Source: " + c.Source
			if f.config.WithColors {
				blue := color.New(color.FgBlue, color.Bold)
				blue.EnableColor()
				heading = blue.Sprint(heading)
			}
			builder.WriteString("\n" + heading + "\n")
		}

		builder.WriteString(envguard.RenderStatus(c.Report, f.config.WithColors))

		if f.config.WithStats {
			f.log.Debug("Adding statistics to output")
			s := f.calculateStats(c.Report)
			builder.WriteString("Statistics:\n")
			builder.WriteString(fmt.Sprintf("  Variables: %d\n", s.Total))
			builder.WriteString(fmt.Sprintf("  Valid: %d\n", s.OK))
			builder.WriteString(fmt.Sprintf("  Defaulted: %d\n", s.Defaulted))
			builder.WriteString(fmt.Sprintf("  Missing: %d\n", s.Missing))
			builder.WriteString(fmt.Sprintf("  Invalid: %d\n", s.Invalid))
			builder.WriteString(fmt.Sprintf("  Unset optional: %d\n", s.Absent))
		}
	}

	return builder.String(), nil
}
