package output

import (
	"github.com/sonemaro/envguard/pkg/envguard"
	"github.com/sonemaro/envguard/pkg/logger"
)

// stats counts schema variables by resolution status
type stats struct {
	Total     int `json:"total" yaml:"total"`
	OK        int `json:"ok" yaml:"ok"`
	Defaulted int `json:"defaulted" yaml:"defaulted"`
	Missing   int `json:"missing" yaml:"missing"`
	Invalid   int `json:"invalid" yaml:"invalid"`
	Absent    int `json:"absent" yaml:"absent"`
	Warnings  int `json:"warnings" yaml:"warnings"`
}

func (f *formatter) calculateStats(report *envguard.Report) *stats {
	f.log.Debug("Calculating variable statistics")

	s := &stats{
		Total:    len(report.Variables),
		Warnings: len(report.Warnings),
	}
	for _, v := range report.Variables {
		switch v.Status {
		case envguard.StatusOK:
			s.OK++
		case envguard.StatusDefault:
			s.Defaulted++
		case envguard.StatusMissing:
			s.Missing++
		case envguard.StatusInvalid:
			s.Invalid++
		case envguard.StatusAbsent:
			s.Absent++
		}
	}

	f.log.WithFields(logger.Fields{
		"total":   s.Total,
		"missing": s.Missing,
		"invalid": s.Invalid,
	}).Debug("Statistics calculated")

	return s
}
