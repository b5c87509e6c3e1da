// Package result holds the findings produced by a validation run, the
// per-document collection they are aggregated into, and the writers that
// render them.
package result

import (
	"time"

	"github.com/lukemcguire/linklint/document"
)

// Finding is one reportable issue with a link.
type Finding struct {
	Code       Code           `json:"code"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	Range      document.Range `json:"range"`
	URL        string         `json:"url,omitempty"`         // The href, or the URL that was probed
	RelatedURL string         `json:"related_url,omitempty"` // Redirect target, when there is one
	Status     int            `json:"status,omitempty"`      // Final HTTP status, when a response was received
}

// Stats contains aggregate statistics for one validation run.
type Stats struct {
	TotalLinks   int           `json:"total_links"`   // Number of <a> elements examined
	Probed       int           `json:"probed"`        // Number of network probes issued
	ErrorCount   int           `json:"error_count"`   // Findings with SeverityError
	WarningCount int           `json:"warning_count"` // Findings with SeverityWarning
	InfoCount    int           `json:"info_count"`    // Findings with SeverityInformation
	Duration     time.Duration `json:"duration"`      // Total time taken for the run
}

// Result is the complete output of validating one document.
type Result struct {
	Document string    `json:"document"`
	Findings []Finding `json:"findings"`
	Stats    Stats     `json:"stats"`
}

// HasErrors reports whether any finding is an error.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountSeverities fills the per-severity counters of s from findings.
func (s *Stats) CountSeverities(findings []Finding) {
	s.ErrorCount, s.WarningCount, s.InfoCount = 0, 0, 0
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			s.ErrorCount++
		case SeverityWarning:
			s.WarningCount++
		default:
			s.InfoCount++
		}
	}
}
