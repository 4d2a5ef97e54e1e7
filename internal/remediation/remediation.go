// Package remediation computes remediation metadata for canonical findings:
// the owning team, the expected fix timeline, and the estimated hourly cost.
// All mappings are pure, case-insensitive, and total — unrecognized inputs
// map to a defined default instead of failing.
package remediation

import (
	"strings"

	"github.com/tmnguyen/postureboard/internal/finding"
)

// Team returns the team that owns findings from a service. Matching is by
// case-insensitive substring, so "Guardduty", "guardduty-prod" and
// "AWSGuardDuty" all route the same way.
func Team(service string) string {
	s := strings.ToLower(service)
	switch {
	case strings.Contains(s, "guardduty") || strings.Contains(s, "securityhub"):
		return "CAPSA Team"
	case strings.Contains(s, "inspector") || strings.Contains(s, "accessanalyzer"):
		return "BCG Team"
	case strings.Contains(s, "detective"):
		return "Both BCG & CAPSA Team"
	default:
		return "Others"
	}
}

// FixTimeline returns the expected remediation window for a severity label.
func FixTimeline(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "5 Days"
	case "high":
		return "1 Week"
	case "medium":
		return "2 Weeks"
	case "low":
		return "3 Weeks"
	default:
		return "N/A"
	}
}

// CostEstimate returns the estimated hourly remediation cost for a severity
// label.
func CostEstimate(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "$250/hour"
	case "high":
		return "$150/hour"
	case "medium":
		return "$75/hour"
	case "low":
		return "$25/hour"
	default:
		return "Minimal"
	}
}

// Annotate builds the derived table from canonical records, recomputing the
// three remediation attributes for every row. Input order is preserved.
func Annotate(records []finding.Record) finding.Table {
	table := make(finding.Table, 0, len(records))
	for _, r := range records {
		label := r.Severity.Label()
		table = append(table, finding.Derived{
			Record:       r,
			Team:         Team(r.Service),
			FixTimeline:  FixTimeline(label),
			CostEstimate: CostEstimate(label),
		})
	}
	return table
}
