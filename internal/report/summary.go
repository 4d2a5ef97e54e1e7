package report

import (
	"sort"

	"github.com/tmnguyen/postureboard/internal/finding"
)

// Columns is the fixed projection order for tabular display and export.
var Columns = []string{
	"Service",
	"Severity",
	"Team",
	"Fix Timeline",
	"Cost to Fix (Est.)",
	"Title",
	"Description",
	"Account",
	"Region",
	"Status",
}

// SeverityColors maps each canonical severity label to its chart color.
var SeverityColors = map[string]string{
	"CRITICAL":      "#ff4d4d",
	"HIGH":          "#ffa64d",
	"MEDIUM":        "#ffd24d",
	"LOW":           "#5cd65c",
	"INFORMATIONAL": "#66ccff",
}

// DefaultSeverityColor is used for labels outside the canonical set.
const DefaultSeverityColor = "#b3b3b3"

// Summary holds the dashboard headline counts over a filtered view.
type Summary struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
	MediumLow int `json:"medium_low"`
}

// Summarize computes the headline counts for a view.
func Summarize(view finding.Table) Summary {
	s := Summary{Total: len(view)}
	for _, row := range view {
		switch row.Severity.Label() {
		case "CRITICAL":
			s.Critical++
		case "HIGH":
			s.High++
		case "MEDIUM", "LOW":
			s.MediumLow++
		}
	}
	return s
}

// Bucket is one group in a chart series.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountBySeverity groups a view by severity label, sorted alphabetically.
func CountBySeverity(view finding.Table) []Bucket {
	return countBy(view, func(d finding.Derived) string { return d.Severity.Label() })
}

// CountByTeam groups a view by owning team, sorted alphabetically.
func CountByTeam(view finding.Table) []Bucket {
	return countBy(view, func(d finding.Derived) string { return d.Team })
}

func countBy(view finding.Table, key func(finding.Derived) string) []Bucket {
	counts := make(map[string]int)
	for _, row := range view {
		counts[key(row)]++
	}
	buckets := make([]Bucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Label < buckets[j].Label })
	return buckets
}

// Rows projects a view into the fixed column order, one string slice per
// finding, ready for tabular display or spreadsheet export.
func Rows(view finding.Table) [][]string {
	rows := make([][]string, 0, len(view))
	for _, d := range view {
		rows = append(rows, []string{
			d.Service,
			d.Severity.Label(),
			d.Team,
			d.FixTimeline,
			d.CostEstimate,
			d.Title,
			d.Description,
			d.Account,
			d.Region,
			d.Status,
		})
	}
	return rows
}

// Options holds the sorted distinct values offered by the filter controls.
// They are computed over the full table, not the filtered view, so narrowing
// one dimension never hides choices in another.
type Options struct {
	Services   []string `json:"services"`
	Severities []string `json:"severities"`
	Teams      []string `json:"teams"`
}

// FilterOptions computes the distinct filterable values from the full table.
func FilterOptions(table finding.Table) Options {
	services := make(map[string]bool)
	severities := make(map[string]bool)
	teams := make(map[string]bool)
	for _, row := range table {
		services[row.Service] = true
		severities[row.Severity.Label()] = true
		teams[row.Team] = true
	}
	return Options{
		Services:   sortedKeys(services),
		Severities: sortedKeys(severities),
		Teams:      sortedKeys(teams),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
