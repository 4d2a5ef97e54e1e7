// Package report provides the filter engine and summary computations over
// the normalized finding table. Filters are explicit values constructed per
// render; nothing in this package holds state between calls.
package report

import "github.com/tmnguyen/postureboard/internal/finding"

// Selection holds the active multi-select filter values for each dimension.
// An empty slice means no restriction on that dimension (select all, never
// select none). A fresh Selection is built for every render.
type Selection struct {
	Services   []string `json:"services"`
	Severities []string `json:"severities"`
	Teams      []string `json:"teams"`
}

// Apply filters the full table conjunctively: a row survives iff, for each
// non-empty dimension, its value is a member of the selected set. Relative
// order of surviving rows is preserved. Apply always takes the full table,
// never an already-filtered view.
func (s Selection) Apply(table finding.Table) finding.Table {
	services := toSet(s.Services)
	severities := toSet(s.Severities)
	teams := toSet(s.Teams)

	view := make(finding.Table, 0, len(table))
	for _, row := range table {
		if services != nil && !services[row.Service] {
			continue
		}
		if severities != nil && !severities[row.Severity.Label()] {
			continue
		}
		if teams != nil && !teams[row.Team] {
			continue
		}
		view = append(view, row)
	}
	return view
}

// Empty reports whether no dimension is restricted.
func (s Selection) Empty() bool {
	return len(s.Services) == 0 && len(s.Severities) == 0 && len(s.Teams) == 0
}

// toSet returns nil for an empty selection so callers can distinguish
// "no restriction" from "restrict to nothing".
func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
