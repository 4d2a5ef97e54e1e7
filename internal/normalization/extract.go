// Package normalization converts parsed scanner export documents into
// canonical finding records. Each source service exports a slightly
// different schema; the extractor reconciles them with an ordered list of
// primary/secondary key lookups and defined defaults, so every document
// yields at least one fully-populated record.
package normalization

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tmnguyen/postureboard/internal/finding"
)

// DefaultRegion is used when a finding carries no region of its own.
const DefaultRegion = "us-east-2"

// fieldSpec describes how one canonical field is pulled from a raw finding:
// the primary key name, a secondary key tried when the primary is absent,
// and the default used when neither resolves. Values of any JSON type are
// stringified.
type fieldSpec struct {
	primary   string
	secondary string
	fallback  string
}

func (fs fieldSpec) resolve(raw map[string]any) string {
	if v, ok := raw[fs.primary]; ok {
		if s := stringify(v); s != "" {
			return s
		}
	}
	if fs.secondary != "" {
		if v, ok := raw[fs.secondary]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	return fs.fallback
}

// stringify coerces any JSON value to text. Numbers drop a trailing ".0" so
// account IDs survive the float64 round trip through encoding/json.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

var (
	accountSpec   = fieldSpec{primary: "AwsAccountId", secondary: "resourceOwnerAccount"}
	regionSpec    = fieldSpec{primary: "Region", fallback: DefaultRegion}
	resourceSpec  = fieldSpec{primary: "Resource", secondary: "resource"}
	descSpec      = fieldSpec{primary: "Description", secondary: "findingDetails"}
	createdAtSpec = fieldSpec{primary: "CreatedAt"}
)

// Extract produces canonical records from one parsed JSON document. The
// findings list is looked up under "Findings" then "findings"; when the list
// is present and non-empty each element becomes one record, otherwise the
// document contributes exactly one placeholder record so no file ever
// silently disappears from the report.
func Extract(doc any, service string) []finding.Record {
	findings := findingsList(doc)
	if len(findings) == 0 {
		return []finding.Record{placeholder(service)}
	}

	records := make([]finding.Record, 0, len(findings))
	for _, f := range findings {
		raw, ok := f.(map[string]any)
		if !ok {
			raw = map[string]any{}
		}
		records = append(records, extractOne(raw, service))
	}
	return records
}

func extractOne(raw map[string]any, service string) finding.Record {
	titleSpec := fieldSpec{primary: "Title", secondary: "id", fallback: "Finding from " + service}

	sev := finding.Medium
	if v, ok := raw["Severity"]; ok {
		sev = finding.NormalizeSeverity(v)
	}

	return finding.Record{
		Service:     service,
		Account:     accountSpec.resolve(raw),
		Region:      regionSpec.resolve(raw),
		Resource:    resourceSpec.resolve(raw),
		Severity:    sev,
		Title:       titleSpec.resolve(raw),
		Description: descSpec.resolve(raw),
		Status:      status(raw),
		CreatedAt:   createdAtSpec.resolve(raw),
	}
}

// status reads the nested Workflow.Status used by Security Hub, then a flat
// status key, defaulting to ACTIVE.
func status(raw map[string]any) string {
	if wf, ok := raw["Workflow"].(map[string]any); ok {
		if s := stringify(wf["Status"]); s != "" {
			return s
		}
	}
	if s := stringify(raw["status"]); s != "" {
		return s
	}
	return "ACTIVE"
}

// placeholder is the single synthetic record for a document that reports no
// findings. It is an ordinary row: filters and metrics treat it like any
// other finding.
func placeholder(service string) finding.Record {
	return finding.Record{
		Service:     service,
		Region:      DefaultRegion,
		Severity:    finding.Informational,
		Title:       fmt.Sprintf("No critical findings for %s", service),
		Description: fmt.Sprintf("%s data loaded but no security findings reported.", service),
		Status:      "N/A",
	}
}

func findingsList(doc any) []any {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	if list, ok := m["Findings"].([]any); ok {
		return list
	}
	if list, ok := m["findings"].([]any); ok {
		return list
	}
	return nil
}

// ServiceFromFile infers the source service from a file name: the base name
// without extension, up to the first "-", capitalized. "guardduty-export.json"
// becomes "Guardduty".
func ServiceFromFile(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name, _, _ := strings.Cut(base, "-")
	return capitalize(name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
