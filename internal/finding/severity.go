package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// severityTag identifies one canonical severity level. Labels outside the
// known set are carried through as tagOther rather than rejected, so
// downstream mappings always have a single default arm to handle.
type severityTag int

const (
	tagCritical severityTag = iota
	tagHigh
	tagMedium
	tagLow
	tagInformational
	tagOther
)

// Severity is a normalized severity level: one of the five canonical tags, or
// an unrecognized label preserved in upper case.
type Severity struct {
	tag   severityTag
	other string
}

// Canonical severity levels.
var (
	Critical      = Severity{tag: tagCritical}
	High          = Severity{tag: tagHigh}
	Medium        = Severity{tag: tagMedium}
	Low           = Severity{tag: tagLow}
	Informational = Severity{tag: tagInformational}
)

// OtherSeverity wraps an unrecognized label, upper-cased.
func OtherSeverity(label string) Severity {
	return Severity{tag: tagOther, other: strings.ToUpper(label)}
}

// Label returns the upper-cased severity label. This is the only
// representation stored or displayed downstream.
func (s Severity) Label() string {
	switch s.tag {
	case tagCritical:
		return "CRITICAL"
	case tagHigh:
		return "HIGH"
	case tagMedium:
		return "MEDIUM"
	case tagLow:
		return "LOW"
	case tagInformational:
		return "INFORMATIONAL"
	default:
		return s.other
	}
}

// Known reports whether the severity is one of the five canonical levels.
func (s Severity) Known() bool {
	return s.tag != tagOther
}

// MarshalJSON encodes the severity as its upper-cased label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Label())
}

// UnmarshalJSON decodes a severity from a label string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	*s = SeverityFromLabel(label)
	return nil
}

// NormalizeSeverity maps a raw severity value from a scanner export to a
// Severity. Exports disagree on shape: Security Hub uses an object with a
// Label, GuardDuty uses a numeric score, others use plain strings. Every
// shape resolves to a defined value; malformed or absent input never fails.
//
// Rules, in priority order:
//  1. mapping: Label field if present and non-empty, else Normalized
//     (string label or numeric score), else "Medium"
//  2. number: >=8 Critical, >=5 High, >=3 Medium, else Low
//  3. anything else: treated as a text label
func NormalizeSeverity(raw any) Severity {
	switch v := raw.(type) {
	case nil:
		return Medium
	case map[string]any:
		if label, ok := v["Label"].(string); ok && label != "" {
			return SeverityFromLabel(label)
		}
		switch norm := v["Normalized"].(type) {
		case string:
			if norm != "" {
				return SeverityFromLabel(norm)
			}
		case float64:
			return severityFromScore(norm)
		case json.Number:
			if f, err := norm.Float64(); err == nil {
				return severityFromScore(f)
			}
		}
		return Medium
	case float64:
		return severityFromScore(v)
	case int:
		return severityFromScore(float64(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return severityFromScore(f)
		}
		return Medium
	case string:
		return SeverityFromLabel(v)
	default:
		return SeverityFromLabel(fmt.Sprintf("%v", v))
	}
}

// SeverityFromLabel matches a text label against the canonical levels,
// case-insensitively. Unrecognized labels pass through as OtherSeverity.
func SeverityFromLabel(label string) Severity {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "CRITICAL":
		return Critical
	case "HIGH":
		return High
	case "MEDIUM":
		return Medium
	case "LOW":
		return Low
	case "INFORMATIONAL":
		return Informational
	case "":
		return Medium
	default:
		return OtherSeverity(strings.TrimSpace(label))
	}
}

// severityFromScore maps a numeric score to a level. Boundary values land on
// the upper branch: 8 is Critical, 5 is High, 3 is Medium.
func severityFromScore(score float64) Severity {
	switch {
	case score >= 8:
		return Critical
	case score >= 5:
		return High
	case score >= 3:
		return Medium
	default:
		return Low
	}
}
