package finding

import (
	"encoding/json"
	"testing"
)

// TestNormalizeSeverity_NumericBoundaries verifies the numeric score scale,
// with boundary values landing on the upper branch.
func TestNormalizeSeverity_NumericBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{9.2, "CRITICAL"},
		{8.0, "CRITICAL"},
		{7.99, "HIGH"},
		{5.0, "HIGH"},
		{4.99, "MEDIUM"},
		{3.0, "MEDIUM"},
		{2.99, "LOW"},
		{0, "LOW"},
		{-1, "LOW"},
	}
	for _, tt := range tests {
		if got := NormalizeSeverity(tt.score).Label(); got != tt.want {
			t.Errorf("NormalizeSeverity(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

// TestNormalizeSeverity_Mapping verifies the object shape: Label wins, then
// Normalized, then the Medium default.
func TestNormalizeSeverity_Mapping(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{"label", map[string]any{"Label": "HIGH"}, "HIGH"},
		{"label_mixed_case", map[string]any{"Label": "critical"}, "CRITICAL"},
		{"label_wins_over_normalized", map[string]any{"Label": "LOW", "Normalized": 90.0}, "LOW"},
		{"empty_label_falls_to_normalized", map[string]any{"Label": "", "Normalized": "High"}, "HIGH"},
		{"numeric_normalized", map[string]any{"Normalized": 9.0}, "CRITICAL"},
		{"empty_mapping", map[string]any{}, "MEDIUM"},
		{"unusable_normalized", map[string]any{"Normalized": []any{}}, "MEDIUM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSeverity(tt.raw).Label(); got != tt.want {
				t.Errorf("NormalizeSeverity(%v) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

// TestNormalizeSeverity_Text verifies string labels, including unrecognized
// ones passing through upper-cased instead of failing.
func TestNormalizeSeverity_Text(t *testing.T) {
	tests := []struct {
		raw       string
		want      string
		wantKnown bool
	}{
		{"critical", "CRITICAL", true},
		{"HIGH", "HIGH", true},
		{"Informational", "INFORMATIONAL", true},
		{"weird", "WEIRD", false},
		{"", "MEDIUM", true},
	}
	for _, tt := range tests {
		sev := NormalizeSeverity(tt.raw)
		if got := sev.Label(); got != tt.want {
			t.Errorf("NormalizeSeverity(%q) = %s, want %s", tt.raw, got, tt.want)
		}
		if sev.Known() != tt.wantKnown {
			t.Errorf("NormalizeSeverity(%q).Known() = %v, want %v", tt.raw, sev.Known(), tt.wantKnown)
		}
	}
}

// TestNormalizeSeverity_Absent verifies nil resolves to the Medium default.
func TestNormalizeSeverity_Absent(t *testing.T) {
	if got := NormalizeSeverity(nil).Label(); got != "MEDIUM" {
		t.Errorf("NormalizeSeverity(nil) = %s, want MEDIUM", got)
	}
}

// TestSeverity_JSONRoundTrip verifies the label survives encode/decode.
func TestSeverity_JSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Critical)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"CRITICAL"` {
		t.Errorf("marshal = %s, want \"CRITICAL\"", data)
	}

	var sev Severity
	if err := json.Unmarshal([]byte(`"weird"`), &sev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sev.Label() != "WEIRD" || sev.Known() {
		t.Errorf("unmarshal weird: got %s known=%v", sev.Label(), sev.Known())
	}
}
