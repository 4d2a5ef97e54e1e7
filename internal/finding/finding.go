// Package finding defines the canonical security finding schema shared by
// every pipeline stage. Records are normalized from heterogeneous scanner
// exports; every field is always present, with the empty string standing in
// for absent source data.
package finding

// Record is a finding normalized to the canonical schema, independent of the
// originating service's export format.
type Record struct {
	Service     string   `json:"service"`
	Account     string   `json:"account"`
	Region      string   `json:"region"`
	Resource    string   `json:"resource"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	CreatedAt   string   `json:"created_at"`
}

// Derived is a canonical record plus the remediation attributes computed from
// service and severity. The computed fields are never read from source data;
// they are recomputed on every table build.
type Derived struct {
	Record
	Team         string `json:"team"`
	FixTimeline  string `json:"fix_timeline"`
	CostEstimate string `json:"cost_estimate"`
}

// Table is an ordered sequence of derived findings. Order is document
// discovery order, then within-document finding order. There is no identity
// key; duplicates are preserved.
type Table []Derived
