package export

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/tmnguyen/postureboard/internal/finding"
	"github.com/tmnguyen/postureboard/internal/remediation"
	"github.com/tmnguyen/postureboard/internal/report"
)

func sampleView() finding.Table {
	return remediation.Annotate([]finding.Record{
		{
			Service:     "Guardduty",
			Account:     "123456789012",
			Region:      "us-east-2",
			Resource:    "i-0abc",
			Severity:    finding.Critical,
			Title:       "Crypto mining",
			Description: "Instance is mining",
			Status:      "ACTIVE",
			CreatedAt:   "2024-05-01",
		},
		{
			// Placeholder-style row with empty account/resource.
			Service:     "Inspector",
			Region:      "us-east-2",
			Severity:    finding.Informational,
			Title:       "No critical findings for Inspector",
			Description: "Inspector data loaded but no security findings reported.",
			Status:      "N/A",
		},
	})
}

// TestWrite_RoundTrip verifies that exporting a view and reading the workbook
// back yields the same header, rows, and order.
func TestWrite_RoundTrip(t *testing.T) {
	view := sampleView()

	var buf bytes.Buffer
	if err := Write(&buf, view); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(rows) != len(view)+1 {
		t.Fatalf("expected header + %d rows, got %d total", len(view), len(rows))
	}
	if !reflect.DeepEqual(rows[0], report.Columns) {
		t.Errorf("header = %v, want %v", rows[0], report.Columns)
	}
	for i, want := range report.Rows(view) {
		if !reflect.DeepEqual(rows[i+1], want) {
			t.Errorf("row %d = %v, want %v", i+1, rows[i+1], want)
		}
	}
}

// TestWrite_EmptyView verifies an empty view still produces a workbook with
// just the header row.
func TestWrite_EmptyView(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, finding.Table{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}

// TestConstants pins the export contract: sheet name, file name, MIME type.
func TestConstants(t *testing.T) {
	if SheetName != "AWS_Security_Findings" {
		t.Errorf("SheetName = %q", SheetName)
	}
	if FileName != "AWS_Security_Findings_Enhanced.xlsx" {
		t.Errorf("FileName = %q", FileName)
	}
	if ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("ContentType = %q", ContentType)
	}
}
