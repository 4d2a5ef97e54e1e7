// Package export writes the filtered finding table as a single-sheet xlsx
// workbook.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/tmnguyen/postureboard/internal/finding"
	"github.com/tmnguyen/postureboard/internal/report"
)

const (
	// SheetName is the single worksheet name.
	SheetName = "AWS_Security_Findings"
	// FileName is the download file name.
	FileName = "AWS_Security_Findings_Enhanced.xlsx"
	// ContentType is the xlsx MIME type.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Write renders a view as an xlsx workbook: header row plus one row per
// finding in the fixed column order, no index column.
func Write(w io.Writer, view finding.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(report.Columns))
	for i, c := range report.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range report.Rows(view) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile renders a view to an xlsx file on disk.
func WriteFile(path string, view finding.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, view)
}

// Read loads the findings sheet back from an xlsx workbook and returns the
// header row plus data rows. Rows are padded to header width because xlsx
// readers drop trailing empty cells.
func Read(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}
