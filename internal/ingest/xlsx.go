package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet the financial workbook keeps its data in.
const DefaultSheet = "CY_vs_LY_Growth"

// ReadXLSX reads one worksheet of a workbook. An empty sheet name selects
// DefaultSheet, or the first sheet when the workbook has no DefaultSheet.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err = resolveSheet(f.GetSheetList(), sheet)
	if err != nil {
		return Table{}, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var t Table
	for rows.Next() {
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return Table{}, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		if t.Header == nil {
			if len(cols) == 0 {
				continue
			}
			t.Header = cols
			continue
		}
		t.Rows = append(t.Rows, cols)
	}

	if err := rows.Error(); err != nil {
		return Table{}, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return t, nil
}

func resolveSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}

	lookup := want
	if lookup == "" {
		lookup = DefaultSheet
	}
	for _, s := range sheets {
		if s == lookup {
			return s, nil
		}
	}

	if want == "" {
		return sheets[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrSheetNotFound, want)
}
