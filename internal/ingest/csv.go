package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

const utf8BOM = "\ufeff"

// ReadCSV reads a comma separated table whose first row is the header.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := Table{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read CSV record: %w", err)
		}
		t.Rows = append(t.Rows, record)
	}

	return t, nil
}

// WriteCSV writes records back out under the mapping's headers, header row
// first, in the same column order ParseTable expects.
func WriteCSV(w io.Writer, records []domain.Record, m domain.ColumnMapping) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(m.Columns()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, 0, len(m.Columns()))
	for _, rec := range records {
		row = append(row[:0], rec.Store, rec.Category, rec.Owner)
		for _, metric := range domain.AllMetrics() {
			if _, ok := m.Metrics[metric]; !ok {
				continue
			}
			pair := rec.Pair(metric)
			row = append(row, formatCell(pair.CY), formatCell(pair.LY))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s/%s: %w", rec.Store, rec.Category, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
