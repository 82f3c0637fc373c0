package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

// Table is the neutral header-plus-rows form every reader produces.
type Table struct {
	Header []string
	Rows   [][]string
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ParseTable converts t into records using the column mapping. Every mapped
// column must appear in the header; otherwise a *SchemaError is returned and
// no records are produced.
func ParseTable(t Table, m domain.ColumnMapping) ([]domain.Record, error) {
	colMap := make(map[string]int, len(t.Header))
	for i, col := range t.Header {
		col = strings.TrimSpace(col)
		if _, dup := colMap[col]; !dup {
			colMap[col] = i
		}
	}

	var missing []string
	for _, col := range m.Columns() {
		if _, ok := colMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]domain.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		getValue := func(col string) string {
			if idx, ok := colMap[col]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		store, category, owner := getValue(m.Store), getValue(m.Category), getValue(m.Owner)
		if store == "" && category == "" && owner == "" {
			continue
		}

		metrics := make(map[domain.Metric]domain.MetricPair, len(m.Metrics))
		for metric, cols := range m.Metrics {
			metrics[metric] = domain.MetricPair{
				CY: ParseNumber(getValue(cols.CY)),
				LY: ParseNumber(getValue(cols.LY)),
			}
		}

		records = append(records, domain.Record{
			Store:    store,
			Category: category,
			Owner:    owner,
			Metrics:  metrics,
		})
	}

	return records, nil
}

// ParseNumber reads a spreadsheet cell as a float. Blank, "-", "nan" and
// anything non-numeric read as 0. Thousands separators are ignored and
// accounting negatives like "(1,234)" are honoured.
func ParseNumber(raw string) float64 {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "-", "nan", "null", "none", "n/a", "#n/a":
		return 0
	}

	neg := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg = true
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, " ", "")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if neg {
		f = -f
	}
	return f
}
