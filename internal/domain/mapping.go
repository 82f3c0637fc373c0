package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnPair names the CY and LY columns of a metric in the source sheet.
type ColumnPair struct {
	CY string `json:"cy"`
	LY string `json:"ly"`
}

// ColumnMapping maps the source sheet's headers onto the record model.
// Header matching is exact and case-sensitive.
type ColumnMapping struct {
	Store    string                `json:"store"`
	Category string                `json:"category"`
	Owner    string                `json:"owner"`
	Metrics  map[Metric]ColumnPair `json:"metrics"`
}

// LastYearSuffix is appended to a CY header to form its LY twin.
const LastYearSuffix = "_LY"

func lyPair(cy string) ColumnPair {
	return ColumnPair{CY: cy, LY: cy + LastYearSuffix}
}

// DefaultColumnMapping returns the headers of the CY_vs_LY_Growth sheet.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Store:    "Store Name",
		Category: "Category",
		Owner:    "DGM",
		Metrics: map[Metric]ColumnPair{
			MetricNetSales:      lyPair("Net Sales"),
			MetricGrossMargin:   lyPair("Gross Margin"),
			MetricNetProfit:     lyPair("Net profit / loss"),
			MetricAdvertisement: lyPair("Advertisment Expenses"),
			MetricFinancial:     lyPair("Financial Charges"),
			MetricVariableCost:  lyPair("Total variable cost"),
			MetricOccupancy:     lyPair("Total Occupancy cost"),
			MetricStaff:         lyPair("Staff related costs"),
			MetricFixedCost:     lyPair("Total fixed cost (stores related)"),
			MetricHeadOffice:    lyPair("Head office Expenses"),
		},
	}
}

// MissingMetrics returns the metrics, out of those given, that the mapping
// has no columns for.
func (m ColumnMapping) MissingMetrics(metrics ...Metric) []Metric {
	var missing []Metric
	for _, metric := range metrics {
		if _, ok := m.Metrics[metric]; !ok {
			missing = append(missing, metric)
		}
	}
	return missing
}

// Columns returns every header the mapping requires, identifiers first and
// metrics in AllMetrics order (CY then LY).
func (m ColumnMapping) Columns() []string {
	cols := []string{m.Store, m.Category, m.Owner}
	for _, metric := range AllMetrics() {
		pair, ok := m.Metrics[metric]
		if !ok {
			continue
		}
		cols = append(cols, pair.CY, pair.LY)
	}
	return cols
}

// Validate rejects blank column names, columns claimed twice and metrics
// without columns.
func (m ColumnMapping) Validate() error {
	var errs []error
	seen := make(map[string]string)

	check := func(field, col string) {
		col = strings.TrimSpace(col)
		if col == "" {
			errs = append(errs, fmt.Errorf("column for %s is empty", field))
			return
		}
		if prev, ok := seen[col]; ok {
			errs = append(errs, fmt.Errorf("column %q used by both %s and %s", col, prev, field))
			return
		}
		seen[col] = field
	}

	check("store", m.Store)
	check("category", m.Category)
	check("owner", m.Owner)
	for _, metric := range AllMetrics() {
		pair, ok := m.Metrics[metric]
		if !ok {
			continue
		}
		check(string(metric)+" (cy)", pair.CY)
		check(string(metric)+" (ly)", pair.LY)
	}

	if missing := m.MissingMetrics(AllMetrics()...); len(missing) > 0 {
		errs = append(errs, fmt.Errorf("no columns declared for metrics %v", missing))
	}

	return errors.Join(errs...)
}
