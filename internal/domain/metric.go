package domain

import "strings"

// Metric identifies one CY/LY column pair of the source sheet.
type Metric string

const (
	MetricNetSales    Metric = "net_sales"
	MetricGrossMargin Metric = "gross_margin"
	MetricNetProfit   Metric = "net_profit"

	MetricAdvertisement Metric = "advertisement"
	MetricFinancial     Metric = "financial"
	MetricVariableCost  Metric = "variable_cost"
	MetricOccupancy     Metric = "occupancy"
	MetricStaff         Metric = "staff"
	MetricFixedCost     Metric = "fixed_cost"
	MetricHeadOffice    Metric = "head_office"
)

// TopLevelMetrics are the headline KPIs, in display order.
var TopLevelMetrics = []Metric{
	MetricNetSales,
	MetricGrossMargin,
	MetricNetProfit,
}

// ExpenseMetrics is the fixed declared order of expense categories.
var ExpenseMetrics = []Metric{
	MetricAdvertisement,
	MetricFinancial,
	MetricVariableCost,
	MetricOccupancy,
	MetricStaff,
	MetricFixedCost,
	MetricHeadOffice,
}

var metricLabels = map[Metric]string{
	MetricNetSales:      "Net Sales",
	MetricGrossMargin:   "Gross Margin",
	MetricNetProfit:     "Net Profit",
	MetricAdvertisement: "Advertisement",
	MetricFinancial:     "Financial",
	MetricVariableCost:  "Variable Cost",
	MetricOccupancy:     "Occupancy",
	MetricStaff:         "Staff",
	MetricFixedCost:     "Fixed Cost",
	MetricHeadOffice:    "Head Office",
}

// AllMetrics returns every known metric, top-level first then expenses.
func AllMetrics() []Metric {
	all := make([]Metric, 0, len(TopLevelMetrics)+len(ExpenseMetrics))
	all = append(all, TopLevelMetrics...)
	all = append(all, ExpenseMetrics...)
	return all
}

// Label returns a human-readable label for a metric.
func (m Metric) Label() string {
	if label, ok := metricLabels[m]; ok {
		return label
	}

	return string(m)
}

// ParseMetric returns the metric for a given key or label (case-insensitive).
func ParseMetric(value string) (Metric, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	for m, label := range metricLabels {
		if string(m) == v || strings.ToLower(label) == v {
			return m, true
		}
	}

	return "", false
}

// Dimension is the attribute records are grouped by.
type Dimension string

const (
	DimensionStore    Dimension = "store"
	DimensionCategory Dimension = "category"
)
