package domain

// MetricPair holds the current-year and last-year value of one metric.
type MetricPair struct {
	CY float64 `json:"cy"`
	LY float64 `json:"ly"`
}

// Add returns the component-wise sum of two pairs.
func (p MetricPair) Add(o MetricPair) MetricPair {
	return MetricPair{CY: p.CY + o.CY, LY: p.LY + o.LY}
}

// Record is one store x category row of the source sheet.
type Record struct {
	Store    string                `json:"store"`
	Category string                `json:"category"`
	Owner    string                `json:"owner"`
	Metrics  map[Metric]MetricPair `json:"metrics"`
}

// Pair returns the values for m; a metric absent from the record reads as zero.
func (r Record) Pair(m Metric) MetricPair {
	if r.Metrics == nil {
		return MetricPair{}
	}
	return r.Metrics[m]
}

// Key returns the record's value for the grouping dimension.
func (r Record) Key(d Dimension) string {
	switch d {
	case DimensionCategory:
		return r.Category
	default:
		return r.Store
	}
}
