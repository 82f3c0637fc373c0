package analytics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

// ErrMissingMetric is returned when the column mapping does not declare a
// metric the summary needs.
var ErrMissingMetric = errors.New("mapping does not declare required metric")

var groupMetrics = []domain.Metric{domain.MetricNetSales, domain.MetricNetProfit}

// Builder turns a filtered record set into the dashboard summary tables.
type Builder struct {
	Mapping domain.ColumnMapping
}

// NewBuilder returns a Builder for records parsed under mapping.
func NewBuilder(mapping domain.ColumnMapping) *Builder {
	return &Builder{Mapping: mapping}
}

// Build computes portfolio totals, store and category tables and the
// expense breakdown. An empty record set yields NoData with zero values.
func (b *Builder) Build(records []domain.Record) (*domain.Summary, error) {
	if missing := b.Mapping.MissingMetrics(domain.AllMetrics()...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingMetric, missing)
	}

	summary := &domain.Summary{
		Stores:     []domain.StoreSummary{},
		Categories: []domain.CategorySummary{},
		Expenses:   make([]domain.ExpenseSummary, 0, len(domain.ExpenseMetrics)),
	}

	total := Total(records, domain.AllMetrics())
	summary.Portfolio = domain.PortfolioTotals{
		NetSales:    ComparePair(total.Sum(domain.MetricNetSales)),
		GrossMargin: ComparePair(total.Sum(domain.MetricGrossMargin)),
		NetProfit:   ComparePair(total.Sum(domain.MetricNetProfit)),
	}
	for _, m := range domain.ExpenseMetrics {
		summary.Expenses = append(summary.Expenses, domain.ExpenseSummary{
			Metric:     m,
			Label:      m.Label(),
			Comparison: ComparePair(total.Sum(m)),
		})
	}

	if len(records) == 0 {
		summary.NoData = true
		return summary, nil
	}

	summary.Stores = buildStores(records)
	summary.Categories = buildCategories(records)

	return summary, nil
}

func buildStores(records []domain.Record) []domain.StoreSummary {
	groups, keys := AggregateOrdered(records, domain.DimensionStore, groupMetrics)

	stores := make([]domain.StoreSummary, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		stores = append(stores, domain.StoreSummary{
			Store:     key,
			NetSales:  ComparePair(g.Sum(domain.MetricNetSales)),
			NetProfit: ComparePair(g.Sum(domain.MetricNetProfit)),
		})
	}

	sort.SliceStable(stores, func(i, j int) bool {
		return stores[i].NetSales.CY > stores[j].NetSales.CY
	})
	return stores
}

func buildCategories(records []domain.Record) []domain.CategorySummary {
	groups, keys := AggregateOrdered(records, domain.DimensionCategory, groupMetrics)

	categories := make([]domain.CategorySummary, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		sales := g.Sum(domain.MetricNetSales)
		profit := g.Sum(domain.MetricNetProfit)
		categories = append(categories, domain.CategorySummary{
			Category:     key,
			NetSales:     ComparePair(sales),
			NetProfit:    ComparePair(profit),
			ProfitMargin: Margin(profit.CY, sales.CY),
		})
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].NetSales.CY > categories[j].NetSales.CY
	})
	return categories
}
