package analytics

import (
	"sort"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

var growthMetrics = []domain.Metric{
	domain.MetricNetSales,
	domain.MetricGrossMargin,
	domain.MetricNetProfit,
}

// StoreGrowth returns the year-over-year growth of every store, highest
// sales growth first. Ties keep the order stores were first seen.
func StoreGrowth(records []domain.Record) []domain.StoreGrowth {
	groups, keys := AggregateOrdered(records, domain.DimensionStore, growthMetrics)

	rows := make([]domain.StoreGrowth, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		sales := g.Sum(domain.MetricNetSales)
		margin := g.Sum(domain.MetricGrossMargin)
		profit := g.Sum(domain.MetricNetProfit)

		rows = append(rows, domain.StoreGrowth{
			Store:           key,
			SalesGrowthPct:  ComparePair(sales).PercentDelta,
			MarginGrowthPct: ComparePair(margin).PercentDelta,
			ProfitGrowthPct: ComparePair(profit).PercentDelta,
			NetSalesCY:      sales.CY,
			NetSalesLY:      sales.LY,
			NetProfitCY:     profit.CY,
			NetProfitLY:     profit.LY,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SalesGrowthPct > rows[j].SalesGrowthPct
	})
	return rows
}
