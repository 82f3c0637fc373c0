package analytics

import "github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"

func rec(store, category string, salesCY, salesLY, profitCY, profitLY float64) domain.Record {
	return domain.Record{
		Store:    store,
		Category: category,
		Owner:    "Rina",
		Metrics: map[domain.Metric]domain.MetricPair{
			domain.MetricNetSales:  {CY: salesCY, LY: salesLY},
			domain.MetricNetProfit: {CY: profitCY, LY: profitLY},
		},
	}
}

func withMetric(r domain.Record, m domain.Metric, cy, ly float64) domain.Record {
	r.Metrics[m] = domain.MetricPair{CY: cy, LY: ly}
	return r
}

// sampleRecords: store A sells more but earns less than store B.
func sampleRecords() []domain.Record {
	return []domain.Record{
		rec("A", "Food", 600, 500, 30, 50),
		rec("B", "Food", 400, 300, 70, 70),
	}
}
