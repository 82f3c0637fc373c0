package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

func TestStoreGrowth(t *testing.T) {
	records := []domain.Record{
		withMetric(rec("A", "Food", 110, 100, 10, 20), domain.MetricGrossMargin, 30, 20),
		withMetric(rec("B", "Food", 150, 100, 5, 0), domain.MetricGrossMargin, 10, 10),
		rec("C", "Food", 50, 0, 1, 1),
		rec("A", "Drinks", 0, 0, 0, 0),
	}

	rows := StoreGrowth(records)
	require.Len(t, rows, 3)

	assert.Equal(t, "B", rows[0].Store)
	assert.InDelta(t, 50.0, rows[0].SalesGrowthPct, 1e-9)
	assert.Equal(t, 0.0, rows[0].ProfitGrowthPct)

	assert.Equal(t, "A", rows[1].Store)
	assert.InDelta(t, 10.0, rows[1].SalesGrowthPct, 1e-9)
	assert.InDelta(t, 50.0, rows[1].MarginGrowthPct, 1e-9)
	assert.InDelta(t, -50.0, rows[1].ProfitGrowthPct, 1e-9)
	assert.Equal(t, 110.0, rows[1].NetSalesCY)

	assert.Equal(t, "C", rows[2].Store)
	assert.Equal(t, 0.0, rows[2].SalesGrowthPct)
}

func TestStoreGrowth_Empty(t *testing.T) {
	assert.Empty(t, StoreGrowth(nil))
}
