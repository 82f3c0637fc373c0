package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

// ErrNoStores is returned when insights are requested for an empty store table.
var ErrNoStores = errors.New("insights require at least one store")

const (
	InsightSales  = "sales"
	InsightProfit = "profit"
	InsightStores = "stores"
)

var growthActions = []string{
	"Continue successful strategies from top-performing categories",
	"Analyze what's working in high-growth stores and replicate",
	"Invest in marketing for categories with highest profit margins",
	"Recognize top-performing store managers",
}

var declineActions = []string{
	"Investigate cost structure of underperforming stores",
	"Review pricing strategy for low-margin categories",
	"Optimize inventory to reduce carrying costs",
	"Develop turnaround plan for bottom-performing stores",
}

// Actions returns a copy of the recommended action list for a trend.
func Actions(trend domain.Trend) []string {
	src := declineActions
	if trend == domain.TrendGrowth {
		src = growthActions
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// SelectInsights picks the sales, profit and store narratives plus the action
// list. stores must already be in display order; ties on net profit resolve
// to the earlier store.
func SelectInsights(portfolio domain.PortfolioTotals, stores []domain.StoreSummary) (*domain.Insights, error) {
	if len(stores) == 0 {
		return nil, ErrNoStores
	}

	sales := narrate(InsightSales, "Total sales", portfolio.NetSales)
	profit := narrate(InsightProfit, "Net profit", portfolio.NetProfit)

	top, bottom := stores[0], stores[0]
	for _, s := range stores[1:] {
		if s.NetProfit.CY > top.NetProfit.CY {
			top = s
		}
		if s.NetProfit.CY < bottom.NetProfit.CY {
			bottom = s
		}
	}

	storeInsight := domain.Insight{
		Kind: InsightStores,
		Text: fmt.Sprintf("'%s' is the top performing store, while '%s' needs attention", top.Store, bottom.Store),
	}

	return &domain.Insights{
		Sales:       sales,
		Profit:      profit,
		TopStore:    top.Store,
		BottomStore: bottom.Store,
		Statements:  []domain.Insight{sales, profit, storeInsight},
		ActionTrend: profit.Trend,
		Actions:     Actions(profit.Trend),
	}, nil
}

func trendOf(delta float64) domain.Trend {
	if delta > 0 {
		return domain.TrendGrowth
	}
	return domain.TrendDecline
}

func narrate(kind, subject string, c domain.Comparison) domain.Insight {
	trend := trendOf(c.AbsoluteDelta)
	verb := "increased"
	delta, pct := c.AbsoluteDelta, c.PercentDelta
	if trend == domain.TrendDecline {
		verb = "decreased"
		delta, pct = math.Abs(delta), math.Abs(pct)
	}

	return domain.Insight{
		Kind:    kind,
		Trend:   trend,
		Delta:   c.AbsoluteDelta,
		Percent: c.PercentDelta,
		Text: fmt.Sprintf("%s %s by %s (%s%%) compared to last year",
			subject, verb,
			FormatAmount(delta),
			FormatPercent(pct),
		),
	}
}
