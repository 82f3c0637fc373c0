package domain

import "errors"

// ErrNoOwnerData is returned when the authenticated DGM owns no rows at all.
var ErrNoOwnerData = errors.New("no data found for your stores")

// Comparison is the CY vs LY delta of one summed metric.
type Comparison struct {
	CY            float64 `json:"cy"`
	LY            float64 `json:"ly"`
	AbsoluteDelta float64 `json:"absolute_delta"`
	// PercentDelta is 0 when LY is 0; that value is a placeholder, not "no change".
	PercentDelta  float64 `json:"percent_delta"`
}

// GroupSummary holds the summed pairs of one grouping key.
type GroupSummary struct {
	Key     string                `json:"key"`
	Records int                   `json:"records"`
	Sums    map[Metric]MetricPair `json:"sums"`
}

// Sum returns the summed pair for m, zero if m was not aggregated.
func (g *GroupSummary) Sum(m Metric) MetricPair {
	if g == nil || g.Sums == nil {
		return MetricPair{}
	}
	return g.Sums[m]
}

// PortfolioTotals are the ungrouped headline comparisons.
type PortfolioTotals struct {
	NetSales    Comparison `json:"net_sales"`
	GrossMargin Comparison `json:"gross_margin"`
	NetProfit   Comparison `json:"net_profit"`
}

// StoreSummary is one row of the store table.
type StoreSummary struct {
	Store     string     `json:"store"`
	NetSales  Comparison `json:"net_sales"`
	NetProfit Comparison `json:"net_profit"`
}

// CategorySummary is one row of the category table.
type CategorySummary struct {
	Category  string     `json:"category"`
	NetSales  Comparison `json:"net_sales"`
	NetProfit Comparison `json:"net_profit"`

	// ProfitMargin is net_profit_cy / net_sales_cy * 100, 0 when sales CY is 0.
	ProfitMargin float64 `json:"profit_margin"`
}

// ExpenseSummary is one expense category compared across the whole selection.
type ExpenseSummary struct {
	Metric     Metric     `json:"metric"`
	Label      string     `json:"label"`
	Comparison Comparison `json:"comparison"`
}

// StoreGrowth is one row of the year-over-year growth table.
type StoreGrowth struct {
	Store           string  `json:"store"`
	SalesGrowthPct  float64 `json:"sales_growth_pct"`
	MarginGrowthPct float64 `json:"gross_margin_growth_pct"`
	ProfitGrowthPct float64 `json:"profit_growth_pct"`
	NetSalesCY      float64 `json:"net_sales_cy"`
	NetSalesLY      float64 `json:"net_sales_ly"`
	NetProfitCY     float64 `json:"net_profit_cy"`
	NetProfitLY     float64 `json:"net_profit_ly"`
}

// Summary is the set of tables every chart and KPI is drawn from.
type Summary struct {
	// NoData marks an empty selection; callers render a warning, not zeros.
	NoData bool `json:"no_data"`

	Portfolio  PortfolioTotals   `json:"portfolio"`
	Stores     []StoreSummary    `json:"stores"`
	Categories []CategorySummary `json:"categories"`
	Expenses   []ExpenseSummary  `json:"expenses"`
}

// Trend is the direction of a narrative branch.
type Trend string

const (
	TrendGrowth  Trend = "growth"
	TrendDecline Trend = "decline"
)

// Insight is one narrative statement.
type Insight struct {
	Kind    string  `json:"kind"`
	Trend   Trend   `json:"trend,omitempty"`
	Delta   float64 `json:"delta"`
	Percent float64 `json:"percent"`
	Text    string  `json:"text"`
}

// Insights holds the narrative statements and the single action list chosen
// by the profit branch.
type Insights struct {
	Sales       Insight   `json:"sales"`
	Profit      Insight   `json:"profit"`
	TopStore    string    `json:"top_store"`
	BottomStore string    `json:"bottom_store"`
	Statements  []Insight `json:"statements"`
	ActionTrend Trend     `json:"action_trend"`
	Actions     []string  `json:"actions"`
}

// Dashboard is everything one render needs for one DGM and selection.
type Dashboard struct {
	DGM        string          `json:"dgm"`
	StoreCount int             `json:"store_count"`
	Summary    Summary         `json:"summary"`
	Growth     []StoreGrowth   `json:"growth"`
	Insights   *Insights       `json:"insights,omitempty"`
	Filter     DashboardFilter `json:"filter"`
}

// FilterOptions lists the selectable stores and categories of one DGM.
type FilterOptions struct {
	Stores     []string `json:"stores"`
	Categories []string `json:"categories"`
}
