package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

func fullHeader() []string {
	return domain.DefaultColumnMapping().Columns()
}

// row builds a data row in fullHeader order with every metric set to cy/ly.
func row(store, category, owner, cy, ly string) []string {
	r := []string{store, category, owner}
	for range domain.AllMetrics() {
		r = append(r, cy, ly)
	}
	return r
}

func TestParseTable(t *testing.T) {
	table := Table{
		Header: fullHeader(),
		Rows: [][]string{
			row("Store A", "Food", "Rina", "1,200", "(300)"),
			row("Store B", "Drinks", "Budi", "", "nan"),
		},
	}

	records, err := ParseTable(table, domain.DefaultColumnMapping())
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "Store A", a.Store)
	assert.Equal(t, "Food", a.Category)
	assert.Equal(t, "Rina", a.Owner)
	assert.Equal(t, domain.MetricPair{CY: 1200, LY: -300}, a.Pair(domain.MetricNetSales))
	assert.Equal(t, domain.MetricPair{CY: 1200, LY: -300}, a.Pair(domain.MetricHeadOffice))

	b := records[1]
	assert.Equal(t, domain.MetricPair{}, b.Pair(domain.MetricNetProfit))
}

func TestParseTable_HeaderWhitespaceAndOrder(t *testing.T) {
	header := fullHeader()
	// swap identifier order and pad a header
	header[0], header[2] = " "+header[2]+" ", header[0]
	table := Table{
		Header: header,
		Rows:   [][]string{row("Rina", "Food", "Store A", "1", "2")},
	}

	records, err := ParseTable(table, domain.DefaultColumnMapping())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Store A", records[0].Store)
	assert.Equal(t, "Rina", records[0].Owner)
}

func TestParseTable_MissingColumns(t *testing.T) {
	header := fullHeader()
	var kept []string
	for _, col := range header {
		if col == "Net Sales_LY" || col == "DGM" {
			continue
		}
		kept = append(kept, col)
	}

	_, err := ParseTable(Table{Header: kept}, domain.DefaultColumnMapping())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"DGM", "Net Sales_LY"}, schemaErr.Missing)
}

func TestParseTable_HeaderIsCaseSensitive(t *testing.T) {
	header := fullHeader()
	header[3] = "net sales"

	_, err := ParseTable(Table{Header: header}, domain.DefaultColumnMapping())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParseTable_SkipsBlankRowsAndShortRows(t *testing.T) {
	table := Table{
		Header: fullHeader(),
		Rows: [][]string{
			{"Store A", "Food", "Rina", "10"},
			{"", "", ""},
			{},
		},
	}

	records, err := ParseTable(table, domain.DefaultColumnMapping())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.MetricPair{CY: 10}, records[0].Pair(domain.MetricNetSales))
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"":           0,
		"-":          0,
		"nan":        0,
		"NaN":        0,
		"abc":        0,
		"Inf":        0,
		"42":         42,
		" 1,234.50 ": 1234.5,
		"(1,234)":    -1234,
		"-17.25":     -17.25,
		"1 000":      1000,
		"#N/A":       0,
		"3.5e2":      350,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseNumber(in), "input %q", in)
	}
}
