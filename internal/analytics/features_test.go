package analytics

import (
	"math"
	"testing"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
)

func enriched(id, stock, salesCurrent, salesPrior, salesQuarter int, cost, price string) core.EnrichedProduct {
	return core.EnrichOne(core.JoinedProduct{
		Product: core.Product{
			ID:                id,
			Name:              "Producto",
			Stock:             stock,
			UnitCost:          decimal.RequireFromString(cost),
			SalePrice:         decimal.RequireFromString(price),
			SalesCurrentMonth: salesCurrent,
			SalesPriorMonth:   salesPrior,
			SalesQuarter:      salesQuarter,
			IsActive:          true,
		},
	})
}

func TestPrepare(t *testing.T) {
	feats := Prepare([]core.EnrichedProduct{enriched(1, 24, 12, 8, 30, "50", "100")})
	if len(feats) != 1 {
		t.Fatalf("len = %d, want 1", len(feats))
	}
	f := feats[0]
	if f.PriceRatio != 2 {
		t.Errorf("price ratio = %v, want 2", f.PriceRatio)
	}
	if f.AbsoluteMargin != 50 {
		t.Errorf("absolute margin = %v, want 50", f.AbsoluteMargin)
	}
	if f.AnnualTurnover != 6 {
		t.Errorf("annual turnover = %v, want 6 (12×12/24)", f.AnnualTurnover)
	}
	if f.Trend != 0.5 {
		t.Errorf("trend = %v, want 0.5", f.Trend)
	}
	if f.StockSalesRatio != 2 {
		t.Errorf("stock/sales = %v, want 2", f.StockSalesRatio)
	}
}

func TestPrepare_ZeroGuards(t *testing.T) {
	f := Prepare([]core.EnrichedProduct{enriched(1, 0, 0, 0, 0, "0", "10")})[0]
	if f.PriceRatio != 0 {
		t.Errorf("price ratio with zero cost = %v, want 0", f.PriceRatio)
	}
	if f.AnnualTurnover != 0 {
		t.Errorf("turnover with zero stock = %v, want 0", f.AnnualTurnover)
	}
	if f.Trend != 0 {
		t.Errorf("trend with zero prior = %v, want 0", f.Trend)
	}
	if f.StockSalesRatio != noSalesRatio {
		t.Errorf("stock/sales with no sales = %v, want %v", f.StockSalesRatio, float64(noSalesRatio))
	}
}

func TestStandardize(t *testing.T) {
	rows := [][]float64{
		{1, 5},
		{2, 5},
		{3, 5},
	}
	out := standardize(rows)

	// First column: z-scores sum to zero, symmetric around the mean.
	if math.Abs(out[0][0]+out[2][0]) > 1e-12 {
		t.Errorf("column should be symmetric: %v vs %v", out[0][0], out[2][0])
	}
	if out[1][0] != 0 {
		t.Errorf("mean row should map to 0, got %v", out[1][0])
	}
	// Second column has zero spread and must map to zeros.
	for i := range out {
		if out[i][1] != 0 {
			t.Errorf("constant column row %d = %v, want 0", i, out[i][1])
		}
	}
}

func TestQuantile(t *testing.T) {
	xs := []float64{9, 1, 5, 3, 7}
	if got := quantile(xs, 1); got != 9 {
		t.Errorf("q100 = %v, want 9", got)
	}
	if got := quantile(xs, 0); got != 1 {
		t.Errorf("q0 = %v, want 1", got)
	}
	mid := quantile(xs, 0.5)
	if mid < 3 || mid > 7 {
		t.Errorf("median = %v, want within [3,7]", mid)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Errorf("empty input = %v, want 0", got)
	}
}
