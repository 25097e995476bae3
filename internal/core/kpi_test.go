package core_test

import (
	"testing"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
)

func kpiProduct(id, stock, minStock, salesCurrent, salesPrior int, cost, price string) core.EnrichedProduct {
	return core.EnrichOne(core.JoinedProduct{
		Product: core.Product{
			ID:                id,
			Name:              "Producto",
			Stock:             stock,
			MinStock:          minStock,
			ReorderPoint:      minStock * 2,
			UnitCost:          decimal.RequireFromString(cost),
			SalePrice:         decimal.RequireFromString(price),
			SalesCurrentMonth: salesCurrent,
			SalesPriorMonth:   salesPrior,
			IsActive:          true,
		},
	})
}

func TestComputeKPIs(t *testing.T) {
	products := []core.EnrichedProduct{
		kpiProduct(1, 0, 5, 10, 5, "50", "100"),  // NO_STOCK, critical, 100% growth
		kpiProduct(2, 3, 5, 0, 2, "10", "20"),    // CRITICAL, zero sales
		kpiProduct(3, 100, 5, 20, 20, "20", "40"), // NORMAL
		kpiProduct(4, 50, 5, 10, 10, "30", "60"),  // NORMAL
	}

	k := core.ComputeKPIs(products)

	if k.TotalProducts != 4 {
		t.Errorf("total = %d, want 4", k.TotalProducts)
	}
	if k.ActiveProducts != 4 {
		t.Errorf("active = %d, want 4", k.ActiveProducts)
	}
	if k.CriticalProducts != 2 {
		t.Errorf("critical = %d, want 2", k.CriticalProducts)
	}
	if got := k.CriticalSharePct.String(); got != "50" {
		t.Errorf("critical share = %s, want 50", got)
	}
	if k.ZeroSalesProducts != 1 {
		t.Errorf("zero sales = %d, want 1", k.ZeroSalesProducts)
	}
	if k.HighGrowthProducts != 1 {
		t.Errorf("high growth = %d, want 1", k.HighGrowthProducts)
	}

	// Revenue: 10×100 + 20×40 + 10×60 = 2400; cost: 10×50 + 20×20 + 10×30 = 1200.
	if got := k.MonthlyRevenue.String(); got != "2400" {
		t.Errorf("revenue = %s, want 2400", got)
	}
	if got := k.MonthlyCost.String(); got != "1200" {
		t.Errorf("cost = %s, want 1200", got)
	}
	if got := k.MonthlyProfit.String(); got != "1200" {
		t.Errorf("profit = %s, want 1200", got)
	}
	if got := k.NetMarginPct.String(); got != "50" {
		t.Errorf("net margin = %s, want 50", got)
	}

	// Inventory value: 0 + 30 + 2000 + 1500 = 3530.
	if got := k.InventoryValue.String(); got != "3530" {
		t.Errorf("inventory value = %s, want 3530", got)
	}
}

func TestComputeKPIs_AvgTurnoverSkipsNonTurning(t *testing.T) {
	products := []core.EnrichedProduct{
		kpiProduct(1, 10, 2, 5, 5, "10", "20"), // turnover 0.5
		kpiProduct(2, 10, 2, 0, 0, "10", "20"), // no movement
	}
	k := core.ComputeKPIs(products)
	if got := k.AvgTurnover.String(); got != "0.5" {
		t.Errorf("avg turnover = %s, want 0.5 (non-turning products excluded)", got)
	}
}

func TestComputeKPIs_Empty(t *testing.T) {
	k := core.ComputeKPIs(nil)
	if k.TotalProducts != 0 || !k.CriticalSharePct.IsZero() || !k.NetMarginPct.IsZero() {
		t.Errorf("empty set should yield zero KPIs, got %+v", k)
	}
}
