package core_test

import (
	"testing"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
)

func reportProduct(id int, category, supplier string, stock, minStock, sales int, cost, price string) core.EnrichedProduct {
	return core.EnrichOne(core.JoinedProduct{
		Product: core.Product{
			ID:                id,
			Name:              "Producto",
			Stock:             stock,
			MinStock:          minStock,
			ReorderPoint:      minStock * 2,
			UnitCost:          decimal.RequireFromString(cost),
			SalePrice:         decimal.RequireFromString(price),
			SalesCurrentMonth: sales,
			IsActive:          true,
		},
		CategoryName: category,
		SupplierName: supplier,
	})
}

func TestRollupByCategory(t *testing.T) {
	products := []core.EnrichedProduct{
		reportProduct(1, "Herramientas", "ACME", 10, 2, 5, "10", "20"),
		reportProduct(2, "Herramientas", "ACME", 10, 2, 3, "10", "20"),
		reportProduct(3, "Pinturas", "ACME", 10, 2, 1, "5", "10"),
	}
	rollups := core.RollupByCategory(products)
	if len(rollups) != 2 {
		t.Fatalf("len = %d, want 2", len(rollups))
	}
	// Herramientas profit: (20-10)×5 + (20-10)×3 = 80; Pinturas: 5×1 = 5.
	if rollups[0].Name != "Herramientas" {
		t.Errorf("first rollup = %s, want Herramientas (higher profit)", rollups[0].Name)
	}
	if rollups[0].Products != 2 || rollups[0].UnitsSold != 8 {
		t.Errorf("Herramientas: products=%d units=%d, want 2 and 8",
			rollups[0].Products, rollups[0].UnitsSold)
	}
	if got := rollups[0].MonthlyProfit.String(); got != "80" {
		t.Errorf("Herramientas profit = %s, want 80", got)
	}
}

func TestTopBySales(t *testing.T) {
	products := []core.EnrichedProduct{
		reportProduct(1, "", "", 10, 2, 5, "1", "2"),
		reportProduct(2, "", "", 10, 2, 50, "1", "2"),
		reportProduct(3, "", "", 10, 2, 20, "1", "2"),
	}
	top := core.TopBySales(products, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].ID != 2 || top[1].ID != 3 {
		t.Errorf("order = %d,%d, want 2,3", top[0].ID, top[1].ID)
	}
}

func TestCriticalProductsAndSuggestions(t *testing.T) {
	products := []core.EnrichedProduct{
		reportProduct(1, "", "ACME", 0, 5, 10, "10", "20"),  // NO_STOCK, reorder 10
		reportProduct(2, "", "ACME", 3, 5, 10, "10", "20"),  // CRITICAL, reorder 10
		reportProduct(3, "", "ACME", 100, 5, 10, "10", "20"), // NORMAL
	}

	critical := core.CriticalProducts(products)
	if len(critical) != 2 {
		t.Fatalf("critical len = %d, want 2", len(critical))
	}
	if critical[0].ID != 1 {
		t.Errorf("worst case first: got ID %d, want 1", critical[0].ID)
	}

	suggestions, total := core.ReorderSuggestions(products)
	if len(suggestions) != 2 {
		t.Fatalf("suggestions len = %d, want 2", len(suggestions))
	}
	// Product 1 needs 10 units (100), product 2 needs 7 (70); total 170.
	if got := total.String(); got != "170" {
		t.Errorf("total investment = %s, want 170", got)
	}
	if suggestions[0].ProductID != 1 || suggestions[0].SuggestedQty != 10 {
		t.Errorf("top suggestion = product %d qty %d, want product 1 qty 10",
			suggestions[0].ProductID, suggestions[0].SuggestedQty)
	}
}

func TestSlowMovers(t *testing.T) {
	products := []core.EnrichedProduct{
		reportProduct(1, "", "", 100, 2, 0, "10", "20"), // no sales, value 1000
		reportProduct(2, "", "", 10, 2, 2, "10", "20"),  // at the limit, value 100
		reportProduct(3, "", "", 10, 2, 50, "10", "20"), // moving
	}
	slow, total := core.SlowMovers(products)
	if len(slow) != 2 {
		t.Fatalf("len = %d, want 2", len(slow))
	}
	if slow[0].ID != 1 {
		t.Errorf("highest immobilized value first: got %d, want 1", slow[0].ID)
	}
	if got := total.String(); got != "1100" {
		t.Errorf("immobilized total = %s, want 1100", got)
	}
}

func TestComputeMarginStats(t *testing.T) {
	products := []core.EnrichedProduct{
		reportProduct(1, "", "", 1, 0, 1, "50", "100"), // 50%
		reportProduct(2, "", "", 1, 0, 1, "80", "100"), // 20%
		reportProduct(3, "", "", 1, 0, 1, "60", "100"), // 40%
	}
	s := core.ComputeMarginStats(products)
	if got := s.Min.String(); got != "20" {
		t.Errorf("min = %s, want 20", got)
	}
	if got := s.Max.String(); got != "50" {
		t.Errorf("max = %s, want 50", got)
	}
	if got := s.Mean.String(); got != "36.67" {
		t.Errorf("mean = %s, want 36.67", got)
	}
}

func TestProjectAll(t *testing.T) {
	p := core.EnrichOne(core.JoinedProduct{
		Product: core.Product{
			ID: 1, Name: "Producto", Stock: 5,
			UnitCost: decimal.RequireFromString("10"), SalePrice: decimal.RequireFromString("20"),
			SalesCurrentMonth: 10, SalesPriorMonth: 20, IsActive: true,
		},
	})
	projections := core.ProjectAll([]core.EnrichedProduct{p}, 30)
	if len(projections) != 1 {
		t.Fatalf("len = %d, want 1", len(projections))
	}
	pr := projections[0]
	if got := pr.ProjectedDemand.String(); got != "15" {
		t.Errorf("projected = %s, want 15", got)
	}
	if pr.Risk != core.RiskStockout {
		t.Errorf("risk = %s, want %s (stock 5 below projection 15)", pr.Risk, core.RiskStockout)
	}
	if got := pr.SuggestedPurchase.String(); got != "10" {
		t.Errorf("suggested purchase = %s, want 10", got)
	}
}
