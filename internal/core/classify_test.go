package core_test

import (
	"testing"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
)

func TestClassifyStockState(t *testing.T) {
	tests := []struct {
		name         string
		stock        int
		minStock     int
		reorderPoint int
		want         core.StockState
	}{
		{"zero stock", 0, 5, 10, core.StockStateNone},
		{"at minimum", 5, 5, 10, core.StockStateCritical},
		{"below minimum", 3, 5, 10, core.StockStateCritical},
		{"between minimum and reorder", 6, 5, 10, core.StockStateLow},
		{"at reorder point", 10, 5, 10, core.StockStateLow},
		{"above reorder point", 11, 5, 10, core.StockStateNormal},
		{"zero thresholds", 1, 0, 0, core.StockStateNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ClassifyStockState(tt.stock, tt.minStock, tt.reorderPoint)
			if got != tt.want {
				t.Errorf("ClassifyStockState(%d, %d, %d) = %s, want %s",
					tt.stock, tt.minStock, tt.reorderPoint, got, tt.want)
			}
		})
	}
}

func TestClassifyRotation(t *testing.T) {
	tests := []struct {
		months string
		want   core.RotationClass
	}{
		{"0.5", core.RotationExcellent},
		{"0.99", core.RotationExcellent},
		{"1", core.RotationGood},
		{"1.5", core.RotationGood},
		{"2", core.RotationFair},
		{"2.99", core.RotationFair},
		{"3", core.RotationSlow},
		{"999", core.RotationSlow},
	}
	for _, tt := range tests {
		t.Run(tt.months, func(t *testing.T) {
			got := core.ClassifyRotation(decimal.RequireFromString(tt.months))
			if got != tt.want {
				t.Errorf("ClassifyRotation(%s) = %s, want %s", tt.months, got, tt.want)
			}
		})
	}
}

func abcProduct(id, sales int, price string) core.EnrichedProduct {
	return core.EnrichOne(core.JoinedProduct{
		Product: core.Product{
			ID:                id,
			Name:              "Producto",
			SalesCurrentMonth: sales,
			SalePrice:         decimal.RequireFromString(price),
			UnitCost:          decimal.RequireFromString("1"),
			IsActive:          true,
		},
	})
}

func TestClassifyABC(t *testing.T) {
	// Revenue: 800, 150, 50 → cumulative 80%, 95%, 100%.
	products := []core.EnrichedProduct{
		abcProduct(1, 1, "50"),
		abcProduct(2, 1, "800"),
		abcProduct(3, 1, "150"),
		abcProduct(4, 0, "999"), // no sales, excluded
	}

	entries := core.ClassifyABC(products)
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3 (zero-sales product must be excluded)", len(entries))
	}

	wantClasses := map[int]core.ABCClass{2: core.ClassA, 3: core.ClassB, 1: core.ClassC}
	for _, e := range entries {
		if e.Class != wantClasses[e.ProductID] {
			t.Errorf("product %d: class = %s, want %s", e.ProductID, e.Class, wantClasses[e.ProductID])
		}
	}

	// Ranking is revenue-descending.
	if entries[0].ProductID != 2 || entries[1].ProductID != 3 || entries[2].ProductID != 1 {
		t.Errorf("order = %d,%d,%d, want 2,3,1",
			entries[0].ProductID, entries[1].ProductID, entries[2].ProductID)
	}

	// Revenue conservation: cumulative of last entry equals the sum.
	if got := entries[2].CumRevenue.String(); got != "1000" {
		t.Errorf("cumulative revenue = %s, want 1000", got)
	}
	if got := entries[2].CumPercentage.String(); got != "100" {
		t.Errorf("final cumulative pct = %s, want 100", got)
	}
}

func TestClassifyABC_Deterministic(t *testing.T) {
	products := []core.EnrichedProduct{
		abcProduct(2, 1, "100"),
		abcProduct(1, 1, "100"),
		abcProduct(3, 1, "100"),
	}
	first := core.ClassifyABC(products)
	second := core.ClassifyABC(products)
	for i := range first {
		if first[i].ProductID != second[i].ProductID || first[i].Class != second[i].Class {
			t.Fatalf("run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	// Ties break by ascending product ID.
	if first[0].ProductID != 1 || first[1].ProductID != 2 || first[2].ProductID != 3 {
		t.Errorf("tie order = %d,%d,%d, want 1,2,3",
			first[0].ProductID, first[1].ProductID, first[2].ProductID)
	}
}

func TestProjectDemand(t *testing.T) {
	tests := []struct {
		name    string
		current int
		prior   int
		horizon int
		want    string
	}{
		{"mean of both months", 10, 20, 30, "15"},
		{"zero prior uses current", 10, 0, 30, "10"},
		{"scaled horizon", 10, 20, 60, "30"},
		{"no history", 0, 0, 30, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ProjectDemand(tt.current, tt.prior, tt.horizon)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ProjectDemand(%d, %d, %d) = %s, want %s",
					tt.current, tt.prior, tt.horizon, got, tt.want)
			}
		})
	}
}

func TestClassifyDemandRisk(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		projected string
		want      core.DemandRisk
	}{
		{"below projection", 5, "10", core.RiskStockout},
		{"within buffer", 12, "10", core.RiskTight},
		{"at buffer boundary", 15, "10", core.RiskSufficient},
		{"comfortable", 100, "10", core.RiskSufficient},
		{"no projected demand", 0, "0", core.RiskSufficient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ClassifyDemandRisk(tt.stock, decimal.RequireFromString(tt.projected))
			if got != tt.want {
				t.Errorf("ClassifyDemandRisk(%d, %s) = %s, want %s",
					tt.stock, tt.projected, got, tt.want)
			}
		})
	}
}
