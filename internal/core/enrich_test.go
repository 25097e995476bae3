package core_test

import (
	"testing"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
)

func product(id, stock, salesCurrent, salesPrior int, cost, price string) core.JoinedProduct {
	return core.JoinedProduct{
		Product: core.Product{
			ID:                id,
			Name:              "Producto",
			Stock:             stock,
			MinStock:          5,
			ReorderPoint:      10,
			UnitCost:          decimal.RequireFromString(cost),
			SalePrice:         decimal.RequireFromString(price),
			SalesCurrentMonth: salesCurrent,
			SalesPriorMonth:   salesPrior,
			IsActive:          true,
		},
	}
}

func TestEnrichOne_Margins(t *testing.T) {
	p := core.EnrichOne(product(1, 20, 10, 8, "50", "75"))

	if got := p.UnitMargin.String(); got != "25" {
		t.Errorf("unit margin = %s, want 25", got)
	}
	if got := p.MarginPct.String(); got != "33.33" {
		t.Errorf("margin pct = %s, want 33.33", got)
	}
	if got := p.MonthlyProfit.String(); got != "250" {
		t.Errorf("monthly profit = %s, want 250", got)
	}
	if got := p.InventoryValue.String(); got != "1000" {
		t.Errorf("inventory value = %s, want 1000", got)
	}
}

func TestEnrichOne_ZeroPriceMargin(t *testing.T) {
	p := core.EnrichOne(product(1, 10, 5, 5, "50", "0"))
	if !p.MarginPct.IsZero() {
		t.Errorf("margin pct with zero price = %s, want 0", p.MarginPct)
	}
}

func TestEnrichOne_TurnoverAndMonths(t *testing.T) {
	tests := []struct {
		name       string
		stock      int
		sales      int
		wantTurn   string
		wantMonths string
	}{
		{"normal", 20, 10, "0.5", "2"},
		{"zero stock means zero turnover", 0, 10, "0", "0"},
		{"no sales means sentinel months", 50, 0, "0", "999"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.EnrichOne(product(1, tt.stock, tt.sales, 0, "10", "20"))
			if !p.MonthlyTurnover.Equal(decimal.RequireFromString(tt.wantTurn)) {
				t.Errorf("turnover = %s, want %s", p.MonthlyTurnover, tt.wantTurn)
			}
			if !p.MonthsOfInventory.Equal(decimal.RequireFromString(tt.wantMonths)) {
				t.Errorf("months = %s, want %s", p.MonthsOfInventory, tt.wantMonths)
			}
		})
	}
}

func TestEnrichOne_Growth(t *testing.T) {
	tests := []struct {
		name    string
		current int
		prior   int
		want    string
	}{
		{"growth", 15, 10, "50"},
		{"decline", 5, 10, "-50"},
		{"zero prior guards division", 10, 0, "0"},
		{"zero current month also guarded", 0, 10, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := core.EnrichOne(product(1, 10, tt.current, tt.prior, "10", "20"))
			if !p.GrowthPct.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("growth = %s, want %s", p.GrowthPct, tt.want)
			}
		})
	}
}

func TestEnrich_PreservesOrderAndLength(t *testing.T) {
	in := []core.JoinedProduct{
		product(3, 1, 1, 1, "1", "2"),
		product(1, 1, 1, 1, "1", "2"),
		product(2, 1, 1, 1, "1", "2"),
	}
	out := core.Enrich(in)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i].ID != in[i].ID {
			t.Errorf("position %d: ID = %d, want %d", i, out[i].ID, in[i].ID)
		}
	}
}
