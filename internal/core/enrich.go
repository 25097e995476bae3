package core

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)

	// monthsSentinel marks "no consumption this month, cannot project".
	monthsSentinel = decimal.NewFromInt(999)
)

// Enrich appends the derived financial and operational fields to every joined
// record and assigns the stock-state and rotation labels. It is a pure
// function: the input slice is not modified and the result is a fresh copy.
//
// Zero-denominator policy, applied uniformly:
//   - margin % is 0 when sale price is 0
//   - turnover is 0 when stock is 0, regardless of sales
//   - months-of-inventory is the 999 sentinel when current-month sales are 0
//   - growth % is 0 when prior-month sales are 0, even if current sales grew
func Enrich(products []JoinedProduct) []EnrichedProduct {
	out := make([]EnrichedProduct, len(products))
	for i, p := range products {
		out[i] = EnrichOne(p)
	}
	return out
}

// EnrichOne derives the metric fields for a single joined record.
func EnrichOne(p JoinedProduct) EnrichedProduct {
	e := EnrichedProduct{JoinedProduct: p}

	e.UnitMargin = p.SalePrice.Sub(p.UnitCost)
	if p.SalePrice.IsPositive() {
		e.MarginPct = e.UnitMargin.Div(p.SalePrice).Mul(hundred).Round(2)
	}

	sales := decimal.NewFromInt(int64(p.SalesCurrentMonth))
	prior := decimal.NewFromInt(int64(p.SalesPriorMonth))
	stock := decimal.NewFromInt(int64(p.Stock))

	e.MonthlyProfit = e.UnitMargin.Mul(sales)
	e.InventoryValue = stock.Mul(p.UnitCost)

	if p.Stock > 0 {
		e.MonthlyTurnover = sales.Div(stock)
	}

	if p.SalesCurrentMonth > 0 {
		e.MonthsOfInventory = stock.Div(sales)
		e.RotationClass = ClassifyRotation(e.MonthsOfInventory)
	} else {
		e.MonthsOfInventory = monthsSentinel
	}

	// Growth needs sales in both months; a month without movement reads
	// as no signal, not a -100% collapse.
	if p.SalesCurrentMonth > 0 && p.SalesPriorMonth > 0 {
		e.GrowthPct = sales.Sub(prior).Div(prior).Mul(hundred)
	}

	e.StockState = ClassifyStockState(p.Stock, p.MinStock, p.ReorderPoint)
	return e
}
