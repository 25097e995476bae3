package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ── Rollups ───────────────────────────────────────────────────────────────────

// GroupRollup aggregates the enriched record set along one dimension
// (category or supplier). Balances keep decimal precision for display.
type GroupRollup struct {
	Name           string          `json:"nombre"`
	UnitsSold      int             `json:"ventas_unidades"`
	MonthlyProfit  decimal.Decimal `json:"utilidad_mes"`
	InventoryValue decimal.Decimal `json:"valor_inventario"`
	Products       int             `json:"productos"`
	AvgMarginPct   decimal.Decimal `json:"margen_promedio"`
}

// RollupByCategory groups products by category name, sorted by monthly profit
// descending. Products whose category join was missing roll up under "".
func RollupByCategory(products []EnrichedProduct) []GroupRollup {
	return rollup(products, func(p EnrichedProduct) string { return p.CategoryName })
}

// RollupBySupplier groups products by supplier name, sorted by monthly profit
// descending.
func RollupBySupplier(products []EnrichedProduct) []GroupRollup {
	return rollup(products, func(p EnrichedProduct) string { return p.SupplierName })
}

func rollup(products []EnrichedProduct, key func(EnrichedProduct) string) []GroupRollup {
	byName := map[string]*GroupRollup{}
	marginSums := map[string]decimal.Decimal{}
	for _, p := range products {
		name := key(p)
		g, ok := byName[name]
		if !ok {
			g = &GroupRollup{Name: name}
			byName[name] = g
		}
		g.UnitsSold += p.SalesCurrentMonth
		g.MonthlyProfit = g.MonthlyProfit.Add(p.MonthlyProfit)
		g.InventoryValue = g.InventoryValue.Add(p.InventoryValue)
		g.Products++
		marginSums[name] = marginSums[name].Add(p.MarginPct)
	}

	out := make([]GroupRollup, 0, len(byName))
	for name, g := range byName {
		g.AvgMarginPct = marginSums[name].Div(decimal.NewFromInt(int64(g.Products))).Round(2)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MonthlyProfit.Equal(out[j].MonthlyProfit) {
			return out[i].MonthlyProfit.GreaterThan(out[j].MonthlyProfit)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopBySales returns the n best-selling products by current-month units,
// ties broken by ascending product ID.
func TopBySales(products []EnrichedProduct, n int) []EnrichedProduct {
	sorted := make([]EnrichedProduct, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SalesCurrentMonth != sorted[j].SalesCurrentMonth {
			return sorted[i].SalesCurrentMonth > sorted[j].SalesCurrentMonth
		}
		return sorted[i].ID < sorted[j].ID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// ── Critical products and reorder suggestions ─────────────────────────────────

// CriticalProducts returns the subset in NO_STOCK or CRITICAL state, sorted by
// ascending stock so the worst cases come first.
func CriticalProducts(products []EnrichedProduct) []EnrichedProduct {
	var out []EnrichedProduct
	for _, p := range products {
		if p.StockState == StockStateNone || p.StockState == StockStateCritical {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ReorderSuggestion recommends replenishing a critical product up to its
// reorder point.
type ReorderSuggestion struct {
	ProductID          int             `json:"producto_id"`
	Name               string          `json:"nombre"`
	SupplierName       string          `json:"nombre_proveedor"`
	SuggestedQty       int             `json:"cantidad_sugerida"`
	UnitCost           decimal.Decimal `json:"costo_unitario"`
	RequiredInvestment decimal.Decimal `json:"inversion_requerida"`
}

// ReorderSuggestions computes, for every critical product, the quantity needed
// to reach the reorder point and the purchase investment it requires, sorted
// by investment descending. The second return is the total investment.
func ReorderSuggestions(products []EnrichedProduct) ([]ReorderSuggestion, decimal.Decimal) {
	var out []ReorderSuggestion
	total := decimal.Zero
	for _, p := range CriticalProducts(products) {
		qty := p.ReorderPoint - p.Stock
		if qty < 0 {
			qty = 0
		}
		investment := decimal.NewFromInt(int64(qty)).Mul(p.UnitCost)
		out = append(out, ReorderSuggestion{
			ProductID:          p.ID,
			Name:               p.Name,
			SupplierName:       p.SupplierName,
			SuggestedQty:       qty,
			UnitCost:           p.UnitCost,
			RequiredInvestment: investment,
		})
		total = total.Add(investment)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequiredInvestment.Equal(out[j].RequiredInvestment) {
			return out[i].RequiredInvestment.GreaterThan(out[j].RequiredInvestment)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, total
}

// ── Slow movers ───────────────────────────────────────────────────────────────

// slowMoverSalesLimit: a product selling at most this many units per month is
// considered without meaningful movement.
const slowMoverSalesLimit = 2

// SlowMovers returns products with little or no current-month movement, sorted
// by immobilized inventory value descending, plus the total immobilized value.
func SlowMovers(products []EnrichedProduct) ([]EnrichedProduct, decimal.Decimal) {
	var out []EnrichedProduct
	total := decimal.Zero
	for _, p := range products {
		if p.SalesCurrentMonth <= slowMoverSalesLimit {
			out = append(out, p)
			total = total.Add(p.InventoryValue)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InventoryValue.Equal(out[j].InventoryValue) {
			return out[i].InventoryValue.GreaterThan(out[j].InventoryValue)
		}
		return out[i].ID < out[j].ID
	})
	return out, total
}

// ── Margin statistics ─────────────────────────────────────────────────────────

// MarginStats summarizes the margin-percentage distribution.
type MarginStats struct {
	Min  decimal.Decimal `json:"margen_minimo"`
	Mean decimal.Decimal `json:"margen_promedio"`
	Max  decimal.Decimal `json:"margen_maximo"`
}

// ComputeMarginStats returns min, mean, and max margin percentage over the set.
// Zero values for an empty set.
func ComputeMarginStats(products []EnrichedProduct) MarginStats {
	if len(products) == 0 {
		return MarginStats{}
	}
	s := MarginStats{Min: products[0].MarginPct, Max: products[0].MarginPct}
	sum := decimal.Zero
	for _, p := range products {
		if p.MarginPct.LessThan(s.Min) {
			s.Min = p.MarginPct
		}
		if p.MarginPct.GreaterThan(s.Max) {
			s.Max = p.MarginPct
		}
		sum = sum.Add(p.MarginPct)
	}
	s.Mean = sum.Div(decimal.NewFromInt(int64(len(products)))).Round(2)
	return s
}

// ── Simple demand projections ─────────────────────────────────────────────────

// Projection is the non-ML forward look for one product over a horizon.
type Projection struct {
	ProductID         int             `json:"producto_id"`
	Name              string          `json:"nombre"`
	SalesCurrentMonth int             `json:"ventas_mes_actual"`
	SalesPriorMonth   int             `json:"ventas_mes_anterior"`
	GrowthPct         decimal.Decimal `json:"crecimiento_pct"`
	ProjectedDemand   decimal.Decimal `json:"proyeccion_demanda"`
	Stock             int             `json:"stock_actual"`
	Risk              DemandRisk      `json:"riesgo_futuro"`
	SuggestedPurchase decimal.Decimal `json:"compra_sugerida"`
}

// ProjectAll computes the simple demand projection and risk label for every
// product, sorted by growth percentage descending.
func ProjectAll(products []EnrichedProduct, horizonDays int) []Projection {
	out := make([]Projection, 0, len(products))
	for _, p := range products {
		projected := ProjectDemand(p.SalesCurrentMonth, p.SalesPriorMonth, horizonDays)
		suggested := projected.Sub(decimal.NewFromInt(int64(p.Stock)))
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, Projection{
			ProductID:         p.ID,
			Name:              p.Name,
			SalesCurrentMonth: p.SalesCurrentMonth,
			SalesPriorMonth:   p.SalesPriorMonth,
			GrowthPct:         p.GrowthPct,
			ProjectedDemand:   projected,
			Stock:             p.Stock,
			Risk:              ClassifyDemandRisk(p.Stock, projected),
			SuggestedPurchase: suggested,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GrowthPct.Equal(out[j].GrowthPct) {
			return out[i].GrowthPct.GreaterThan(out[j].GrowthPct)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
