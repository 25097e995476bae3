package core

import "github.com/shopspring/decimal"

// KPISet holds the aggregate indicators computed over one enriched record set.
// Shares and means are expressed as percentages with two decimals where the
// dashboard displays them.
type KPISet struct {
	TotalProducts      int             `json:"total_productos"`
	ActiveProducts     int             `json:"productos_activos"`
	CriticalProducts   int             `json:"productos_criticos"`
	CriticalSharePct   decimal.Decimal `json:"pct_productos_criticos"`
	InventoryValue     decimal.Decimal `json:"valor_inventario"`
	MonthlyRevenue     decimal.Decimal `json:"ingresos_mes"`
	MonthlyCost        decimal.Decimal `json:"costos_mes"`
	MonthlyProfit      decimal.Decimal `json:"utilidad_mes"`
	AvgMarginPct       decimal.Decimal `json:"margen_promedio"`
	NetMarginPct       decimal.Decimal `json:"margen_neto"`
	AvgTurnover        decimal.Decimal `json:"rotacion_promedio"`
	ZeroSalesProducts  int             `json:"productos_sin_movimiento"`
	HighGrowthProducts int             `json:"productos_alto_crecimiento"`
}

var growthHighWater = decimal.NewFromInt(50)

// ComputeKPIs aggregates the enriched record set into the KPI dictionary the
// Insight Generator and the dashboard header consume. A critical product is
// one in NO_STOCK or CRITICAL state. Average turnover considers only products
// that actually turn (turnover > 0); net margin is profit over revenue.
func ComputeKPIs(products []EnrichedProduct) KPISet {
	k := KPISet{TotalProducts: len(products)}

	marginSum := decimal.Zero
	turnoverSum := decimal.Zero
	turning := 0

	for _, p := range products {
		if p.IsActive {
			k.ActiveProducts++
		}
		if p.StockState == StockStateNone || p.StockState == StockStateCritical {
			k.CriticalProducts++
		}
		if p.SalesCurrentMonth == 0 {
			k.ZeroSalesProducts++
		}
		if p.GrowthPct.GreaterThan(growthHighWater) {
			k.HighGrowthProducts++
		}

		k.InventoryValue = k.InventoryValue.Add(p.InventoryValue)
		k.MonthlyRevenue = k.MonthlyRevenue.Add(p.MonthlyRevenue())
		k.MonthlyCost = k.MonthlyCost.Add(p.MonthlyCost())

		marginSum = marginSum.Add(p.MarginPct)
		if p.MonthlyTurnover.IsPositive() {
			turnoverSum = turnoverSum.Add(p.MonthlyTurnover)
			turning++
		}
	}

	k.MonthlyProfit = k.MonthlyRevenue.Sub(k.MonthlyCost)

	if k.TotalProducts > 0 {
		n := decimal.NewFromInt(int64(k.TotalProducts))
		k.CriticalSharePct = decimal.NewFromInt(int64(k.CriticalProducts)).Div(n).Mul(hundred).Round(2)
		k.AvgMarginPct = marginSum.Div(n).Round(2)
	}
	if k.MonthlyRevenue.IsPositive() {
		k.NetMarginPct = k.MonthlyProfit.Div(k.MonthlyRevenue).Mul(hundred).Round(2)
	}
	if turning > 0 {
		k.AvgTurnover = turnoverSum.Div(decimal.NewFromInt(int64(turning))).Round(4)
	}
	return k
}
