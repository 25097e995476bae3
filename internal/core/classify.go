package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ClassifyStockState assigns the stock health label. Rules are exclusive and
// evaluated in precedence order — first match wins:
//
//  1. stock == 0            → NO_STOCK
//  2. stock <= minStock     → CRITICAL
//  3. stock <= reorderPoint → LOW
//  4. otherwise             → NORMAL
func ClassifyStockState(stock, minStock, reorderPoint int) StockState {
	switch {
	case stock == 0:
		return StockStateNone
	case stock <= minStock:
		return StockStateCritical
	case stock <= reorderPoint:
		return StockStateLow
	default:
		return StockStateNormal
	}
}

var (
	oneMonth    = decimal.NewFromInt(1)
	twoMonths   = decimal.NewFromInt(2)
	threeMonths = decimal.NewFromInt(3)
)

// ClassifyRotation grades months-of-inventory. Only meaningful for products
// with current-month sales; total over every positive input.
func ClassifyRotation(months decimal.Decimal) RotationClass {
	switch {
	case months.LessThan(oneMonth):
		return RotationExcellent
	case months.LessThan(twoMonths):
		return RotationGood
	case months.LessThan(threeMonths):
		return RotationFair
	default:
		return RotationSlow
	}
}

// ABCEntry is one product's position in the revenue-contribution ranking.
type ABCEntry struct {
	ProductID     int             `json:"producto_id"`
	Name          string          `json:"nombre"`
	Revenue       decimal.Decimal `json:"ingresos_producto"`
	CumRevenue    decimal.Decimal `json:"ingresos_acumulados"`
	CumPercentage decimal.Decimal `json:"porcentaje_acumulado"`
	Class         ABCClass        `json:"clasificacion_abc"`
	MarginPct     decimal.Decimal `json:"margen_porcentaje"`
}

var (
	abcVitalCutoff     = decimal.NewFromInt(80)
	abcImportantCutoff = decimal.NewFromInt(95)
)

// ClassifyABC ranks products with current-month sales by revenue contribution
// and tiers them: cumulative share ≤ 80% is class A, ≤ 95% class B, the rest
// class C. Ties on revenue break by ascending product ID so the ranking is
// deterministic and re-running it yields identical assignments.
func ClassifyABC(products []EnrichedProduct) []ABCEntry {
	entries := make([]ABCEntry, 0, len(products))
	total := decimal.Zero
	for _, p := range products {
		if p.SalesCurrentMonth <= 0 {
			continue
		}
		rev := p.MonthlyRevenue()
		entries = append(entries, ABCEntry{
			ProductID: p.ID,
			Name:      p.Name,
			Revenue:   rev,
			MarginPct: p.MarginPct,
		})
		total = total.Add(rev)
	}
	if len(entries) == 0 {
		return entries
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Revenue.Equal(entries[j].Revenue) {
			return entries[i].Revenue.GreaterThan(entries[j].Revenue)
		}
		return entries[i].ProductID < entries[j].ProductID
	})

	cum := decimal.Zero
	for i := range entries {
		cum = cum.Add(entries[i].Revenue)
		entries[i].CumRevenue = cum
		if total.IsPositive() {
			entries[i].CumPercentage = cum.Div(total).Mul(hundred)
		}
		switch {
		case entries[i].CumPercentage.LessThanOrEqual(abcVitalCutoff):
			entries[i].Class = ClassA
		case entries[i].CumPercentage.LessThanOrEqual(abcImportantCutoff):
			entries[i].Class = ClassB
		default:
			entries[i].Class = ClassC
		}
	}
	return entries
}

var riskTightFactor = decimal.NewFromFloat(1.5)

// ProjectDemand is the simple (non-ML) demand projection: the mean of current
// and prior month sales scaled by horizonDays/30. When the prior month had no
// sales, the current month alone is scaled.
func ProjectDemand(currentSales, priorSales, horizonDays int) decimal.Decimal {
	factor := decimal.NewFromInt(int64(horizonDays)).Div(decimal.NewFromInt(30))
	current := decimal.NewFromInt(int64(currentSales))
	if priorSales == 0 {
		return current.Mul(factor)
	}
	prior := decimal.NewFromInt(int64(priorSales))
	return current.Add(prior).Div(twoMonths).Mul(factor)
}

// ClassifyDemandRisk compares stock on hand against projected demand:
// below projection is a stockout risk, below 1.5× projection is tight,
// anything else is sufficient.
func ClassifyDemandRisk(stock int, projected decimal.Decimal) DemandRisk {
	s := decimal.NewFromInt(int64(stock))
	switch {
	case s.LessThan(projected):
		return RiskStockout
	case s.LessThan(projected.Mul(riskTightFactor)):
		return RiskTight
	default:
		return RiskSufficient
	}
}
