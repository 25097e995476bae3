// Package analytics provides the statistical helpers layered on top of the
// enriched record set: demand regression, anomaly detection, and product
// clustering. All heavy lifting is delegated to gonum and kmeans; this package
// only prepares features and relabels outputs in business terms.
package analytics

import (
	"math"
	"sort"

	"ferreteria-bi/internal/core"

	"gonum.org/v1/gonum/stat"
)

// noSalesRatio stands in for stock/sales when a product has no current sales.
const noSalesRatio = 999

// Features is the numeric behaviour profile of one product, used as model
// input. Values are float64 because the statistical layer works in floats;
// monetary precision is irrelevant here.
type Features struct {
	ProductID    int
	Name         string
	CategoryName string

	Stock        float64
	SalesCurrent float64
	SalesPrior   float64
	SalesQuarter float64

	PriceRatio      float64 // sale price / unit cost, 0 when cost is 0
	AbsoluteMargin  float64 // sale price - unit cost
	MarginPct       float64
	AnnualTurnover  float64 // 12 × monthly sales / stock, 0 when stock is 0
	Trend           float64 // (current - prior) / prior, 0 when prior is 0
	StockSalesRatio float64 // stock / monthly sales, sentinel when no sales
	SalePrice       float64
}

// Prepare derives the feature profile for every product.
func Prepare(products []core.EnrichedProduct) []Features {
	out := make([]Features, len(products))
	for i, p := range products {
		f := Features{
			ProductID:    p.ID,
			Name:         p.Name,
			CategoryName: p.CategoryName,
			Stock:        float64(p.Stock),
			SalesCurrent: float64(p.SalesCurrentMonth),
			SalesPrior:   float64(p.SalesPriorMonth),
			SalesQuarter: float64(p.SalesQuarter),
			MarginPct:    p.MarginPct.InexactFloat64(),
			SalePrice:    p.SalePrice.InexactFloat64(),
		}
		cost := p.UnitCost.InexactFloat64()
		price := p.SalePrice.InexactFloat64()
		f.AbsoluteMargin = price - cost
		if cost > 0 {
			f.PriceRatio = price / cost
		}
		if f.Stock > 0 {
			f.AnnualTurnover = 12 * f.SalesCurrent / f.Stock
		}
		if f.SalesPrior > 0 {
			f.Trend = (f.SalesCurrent - f.SalesPrior) / f.SalesPrior
		}
		if f.SalesCurrent > 0 {
			f.StockSalesRatio = f.Stock / f.SalesCurrent
		} else {
			f.StockSalesRatio = noSalesRatio
		}
		out[i] = f
	}
	return out
}

// standardize converts each column of matrix rows to z-scores. Columns with
// zero spread map to all zeros.
func standardize(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)
	col := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i := range rows {
			col[i] = rows[i][j]
		}
		means[j] = stat.Mean(col, nil)
		stds[j] = stat.StdDev(col, nil)
	}

	out := make([][]float64, len(rows))
	for i := range rows {
		out[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if stds[j] > 0 && !math.IsNaN(stds[j]) {
				out[i][j] = (rows[i][j] - means[j]) / stds[j]
			}
		}
	}
	return out
}

// quantile returns the p-quantile of xs (empirical), tolerating unsorted input.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
