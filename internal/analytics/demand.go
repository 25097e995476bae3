package analytics

import (
	"math"
	"sort"

	"ferreteria-bi/internal/core"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minRegressionRows is the minimum number of products with quarter sales
// required before the regression model is trusted over the simple projection.
const minRegressionRows = 10

// suggestedBuffer pads the model-based purchase suggestion by 20%.
const suggestedBuffer = 1.2

// DemandForecast is the per-product output of the demand model.
type DemandForecast struct {
	ProductID         int             `json:"producto_id"`
	Name              string          `json:"nombre"`
	SalesCurrentMonth int             `json:"ventas_mes_actual"`
	Stock             int             `json:"stock_actual"`
	PredictedDemand   int             `json:"prediccion_demanda"`
	Confidence        float64         `json:"confianza_prediccion"`
	Risk              core.DemandRisk `json:"riesgo_desabasto"`
	SuggestedPurchase int             `json:"cantidad_sugerida_compra"`
}

// ModelMetrics reports the fit quality of one forecast run.
type ModelMetrics struct {
	MAE              float64 `json:"mae"`
	RMSE             float64 `json:"rmse"`
	ProductsAnalyzed int     `json:"productos_analizados"`
	AvgConfidence    float64 `json:"precision_promedio"`
	Method           string  `json:"metodo"` // "regression" or "simple"
}

// ForecastDemand predicts demand over the horizon for every product with
// sales history. With enough history (≥ 10 products with quarter sales) it
// fits an ordinary-least-squares regression of current-month sales on the
// behaviour features; otherwise it falls back to the simple trend projection.
// Results are sorted worst risk first, then ascending product ID.
func ForecastDemand(products []core.EnrichedProduct, horizonDays int) ([]DemandForecast, ModelMetrics) {
	feats := Prepare(products)

	var modelRows []Features
	for _, f := range feats {
		if f.SalesQuarter > 0 {
			modelRows = append(modelRows, f)
		}
	}
	if len(modelRows) < minRegressionRows {
		return simpleForecast(products, horizonDays)
	}

	preds, metrics := fitAndPredict(modelRows)
	metrics.Method = "regression"

	factor := float64(horizonDays) / 30
	out := make([]DemandForecast, len(modelRows))
	confidenceSum := 0.0
	for i, f := range modelRows {
		predicted := int(math.Round(math.Max(0, preds[i]*factor)))
		projected := decimal.NewFromInt(int64(predicted))
		suggested := int(math.Max(0, math.Round(float64(predicted)*suggestedBuffer-f.Stock)))
		out[i] = DemandForecast{
			ProductID:         f.ProductID,
			Name:              f.Name,
			SalesCurrentMonth: int(f.SalesCurrent),
			Stock:             int(f.Stock),
			PredictedDemand:   predicted,
			Confidence:        metrics.AvgConfidence,
			Risk:              core.ClassifyDemandRisk(int(f.Stock), projected),
			SuggestedPurchase: suggested,
		}
		confidenceSum += out[i].Confidence
	}
	metrics.ProductsAnalyzed = len(modelRows)
	if len(out) > 0 {
		metrics.AvgConfidence = confidenceSum / float64(len(out))
	}

	sortByRisk(out)
	return out, metrics
}

// fitAndPredict solves y = Xβ by least squares (QR) and returns the fitted
// values plus in-sample error metrics.
func fitAndPredict(rows []Features) ([]float64, ModelMetrics) {
	n := len(rows)
	const cols = 7 // intercept + 6 features

	x := mat.NewDense(n, cols, nil)
	y := mat.NewDense(n, 1, nil)
	for i, f := range rows {
		x.SetRow(i, []float64{
			1,
			f.SalesPrior,
			f.SalesQuarter,
			f.Stock,
			f.Trend,
			f.AnnualTurnover,
			f.PriceRatio,
		})
		y.Set(i, 0, f.SalesCurrent)
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		// Degenerate design matrix: fall back to predicting the mean.
		ys := make([]float64, n)
		for i, f := range rows {
			ys[i] = f.SalesCurrent
		}
		mean := stat.Mean(ys, nil)
		preds := make([]float64, n)
		for i := range preds {
			preds[i] = mean
		}
		return preds, errorMetrics(rows, preds)
	}

	var fitted mat.Dense
	fitted.Mul(x, &beta)
	preds := make([]float64, n)
	for i := range preds {
		preds[i] = fitted.At(i, 0)
	}
	return preds, errorMetrics(rows, preds)
}

func errorMetrics(rows []Features, preds []float64) ModelMetrics {
	var absSum, sqSum, ySum float64
	for i, f := range rows {
		diff := f.SalesCurrent - preds[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
		ySum += f.SalesCurrent
	}
	n := float64(len(rows))
	m := ModelMetrics{
		MAE:  absSum / n,
		RMSE: math.Sqrt(sqSum / n),
	}
	meanY := ySum / n
	if meanY > 0 {
		m.AvgConfidence = math.Min(100, math.Max(0, 100-m.MAE/meanY*100))
	}
	return m
}

// simpleForecast applies the trend projection from the core classifier when
// there is not enough history for a regression fit.
func simpleForecast(products []core.EnrichedProduct, horizonDays int) ([]DemandForecast, ModelMetrics) {
	out := make([]DemandForecast, 0, len(products))
	for _, p := range products {
		projected := core.ProjectDemand(p.SalesCurrentMonth, p.SalesPriorMonth, horizonDays)
		predicted := int(projected.Round(0).IntPart())
		suggested := predicted - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, DemandForecast{
			ProductID:         p.ID,
			Name:              p.Name,
			SalesCurrentMonth: p.SalesCurrentMonth,
			Stock:             p.Stock,
			PredictedDemand:   predicted,
			Confidence:        50,
			Risk:              core.ClassifyDemandRisk(p.Stock, projected),
			SuggestedPurchase: suggested,
		})
	}
	sortByRisk(out)
	return out, ModelMetrics{
		ProductsAnalyzed: len(out),
		AvgConfidence:    50,
		Method:           "simple",
	}
}

var riskOrder = map[core.DemandRisk]int{
	core.RiskStockout:   0,
	core.RiskTight:      1,
	core.RiskSufficient: 2,
}

func sortByRisk(forecasts []DemandForecast) {
	sort.Slice(forecasts, func(i, j int) bool {
		if riskOrder[forecasts[i].Risk] != riskOrder[forecasts[j].Risk] {
			return riskOrder[forecasts[i].Risk] < riskOrder[forecasts[j].Risk]
		}
		return forecasts[i].ProductID < forecasts[j].ProductID
	})
}
