package analytics

import (
	"sort"

	"ferreteria-bi/internal/core"
)

// AnomalyType labels the business pattern behind a statistical outlier.
type AnomalyType string

const (
	AnomalySalesSpike AnomalyType = "Pico de Ventas"
	AnomalySalesDrop  AnomalyType = "Caída Drástica"
	AnomalyOverstock  AnomalyType = "Sobrestock"
	AnomalyIrregular  AnomalyType = "Patrón Irregular"
)

// contamination is the share of products flagged as anomalous.
const contamination = 0.10

// Anomaly is one product whose sales/stock behaviour deviates from the rest
// of the catalog.
type Anomaly struct {
	ProductID         int         `json:"producto_id"`
	Name              string      `json:"nombre"`
	SalesCurrentMonth int         `json:"ventas_mes_actual"`
	Stock             int         `json:"stock_actual"`
	Score             float64     `json:"score_anomalia"`
	Type              AnomalyType `json:"tipo_anomalia"`
}

// DetectAnomalies standardizes the behaviour features and scores each product
// by its Euclidean distance from the catalog mean. The top 10% by distance are
// flagged and labeled with a business anomaly type; results are sorted most
// anomalous first.
func DetectAnomalies(products []core.EnrichedProduct) []Anomaly {
	if len(products) == 0 {
		return nil
	}

	feats := Prepare(products)
	rows := make([][]float64, len(feats))
	for i, f := range feats {
		rows[i] = []float64{
			f.SalesCurrent, f.SalesPrior, f.SalesQuarter,
			f.AnnualTurnover, f.Trend, f.StockSalesRatio,
		}
	}
	scaled := standardize(rows)

	scores := make([]float64, len(scaled))
	for i, row := range scaled {
		sum := 0.0
		for _, v := range row {
			sum += v * v
		}
		scores[i] = sum // squared distance preserves ordering
	}

	cutoff := quantile(scores, 1-contamination)

	var anomalies []Anomaly
	for i, f := range feats {
		if scores[i] <= cutoff {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			ProductID:         f.ProductID,
			Name:              f.Name,
			SalesCurrentMonth: int(f.SalesCurrent),
			Stock:             int(f.Stock),
			Score:             scores[i],
			Type:              classifyAnomaly(f),
		})
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].Score != anomalies[j].Score {
			return anomalies[i].Score > anomalies[j].Score
		}
		return anomalies[i].ProductID < anomalies[j].ProductID
	})
	return anomalies
}

// classifyAnomaly names the pattern: a sales spike (current > 3× prior), a
// drastic drop (current < 0.3× a nonzero prior), overstock (stock > 6× current
// sales), or an irregular pattern otherwise.
func classifyAnomaly(f Features) AnomalyType {
	switch {
	case f.SalesCurrent > f.SalesPrior*3 && f.SalesPrior > 0:
		return AnomalySalesSpike
	case f.SalesPrior > 0 && f.SalesCurrent < f.SalesPrior*0.3:
		return AnomalySalesDrop
	case f.Stock > f.SalesCurrent*6 && f.SalesCurrent > 0:
		return AnomalyOverstock
	default:
		return AnomalyIrregular
	}
}
