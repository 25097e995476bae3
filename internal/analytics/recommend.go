package analytics

import (
	"fmt"

	"ferreteria-bi/internal/core"
)

// Action is a prioritized operational recommendation derived from the models.
type Action struct {
	ProductID int    `json:"producto_id,omitempty"`
	Kind      string `json:"tipo"`
	Title     string `json:"titulo"`
	Detail    string `json:"detalle"`
	Priority  string `json:"prioridad"`
	Deadline  string `json:"plazo,omitempty"`
}

// Recommendations bundles the model outputs the dashboard renders together.
type Recommendations struct {
	Forecasts       []DemandForecast `json:"pronosticos"`
	Metrics         ModelMetrics     `json:"metricas_modelo"`
	Anomalies       []Anomaly        `json:"anomalias"`
	Clusters        []ProductCluster `json:"clusters"`
	Profiles        []ClusterProfile `json:"perfiles_cluster"`
	CriticalActions []Action         `json:"acciones_criticas"`
	Opportunities   []Action         `json:"oportunidades"`
}

// BuildRecommendations runs every model over the catalog and derives the
// critical purchase actions and growth opportunities from their outputs.
// Clustering failures on small catalogs are tolerated; the rest of the
// recommendations still come back.
func BuildRecommendations(products []core.EnrichedProduct, horizonDays int) Recommendations {
	forecasts, metrics := ForecastDemand(products, horizonDays)
	anomalies := DetectAnomalies(products)

	rec := Recommendations{
		Forecasts: forecasts,
		Metrics:   metrics,
		Anomalies: anomalies,
	}

	if prodClusters, profiles, err := ClusterProducts(products); err == nil {
		rec.Clusters = prodClusters
		rec.Profiles = profiles
		rec.Opportunities = opportunities(profiles)
	}

	for _, f := range forecasts {
		if f.Risk != core.RiskStockout {
			continue
		}
		rec.CriticalActions = append(rec.CriticalActions, Action{
			ProductID: f.ProductID,
			Kind:      "Compra Urgente",
			Title:     fmt.Sprintf("Reponer %s", f.Name),
			Detail: fmt.Sprintf("Stock actual %d frente a demanda proyectada %d; comprar %d unidades",
				f.Stock, f.PredictedDemand, f.SuggestedPurchase),
			Priority: "ALTA",
			Deadline: "7 días",
		})
	}
	return rec
}

// opportunities maps each segment to the commercial move it suggests.
func opportunities(profiles []ClusterProfile) []Action {
	var actions []Action
	for _, p := range profiles {
		switch {
		case p.Name == "Estrellas (Alta Venta, Alto Margen)":
			actions = append(actions, Action{
				Kind:     "Potenciar Éxitos",
				Title:    "Ampliar surtido estrella",
				Detail:   fmt.Sprintf("%d productos venden fuerte con buen margen; asegurar disponibilidad y visibilidad", p.Products),
				Priority: "MEDIA",
			})
		case p.Name == "Lento Movimiento":
			actions = append(actions, Action{
				Kind:     "Optimizar Inventario",
				Title:    "Liquidar lento movimiento",
				Detail:   fmt.Sprintf("%d productos rotan poco; considerar promociones o reducir reposición", p.Products),
				Priority: "MEDIA",
			})
		case p.Name == "Premium (Baja Venta, Alto Margen)":
			actions = append(actions, Action{
				Kind:     "Maximizar Margen",
				Title:    "Impulsar línea premium",
				Detail:   fmt.Sprintf("%d productos de alto margen con venta baja; evaluar exhibición y venta cruzada", p.Products),
				Priority: "BAJA",
			})
		}
	}
	return actions
}
