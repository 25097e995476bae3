package app

import (
	"time"

	"github.com/shopspring/decimal"

	"ferreteria-bi/internal/analytics"
	"ferreteria-bi/internal/core"
)

// LoadInfo describes the snapshot a result was computed from.
type LoadInfo struct {
	Source      string    `json:"fuente"`
	LoadedAt    time.Time `json:"cargado_en"`
	SkippedRows int       `json:"filas_omitidas"`
}

// DashboardResult is the landing-page aggregate.
type DashboardResult struct {
	KPIs       core.KPISet            `json:"kpis"`
	Insights   []core.Insight         `json:"insights"`
	TopSellers []core.EnrichedProduct `json:"top_ventas"`
	Categories []core.GroupRollup     `json:"categorias"`

	// Alerts is nil when the alertas table was absent from the source;
	// AlertsAvailable distinguishes that from present-but-empty.
	Alerts          []core.StockAlert `json:"alertas,omitempty"`
	AlertsAvailable bool              `json:"alertas_disponibles"`

	Load LoadInfo `json:"carga"`
}

// InventoryResult is the filtered product listing.
type InventoryResult struct {
	Products []core.EnrichedProduct `json:"productos"`
	Total    int                    `json:"total"`
	Load     LoadInfo               `json:"carga"`
}

// CriticalResult lists products needing replenishment and what it would cost.
type CriticalResult struct {
	Products        []core.EnrichedProduct   `json:"productos"`
	Suggestions     []core.ReorderSuggestion `json:"sugerencias"`
	TotalInvestment decimal.Decimal          `json:"inversion_total"`
	Load            LoadInfo                 `json:"carga"`
}

// ABCResult is the revenue-contribution classification plus per-class totals.
type ABCResult struct {
	Entries        []core.ABCEntry                   `json:"entradas"`
	CountByClass   map[core.ABCClass]int             `json:"conteo_por_clase"`
	RevenueByClass map[core.ABCClass]decimal.Decimal `json:"ingresos_por_clase"`
	Load           LoadInfo                          `json:"carga"`
}

// RotationResult summarizes inventory turnover health.
type RotationResult struct {
	Counts           map[core.RotationClass]int `json:"conteo_por_clase"`
	AvgTurnover      decimal.Decimal            `json:"rotacion_promedio"`
	SlowMovers       []core.EnrichedProduct     `json:"lento_movimiento"`
	ImmobilizedValue decimal.Decimal            `json:"valor_inmovilizado"`
	Load             LoadInfo                   `json:"carga"`
}

// MarginsResult is the profitability view.
type MarginsResult struct {
	Stats      core.MarginStats   `json:"estadisticas"`
	ByCategory []core.GroupRollup `json:"por_categoria"`
	BySupplier []core.GroupRollup `json:"por_proveedor"`
	Load       LoadInfo           `json:"carga"`
}

// ProjectionsResult is the simple trend projection over a horizon.
type ProjectionsResult struct {
	HorizonDays int               `json:"horizonte_dias"`
	Projections []core.Projection `json:"proyecciones"`
	Load        LoadInfo          `json:"carga"`
}

// RecommendationsResult wraps the predictive model outputs.
type RecommendationsResult struct {
	HorizonDays     int                       `json:"horizonte_dias"`
	Recommendations analytics.Recommendations `json:"recomendaciones"`
	Load            LoadInfo                  `json:"carga"`
}
