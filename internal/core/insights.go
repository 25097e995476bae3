package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsightKind distinguishes advisory severities on the dashboard.
type InsightKind string

const (
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
)

// Insight is one threshold-triggered advisory message. Insights carry no
// control logic — nothing in the pipeline blocks on them.
type Insight struct {
	Kind     InsightKind `json:"tipo"`
	Title    string      `json:"titulo"`
	Message  string      `json:"mensaje"`
	Priority string      `json:"prioridad"`
}

var (
	criticalShareLimit  = decimal.NewFromInt(15)
	netMarginFloor      = decimal.NewFromInt(20)
	netMarginCeiling    = decimal.NewFromInt(35)
	turnoverFloor       = decimal.NewFromFloat(0.5)
	zeroSalesShareLimit = decimal.NewFromFloat(0.2)
)

// GenerateInsights scans the KPI set and emits the advisories whose thresholds
// are crossed. Each rule is evaluated independently; the returned order is the
// declaration order below with non-firing rules omitted.
func GenerateInsights(k KPISet) []Insight {
	var insights []Insight

	if k.CriticalSharePct.GreaterThan(criticalShareLimit) {
		insights = append(insights, Insight{
			Kind:     InsightWarning,
			Title:    "Alto porcentaje de productos críticos",
			Message:  fmt.Sprintf("%s%% de productos en estado crítico. Revisar proceso de reabastecimiento.", k.CriticalSharePct.StringFixed(1)),
			Priority: "alta",
		})
	}

	if k.NetMarginPct.LessThan(netMarginFloor) {
		insights = append(insights, Insight{
			Kind:     InsightWarning,
			Title:    "Margen neto bajo",
			Message:  fmt.Sprintf("Margen neto actual: %s%%. Considerar optimización de precios o costos.", k.NetMarginPct.StringFixed(1)),
			Priority: "media",
		})
	} else if k.NetMarginPct.GreaterThan(netMarginCeiling) {
		insights = append(insights, Insight{
			Kind:     InsightSuccess,
			Title:    "Excelente rentabilidad",
			Message:  fmt.Sprintf("Margen neto de %s%% indica operación muy rentable.", k.NetMarginPct.StringFixed(1)),
			Priority: "info",
		})
	}

	if k.AvgTurnover.LessThan(turnoverFloor) {
		insights = append(insights, Insight{
			Kind:     InsightWarning,
			Title:    "Baja rotación de inventario",
			Message:  "Rotación promedio baja indica posible sobrestock. Considerar estrategias de liquidación.",
			Priority: "media",
		})
	}

	zeroSalesLimit := decimal.NewFromInt(int64(k.TotalProducts)).Mul(zeroSalesShareLimit)
	if decimal.NewFromInt(int64(k.ZeroSalesProducts)).GreaterThan(zeroSalesLimit) {
		insights = append(insights, Insight{
			Kind:     InsightInfo,
			Title:    "Productos sin movimiento",
			Message:  fmt.Sprintf("%d productos sin ventas este mes. Revisar estrategia comercial.", k.ZeroSalesProducts),
			Priority: "baja",
		})
	}

	if k.HighGrowthProducts > 0 {
		insights = append(insights, Insight{
			Kind:     InsightSuccess,
			Title:    "Productos con alto crecimiento",
			Message:  fmt.Sprintf("%d productos con crecimiento >50%%. Oportunidad de incrementar stock.", k.HighGrowthProducts),
			Priority: "info",
		})
	}

	return insights
}
