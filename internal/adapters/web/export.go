package web

import (
	"encoding/csv"
	"net/http"
	"strconv"
)

// exportInventory handles GET /api/export/inventario.csv — streams the full
// enriched listing, honoring the same filters as the JSON endpoint.
func (h *Handler) exportInventory(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetInventory(r.Context(), filterFromQuery(r))
	if err != nil {
		writeLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventario.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"producto_id", "nombre", "categoria", "proveedor", "ubicacion",
		"stock_actual", "estado_stock", "ventas_mes_actual", "margen_porcentaje",
		"valor_inventario", "rotacion_mensual", "crecimiento_pct",
	})
	for _, p := range res.Products {
		_ = cw.Write([]string{
			strconv.Itoa(p.ID),
			csvSafe(p.Name),
			csvSafe(p.CategoryName),
			csvSafe(p.SupplierName),
			csvSafe(p.LocationCode),
			strconv.Itoa(p.Stock),
			string(p.StockState),
			strconv.Itoa(p.SalesCurrentMonth),
			p.MarginPct.StringFixed(2),
			p.InventoryValue.StringFixed(2),
			p.MonthlyTurnover.StringFixed(4),
			p.GrowthPct.StringFixed(2),
		})
	}
	cw.Flush()
}

// exportCritical handles GET /api/export/criticos.csv — the reorder worksheet.
func (h *Handler) exportCritical(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetCriticalProducts(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="criticos.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"producto_id", "nombre", "proveedor", "cantidad_sugerida",
		"costo_unitario", "inversion_requerida",
	})
	for _, s := range res.Suggestions {
		_ = cw.Write([]string{
			strconv.Itoa(s.ProductID),
			csvSafe(s.Name),
			csvSafe(s.SupplierName),
			strconv.Itoa(s.SuggestedQty),
			s.UnitCost.StringFixed(2),
			s.RequiredInvestment.StringFixed(2),
		})
	}
	cw.Flush()
}

// exportABC handles GET /api/export/abc.csv.
func (h *Handler) exportABC(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetABCAnalysis(r.Context())
	if err != nil {
		writeLoadError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="abc.csv"`)
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{
		"producto_id", "nombre", "ingresos", "ingresos_acumulados",
		"pct_acumulado", "clase", "margen_porcentaje",
	})
	for _, e := range res.Entries {
		_ = cw.Write([]string{
			strconv.Itoa(e.ProductID),
			csvSafe(e.Name),
			e.Revenue.StringFixed(2),
			e.CumRevenue.StringFixed(2),
			e.CumPercentage.StringFixed(2),
			string(e.Class),
			e.MarginPct.StringFixed(2),
		})
	}
	cw.Flush()
}

// csvSafe prevents CSV formula injection by prefixing cells that begin with a
// formula-triggering character with a single quote.
func csvSafe(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
